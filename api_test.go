package lox

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func newTestInterpreter() (*Interpreter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	in := New()
	in.SetOutput(&out)
	in.SetErrorOutput(&errOut)
	return in, &out, &errOut
}

func TestAPIInterpretPrints(t *testing.T) {
	in, out, _ := newTestInterpreter()
	if err := in.Interpret("print 1+2*3;"); err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if out.String() != "7\n" {
		t.Fatalf("expected 7, got %q", out.String())
	}
}

func TestAPIGlobalsPersistAcrossCalls(t *testing.T) {
	in, out, _ := newTestInterpreter()
	if err := in.Interpret(`var name = "lox";`); err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if err := in.Interpret(`print "hello " + name;`); err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if out.String() != "hello lox\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if v, ok := in.Global("name"); !ok || v != "lox" {
		t.Fatalf("expected global name=lox, got %q %v", v, ok)
	}
}

func TestAPICompileErrorMirror(t *testing.T) {
	in, out, _ := newTestInterpreter()
	err := in.Interpret("print ;\nvar 1;")
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CompileError, got %T (%v)", err, err)
	}
	want := []Diagnostic{
		{Line: 1, Where: " at ';'", Message: "Expect expression."},
		{Line: 2, Where: " at '1'", Message: "Expect variable name."},
	}
	if len(ce.Diagnostics) != len(want) {
		t.Fatalf("expected %d diagnostics, got %v", len(want), ce.Diagnostics)
	}
	for i := range want {
		if ce.Diagnostics[i] != want[i] {
			t.Fatalf("diagnostic %d: expected %+v, got %+v", i, want[i], ce.Diagnostics[i])
		}
	}
	if ce.Diagnostics[0].String() != "[line 1] Error at ';': Expect expression." {
		t.Fatalf("unexpected rendering %q", ce.Diagnostics[0].String())
	}
	if ResultOf(err) != ResultCompileError || ResultOf(err).ExitCode() != 65 {
		t.Fatalf("expected compile error result, got %s", ResultOf(err))
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestAPIRuntimeErrorMirror(t *testing.T) {
	in, _, _ := newTestInterpreter()
	err := in.Interpret("var a = 1;\nprint a + nil;")
	var rte *RuntimeError
	if !errors.As(err, &rte) {
		t.Fatalf("expected *RuntimeError, got %T (%v)", err, err)
	}
	if rte.Message != "Operands must be two numbers or two strings." {
		t.Fatalf("unexpected message %q", rte.Message)
	}
	if rte.Frame.Line != 2 || rte.Frame.Function != "script" {
		t.Fatalf("unexpected frame %+v", rte.Frame)
	}
	if rte.Unwrap() == nil {
		t.Fatalf("expected underlying cause")
	}
	if ResultOf(err).ExitCode() != 70 {
		t.Fatalf("expected exit code 70, got %d", ResultOf(err).ExitCode())
	}
}

func TestAPIRunWritesDiagnostics(t *testing.T) {
	in, out, errOut := newTestInterpreter()
	if res := in.Run(`print "a"; 1 + "s";`); res != ResultRuntimeError {
		t.Fatalf("expected runtime error, got %s", res)
	}
	if out.String() != "a\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	want := "Operands must be two numbers or two strings.\n[line 1] in script\n"
	if errOut.String() != want {
		t.Fatalf("expected %q, got %q", want, errOut.String())
	}

	errOut.Reset()
	if res := in.Run(`print "oops;`); res != ResultCompileError {
		t.Fatalf("expected compile error, got %s", res)
	}
	if errOut.String() != "[line 1] Error: Unterminated string.\n" {
		t.Fatalf("unexpected diagnostics %q", errOut.String())
	}

	if res := in.Run("print 1;"); res != ResultOK || res.ExitCode() != 0 {
		t.Fatalf("expected ok, got %s", res)
	}
}

func TestAPIReentrantInterpretIsBusy(t *testing.T) {
	in, _, _ := newTestInterpreter()
	var nested error
	in.SetTraceHook(func(TraceInfo) {
		if nested == nil {
			nested = in.Interpret("print 1;")
		}
	})
	if err := in.Interpret("print 2;"); err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if !errors.Is(nested, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", nested)
	}
}

func TestAPITraceHook(t *testing.T) {
	in, _, _ := newTestInterpreter()
	var steps []TraceInfo
	in.SetTraceHook(func(info TraceInfo) {
		steps = append(steps, info)
	})
	if err := in.Interpret(`print "a" + "b";`); err != nil {
		t.Fatalf("interpret: %v", err)
	}
	var names []string
	for _, s := range steps {
		names = append(names, s.OpName)
	}
	want := "OP_CONSTANT OP_CONSTANT OP_ADD OP_PRINT OP_RETURN"
	if strings.Join(names, " ") != want {
		t.Fatalf("expected %q, got %q", want, strings.Join(names, " "))
	}
	// OP_PRINT sees the concatenated string on the stack
	if got := steps[3].Stack; len(got) != 1 || got[0] != "ab" {
		t.Fatalf("unexpected stack at print: %v", got)
	}

	in.SetTraceHook(nil)
	steps = nil
	if err := in.Interpret("print 1;"); err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if len(steps) != 0 {
		t.Fatalf("expected hook removed, got %d steps", len(steps))
	}
}

func TestAPIDisassemble(t *testing.T) {
	in, out, _ := newTestInterpreter()
	var buf bytes.Buffer
	if err := in.Disassemble("print 1;", &buf); err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	dump := buf.String()
	for _, want := range []string{"== code ==\n", "OP_CONSTANT", "'1'", "OP_PRINT", "OP_RETURN"} {
		if !strings.Contains(dump, want) {
			t.Fatalf("expected %q in dump:\n%s", want, dump)
		}
	}
	if out.Len() != 0 {
		t.Fatalf("disassemble must not execute, got %q", out.String())
	}

	err := in.Disassemble("print", &buf)
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected compile error, got %v", err)
	}
}

func TestAPIDumpTokens(t *testing.T) {
	var buf bytes.Buffer
	DumpTokens("var x;\n@", &buf)
	want := strings.Join([]string{
		"   1 VAR           'var'",
		"   | IDENTIFIER    'x'",
		"   | SEMICOLON     ';'",
		"   2 ERROR         'Unexpected character.'",
		"   | EOF           ''",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected dump:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestAPICloseResetsState(t *testing.T) {
	in, _, _ := newTestInterpreter()
	if err := in.Interpret("var a = 1;"); err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if err := in.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := in.Global("a"); ok {
		t.Fatalf("expected globals cleared")
	}
	if err := in.Interpret("print a;"); ResultOf(err) != ResultRuntimeError {
		t.Fatalf("expected undefined variable after close, got %v", err)
	}
}

func TestResultString(t *testing.T) {
	if ResultOK.String() != "ok" || Result(9).String() != "Result(9)" {
		t.Fatalf("unexpected result strings")
	}
}
