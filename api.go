package lox

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/xirelogy/go-lox/internal/bytecode"
	"github.com/xirelogy/go-lox/internal/compiler"
	"github.com/xirelogy/go-lox/internal/lexer"
	"github.com/xirelogy/go-lox/internal/token"
	"github.com/xirelogy/go-lox/internal/vm"
)

// ErrBusy is returned when Interpret is entered while another call on the
// same Interpreter is still running.
var ErrBusy = errors.New("interpreter is busy; concurrent Interpret not allowed")

var log = commonlog.GetLogger("lox")

// Result mirrors the interpreter's completion status.
type Result int

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultCompileError:
		return "compile error"
	case ResultRuntimeError:
		return "runtime error"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// ExitCode maps a result onto the sysexits-style codes used by the CLI.
func (r Result) ExitCode() int {
	switch r {
	case ResultCompileError:
		return 65
	case ResultRuntimeError:
		return 70
	default:
		return 0
	}
}

// ResultOf classifies an error returned by Interpret.
func ResultOf(err error) Result {
	if err == nil {
		return ResultOK
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return ResultCompileError
	}
	return ResultRuntimeError
}

// Diagnostic is one compile error.
type Diagnostic struct {
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// CompileError reports every diagnostic produced while compiling a source.
// Nothing is executed when compilation fails.
type CompileError struct {
	Diagnostics []Diagnostic
	Cause       error
}

func (e *CompileError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "compile error"
}

// Unwrap exposes the underlying compiler.Errors for errors.As.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// FrameTrace describes where a runtime error was raised.
type FrameTrace struct {
	Function string
	Line     int
	IP       int
}

// RuntimeError is a source-aware execution error surfaced from the VM.
type RuntimeError struct {
	Message string
	Frame   FrameTrace
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e.Frame.Line > 0 {
		return fmt.Sprintf("%s\n[line %d] in %s", e.Message, e.Frame.Line, e.Frame.Function)
	}
	return e.Message
}

// Unwrap exposes the underlying cause (if any) for errors.Is/As.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// TraceInfo captures one execution step for debug hooks. Stack holds the
// printed form of each stack slot, bottom first.
type TraceInfo struct {
	Op     byte
	OpName string
	Line   int
	IP     int
	Stack  []string
}

// TraceHook observes instruction dispatch for debugging/profiling.
type TraceHook func(TraceInfo)

func convertError(err error) error {
	if err == nil {
		return nil
	}
	var compileErrs compiler.Errors
	if errors.As(err, &compileErrs) {
		diags := make([]Diagnostic, len(compileErrs))
		for i, ce := range compileErrs {
			diags[i] = Diagnostic{Line: ce.Line, Where: ce.Where, Message: ce.Message}
		}
		return &CompileError{Diagnostics: diags, Cause: err}
	}
	var rte *vm.RuntimeError
	if errors.As(err, &rte) {
		return &RuntimeError{
			Message: rte.Message,
			Frame:   frameTraceFromVM(rte.Frame),
			Cause:   rte,
		}
	}
	return err
}

func frameTraceFromVM(info vm.FrameInfo) FrameTrace {
	return FrameTrace{
		Function: info.Function,
		Line:     info.Line,
		IP:       info.IP,
	}
}

// Interpreter is the embedding entry point. Globals and interned strings
// persist across Interpret calls until Close.
type Interpreter struct {
	core   *vm.VM
	stderr io.Writer
	mu     sync.Mutex
	busy   bool
}

// New constructs an interpreter printing to stdout and reporting
// diagnostics to stderr.
func New() *Interpreter {
	return &Interpreter{
		core:   vm.New(),
		stderr: os.Stderr,
	}
}

// SetOutput redirects print statements.
func (in *Interpreter) SetOutput(w io.Writer) {
	in.core.SetOutput(w)
}

// SetErrorOutput redirects the diagnostics written by Run.
func (in *Interpreter) SetErrorOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	in.stderr = w
}

// SetTraceHook attaches a debug hook that observes instruction dispatch.
func (in *Interpreter) SetTraceHook(h TraceHook) {
	if h == nil {
		in.core.SetTraceHook(nil)
		return
	}
	heap := in.core.Heap()
	in.core.SetTraceHook(func(info vm.TraceInfo) {
		stack := make([]string, len(info.Stack))
		for i, v := range info.Stack {
			stack[i] = heap.Format(v)
		}
		h(TraceInfo{
			Op:     info.Op,
			OpName: bytecode.OpName(info.Op),
			Line:   info.Line,
			IP:     info.IP,
			Stack:  stack,
		})
	})
}

// Interpret compiles and runs source. The returned error is a
// *CompileError, a *RuntimeError or ErrBusy.
func (in *Interpreter) Interpret(source string) error {
	if err := in.acquire(); err != nil {
		return err
	}
	defer in.release()

	log.Debugf("interpreting %d bytes", len(source))
	err := convertError(in.core.Interpret(source))
	if err != nil {
		log.Debugf("interpret finished: %s", ResultOf(err))
	}
	return err
}

// Run interprets source and writes any diagnostic to the error output,
// returning only the result classification.
func (in *Interpreter) Run(source string) Result {
	err := in.Interpret(source)
	if err != nil {
		fmt.Fprintln(in.stderr, err)
	}
	return ResultOf(err)
}

// Global returns the printed form of a global variable.
func (in *Interpreter) Global(name string) (string, bool) {
	v, ok := in.core.Global(name)
	if !ok {
		return "", false
	}
	return in.core.Heap().Format(v), true
}

// Disassemble compiles source without running it and writes a listing
// of the resulting chunk to w.
func (in *Interpreter) Disassemble(source string, w io.Writer) error {
	if err := in.acquire(); err != nil {
		return err
	}
	defer in.release()

	chunk, err := in.core.Compile(source)
	if err != nil {
		return convertError(err)
	}
	return bytecode.NewDisassembler(w, in.core.Heap()).DisassembleChunk(chunk, "code")
}

// Close releases every heap object and global. The interpreter may be
// reused afterwards with a clean state.
func (in *Interpreter) Close() error {
	if err := in.acquire(); err != nil {
		return err
	}
	defer in.release()
	in.core.Close()
	return nil
}

func (in *Interpreter) acquire() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.busy {
		return ErrBusy
	}
	in.busy = true
	return nil
}

func (in *Interpreter) release() {
	in.mu.Lock()
	in.busy = false
	in.mu.Unlock()
}

// DumpTokens writes one row per token of source to w, ending with EOF.
// Lexical errors appear as Error rows carrying their message.
func DumpTokens(source string, w io.Writer) {
	line := -1
	for _, tok := range lexer.Tokens(source) {
		if tok.Line != line {
			fmt.Fprintf(w, "%4d ", tok.Line)
			line = tok.Line
		} else {
			fmt.Fprint(w, "   | ")
		}
		text := tok.Lexeme(source)
		if tok.Type == token.Error {
			text = tok.Message
		}
		fmt.Fprintf(w, "%-13s '%s'\n", tok.Type, text)
	}
}
