package conformance

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xirelogy/go-lox/internal/vm"
)

// Outcome is what running one test produced
type Outcome struct {
	Output []string
	Result vm.InterpretResult
	Err    error
}

// Run executes the suite setup and the test source on a fresh VM
func Run(lt LoadedTest) (Outcome, error) {
	var out bytes.Buffer
	machine := vm.New()
	defer machine.Close()
	machine.SetOutput(&out)

	if lt.Suite.Setup != "" {
		if err := machine.Interpret(lt.Suite.Setup); err != nil {
			return Outcome{}, fmt.Errorf("setup failed: %w", err)
		}
		out.Reset()
	}

	err := machine.Interpret(lt.Test.Source)
	return Outcome{
		Output: splitLines(out.String()),
		Result: vm.ResultOf(err),
		Err:    err,
	}, nil
}

// Check compares an outcome against the test's expectation
func Check(tc TestCase, got Outcome) error {
	want, err := expectedResult(tc.Expect.Result)
	if err != nil {
		return err
	}
	if got.Result != want {
		return fmt.Errorf("expected %s, got %s (err: %v)", want, got.Result, got.Err)
	}
	if tc.Expect.Error != "" {
		if got.Err == nil || !strings.Contains(got.Err.Error(), tc.Expect.Error) {
			return fmt.Errorf("expected error containing %q, got %v", tc.Expect.Error, got.Err)
		}
	}
	if len(got.Output) != len(tc.Expect.Output) {
		return fmt.Errorf("expected output %q, got %q", tc.Expect.Output, got.Output)
	}
	for i := range got.Output {
		if got.Output[i] != tc.Expect.Output[i] {
			return fmt.Errorf("line %d: expected %q, got %q", i+1, tc.Expect.Output[i], got.Output[i])
		}
	}
	return nil
}

func expectedResult(s string) (vm.InterpretResult, error) {
	switch s {
	case "", "ok":
		return vm.InterpretOK, nil
	case "compile_error":
		return vm.InterpretCompileError, nil
	case "runtime_error":
		return vm.InterpretRuntimeError, nil
	default:
		return 0, fmt.Errorf("unknown result %q", s)
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
