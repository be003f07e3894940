package vm

import (
	"fmt"

	"github.com/xirelogy/go-lox/internal/value"
)

// scriptName labels the single top-level frame in diagnostics.
const scriptName = "script"

// TraceInfo describes a single instruction dispatch for debugging/tracing.
// Stack is a snapshot, bottom first.
type TraceInfo struct {
	Op    byte
	IP    int
	Line  int
	Stack []value.Value
}

// TraceHook observes instruction dispatch for debugging/profiling.
type TraceHook func(TraceInfo)

// FrameInfo captures where execution stood when an error was raised.
type FrameInfo struct {
	Function string
	Line     int
	IP       int
}

// RuntimeError carries source information for VM failures.
type RuntimeError struct {
	Message string
	Frame   FrameInfo
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e.Frame.Line > 0 {
		return fmt.Sprintf("%s\n[line %d] in %s", e.Message, e.Frame.Line, e.Frame.Function)
	}
	return e.Message
}

// Unwrap exposes the original error, if any.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// runtimeErrorf builds an error for the instruction currently executing
// and resets the stack. Globals and heap objects are left intact.
func (vm *VM) runtimeErrorf(format string, args ...interface{}) error {
	offset := vm.lastOp
	err := &RuntimeError{
		Message: fmt.Sprintf(format, args...),
		Frame: FrameInfo{
			Function: scriptName,
			Line:     vm.chunk.LineAt(offset),
			IP:       offset,
		},
	}
	vm.resetStack()
	return err
}

func (vm *VM) trace(op byte) {
	if vm.traceHook == nil {
		return
	}
	snapshot := make([]value.Value, len(vm.stack))
	copy(snapshot, vm.stack)
	vm.traceHook(TraceInfo{
		Op:    op,
		IP:    vm.lastOp,
		Line:  vm.chunk.LineAt(vm.lastOp),
		Stack: snapshot,
	})
}
