package vm

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xirelogy/go-lox/internal/bytecode"
	"github.com/xirelogy/go-lox/internal/compiler"
	"github.com/xirelogy/go-lox/internal/value"
)

// InterpretResult is the completion status of one Interpret call.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

func (r InterpretResult) String() string {
	switch r {
	case InterpretOK:
		return "ok"
	case InterpretCompileError:
		return "compile error"
	case InterpretRuntimeError:
		return "runtime error"
	default:
		return fmt.Sprintf("InterpretResult(%d)", int(r))
	}
}

// ResultOf classifies an error returned by Interpret.
func ResultOf(err error) InterpretResult {
	if err == nil {
		return InterpretOK
	}
	var compileErrs compiler.Errors
	if errors.As(err, &compileErrs) {
		return InterpretCompileError
	}
	return InterpretRuntimeError
}

// VM is a stack-based bytecode interpreter. The heap, intern table and
// globals persist across Interpret calls; each call compiles a fresh
// chunk and runs it to completion. A VM is not safe for concurrent use.
type VM struct {
	chunk     *bytecode.Chunk
	ip        int
	lastOp    int
	stack     []value.Value
	globals   map[string]value.Value
	heap      *value.Heap
	out       io.Writer
	traceHook TraceHook
}

const defaultStackCap = 256

// New constructs an empty VM instance that prints to stdout.
func New() *VM {
	return &VM{
		stack:   make([]value.Value, 0, defaultStackCap),
		globals: make(map[string]value.Value),
		heap:    value.NewHeap(),
		out:     os.Stdout,
	}
}

// SetOutput redirects print statements to w.
func (vm *VM) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	vm.out = w
}

// SetTraceHook registers a callback for instruction-level tracing.
func (vm *VM) SetTraceHook(h TraceHook) {
	vm.traceHook = h
}

// Heap returns the object heap owned by this VM.
func (vm *VM) Heap() *value.Heap {
	return vm.heap
}

// Global looks up a global variable by name.
func (vm *VM) Global(name string) (value.Value, bool) {
	v, ok := vm.globals[name]
	return v, ok
}

// Close releases every heap object and global binding.
func (vm *VM) Close() {
	vm.resetStack()
	vm.globals = make(map[string]value.Value)
	vm.heap.Free()
	vm.chunk = nil
}

// Compile translates source against this VM's heap without running it.
func (vm *VM) Compile(source string) (*bytecode.Chunk, error) {
	return compiler.Compile(source, vm.heap)
}

// Interpret compiles source and, if that succeeds, executes it. The error
// is compiler.Errors for compile failures and *RuntimeError for failures
// during execution; see ResultOf.
func (vm *VM) Interpret(source string) error {
	chunk, err := vm.Compile(source)
	if err != nil {
		return err
	}
	return vm.Run(chunk)
}

// Run executes a chunk compiled against this VM's heap.
func (vm *VM) Run(chunk *bytecode.Chunk) error {
	if chunk == nil {
		return errors.New("nil chunk")
	}
	vm.chunk = chunk
	vm.ip = 0
	vm.lastOp = 0
	vm.resetStack()
	return vm.run()
}

func (vm *VM) run() error {
	for {
		if vm.ip >= len(vm.chunk.Code) {
			return nil
		}
		vm.lastOp = vm.ip
		op := vm.readByte()
		vm.trace(op)

		switch op {
		case bytecode.OP_CONSTANT:
			vm.push(vm.readConstant())
		case bytecode.OP_NIL:
			vm.push(value.Nil())
		case bytecode.OP_TRUE:
			vm.push(value.Bool(true))
		case bytecode.OP_FALSE:
			vm.push(value.Bool(false))
		case bytecode.OP_POP:
			vm.pop()
		case bytecode.OP_GET_LOCAL:
			slot := vm.readByte()
			vm.push(vm.stack[slot])
		case bytecode.OP_SET_LOCAL:
			slot := vm.readByte()
			vm.stack[slot] = vm.peek(0)
		case bytecode.OP_GET_GLOBAL:
			name := vm.readName()
			v, ok := vm.globals[name]
			if !ok {
				return vm.runtimeErrorf("Undefined variable '%s'.", name)
			}
			vm.push(v)
		case bytecode.OP_DEFINE_GLOBAL:
			name := vm.readName()
			vm.globals[name] = vm.peek(0)
			vm.pop()
		case bytecode.OP_SET_GLOBAL:
			name := vm.readName()
			if _, ok := vm.globals[name]; !ok {
				return vm.runtimeErrorf("Undefined variable '%s'.", name)
			}
			vm.globals[name] = vm.peek(0)
		case bytecode.OP_EQUAL:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(vm.heap.Equal(a, b)))
		case bytecode.OP_GREATER:
			if err := binaryOp(vm, func(a, b float64) bool { return a > b }, value.Bool); err != nil {
				return err
			}
		case bytecode.OP_LESS:
			if err := binaryOp(vm, func(a, b float64) bool { return a < b }, value.Bool); err != nil {
				return err
			}
		case bytecode.OP_ADD:
			if err := vm.add(); err != nil {
				return err
			}
		case bytecode.OP_SUBTRACT:
			if err := binaryOp(vm, func(a, b float64) float64 { return a - b }, value.Number); err != nil {
				return err
			}
		case bytecode.OP_MULTIPLY:
			if err := binaryOp(vm, func(a, b float64) float64 { return a * b }, value.Number); err != nil {
				return err
			}
		case bytecode.OP_DIVIDE:
			if err := binaryOp(vm, func(a, b float64) float64 { return a / b }, value.Number); err != nil {
				return err
			}
		case bytecode.OP_NOT:
			vm.push(value.Bool(value.Falsey(vm.pop())))
		case bytecode.OP_NEGATE:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeErrorf("Operand must be a number.")
			}
			vm.push(value.Number(-vm.pop().Num))
		case bytecode.OP_PRINT:
			fmt.Fprintln(vm.out, vm.heap.Format(vm.pop()))
		case bytecode.OP_JUMP:
			dist := vm.readU16()
			vm.ip += dist
		case bytecode.OP_JUMP_IF_FALSE:
			dist := vm.readU16()
			if value.Falsey(vm.peek(0)) {
				vm.ip += dist
			}
		case bytecode.OP_LOOP:
			dist := vm.readU16()
			vm.ip -= dist
		case bytecode.OP_RETURN:
			return nil
		default:
			return vm.runtimeErrorf("Unknown opcode %d.", op)
		}
	}
}

// binaryOp pops two numeric operands, applies fn and pushes the result
// built by wrap.
func binaryOp[R any](vm *VM, fn func(a, b float64) R, wrap func(R) value.Value) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorf("Operands must be numbers.")
	}
	b := vm.pop().Num
	a := vm.pop().Num
	vm.push(wrap(fn(a, b)))
	return nil
}

func (vm *VM) add() error {
	a, b := vm.peek(1), vm.peek(0)
	switch {
	case vm.heap.IsString(a) && vm.heap.IsString(b):
		as, _ := vm.heap.String(a)
		bs, _ := vm.heap.String(b)
		vm.pop()
		vm.pop()
		vm.push(vm.heap.Intern(as + bs))
		return nil
	case a.IsNumber() && b.IsNumber():
		return binaryOp(vm, func(x, y float64) float64 { return x + y }, value.Number)
	default:
		return vm.runtimeErrorf("Operands must be two numbers or two strings.")
	}
}

func (vm *VM) push(v value.Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() value.Value {
	if len(vm.stack) == 0 {
		return value.Nil()
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

// peek returns the value distance slots below the top without popping.
func (vm *VM) peek(distance int) value.Value {
	idx := len(vm.stack) - 1 - distance
	if idx < 0 {
		return value.Nil()
	}
	return vm.stack[idx]
}

func (vm *VM) resetStack() {
	vm.stack = vm.stack[:0]
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readU16() int {
	v := vm.chunk.ReadU16(vm.ip)
	vm.ip += 2
	return v
}

func (vm *VM) readConstant() value.Value {
	return vm.chunk.Constants[vm.readByte()]
}

func (vm *VM) readName() string {
	name, _ := vm.heap.String(vm.readConstant())
	return name
}
