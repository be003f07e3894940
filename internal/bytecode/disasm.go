package bytecode

import (
	"errors"
	"fmt"
	"io"

	"github.com/xirelogy/go-lox/internal/value"
)

// Disassembler formats bytecode as a readable assembly-style dump.
type Disassembler struct {
	w    io.Writer
	heap *value.Heap
}

// NewDisassembler constructs a disassembler that writes to w. The heap
// resolves string constants; it may be nil.
func NewDisassembler(w io.Writer, heap *value.Heap) *Disassembler {
	return &Disassembler{w: w, heap: heap}
}

// DisassembleChunk emits a header followed by every instruction.
func (d *Disassembler) DisassembleChunk(chunk *Chunk, name string) error {
	if chunk == nil {
		return errors.New("nil chunk")
	}
	fmt.Fprintf(d.w, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		next, err := d.DisassembleInstruction(chunk, offset)
		if err != nil {
			return err
		}
		offset = next
	}
	return nil
}

// DisassembleInstruction emits the instruction at offset and returns the
// offset of the one after it.
func (d *Disassembler) DisassembleInstruction(chunk *Chunk, offset int) (int, error) {
	if offset < 0 || offset >= len(chunk.Code) {
		return offset, fmt.Errorf("offset %d out of range", offset)
	}
	fmt.Fprintf(d.w, "%04d ", offset)
	if offset > 0 && chunk.LineAt(offset) == chunk.LineAt(offset-1) {
		fmt.Fprint(d.w, "   | ")
	} else {
		fmt.Fprintf(d.w, "%4d ", chunk.LineAt(offset))
	}

	op := chunk.Code[offset]
	name := OpName(op)
	width := OperandWidth(op)
	if width < 0 {
		fmt.Fprintf(d.w, "%s\n", name)
		return offset + 1, nil
	}
	if offset+width >= len(chunk.Code) {
		return offset, fmt.Errorf("unexpected end of bytecode at %d", offset)
	}

	switch op {
	case OP_CONSTANT, OP_GET_GLOBAL, OP_DEFINE_GLOBAL, OP_SET_GLOBAL:
		idx := int(chunk.Code[offset+1])
		fmt.Fprintf(d.w, "%-16s %4d %s\n", name, idx, d.constant(chunk, idx))
	case OP_GET_LOCAL, OP_SET_LOCAL:
		fmt.Fprintf(d.w, "%-16s %4d\n", name, chunk.Code[offset+1])
	case OP_JUMP, OP_JUMP_IF_FALSE:
		dist := chunk.ReadU16(offset + 1)
		fmt.Fprintf(d.w, "%-16s %4d -> %d\n", name, offset, offset+3+dist)
	case OP_LOOP:
		dist := chunk.ReadU16(offset + 1)
		fmt.Fprintf(d.w, "%-16s %4d -> %d\n", name, offset, offset+3-dist)
	default:
		fmt.Fprintf(d.w, "%s\n", name)
	}
	return offset + 1 + width, nil
}

func (d *Disassembler) constant(chunk *Chunk, idx int) string {
	if idx >= len(chunk.Constants) {
		return "<invalid>"
	}
	return "'" + d.heap.Format(chunk.Constants[idx]) + "'"
}

// OpName returns the mnemonic for op.
func OpName(op byte) string {
	switch op {
	case OP_CONSTANT:
		return "OP_CONSTANT"
	case OP_NIL:
		return "OP_NIL"
	case OP_TRUE:
		return "OP_TRUE"
	case OP_FALSE:
		return "OP_FALSE"
	case OP_POP:
		return "OP_POP"
	case OP_GET_LOCAL:
		return "OP_GET_LOCAL"
	case OP_SET_LOCAL:
		return "OP_SET_LOCAL"
	case OP_GET_GLOBAL:
		return "OP_GET_GLOBAL"
	case OP_DEFINE_GLOBAL:
		return "OP_DEFINE_GLOBAL"
	case OP_SET_GLOBAL:
		return "OP_SET_GLOBAL"
	case OP_EQUAL:
		return "OP_EQUAL"
	case OP_GREATER:
		return "OP_GREATER"
	case OP_LESS:
		return "OP_LESS"
	case OP_ADD:
		return "OP_ADD"
	case OP_SUBTRACT:
		return "OP_SUBTRACT"
	case OP_MULTIPLY:
		return "OP_MULTIPLY"
	case OP_DIVIDE:
		return "OP_DIVIDE"
	case OP_NOT:
		return "OP_NOT"
	case OP_NEGATE:
		return "OP_NEGATE"
	case OP_PRINT:
		return "OP_PRINT"
	case OP_JUMP:
		return "OP_JUMP"
	case OP_JUMP_IF_FALSE:
		return "OP_JUMP_IF_FALSE"
	case OP_LOOP:
		return "OP_LOOP"
	case OP_RETURN:
		return "OP_RETURN"
	default:
		return fmt.Sprintf("OP_0x%02X", op)
	}
}
