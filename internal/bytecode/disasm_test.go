package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xirelogy/go-lox/internal/value"
)

func TestDisassembleChunk(t *testing.T) {
	heap := value.NewHeap()
	chunk := &Chunk{}
	idx := chunk.AddConstant(value.Number(1.2))
	chunk.Write(OP_CONSTANT, 123)
	chunk.Write(byte(idx), 123)
	name := chunk.AddConstant(heap.Intern("answer"))
	chunk.Write(OP_DEFINE_GLOBAL, 123)
	chunk.Write(byte(name), 123)
	chunk.Write(OP_NEGATE, 124)
	chunk.Write(OP_RETURN, 124)

	var buf bytes.Buffer
	if err := NewDisassembler(&buf, heap).DisassembleChunk(chunk, "test chunk"); err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	want := strings.Join([]string{
		"== test chunk ==",
		"0000  123 OP_CONSTANT         0 '1.2'",
		"0002    | OP_DEFINE_GLOBAL    1 'answer'",
		"0004  124 OP_NEGATE",
		"0005    | OP_RETURN",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected dump:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestDisassembleJumpTargets(t *testing.T) {
	chunk := &Chunk{}
	chunk.Write(OP_JUMP_IF_FALSE, 1)
	chunk.Write(0, 1)
	chunk.Write(1, 1)
	chunk.Write(OP_POP, 1)
	chunk.Write(OP_LOOP, 1)
	chunk.Write(0, 1)
	chunk.Write(7, 1)

	var buf bytes.Buffer
	dis := NewDisassembler(&buf, nil)
	if err := dis.DisassembleChunk(chunk, "jumps"); err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "OP_JUMP_IF_FALSE    0 -> 4") {
		t.Fatalf("expected forward target, got:\n%s", out)
	}
	if !strings.Contains(out, "OP_LOOP             4 -> 0") {
		t.Fatalf("expected backward target, got:\n%s", out)
	}
}

func TestDisassembleTruncatedOperand(t *testing.T) {
	chunk := &Chunk{}
	chunk.Write(OP_JUMP, 1)
	chunk.Write(0, 1)
	var buf bytes.Buffer
	if _, err := NewDisassembler(&buf, nil).DisassembleInstruction(chunk, 0); err == nil {
		t.Fatalf("expected error for truncated operand")
	}
}

func TestDisassembleNilChunk(t *testing.T) {
	var buf bytes.Buffer
	if err := NewDisassembler(&buf, nil).DisassembleChunk(nil, "none"); err == nil || err.Error() != "nil chunk" {
		t.Fatalf("expected nil chunk error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestChunkU16RoundTrip(t *testing.T) {
	chunk := &Chunk{}
	chunk.Write(OP_JUMP, 1)
	chunk.Write(0xff, 1)
	chunk.Write(0xff, 1)
	chunk.PutU16(1, 0x1234)
	if chunk.Code[1] != 0x12 || chunk.Code[2] != 0x34 {
		t.Fatalf("expected big-endian operand, got %x %x", chunk.Code[1], chunk.Code[2])
	}
	if got := chunk.ReadU16(1); got != 0x1234 {
		t.Fatalf("expected 0x1234, got %#x", got)
	}
	if len(chunk.Lines) != len(chunk.Code) {
		t.Fatalf("line table out of step with code")
	}
}
