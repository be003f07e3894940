package bytecode

import "github.com/xirelogy/go-lox/internal/value"

const (
	// MaxConstants bounds the constant pool; indexes are one byte.
	MaxConstants = 256
	// MaxJump is the largest distance a 16-bit jump operand can encode.
	MaxJump = 1<<16 - 1
)

// Chunk is a compiled bytecode sequence with its constant pool. Lines
// runs parallel to Code, one entry per byte.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	Lines     []int
}

// Write appends one byte attributed to a source line.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// AddConstant appends v to the constant pool and returns its index.
// The pool is not deduplicated.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// Len returns the number of code bytes.
func (c *Chunk) Len() int {
	return len(c.Code)
}

// LineAt returns the source line for a code offset, or 0 if out of range.
func (c *Chunk) LineAt(offset int) int {
	if c == nil || offset < 0 || offset >= len(c.Lines) {
		return 0
	}
	return c.Lines[offset]
}

// ReadU16 decodes the big-endian operand starting at offset.
func (c *Chunk) ReadU16(offset int) int {
	return int(c.Code[offset])<<8 | int(c.Code[offset+1])
}

// PutU16 overwrites two bytes at offset with v, big-endian.
func (c *Chunk) PutU16(offset int, v int) {
	c.Code[offset] = byte((v >> 8) & 0xff)
	c.Code[offset+1] = byte(v & 0xff)
}
