package compiler

import (
	"github.com/xirelogy/go-lox/internal/bytecode"
	"github.com/xirelogy/go-lox/internal/lexer"
	"github.com/xirelogy/go-lox/internal/token"
	"github.com/xirelogy/go-lox/internal/value"
)

// Compile translates source into a chunk in a single pass. String
// constants and global names are interned into heap. On failure the
// returned error is an Errors list and the chunk must not be executed.
func Compile(source string, heap *value.Heap) (*Chunk, error) {
	c := &compiler{
		lex:   lexer.New(source),
		src:   source,
		heap:  heap,
		chunk: &Chunk{},
	}

	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}
	c.emitByte(bytecode.OP_RETURN)

	if len(c.errors) > 0 {
		return nil, c.errors
	}
	return c.chunk, nil
}

// compiler holds the parser cursor and code generation state for one
// compilation. Only current is lookahead; previous is the token most
// recently consumed.
type compiler struct {
	lex   *lexer.Lexer
	src   string
	heap  *value.Heap
	chunk *Chunk

	current   token.Token
	previous  token.Token
	errors    Errors
	panicMode bool

	locals     []local
	scopeDepth int
}

func (c *compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.lex.NextToken()
		if c.current.Type != token.Error {
			return
		}
		c.errorAtCurrent(c.current.Message)
	}
}

func (c *compiler) consume(t token.Type, msg string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

func (c *compiler) check(t token.Type) bool {
	return c.current.Type == t
}

func (c *compiler) match(t token.Type) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *compiler) lexeme(tok token.Token) string {
	return tok.Lexeme(c.src)
}

func (c *compiler) errorAtCurrent(msg string) {
	c.errorAt(c.current, msg)
}

func (c *compiler) error(msg string) {
	c.errorAt(c.previous, msg)
}

func (c *compiler) errorAt(tok token.Token, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	err := &Error{Line: tok.Line, Message: msg}
	switch tok.Type {
	case token.EOF:
		err.Where = " at end"
	case token.Error:
	default:
		err.Where = " at '" + c.lexeme(tok) + "'"
	}
	c.errors = append(c.errors, err)
}

// synchronize skips tokens until a likely statement boundary so one
// mistake produces one diagnostic.
func (c *compiler) synchronize() {
	c.panicMode = false
	for c.current.Type != token.EOF {
		if c.previous.Type == token.Semicolon {
			return
		}
		if token.StartsStatement(c.current.Type) {
			return
		}
		c.advance()
	}
}

func (c *compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *compiler) emitBytes(b1, b2 byte) {
	c.emitByte(b1)
	c.emitByte(b2)
}

func (c *compiler) makeConstant(v value.Value) byte {
	if len(c.chunk.Constants) >= bytecode.MaxConstants {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(c.chunk.AddConstant(v))
}

func (c *compiler) emitConstant(v value.Value) {
	c.emitBytes(bytecode.OP_CONSTANT, c.makeConstant(v))
}

// emitJump writes op with a placeholder operand and returns the offset
// of that operand for patchJump.
func (c *compiler) emitJump(op byte) int {
	c.emitByte(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return c.chunk.Len() - 2
}

func (c *compiler) patchJump(site int) {
	// -2 skips the operand itself
	dist := c.chunk.Len() - site - 2
	if dist > bytecode.MaxJump {
		c.error("Too much code to jump over.")
		return
	}
	c.chunk.PutU16(site, dist)
}

func (c *compiler) emitLoop(loopStart int) {
	c.emitByte(bytecode.OP_LOOP)
	dist := c.chunk.Len() - loopStart + 2
	if dist > bytecode.MaxJump {
		c.error("Loop body too large.")
	}
	c.emitByte(byte((dist >> 8) & 0xff))
	c.emitByte(byte(dist & 0xff))
}
