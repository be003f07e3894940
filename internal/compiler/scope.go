package compiler

import (
	"github.com/xirelogy/go-lox/internal/bytecode"
	"github.com/xirelogy/go-lox/internal/token"
)

// maxLocals bounds locals per compilation; slots are one byte.
const maxLocals = 256

// uninitialized marks a local that is declared but whose initializer has
// not finished compiling.
const uninitialized = -1

type local struct {
	name  token.Token
	depth int
}

func (c *compiler) beginScope() {
	c.scopeDepth++
}

func (c *compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.emitByte(bytecode.OP_POP)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *compiler) addLocal(name token.Token) {
	if len(c.locals) >= maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.locals = append(c.locals, local{name: name, depth: uninitialized})
}

// declareVariable records a local in the current scope. Globals are late
// bound and never declared.
func (c *compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}
	name := c.previous
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != uninitialized && l.depth < c.scopeDepth {
			break
		}
		if c.lexeme(l.name) == c.lexeme(name) {
			c.error("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *compiler) markInitialized() {
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

// resolveLocal returns the stack slot for name, or false when name
// should be treated as a global.
func (c *compiler) resolveLocal(name token.Token) (byte, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if c.lexeme(l.name) != c.lexeme(name) {
			continue
		}
		if l.depth == uninitialized {
			c.error("Can't read local variable in its own initializer.")
		}
		return byte(i), true
	}
	return 0, false
}

func (c *compiler) parseVariable(msg string) byte {
	c.consume(token.Identifier, msg)
	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.previous)
}

func (c *compiler) defineVariable(global byte) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitBytes(bytecode.OP_DEFINE_GLOBAL, global)
}
