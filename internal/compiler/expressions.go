package compiler

import (
	"errors"
	"strconv"

	"github.com/xirelogy/go-lox/internal/bytecode"
	"github.com/xirelogy/go-lox/internal/token"
	"github.com/xirelogy/go-lox/internal/value"
)

type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(c *compiler, canAssign bool)

type parseRule struct {
	prefix parseFn
	infix  parseFn
	prec   precedence
}

// ruleFor maps a token type to its prefix handler, infix handler and
// infix precedence.
func ruleFor(t token.Type) parseRule {
	switch t {
	case token.LeftParen:
		return parseRule{(*compiler).grouping, nil, precNone}
	case token.Minus:
		return parseRule{(*compiler).unary, (*compiler).binary, precTerm}
	case token.Plus:
		return parseRule{nil, (*compiler).binary, precTerm}
	case token.Slash, token.Star:
		return parseRule{nil, (*compiler).binary, precFactor}
	case token.Bang:
		return parseRule{(*compiler).unary, nil, precNone}
	case token.BangEqual, token.EqualEqual:
		return parseRule{nil, (*compiler).binary, precEquality}
	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		return parseRule{nil, (*compiler).binary, precComparison}
	case token.Identifier:
		return parseRule{(*compiler).variable, nil, precNone}
	case token.String:
		return parseRule{(*compiler).stringLiteral, nil, precNone}
	case token.Number:
		return parseRule{(*compiler).number, nil, precNone}
	case token.And:
		return parseRule{nil, (*compiler).and, precAnd}
	case token.Or:
		return parseRule{nil, (*compiler).or, precOr}
	case token.False, token.True, token.Nil:
		return parseRule{(*compiler).literal, nil, precNone}
	default:
		return parseRule{nil, nil, precNone}
	}
}

func (c *compiler) expression() {
	c.parsePrecedence(precAssignment)
}

// parsePrecedence compiles an expression whose operators all bind at
// least as tightly as prec.
func (c *compiler) parsePrecedence(prec precedence) {
	c.advance()
	prefix := ruleFor(c.previous.Type).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}

	canAssign := prec <= precAssignment
	prefix(c, canAssign)

	for prec <= ruleFor(c.current.Type).prec {
		c.advance()
		infix := ruleFor(c.previous.Type).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.Equal) {
		c.error("Invalid assignment target.")
	}
}

func (c *compiler) grouping(bool) {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *compiler) number(bool) {
	n, err := strconv.ParseFloat(c.lexeme(c.previous), 64)
	// out-of-range literals saturate to ±Inf
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(value.Number(n))
}

func (c *compiler) stringLiteral(bool) {
	lit := c.lexeme(c.previous)
	// trim the surrounding quotes
	c.emitConstant(c.heap.Intern(lit[1 : len(lit)-1]))
}

func (c *compiler) literal(bool) {
	switch c.previous.Type {
	case token.False:
		c.emitByte(bytecode.OP_FALSE)
	case token.True:
		c.emitByte(bytecode.OP_TRUE)
	case token.Nil:
		c.emitByte(bytecode.OP_NIL)
	}
}

func (c *compiler) unary(bool) {
	op := c.previous.Type
	c.parsePrecedence(precUnary)
	switch op {
	case token.Minus:
		c.emitByte(bytecode.OP_NEGATE)
	case token.Bang:
		c.emitByte(bytecode.OP_NOT)
	}
}

func (c *compiler) binary(bool) {
	op := c.previous.Type
	// left-associative: the right operand binds one level tighter
	c.parsePrecedence(ruleFor(op).prec + 1)

	switch op {
	case token.BangEqual:
		c.emitBytes(bytecode.OP_EQUAL, bytecode.OP_NOT)
	case token.EqualEqual:
		c.emitByte(bytecode.OP_EQUAL)
	case token.Greater:
		c.emitByte(bytecode.OP_GREATER)
	case token.GreaterEqual:
		c.emitBytes(bytecode.OP_LESS, bytecode.OP_NOT)
	case token.Less:
		c.emitByte(bytecode.OP_LESS)
	case token.LessEqual:
		c.emitBytes(bytecode.OP_GREATER, bytecode.OP_NOT)
	case token.Plus:
		c.emitByte(bytecode.OP_ADD)
	case token.Minus:
		c.emitByte(bytecode.OP_SUBTRACT)
	case token.Star:
		c.emitByte(bytecode.OP_MULTIPLY)
	case token.Slash:
		c.emitByte(bytecode.OP_DIVIDE)
	}
}

func (c *compiler) and(bool) {
	endJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE)
	c.emitByte(bytecode.OP_POP)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

func (c *compiler) or(bool) {
	elseJump := c.emitJump(bytecode.OP_JUMP_IF_FALSE)
	endJump := c.emitJump(bytecode.OP_JUMP)
	c.patchJump(elseJump)
	c.emitByte(bytecode.OP_POP)
	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

func (c *compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *compiler) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp, arg byte
	if slot, ok := c.resolveLocal(name); ok {
		getOp, setOp, arg = bytecode.OP_GET_LOCAL, bytecode.OP_SET_LOCAL, slot
	} else {
		getOp, setOp, arg = bytecode.OP_GET_GLOBAL, bytecode.OP_SET_GLOBAL, c.identifierConstant(name)
	}

	if canAssign && c.match(token.Equal) {
		c.expression()
		c.emitBytes(setOp, arg)
		return
	}
	c.emitBytes(getOp, arg)
}

func (c *compiler) identifierConstant(name token.Token) byte {
	return c.makeConstant(c.heap.Intern(c.lexeme(name)))
}
