package bytecode

// OpCode enumerates bytecode operations. Operands follow the opcode
// inline: one byte for constant indexes and local slots, two bytes
// (big-endian) for jump distances.
const (
	OP_CONSTANT byte = iota // idx8
	OP_NIL
	OP_TRUE
	OP_FALSE
	OP_POP

	OP_GET_LOCAL     // slot8
	OP_SET_LOCAL     // slot8
	OP_GET_GLOBAL    // name idx8
	OP_DEFINE_GLOBAL // name idx8
	OP_SET_GLOBAL    // name idx8

	OP_EQUAL
	OP_GREATER
	OP_LESS
	OP_ADD
	OP_SUBTRACT
	OP_MULTIPLY
	OP_DIVIDE
	OP_NOT
	OP_NEGATE

	OP_PRINT
	OP_JUMP          // off16, forward
	OP_JUMP_IF_FALSE // off16, forward, leaves the condition on the stack
	OP_LOOP          // off16, backward
	OP_RETURN
)

// OperandWidth returns the number of operand bytes following op, or -1
// for an unknown opcode.
func OperandWidth(op byte) int {
	switch op {
	case OP_CONSTANT, OP_GET_LOCAL, OP_SET_LOCAL,
		OP_GET_GLOBAL, OP_DEFINE_GLOBAL, OP_SET_GLOBAL:
		return 1
	case OP_JUMP, OP_JUMP_IF_FALSE, OP_LOOP:
		return 2
	case OP_NIL, OP_TRUE, OP_FALSE, OP_POP,
		OP_EQUAL, OP_GREATER, OP_LESS,
		OP_ADD, OP_SUBTRACT, OP_MULTIPLY, OP_DIVIDE,
		OP_NOT, OP_NEGATE, OP_PRINT, OP_RETURN:
		return 0
	default:
		return -1
	}
}
