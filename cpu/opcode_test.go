package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOp(t *testing.T) {
	assert := assert.New(t)

	mnemonics := []string{
		"print", "read", "push", "pop", "move", "if", "call",
		"equal", "add", "subtract", "pushaddr", "return", "exit", "str",
	}

	assert.Equal(OP_COUNT, len(mnemonics))
	for n, name := range mnemonics {
		op := Op(n)
		assert.True(op.Valid())
		assert.Equal(name, op.String())
		assert.Equal(op, opMap[name])
	}

	assert.False(Op(OP_COUNT).Valid())
	assert.Equal("Op(14)", Op(OP_COUNT).String())
	assert.Equal([2]Arg{}, Op(OP_COUNT).Args())
}

func TestArg_Accepts(t *testing.T) {
	assert := assert.New(t)

	assert.True(ARG_NONE.Accepts(0))
	assert.False(ARG_NONE.Accepts(1))

	assert.True(ARG_VALUE.Accepts(Literal(0)))
	assert.True(ARG_VALUE.Accepts(Literal(LITERAL_MAX)))
	assert.True(ARG_VALUE.Accepts(SLOT_REG1))
	assert.True(ARG_VALUE.Accepts(SLOT_RES))
	assert.False(ARG_VALUE.Accepts(SLOT_SP))
	assert.False(ARG_VALUE.Accepts(SLOT_FIRST_FREE))

	assert.True(ARG_REGISTER.Accepts(SLOT_REG7))
	assert.False(ARG_REGISTER.Accepts(Literal(3)))

	for _, arg := range []Arg{ARG_LABEL, ARG_FUNCTION, ARG_STRING} {
		assert.False(arg.Accepts(SLOT_RES), arg.String())
		assert.True(arg.Accepts(SLOT_FIRST_FREE), arg.String())
		assert.True(arg.Accepts(MEMORY_SIZE-1), arg.String())
		assert.False(arg.Accepts(MEMORY_SIZE), arg.String())
	}
}

func TestCode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code  Code
		text  string
		valid bool
	}){
		{MakeCode(OP_PRINT, Literal(42)), "print 42", true},
		{MakeCode(OP_READ), "read", true},
		{MakeCode(OP_PUSH, SLOT_RES), "push res", true},
		{MakeCode(OP_MOVE, Literal(1), SLOT_REG7), "move 1 reg7", true},
		{MakeCode(OP_IF, SLOT_REG1, 20), "if reg1 label20", true},
		{MakeCode(OP_CALL, 11), "call function11", true},
		{MakeCode(OP_STR, 12), "str string12", true},
		{MakeCode(OP_SUBTRACT, Literal(5), SLOT_REG1+2), "subtract 5 reg3", true},
		{MakeCode(OP_EXIT), "exit", true},
		{MakeCode(OP_EXIT, 1), "exit", false},
		{MakeCode(OP_MOVE, Literal(1), Literal(2)), "move 1 @2147483650", false},
		{MakeCode(OP_PRINT, 100), "print @100", false},
		{MakeCode(Op(20), 1, 2), "?20 1 2", false},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String())
		assert.Equal(entry.valid, entry.code.Valid(), entry.text)
	}
}

func TestCode_Words(t *testing.T) {
	assert := assert.New(t)

	code := MakeCode(OP_ADD, Literal(1), SLOT_REG1)
	words := code.Words()
	assert.Equal([CODE_WORDS]uint32{uint32(OP_ADD), Literal(1), SLOT_REG1}, words)

	mem := make([]uint32, 20)
	copy(mem[12:], words[:])
	assert.Equal(code, DecodeCode(mem, 12))
}
