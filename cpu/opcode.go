package cpu

import (
	"fmt"
	"strings"
)

// Op is an instruction opcode.
type Op uint32

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_PRINT    = Op(0)  // print
	OP_READ     = Op(1)  // read
	OP_PUSH     = Op(2)  // push
	OP_POP      = Op(3)  // pop
	OP_MOVE     = Op(4)  // move
	OP_IF       = Op(5)  // if
	OP_CALL     = Op(6)  // call
	OP_EQUAL    = Op(7)  // equal
	OP_ADD      = Op(8)  // add
	OP_SUBTRACT = Op(9)  // subtract
	OP_PUSHADDR = Op(10) // pushaddr
	OP_RETURN   = Op(11) // return
	OP_EXIT     = Op(12) // exit
	OP_STR      = Op(13) // str

	OP_COUNT = 14
)

// Arg is the kind of an instruction operand.
type Arg int

//go:generate go tool stringer -linecomment -type=Arg
const (
	ARG_NONE     = Arg(0) // -
	ARG_VALUE    = Arg(1) // value
	ARG_REGISTER = Arg(2) // register
	ARG_LABEL    = Arg(3) // label
	ARG_FUNCTION = Arg(4) // function
	ARG_STRING   = Arg(5) // string
)

// opArgs lists the operand kinds of every opcode.
var opArgs = [OP_COUNT][2]Arg{
	OP_PRINT:    {ARG_VALUE, ARG_NONE},
	OP_READ:     {ARG_NONE, ARG_NONE},
	OP_PUSH:     {ARG_VALUE, ARG_NONE},
	OP_POP:      {ARG_NONE, ARG_NONE},
	OP_MOVE:     {ARG_VALUE, ARG_REGISTER},
	OP_IF:       {ARG_VALUE, ARG_LABEL},
	OP_CALL:     {ARG_FUNCTION, ARG_NONE},
	OP_EQUAL:    {ARG_VALUE, ARG_VALUE},
	OP_ADD:      {ARG_VALUE, ARG_VALUE},
	OP_SUBTRACT: {ARG_VALUE, ARG_VALUE},
	OP_PUSHADDR: {ARG_NONE, ARG_NONE},
	OP_RETURN:   {ARG_NONE, ARG_NONE},
	OP_EXIT:     {ARG_NONE, ARG_NONE},
	OP_STR:      {ARG_STRING, ARG_NONE},
}

// opMap maps mnemonics to opcodes.
var opMap = func() map[string]Op {
	ops := make(map[string]Op, OP_COUNT)
	for op := range Op(OP_COUNT) {
		ops[op.String()] = op
	}
	return ops
}()

// Valid returns true if the opcode is part of the instruction set.
func (op Op) Valid() bool {
	return op < OP_COUNT
}

// Args returns the operand kinds of the opcode.
func (op Op) Args() (args [2]Arg) {
	if op.Valid() {
		args = opArgs[op]
	}
	return
}

// Accepts returns true if word is an acceptable encoding for the operand kind.
// Symbol operands are only range checked; the symbol tables are not part of
// the image.
func (arg Arg) Accepts(word uint32) bool {
	switch arg {
	case ARG_NONE:
		return word == 0
	case ARG_VALUE:
		return IsLiteral(word) || IsRegister(word)
	case ARG_REGISTER:
		return IsRegister(word)
	case ARG_LABEL, ARG_FUNCTION, ARG_STRING:
		return word >= SLOT_FIRST_FREE && word < MEMORY_SIZE
	}

	return false
}

// Code is a single decoded instruction.
type Code struct {
	Op  Op
	Arg [2]uint32
}

// MakeCode creates an instruction.
func MakeCode(op Op, args ...uint32) (code Code) {
	code.Op = op
	copy(code.Arg[:], args)
	return
}

// DecodeCode decodes the instruction at addr. The caller ensures that
// addr+CODE_WORDS is within mem.
func DecodeCode(mem []uint32, addr uint32) Code {
	return Code{
		Op:  Op(mem[addr]),
		Arg: [2]uint32{mem[addr+1], mem[addr+2]},
	}
}

// Words returns the memory encoding of the instruction.
func (code Code) Words() [CODE_WORDS]uint32 {
	return [CODE_WORDS]uint32{uint32(code.Op), code.Arg[0], code.Arg[1]}
}

// Valid returns true if the opcode is known and every operand is acceptable
// for its kind.
func (code Code) Valid() bool {
	if !code.Op.Valid() {
		return false
	}

	for n, arg := range code.Op.Args() {
		if !arg.Accepts(code.Arg[n]) {
			return false
		}
	}

	return true
}

// operandString renders a single operand in assembly syntax.
func operandString(arg Arg, word uint32) string {
	switch arg {
	case ARG_VALUE:
		if IsLiteral(word) {
			return fmt.Sprintf("%d", LiteralValue(word))
		}
		fallthrough
	case ARG_REGISTER:
		name, ok := RegisterName(word)
		if !ok {
			return fmt.Sprintf("@%d", word)
		}
		return name
	case ARG_LABEL:
		return fmt.Sprintf("label%d", word)
	case ARG_FUNCTION:
		return fmt.Sprintf("function%d", word)
	case ARG_STRING:
		return fmt.Sprintf("string%d", word)
	}

	return ""
}

// String returns the assembly language representation of this instruction,
// using synthesized names for symbols.
func (code Code) String() string {
	if !code.Op.Valid() {
		return fmt.Sprintf("?%d %d %d", uint32(code.Op), code.Arg[0], code.Arg[1])
	}

	words := []string{code.Op.String()}
	for n, arg := range code.Op.Args() {
		if arg == ARG_NONE {
			continue
		}
		words = append(words, operandString(arg, code.Arg[n]))
	}

	return strings.Join(words, " ")
}
