package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Ip: 10, Words: []string{"move", "16", "reg1"},
				Code: MakeCode(OP_MOVE, Literal(16), SLOT_REG1)},
			{LineNo: 2, Ip: 13, Words: []string{"move", "32", "reg2"},
				Code: MakeCode(OP_MOVE, Literal(32), SLOT_REG1+1)},
			{LineNo: 4, Ip: 16, Words: []string{"add", "reg1", "reg2"},
				Code: MakeCode(OP_ADD, SLOT_REG1, SLOT_REG1+1)},
		},
	}

	dbg := prog.Debug(10)
	assert.NotNil(dbg)
	assert.Equal(1, dbg.LineNo)

	dbg = prog.Debug(13)
	assert.NotNil(dbg)
	assert.Equal(2, dbg.LineNo)

	dbg = prog.Debug(16)
	assert.NotNil(dbg)
	assert.Equal(4, dbg.LineNo)
	assert.Equal("add reg1 reg2", dbg.Code.String())
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Ip: 10, Words: []string{"exit"}, Code: MakeCode(OP_EXIT)},
		},
	}

	assert.Nil(prog.Debug(11))
	assert.Nil(prog.Debug(13))
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "commands print 1 print reg1 exit .")

	var ips []uint32
	var codes []Code
	for ip, code := range prog.Codes() {
		ips = append(ips, ip)
		codes = append(codes, code)
	}

	assert.Equal([]uint32{10, 13, 16}, ips)
	assert.Equal([]Code{
		MakeCode(OP_PRINT, Literal(1)),
		MakeCode(OP_PRINT, SLOT_REG1),
		MakeCode(OP_EXIT),
	}, codes)

	for ip, code := range prog.Codes() {
		assert.Equal(code, DecodeCode(prog.Image[:], ip))
		break
	}
}

func TestProgram_Fprint(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "commands print 1 print reg1 exit .")

	var sb strings.Builder
	assert.NoError(prog.Fprint(&sb))
	assert.Equal("   10\tprint 1\n   13\tprint reg1\n   16\texit\n", sb.String())
}
