package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteral(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint32(0x8000_0000), Literal(0))
	assert.Equal(uint32(0xffff_ffff), Literal(LITERAL_MAX))
	// Values wrap, never disturbing the tag.
	assert.Equal(Literal(0), Literal(LITERAL_MAX+1))

	assert.True(IsLiteral(Literal(7)))
	assert.False(IsLiteral(SLOT_RES))
	assert.Equal(uint32(7), LiteralValue(Literal(7)))
}

func TestRegister(t *testing.T) {
	assert := assert.New(t)

	for name, slot := range registerMap {
		assert.True(IsRegister(slot))
		got, ok := RegisterName(slot)
		assert.True(ok)
		assert.Equal(name, got)
	}

	for _, slot := range []uint32{SLOT_IP, SLOT_SP, SLOT_FIRST_FREE, Literal(2)} {
		assert.False(IsRegister(slot))
		_, ok := RegisterName(slot)
		assert.False(ok)
	}

	assert.Equal(uint32(SLOT_REG7), registerMap["reg7"])
	assert.Equal(uint32(SLOT_RES), registerMap["res"])
}

func TestPackString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]uint32{0}, PackString(""))
	assert.Equal([]uint32{0x4869_0000, 0}, PackString("Hi"))
	assert.Equal([]uint32{0x4865_6c6c, 0x6f00_0000, 0}, PackString("Hello"))

	for n := range 10 {
		assert.Equal(n/4+1+min(n%4, 1), StringWords(n))
	}
}

func TestUnpackString(t *testing.T) {
	assert := assert.New(t)

	mem := make([]uint32, 16)
	copy(mem[3:], PackString("Hello, world"))

	text, ok := UnpackString(mem, 3)
	assert.True(ok)
	assert.Equal("Hello, world", text)

	text, ok = UnpackString(mem, 4)
	assert.True(ok)
	assert.Equal("o, world", text)

	// Unterminated
	mem[15] = 0x41424344
	text, ok = UnpackString(mem, 15)
	assert.False(ok)
	assert.Equal("ABCD", text)

	_, ok = UnpackString(mem, 16)
	assert.False(ok)
}
