package io

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTape_ReadNumber(t *testing.T) {
	assert := assert.New(t)

	tape := NewTape(strings.NewReader("  12\n7 2147483647\n\t0"), nil)

	for _, expected := range []uint32{12, 7, 0x7fff_ffff, 0} {
		value, err := tape.ReadNumber()
		assert.NoError(err)
		assert.Equal(expected, value)
	}

	_, err := tape.ReadNumber()
	assert.ErrorIs(err, ErrInputEnd)
}

func TestTape_ReadNumber_Invalid(t *testing.T) {
	assert := assert.New(t)

	table := map[string]error{
		"":                     ErrInputEnd,
		"   \n ":               ErrInputEnd,
		"abc":                  ErrInputNumber("abc"),
		"-1":                   ErrInputNumber("-1"),
		"12x":                  ErrInputNumber("12x"),
		"2147483648":           ErrInputTooLarge("2147483648"),
		"99999999999999999999": ErrInputTooLarge("99999999999999999999"),
	}

	for input, expected := range table {
		tape := NewTape(strings.NewReader(input), nil)
		_, err := tape.ReadNumber()
		assert.True(errors.Is(err, expected), "%q: %v", input, err)
	}
}

func TestTape_Write(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	tape := NewTape(nil, &out)

	assert.NoError(tape.WriteNumber(42))
	assert.Equal("42\n", out.String())

	assert.NoError(tape.WriteString("hello world"))
	assert.NoError(tape.WriteString(""))
	assert.NoError(tape.WriteNumber(0))
	assert.Equal("42\nhello world\n\n0\n", out.String())
}

func TestTape_Unattached(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}

	_, err := tape.ReadNumber()
	assert.ErrorIs(err, ErrNoInput)

	assert.ErrorIs(tape.WriteNumber(1), ErrNoOutput)
	assert.ErrorIs(tape.WriteString("x"), ErrNoOutput)
}
