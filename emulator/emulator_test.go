package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/stackvm/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.ErrorIs(emu.Reset(), ErrNoProgram)
}

func doRun(emu *Emulator, program []string, input string, t *testing.T) (output string, err error) {
	assert := assert.New(t)

	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.FailNow()
	}

	err = emu.Load(prog)
	assert.NoError(err)

	emu.Tape.Input = strings.NewReader(input)
	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	err = emu.Run()

	output = tape_output.String()
	return
}

func TestEmulatorSingle(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"commands",
		"  move 2 reg1",
		"  move 3 reg2",
		"  add reg1 reg2",
		"  print res",
		".",
	}

	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.NoError(emu.Load(prog))

	output := &bytes.Buffer{}
	emu.Tape.Output = output

	for _, op := range prog.Opcodes {
		assert.Equal(op.LineNo, emu.LineNo())
		assert.Equal(int(op.Ip), emu.Ip())
		assert.Equal(op.Code, emu.Code())
		done, err := emu.Tick()
		assert.NoError(err, program[op.LineNo-1])
		assert.False(done)
	}

	// Falling off the end of the program stops it.
	assert.Equal(0, emu.LineNo())
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)

	assert.Equal(4, emu.Ticks())
	assert.Equal("5\n", output.String())
}

func TestEmulatorFibonacci(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"strings",
		"  header Fibonacci numbers",
		".",
		"labels loop done .",
		"functions",
		"  next",
		"    commands",
		"      add reg1 reg2",
		"      move reg2 reg1",
		"      move res reg2",
		"      pop",
		"      return",
		"    .",
		".",
		"commands",
		"  str header",
		"  read",
		"  move res reg3",
		"  move 0 reg1",
		"  move 1 reg2",
		"  label loop",
		"  equal reg3 0",
		"  if res done",
		"  print reg1",
		"  pushaddr",
		"  call next",
		"  subtract reg3 1",
		"  move res reg3",
		"  if 1 loop",
		"  label done",
		"  exit",
		".",
	}

	output, err := doRun(emu, program, "7", t)
	assert.NoError(err)
	assert.Equal("Fibonacci numbers\n0\n1\n1\n2\n3\n5\n8\n", output)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"commands",
		"  print 1",
		"  subtract 1 2",
		"  print 2",
		".",
	}

	output, err := doRun(emu, program, "", t)
	assert.Equal("1\n", output)
	assert.ErrorIs(err, cpu.ErrInvalidArguments)
	assert.ErrorIs(err, cpu.ErrSubtractNegative{Minuend: 1, Subtrahend: 2})

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(3, runtime.LineNo)
		assert.Equal(uint32(13), runtime.Ip)
	}
}

func TestEmulatorReadError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"commands",
		"  read",
		"  print res",
		"  read",
		".",
	}

	output, err := doRun(emu, program, "5 x", t)
	assert.Equal("5\n", output)
	assert.ErrorIs(err, cpu.ErrInvalidArguments)
	assert.Contains(err.Error(), "line 4")
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.MaxTicks = 100
	program := []string{
		"labels forever .",
		"commands",
		"  label forever",
		"  if 1 forever",
		".",
	}

	_, err := doRun(emu, program, "", t)
	assert.ErrorIs(err, cpu.ErrResourceExhausted)
	assert.ErrorIs(err, ErrTickLimit(100))
	assert.Equal(100, emu.Ticks())
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"commands",
		"  push 1",
		"  push 2",
		"  exit",
		".",
	}

	_, err := doRun(emu, program, "", t)
	assert.NoError(err)
	assert.Equal(2, emu.Stack.Depth())

	assert.NoError(emu.Reset())
	assert.Equal(0, emu.Stack.Depth())
	assert.Equal(0, emu.Ticks())
	assert.Equal(10, emu.Ip())
}
