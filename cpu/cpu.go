// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/stackvm/internal"
	"github.com/ezrec/stackvm/io"
)

// Console is the I/O interface of the machine.
type Console io.Console

// Cpu is the execution context of the stack machine.
type Cpu struct {
	Verbose bool               // Set to enable verbose logging.
	Log     logrus.FieldLogger // Destination of verbose logging.

	Memory  *Image  // Working copy of the loaded image.
	Stack   Stack   // Stack, above the program.
	Console Console // Console for print, read and str.

	Ticks int // Instructions executed.
}

// NewCpu creates a new machine attached to a console.
func NewCpu(console Console) (cpu *Cpu) {
	cpu = &Cpu{
		Console: console,
	}
	cpu.load(NewImage())

	return
}

func (cpu *Cpu) load(img *Image) {
	cpu.Memory = img
	cpu.Stack = Stack{Memory: img, Base: img.Sp()}
	cpu.Ticks = 0
}

// Ip returns the current instruction pointer.
func (cpu *Cpu) Ip() uint32 {
	return cpu.Memory[SLOT_IP]
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %v\n", "ip", cpu.Ip())
	text += fmt.Sprintf("% 5s: %v\n", "sp", cpu.Stack.Pointer())
	for slot := uint32(SLOT_REG1); slot <= SLOT_RES; slot++ {
		name, _ := RegisterName(slot)
		word := cpu.Memory[slot]
		if IsLiteral(word) {
			text += fmt.Sprintf("% 5s: %v\n", name, LiteralValue(word))
		} else {
			text += fmt.Sprintf("% 5s: @%v\n", name, word)
		}
	}
	if top, ok := cpu.Stack.Peek(); ok {
		text += fmt.Sprintf("% 5s: %v\n", "top", LiteralValue(top))
	} else {
		text += fmt.Sprintf("% 5s: %v\n", "top", "-")
	}

	return
}

// Reset loads a copy of an image, and sets the stack base from its
// stack pointer.
func (cpu *Cpu) Reset(img *Image) (err error) {
	sp := img.Sp()
	if sp < SLOT_FIRST_FREE || sp > MEMORY_SIZE {
		err = invalidFile(ErrAddressRange(sp))
		return
	}

	ip := img.Ip()
	if ip < SLOT_FIRST_FREE || ip > sp {
		err = invalidFile(ErrIpRange(ip))
		return
	}

	if cpu.Verbose {
		internal.Logger(cpu.Log).WithFields(logrus.Fields{
			"ip": ip,
			"sp": sp,
		}).Debug("cpu: reset")
	}

	cpu.load(img.Clone())

	return
}

// FetchCode fetches the instruction at the instruction pointer.
// Reaching the stack base ends the program, as if by exit.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	ip := cpu.Ip()
	if ip == cpu.Stack.Base {
		err = ErrExit
		return
	}

	if ip < SLOT_FIRST_FREE || ip > cpu.Stack.Base-CODE_WORDS {
		err = invalidFile(ErrIpRange(ip))
		return
	}

	code = DecodeCode(cpu.Memory[:], ip)

	return
}

// Tick executes a single instruction.
// ErrExit is returned when the program ends.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)

	return
}

// handler executes an instruction, returning the next instruction pointer.
type handler func(cpu *Cpu, code Code, next uint32) (uint32, error)

var handlers = [OP_COUNT]handler{
	OP_PRINT:    (*Cpu).execPrint,
	OP_READ:     (*Cpu).execRead,
	OP_PUSH:     (*Cpu).execPush,
	OP_POP:      (*Cpu).execPop,
	OP_MOVE:     (*Cpu).execMove,
	OP_IF:       (*Cpu).execIf,
	OP_CALL:     (*Cpu).execCall,
	OP_EQUAL:    (*Cpu).execEqual,
	OP_ADD:      (*Cpu).execAdd,
	OP_SUBTRACT: (*Cpu).execSubtract,
	OP_PUSHADDR: (*Cpu).execPushaddr,
	OP_RETURN:   (*Cpu).execReturn,
	OP_EXIT:     (*Cpu).execExit,
	OP_STR:      (*Cpu).execStr,
}

// Execute executes a single decoded instruction at the instruction pointer.
func (cpu *Cpu) Execute(code Code) (err error) {
	if cpu.Verbose {
		internal.Logger(cpu.Log).WithFields(logrus.Fields{
			"ip":    cpu.Ip(),
			"sp":    cpu.Stack.Pointer(),
			"ticks": cpu.Ticks,
		}).Debugf("cpu: %v", code)
	}

	if !code.Op.Valid() {
		err = invalidFile(ErrOpcode(code.Op))
		return
	}

	cpu.Ticks++

	next, err := handlers[code.Op](cpu, code, cpu.Ip()+CODE_WORDS)
	if err != nil {
		return
	}

	cpu.Memory[SLOT_IP] = next

	return
}

// getValue decodes an operand word, following register indirection.
func (cpu *Cpu) getValue(word uint32) (value uint32, err error) {
	for range REGISTER_COUNT + 1 {
		if IsLiteral(word) {
			value = LiteralValue(word)
			return
		}
		if !IsRegister(word) {
			err = invalidFile(ErrRegisterIndex(word))
			return
		}
		word = cpu.Memory[word]
	}

	err = invalidFile(ErrRegisterLoop)
	return
}

// getSlot reads the entry point held by a label or function slot.
func (cpu *Cpu) getSlot(slot uint32) (value uint32, err error) {
	if slot < SLOT_FIRST_FREE || slot >= MEMORY_SIZE {
		err = invalidFile(ErrAddressRange(slot))
		return
	}

	value = cpu.Memory[slot]
	return
}

func (cpu *Cpu) setResult(value uint32) {
	cpu.Memory[SLOT_RES] = Literal(value)
}

func (cpu *Cpu) push(value uint32) (err error) {
	if !cpu.Stack.Push(Literal(value)) {
		err = resourceExhausted(ErrStackFull)
	}
	return
}

func (cpu *Cpu) execPrint(code Code, next uint32) (uint32, error) {
	value, err := cpu.getValue(code.Arg[0])
	if err != nil {
		return next, err
	}

	return next, cpu.Console.WriteNumber(value)
}

func (cpu *Cpu) execRead(code Code, next uint32) (uint32, error) {
	value, err := cpu.Console.ReadNumber()
	if err != nil {
		return next, invalidArguments(err)
	}

	cpu.setResult(value)

	return next, nil
}

func (cpu *Cpu) execPush(code Code, next uint32) (uint32, error) {
	value, err := cpu.getValue(code.Arg[0])
	if err != nil {
		return next, err
	}

	return next, cpu.push(value)
}

func (cpu *Cpu) execPop(code Code, next uint32) (uint32, error) {
	value, ok := cpu.Stack.Pop()
	if !ok {
		return next, invalidArguments(ErrStackEmpty)
	}

	cpu.Memory[SLOT_RES] = value

	return next, nil
}

func (cpu *Cpu) execMove(code Code, next uint32) (uint32, error) {
	value, err := cpu.getValue(code.Arg[0])
	if err != nil {
		return next, err
	}

	target := code.Arg[1]
	if !IsRegister(target) {
		return next, invalidFile(ErrRegisterIndex(target))
	}

	cpu.Memory[target] = Literal(value)

	return next, nil
}

func (cpu *Cpu) execIf(code Code, next uint32) (uint32, error) {
	value, err := cpu.getValue(code.Arg[0])
	if err != nil || value == 0 {
		return next, err
	}

	return cpu.getSlot(code.Arg[1])
}

func (cpu *Cpu) execCall(code Code, next uint32) (uint32, error) {
	return cpu.getSlot(code.Arg[0])
}

func (cpu *Cpu) execEqual(code Code, next uint32) (uint32, error) {
	a, err := cpu.getValue(code.Arg[0])
	if err != nil {
		return next, err
	}

	b, err := cpu.getValue(code.Arg[1])
	if err != nil {
		return next, err
	}

	if a == b {
		cpu.setResult(1)
	} else {
		cpu.setResult(0)
	}

	return next, nil
}

func (cpu *Cpu) execAdd(code Code, next uint32) (uint32, error) {
	a, err := cpu.getValue(code.Arg[0])
	if err != nil {
		return next, err
	}

	b, err := cpu.getValue(code.Arg[1])
	if err != nil {
		return next, err
	}

	// Wraps modulo 2^31.
	cpu.setResult(a + b)

	return next, nil
}

func (cpu *Cpu) execSubtract(code Code, next uint32) (uint32, error) {
	a, err := cpu.getValue(code.Arg[0])
	if err != nil {
		return next, err
	}

	b, err := cpu.getValue(code.Arg[1])
	if err != nil {
		return next, err
	}

	if a < b {
		return next, invalidArguments(ErrSubtractNegative{Minuend: a, Subtrahend: b})
	}

	cpu.setResult(a - b)

	return next, nil
}

func (cpu *Cpu) execPushaddr(code Code, next uint32) (uint32, error) {
	// The return address skips the call that follows.
	return next, cpu.push(next + CODE_WORDS)
}

func (cpu *Cpu) execReturn(code Code, next uint32) (uint32, error) {
	return cpu.getValue(SLOT_RES)
}

func (cpu *Cpu) execExit(code Code, next uint32) (uint32, error) {
	return next, ErrExit
}

func (cpu *Cpu) execStr(code Code, next uint32) (uint32, error) {
	addr := code.Arg[0]
	text, ok := UnpackString(cpu.Memory[:], addr)
	if !ok || addr < SLOT_FIRST_FREE {
		return next, invalidFile(ErrAddressRange(addr))
	}

	return next, cpu.Console.WriteString(text)
}
