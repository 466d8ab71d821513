// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/stackvm/cpu"
	"github.com/ezrec/stackvm/internal"
	"github.com/ezrec/stackvm/io"
)

// Emulator state. CPU + console.
type Emulator struct {
	Verbose  bool               // If set, enables verbose logging.
	Log      logrus.FieldLogger // Logger for verbose output.
	*cpu.Cpu                    // Reference to the CPU simulation.
	Program  *cpu.Program       // Reference to the currently running program listing.

	Tape io.Tape // Console of the program.

	MaxTicks int // If non-zero, the most instructions a run may execute.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
	}

	emu.Cpu = cpu.NewCpu(&emu.Tape)

	return
}

// Load a program, and reset the emulator to its entry point.
func (emu *Emulator) Load(prog *cpu.Program) (err error) {
	emu.Program = prog

	return emu.Reset()
}

// Reset the machine to the entry point of the program.
func (emu *Emulator) Reset() (err error) {
	if emu.Program == nil || emu.Program.Image == nil {
		err = ErrNoProgram
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Log = emu.Log

	return emu.Cpu.Reset(emu.Program.Image)
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Cpu.Ip())
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	code, _ := emu.Cpu.FetchCode()
	return code
}

// LineNo returns the current line number for the executing opcode,
// or 0 if the program has no listing for it.
func (emu *Emulator) LineNo() int {
	op := emu.Program.Debug(emu.Cpu.Ip())
	if op == nil {
		return 0
	}

	return op.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Log = emu.Log

	lineno := emu.LineNo()
	ip := emu.Cpu.Ip()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: ip, Err: err}
		}
	}()

	if emu.MaxTicks > 0 && emu.Cpu.Ticks >= emu.MaxTicks {
		err = &cpu.ErrKind{Kind: cpu.ErrResourceExhausted, Err: ErrTickLimit(emu.MaxTicks)}
		return
	}

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrExit) {
		err = nil
		done = true
	}

	return
}

// Run ticks the emulator until the program ends.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			break
		}
	}

	if emu.Verbose {
		internal.Logger(emu.Log).WithFields(logrus.Fields{
			"ip":    emu.Cpu.Ip(),
			"ticks": emu.Cpu.Ticks,
		}).Debug("emulator: stopped")
	}

	if err != nil {
		return
	}

	return emu.Tape.Flush()
}
