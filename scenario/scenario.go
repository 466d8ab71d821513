// Package scenario loads and checks Starlark scenario manifests.
//
// A manifest is a Starlark file calling the scenario() builtin once per
// scenario:
//
//	scenario(
//	    name = "add",
//	    source = """
//	        commands move 2 reg1 add reg1 3 print res .
//	    """,
//	    output = "5\n",
//	)
//
// Each scenario is assembled and run with its input, and its output (or
// error) compared with the expectation. The image is then disassembled and
// re-assembled, and must be identical, and must run the same.
package scenario

import (
	"bytes"
	"errors"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/stackvm/cpu"
	"github.com/ezrec/stackvm/emulator"
	"github.com/ezrec/stackvm/internal"
)

// DEFAULT_MAX_TICKS bounds the run of a scenario without max_ticks.
const DEFAULT_MAX_TICKS = 1 << 20

// Scenario is a single program and its expected behaviour.
type Scenario struct {
	Name     string // Unique name in the manifest.
	Source   string // Assembly source.
	Input    string // Console input.
	Output   string // Expected console output.
	Error    string // If set, a substring of the expected error.
	MaxTicks int    // Instruction budget of a run.

	Verbose bool               // If set, traces the runs.
	Log     logrus.FieldLogger // Logger for verbose output.
}

// Manifest is a loaded scenario file.
type Manifest struct {
	Filename  string
	Scenarios []*Scenario
}

// Loader reads manifests, with the logging of the scenarios they declare.
type Loader struct {
	Verbose bool               // If set, scenarios trace their runs.
	Log     logrus.FieldLogger // Logger for print() and verbose output.
}

// Load executes a Starlark manifest with the default Loader.
func Load(filename string, src any) (manifest *Manifest, err error) {
	loader := &Loader{}
	return loader.Load(filename, src)
}

// Load executes a Starlark manifest. src may be anything accepted by
// starlark.ExecFileOptions; if nil, filename is read.
func (ld *Loader) Load(filename string, src any) (manifest *Manifest, err error) {
	manifest = &Manifest{Filename: filename}
	names := make(map[string]bool)
	log := internal.Logger(ld.Log).WithField("manifest", filename)

	builtin := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		sc := &Scenario{Verbose: ld.Verbose, Log: ld.Log}
		err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"name", &sc.Name,
			"source", &sc.Source,
			"input?", &sc.Input,
			"output?", &sc.Output,
			"error?", &sc.Error,
			"max_ticks?", &sc.MaxTicks,
		)
		if err != nil {
			return nil, err
		}

		if names[sc.Name] {
			return nil, ErrScenarioDuplicate(sc.Name)
		}
		names[sc.Name] = true

		manifest.Scenarios = append(manifest.Scenarios, sc)

		return starlark.None, nil
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(thread *starlark.Thread, msg string) {
			log.Info(msg)
		},
	}
	predeclared := starlark.StringDict{
		"scenario": starlark.NewBuiltin("scenario", builtin),
	}

	_, err = starlark.ExecFileOptions(&syntax.FileOptions{}, thread, filename, src, predeclared)
	if err != nil {
		manifest = nil
		return
	}

	if len(manifest.Scenarios) == 0 {
		manifest = nil
		err = ErrNoScenarios
		return
	}

	return
}

// Run checks every scenario of the manifest, returning all failures.
func (m *Manifest) Run() (err error) {
	var errs []error
	for _, sc := range m.Scenarios {
		errs = append(errs, sc.Run())
	}

	return errors.Join(errs...)
}

func (sc *Scenario) log() logrus.FieldLogger {
	return internal.Logger(sc.Log).WithField("scenario", sc.Name)
}

// execute runs a program to completion.
func (sc *Scenario) execute(prog *cpu.Program) (output string, err error) {
	emu := emulator.NewEmulator()
	emu.Verbose = sc.Verbose
	emu.Log = sc.log()
	emu.MaxTicks = sc.MaxTicks
	if emu.MaxTicks == 0 {
		emu.MaxTicks = DEFAULT_MAX_TICKS
	}

	err = emu.Load(prog)
	if err != nil {
		return
	}

	var buf bytes.Buffer
	emu.Tape.Input = strings.NewReader(sc.Input)
	emu.Tape.Output = &buf

	err = emu.Run()
	output = buf.String()

	if sc.Verbose {
		sc.log().WithFields(logrus.Fields{
			"ticks": emu.Ticks(),
			"error": err,
		}).Debug("scenario: run")
	}

	return
}

// check compares the result of a run with the expectation.
func (sc *Scenario) check(output string, err error) error {
	if len(sc.Error) != 0 {
		if err == nil || !strings.Contains(err.Error(), sc.Error) {
			return &ErrErrorMismatch{Expected: sc.Error, Got: err}
		}
	} else if err != nil {
		return &ErrErrorMismatch{Got: err}
	}

	if output != sc.Output {
		return &ErrOutputMismatch{Expected: sc.Output, Got: output}
	}

	return nil
}

// Run assembles and runs the scenario, then checks that its disassembly
// re-assembles to the same image, with the same behaviour.
func (sc *Scenario) Run() (err error) {
	defer func() {
		if err != nil {
			err = &ErrScenario{Name: sc.Name, Err: err}
		}
	}()

	asm := &cpu.Assembler{Verbose: sc.Verbose, Log: sc.log()}
	prog, err := asm.Parse(strings.NewReader(sc.Source))
	if err != nil {
		// Expected assembly failures end the scenario.
		return sc.check("", err)
	}

	output, runErr := sc.execute(prog)
	err = sc.check(output, runErr)
	if err != nil {
		return
	}

	dis := &cpu.Disassembler{Verbose: sc.Verbose, Log: sc.log()}
	text, err := dis.Disassemble(prog.Image)
	if err != nil {
		err = &ErrRoundTrip{Err: err}
		return
	}

	dup, err := asm.Parse(strings.NewReader(text))
	if err != nil {
		err = &ErrRoundTrip{Err: err}
		return
	}

	if diff := cmp.Diff(prog.Image, dup.Image); len(diff) != 0 {
		err = &ErrRoundTrip{Diff: diff}
		return
	}

	dupOutput, dupErr := sc.execute(dup)
	if dupOutput != output || (dupErr == nil) != (runErr == nil) {
		err = &ErrRoundTrip{Err: &ErrOutputMismatch{Expected: output, Got: dupOutput}}
		return
	}

	if sc.Verbose {
		sc.log().Debug("scenario: passed")
	}

	return
}
