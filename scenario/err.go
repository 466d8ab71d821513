package scenario

import (
	"errors"

	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

var (
	ErrNoScenarios = errors.New(f("manifest declares no scenarios"))
)

type ErrScenarioDuplicate string

func (err ErrScenarioDuplicate) Error() string {
	return f("scenario '%v' already declared", string(err))
}

// ErrOutputMismatch reports output differing from the expected output.
type ErrOutputMismatch struct {
	Expected string
	Got      string
}

func (err *ErrOutputMismatch) Error() string {
	return f("output %q, expected %q", err.Got, err.Expected)
}

// ErrErrorMismatch reports a run that failed differently than expected.
type ErrErrorMismatch struct {
	Expected string
	Got      error
}

func (err *ErrErrorMismatch) Error() string {
	if err.Got == nil {
		return f("no error, expected '%v'", err.Expected)
	}
	if len(err.Expected) == 0 {
		return f("unexpected error: %v", err.Got)
	}
	return f("error '%v', expected '%v'", err.Got, err.Expected)
}

func (err *ErrErrorMismatch) Unwrap() error {
	return err.Got
}

// ErrRoundTrip reports a disassembly that does not reproduce its program.
type ErrRoundTrip struct {
	Diff string
	Err  error
}

func (err *ErrRoundTrip) Error() string {
	if err.Err != nil {
		return f("round trip: %v", err.Err)
	}
	return f("round trip image differs:\n%v", err.Diff)
}

func (err *ErrRoundTrip) Unwrap() error {
	return err.Err
}

// ErrScenario locates a failure in a named scenario.
type ErrScenario struct {
	Name string
	Err  error
}

func (err *ErrScenario) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrScenario) Unwrap() error {
	return err.Err
}
