package emulator

import (
	"errors"

	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

var (
	ErrNoProgram = errors.New(f("no program loaded"))
)

// ErrTickLimit is returned when a run exceeds its instruction budget.
type ErrTickLimit int

func (err ErrTickLimit) Error() string {
	return f("tick limit of %d exceeded", int(err))
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Ip     uint32
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("ip %d %v", err.Ip, err.Err)
	}
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
