package io

import (
	"errors"

	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

var (
	// Console errors
	ErrInputEnd = errors.New(f("end of input"))
	ErrNoInput  = errors.New(f("no input attached"))
	ErrNoOutput = errors.New(f("no output attached"))
)

type ErrInputNumber string

func (err ErrInputNumber) Error() string {
	return f("input '%v' is not a number", string(err))
}

type ErrInputTooLarge string

func (err ErrInputTooLarge) Error() string {
	return f("input %v is too large", string(err))
}
