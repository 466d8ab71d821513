package cpu

import (
	"errors"

	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

var (
	// Error kinds
	ErrInvalidFile       = errors.New(f("invalid file"))
	ErrInvalidSyntax     = errors.New(f("syntax error"))
	ErrInvalidArguments  = errors.New(f("invalid arguments"))
	ErrResourceExhausted = errors.New(f("resource exhausted"))

	// Cpu errors
	ErrExit         = errors.New(f("exit"))
	ErrRegisterLoop = errors.New(f("register indirection loop"))
	ErrStackEmpty   = errors.New(f("stack empty"))
	ErrStackFull    = errors.New(f("stack full"))

	// Image errors
	ErrImageLayout = errors.New(f("image layout not recognized"))

	// Assembler errors
	ErrImageFull          = errors.New(f("image full"))
	ErrUnexpectedEnd      = errors.New(f("unexpected end of input"))
	ErrTrailingInput      = errors.New(f("input after end of program"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrStringText         = errors.New(f("string text contains a NUL byte"))
)

// ErrKind tags an error with its kind: one of ErrInvalidFile, ErrInvalidSyntax,
// ErrInvalidArguments or ErrResourceExhausted.
type ErrKind struct {
	Kind error
	Err  error
}

func (err *ErrKind) Error() string {
	return f("%v: %v", err.Kind, err.Err)
}

func (err *ErrKind) Unwrap() []error {
	return []error{err.Kind, err.Err}
}

func invalidFile(err error) error {
	return &ErrKind{Kind: ErrInvalidFile, Err: err}
}

func invalidArguments(err error) error {
	return &ErrKind{Kind: ErrInvalidArguments, Err: err}
}

func resourceExhausted(err error) error {
	return &ErrKind{Kind: ErrResourceExhausted, Err: err}
}

type ErrImageSize int

func (err ErrImageSize) Error() string {
	return f("image is %v bytes, expected %v", int(err), IMAGE_BYTES)
}

type ErrOpcode uint32

func (err ErrOpcode) Error() string {
	return f("bad opcode %v", uint32(err))
}

type ErrRegisterIndex uint32

func (err ErrRegisterIndex) Error() string {
	return f("word %v is not a register", uint32(err))
}

type ErrIpRange uint32

func (err ErrIpRange) Error() string {
	return f("instruction pointer %v out of range", uint32(err))
}

type ErrAddressRange uint32

func (err ErrAddressRange) Error() string {
	return f("address %v out of range", uint32(err))
}

type ErrSubtractNegative struct {
	Minuend    uint32
	Subtrahend uint32
}

func (err ErrSubtractNegative) Error() string {
	return f("minuend %v is less than subtrahend %v", err.Minuend, err.Subtrahend)
}

type ErrKeywordMissing string

func (err ErrKeywordMissing) Error() string {
	return f("expected '%v'", string(err))
}

type ErrStringDuplicate string

func (err ErrStringDuplicate) Error() string {
	return f("string %v already defined", string(err))
}

type ErrLabelDuplicate string

func (err ErrLabelDuplicate) Error() string {
	return f("label %v already declared", string(err))
}

type ErrFunctionDuplicate string

func (err ErrFunctionDuplicate) Error() string {
	return f("function %v already defined", string(err))
}

type ErrLabelRedefined string

func (err ErrLabelRedefined) Error() string {
	return f("label %v already placed", string(err))
}

type ErrStringUndeclared string

func (err ErrStringUndeclared) Error() string {
	return f("string %v unknown", string(err))
}

type ErrLabelUndeclared string

func (err ErrLabelUndeclared) Error() string {
	return f("label %v unknown", string(err))
}

type ErrFunctionUndeclared string

func (err ErrFunctionUndeclared) Error() string {
	return f("function %v unknown", string(err))
}

type ErrLabelMissing string

func (err ErrLabelMissing) Error() string {
	return f("label %v missing", string(err))
}

type ErrRegisterInvalid string

func (err ErrRegisterInvalid) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or register", string(err))
}

type ErrNumberTooLarge string

func (err ErrNumberTooLarge) Error() string {
	return f("number %v is too large", string(err))
}

// ErrSyntax locates an assembly error in the source text.
type ErrSyntax struct {
	LineNo int
	Token  string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Token, err.Err)
}

func (err *ErrSyntax) Unwrap() []error {
	return []error{ErrInvalidSyntax, err.Err}
}
