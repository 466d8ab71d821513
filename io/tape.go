package io

import (
	"bufio"
	"io"
	"strconv"
)

// LITERAL_MAX is the largest number the console accepts.
const LITERAL_MAX = 0x7fff_ffff

// Tape provides a line buffered Console over a byte stream.
// Input is read as whitespace separated decimal tokens, and every
// write is a whole line, flushed as soon as it is written.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	scanner *bufio.Scanner
	writer  *bufio.Writer
}

var _ Console = (*Tape)(nil)

// NewTape returns a console reading from input and writing to output.
func NewTape(input io.Reader, output io.Writer) *Tape {
	return &Tape{
		Input:  input,
		Output: output,
	}
}

// Flush writes any buffered output.
func (tc *Tape) Flush() (err error) {
	if tc.writer == nil {
		return
	}
	return tc.writer.Flush()
}

// ReadNumber reads the next decimal token from the input.
func (tc *Tape) ReadNumber() (value uint32, err error) {
	if tc.Input == nil {
		err = ErrNoInput
		return
	}

	err = tc.Flush()
	if err != nil {
		return
	}

	if tc.scanner == nil {
		tc.scanner = bufio.NewScanner(tc.Input)
		tc.scanner.Split(bufio.ScanWords)
	}

	if !tc.scanner.Scan() {
		err = tc.scanner.Err()
		if err == nil {
			err = ErrInputEnd
		}
		return
	}

	token := tc.scanner.Text()
	for _, c := range token {
		if c < '0' || c > '9' {
			err = ErrInputNumber(token)
			return
		}
	}

	number, err := strconv.ParseUint(token, 10, 64)
	if err != nil || number > LITERAL_MAX {
		err = ErrInputTooLarge(token)
		return
	}

	value = uint32(number)

	return
}

// WriteNumber writes a decimal number and a newline.
func (tc *Tape) WriteNumber(value uint32) (err error) {
	return tc.writeLine(strconv.FormatUint(uint64(value), 10))
}

// WriteString writes the text and a newline.
func (tc *Tape) WriteString(text string) (err error) {
	return tc.writeLine(text)
}

func (tc *Tape) writeLine(line string) (err error) {
	if tc.Output == nil {
		err = ErrNoOutput
		return
	}

	if tc.writer == nil {
		tc.writer = bufio.NewWriter(tc.Output)
	}

	_, err = tc.writer.WriteString(line)
	if err != nil {
		return
	}

	err = tc.writer.WriteByte('\n')
	if err != nil {
		return
	}

	return tc.writer.Flush()
}
