// Package io provides the console used by the stack machine: integer and
// string output, and integer input.
package io

// Console is the line oriented interface between the machine and its user.
type Console interface {
	// ReadNumber blocks until an unsigned number is available on the input.
	ReadNumber() (value uint32, err error)
	// WriteNumber writes a number in decimal, followed by a newline.
	WriteNumber(value uint32) error
	// WriteString writes a string, followed by a newline.
	WriteString(text string) error
}
