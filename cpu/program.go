package cpu

import (
	"fmt"
	"io"
	"iter"
)

// Opcode is a line of assembled source and the instruction it produced.
type Opcode struct {
	LineNo int      // Source line of the mnemonic.
	Ip     uint32   // Address of the instruction.
	Words  []string // Source words of the instruction.
	Code   Code     // Encoded instruction.
}

// Program is an assembled image with its source listing.
type Program struct {
	Image   *Image
	Opcodes []Opcode
}

// Debug returns the listing entry of the instruction at ip, or nil.
func (prog *Program) Debug(ip uint32) (op *Opcode) {
	for n := range prog.Opcodes {
		if prog.Opcodes[n].Ip == ip {
			op = &prog.Opcodes[n]
			break
		}
	}

	return
}

// Codes iterates over the instructions of the listing, in address order.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(ip uint32, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Ip, op.Code) {
				return
			}
		}
	}
}

// Fprint writes the listing of the program, one instruction per line.
func (prog *Program) Fprint(w io.Writer) (err error) {
	for ip, code := range prog.Codes() {
		_, err = fmt.Fprintf(w, "%5d\t%v\n", ip, code)
		if err != nil {
			return
		}
	}

	return
}
