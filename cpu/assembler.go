// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/stackvm/internal"
)

// Section keywords, in the order they must appear.
const (
	KEYWORD_STRINGS   = "strings"
	KEYWORD_LABELS    = "labels"
	KEYWORD_FUNCTIONS = "functions"
	KEYWORD_COMMANDS  = "commands"
	KEYWORD_END       = "."
	KEYWORD_LABEL     = "label"
)

// Assembler is a single pass assembler for the stack machine.
//
// Symbol names share one flat namespace per table, no matter how deeply
// functions are nested in the source.
type Assembler struct {
	Verbose bool               // If set, verbosely logs the assembler actions.
	Log     logrus.FieldLogger // Logger for verbose output; defaults to the logrus standard logger.

	String   map[string]uint32 // Map of string names to string addresses.
	Label    map[string]uint32 // Map of label names to label slots.
	Function map[string]uint32 // Map of function names to function slots.

	image   *Image
	current uint32
	scan    *scanner
	placed  map[string]bool // Labels placed by a label statement.
	jumps   map[string]int  // Labels referenced by an instruction, to the first line using them.
	opcodes []Opcode
}

// Assemble assembles source text into a memory image.
func Assemble(input io.Reader) (img *Image, err error) {
	asm := &Assembler{}
	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	img = prog.Image
	return
}

func (asm *Assembler) log() logrus.FieldLogger {
	return internal.Logger(asm.Log)
}

// reset prepares the assembler for a new pass.
func (asm *Assembler) reset(input io.Reader) {
	asm.String = make(map[string]uint32)
	asm.Label = make(map[string]uint32)
	asm.Function = make(map[string]uint32)
	asm.placed = make(map[string]bool)
	asm.jumps = make(map[string]int)
	asm.opcodes = asm.opcodes[:0]

	asm.image = NewImage()
	asm.current = SLOT_FIRST_FREE
	asm.scan = newScanner(input)
}

// Parse parses an input stream into a Program holding the assembled image.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	asm.reset(input)

	defer func() {
		if err == nil {
			return
		}
		var syntax *ErrSyntax
		var kind *ErrKind
		if errors.As(err, &syntax) || errors.As(err, &kind) {
			return
		}
		err = &ErrSyntax{LineNo: asm.scan.tokenLine, Token: asm.scan.token, Err: err}
	}()

	err = asm.parseBody("")
	if err != nil {
		return
	}

	_, err = asm.scan.Next()
	switch {
	case err == io.EOF:
		err = nil
	case err == nil:
		err = ErrTrailingInput
		return
	default:
		err = invalidFile(err)
		return
	}

	for _, name := range slices.Sorted(maps.Keys(asm.jumps)) {
		if !asm.placed[name] {
			err = &ErrSyntax{LineNo: asm.jumps[name], Token: name, Err: ErrLabelMissing(name)}
			return
		}
	}

	asm.image[SLOT_SP] = asm.current

	if asm.Verbose {
		asm.log().WithFields(logrus.Fields{
			"ip": asm.image[SLOT_IP],
			"sp": asm.image[SLOT_SP],
		}).Debug("assembled")
	}

	prog = &Program{
		Image:   asm.image,
		Opcodes: slices.Clone(asm.opcodes),
	}

	return
}

// word returns the next token, which must exist.
func (asm *Assembler) word() (token string, err error) {
	token, err = asm.scan.Next()
	switch {
	case err == io.EOF:
		err = ErrUnexpectedEnd
	case err != nil:
		err = invalidFile(err)
	}
	return
}

// section consumes an optional section keyword, reporting if it was present.
func (asm *Assembler) section(keyword string, required bool) (present bool, err error) {
	token, err := asm.scan.Peek()
	if err != nil && err != io.EOF {
		err = invalidFile(err)
		return
	}

	if err == nil && token == keyword {
		_, _ = asm.scan.Next()
		present = true
		return
	}

	err = nil
	if required {
		err = ErrKeywordMissing(keyword)
	}

	return
}

// reserve allocates words at the cursor.
func (asm *Assembler) reserve(words int) (addr uint32, err error) {
	if int(asm.current)+words > MEMORY_SIZE {
		err = resourceExhausted(ErrImageFull)
		return
	}

	addr = asm.current
	asm.current += uint32(words)
	return
}

// parseBody parses the four sections of the program, or of the function
// named fn.
func (asm *Assembler) parseBody(fn string) (err error) {
	err = asm.parseStrings()
	if err != nil {
		return
	}

	err = asm.parseLabels()
	if err != nil {
		return
	}

	err = asm.parseFunctions()
	if err != nil {
		return
	}

	// The entry point is the first command.
	if len(fn) == 0 {
		asm.image[SLOT_IP] = asm.current
	} else {
		asm.image[asm.Function[fn]] = asm.current
	}

	return asm.parseCommands()
}

func (asm *Assembler) parseStrings() (err error) {
	present, err := asm.section(KEYWORD_STRINGS, false)
	if !present || err != nil {
		return
	}

	for {
		var name string
		name, err = asm.word()
		if err != nil || name == KEYWORD_END {
			return
		}

		if _, ok := asm.String[name]; ok {
			err = ErrStringDuplicate(name)
			return
		}

		var text string
		text, err = asm.scan.RestOfLine()
		if err != nil {
			err = invalidFile(err)
			return
		}
		if strings.IndexByte(text, 0) >= 0 {
			err = ErrStringText
			return
		}

		words := PackString(text)
		var addr uint32
		addr, err = asm.reserve(len(words))
		if err != nil {
			return
		}
		copy(asm.image[addr:], words)
		asm.String[name] = addr

		if asm.Verbose {
			asm.log().WithFields(logrus.Fields{"line": asm.scan.tokenLine, "addr": addr}).Debugf("string %v %q", name, text)
		}
	}
}

func (asm *Assembler) parseLabels() (err error) {
	present, err := asm.section(KEYWORD_LABELS, false)
	if !present || err != nil {
		return
	}

	for {
		var name string
		name, err = asm.word()
		if err != nil || name == KEYWORD_END {
			return
		}

		if _, ok := asm.Label[name]; ok {
			err = ErrLabelDuplicate(name)
			return
		}

		var addr uint32
		addr, err = asm.reserve(1)
		if err != nil {
			return
		}
		asm.Label[name] = addr

		if asm.Verbose {
			asm.log().WithFields(logrus.Fields{"line": asm.scan.tokenLine, "addr": addr}).Debugf("label %v", name)
		}
	}
}

func (asm *Assembler) parseFunctions() (err error) {
	present, err := asm.section(KEYWORD_FUNCTIONS, false)
	if !present || err != nil {
		return
	}

	for {
		var name string
		name, err = asm.word()
		if err != nil || name == KEYWORD_END {
			return
		}

		if _, ok := asm.Function[name]; ok {
			err = ErrFunctionDuplicate(name)
			return
		}

		var addr uint32
		addr, err = asm.reserve(1)
		if err != nil {
			return
		}
		asm.Function[name] = addr

		if asm.Verbose {
			asm.log().WithFields(logrus.Fields{"line": asm.scan.tokenLine, "addr": addr}).Debugf("function %v", name)
		}

		err = asm.parseBody(name)
		if err != nil {
			return
		}
	}
}

func (asm *Assembler) parseCommands() (err error) {
	_, err = asm.section(KEYWORD_COMMANDS, true)
	if err != nil {
		return
	}

	for {
		var word string
		word, err = asm.word()
		if err != nil || word == KEYWORD_END {
			return
		}

		if word == KEYWORD_LABEL {
			err = asm.placeLabel()
			if err != nil {
				return
			}
			continue
		}

		err = asm.parseInstruction(word)
		if err != nil {
			return
		}
	}
}

// placeLabel handles 'label NAME', pointing the label at the next instruction.
func (asm *Assembler) placeLabel() (err error) {
	name, err := asm.word()
	if err != nil {
		return
	}

	slot, ok := asm.Label[name]
	if !ok {
		err = ErrLabelUndeclared(name)
		return
	}
	if asm.placed[name] {
		err = ErrLabelRedefined(name)
		return
	}

	asm.placed[name] = true
	asm.image[slot] = asm.current

	return
}

// parseInstruction encodes a single instruction and its operands.
func (asm *Assembler) parseInstruction(mnemonic string) (err error) {
	op, ok := opMap[mnemonic]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	lineno := asm.scan.tokenLine
	words := []string{mnemonic}
	code := Code{Op: op}

	for n, arg := range op.Args() {
		if arg == ARG_NONE {
			continue
		}

		var word string
		word, err = asm.word()
		if err != nil {
			return
		}
		words = append(words, word)

		code.Arg[n], err = asm.operand(arg, word)
		if err != nil {
			return
		}
	}

	addr, err := asm.reserve(CODE_WORDS)
	if err != nil {
		return
	}
	encoded := code.Words()
	copy(asm.image[addr:], encoded[:])

	asm.opcodes = append(asm.opcodes, Opcode{LineNo: lineno, Ip: addr, Words: words, Code: code})

	if asm.Verbose {
		asm.log().WithFields(logrus.Fields{"line": lineno, "addr": addr}).Debugf("%v", strings.Join(words, " "))
	}

	return
}

// isNumber returns true if the word is a non-empty run of decimal digits.
func isNumber(word string) bool {
	if len(word) == 0 {
		return false
	}

	for _, c := range []byte(word) {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

// valueOf returns the literal encoding of a decimal number.
func valueOf(word string) (value uint32, err error) {
	if !isNumber(word) {
		err = ErrParseNumber(word)
		return
	}

	v64, err := strconv.ParseUint(word, 10, 64)
	if err != nil || v64 > LITERAL_MAX {
		err = ErrNumberTooLarge(word)
		return
	}

	value = Literal(uint32(v64))
	return
}

// operand encodes a single operand word of the given kind.
func (asm *Assembler) operand(arg Arg, word string) (value uint32, err error) {
	var ok bool

	switch arg {
	case ARG_VALUE:
		if isNumber(word) {
			return valueOf(word)
		}
		value, ok = registerMap[word]
		if !ok {
			err = ErrParseValue(word)
		}
	case ARG_REGISTER:
		value, ok = registerMap[word]
		if !ok {
			err = ErrRegisterInvalid(word)
		}
	case ARG_LABEL:
		value, ok = asm.Label[word]
		if !ok {
			err = ErrLabelUndeclared(word)
			return
		}
		if _, seen := asm.jumps[word]; !seen {
			asm.jumps[word] = asm.scan.tokenLine
		}
	case ARG_FUNCTION:
		value, ok = asm.Function[word]
		if !ok {
			err = ErrFunctionUndeclared(word)
		}
	case ARG_STRING:
		value, ok = asm.String[word]
		if !ok {
			err = ErrStringUndeclared(word)
		}
	}

	return
}
