package cpu

const (
	MEMORY_SIZE  = 65536       // Words in a memory image.
	CODE_WORDS   = 3           // Words in an instruction.
	LITERAL_BIAS = 0x8000_0000 // Tag bit of a literal word.
	LITERAL_MAX  = 0x7fff_ffff // Largest literal value.
)

// Reserved memory slots.
const (
	SLOT_IP         = 0  // Instruction pointer.
	SLOT_SP         = 1  // Stack pointer.
	SLOT_REG1       = 2  // First general purpose register.
	SLOT_REG7       = 8  // Last general purpose register.
	SLOT_RES        = 9  // Result register.
	SLOT_FIRST_FREE = 10 // First word available to the assembler.

	REGISTER_COUNT = SLOT_RES - SLOT_REG1 + 1
)

// registerMap maps register names to their slots.
var registerMap = map[string]uint32{
	"reg1": SLOT_REG1 + 0,
	"reg2": SLOT_REG1 + 1,
	"reg3": SLOT_REG1 + 2,
	"reg4": SLOT_REG1 + 3,
	"reg5": SLOT_REG1 + 4,
	"reg6": SLOT_REG1 + 5,
	"reg7": SLOT_REG1 + 6,
	"res":  SLOT_RES,
}

// registerNames is the inverse of registerMap, indexed by slot - SLOT_REG1.
var registerNames = [REGISTER_COUNT]string{
	"reg1", "reg2", "reg3", "reg4", "reg5", "reg6", "reg7", "res",
}

// Literal tags a value as a literal word.
func Literal(value uint32) uint32 {
	return (value & LITERAL_MAX) | LITERAL_BIAS
}

// IsLiteral returns true if the word is a tagged literal.
func IsLiteral(word uint32) bool {
	return (word & LITERAL_BIAS) != 0
}

// LiteralValue strips the literal tag from a word.
func LiteralValue(word uint32) uint32 {
	return word & LITERAL_MAX
}

// IsRegister returns true if the word addresses a register slot.
func IsRegister(word uint32) bool {
	return word >= SLOT_REG1 && word <= SLOT_RES
}

// RegisterName returns the assembly name of a register slot.
func RegisterName(slot uint32) (name string, ok bool) {
	if !IsRegister(slot) {
		return
	}

	return registerNames[slot-SLOT_REG1], true
}

// StringWords returns the number of words used by a packed string of length n.
func StringWords(n int) int {
	return (n+3)/4 + 1
}

// PackString packs text into words, four bytes per word with the first byte
// in the most significant position. The result always ends in a zero word.
func PackString(text string) (words []uint32) {
	words = make([]uint32, StringWords(len(text)))
	for n := range len(text) {
		words[n/4] |= uint32(text[n]) << (24 - 8*(n%4))
	}

	return
}

// UnpackString reads a packed string starting at addr. Reading stops at the
// first zero byte, or at the end of memory.
func UnpackString(mem []uint32, addr uint32) (text string, ok bool) {
	var buf []byte
	for n := int(addr); n < len(mem); n++ {
		word := mem[n]
		for shift := 24; shift >= 0; shift -= 8 {
			c := byte(word >> shift)
			if c == 0 {
				return string(buf), true
			}
			buf = append(buf, c)
		}
	}

	return string(buf), false
}
