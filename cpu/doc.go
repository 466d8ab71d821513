// Package cpu implements the stack machine, its assembler and its disassembler.
//
// The machine has a single flat memory of MEMORY_SIZE 32-bit words. The first
// words are reserved: the instruction pointer (ip), the stack pointer (sp),
// seven general purpose registers (reg1-reg7) and the result register (res).
// Everything else - strings, label and function slots, instructions and the
// stack - lives in the same array, laid out by the assembler in a single pass.
//
// A word with the high bit set is a literal; the remaining 31 bits are its
// value. A word with the high bit clear is an address, which for instruction
// operands always names a register slot.
//
// Every instruction is CODE_WORDS words long: the opcode followed by two
// operands, unused operands being zero.
package cpu
