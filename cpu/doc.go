// Package cpu implements the processor, image loader and assembler for the
// LS-8 system.
//
// The LS-8 has a program counter (PC), eight 8-bit registers (R0-R7, with
// R7 serving as the stack pointer), a flags register (FL) and 256 bytes of
// memory holding code, data and a downward-growing stack.
//
// Each opcode byte indexes a handler table. A handler is the only place
// the PC moves: it either adds the encoded length of its instruction or
// assigns the PC directly.
//
// The assembler provides a small assembly language for the LS-8 instruction
// set, supporting labels, equates, data directives and compile-time
// expression evaluation.
package cpu
