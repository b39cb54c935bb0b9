package cpu

import (
	"fmt"
)

// Opcode is a single LS-8 instruction byte, laid out as AABCDDDD:
// AA operand count, B ALU operation, C sets PC, DDDD identifier.
type Opcode byte

const (
	OP_NOP  = Opcode(0b0000_0000) // NOP
	OP_HLT  = Opcode(0b0000_0001) // HLT
	OP_RET  = Opcode(0b0001_0001) // RET
	OP_PUSH = Opcode(0b0100_0101) // PUSH
	OP_POP  = Opcode(0b0100_0110) // POP
	OP_PRN  = Opcode(0b0100_0111) // PRN
	OP_PRA  = Opcode(0b0100_1000) // PRA
	OP_CALL = Opcode(0b0101_0000) // CALL
	OP_JMP  = Opcode(0b0101_0100) // JMP
	OP_JEQ  = Opcode(0b0101_0101) // JEQ
	OP_JNE  = Opcode(0b0101_0110) // JNE
	OP_JGT  = Opcode(0b0101_0111) // JGT
	OP_JLT  = Opcode(0b0101_1000) // JLT
	OP_JLE  = Opcode(0b0101_1001) // JLE
	OP_JGE  = Opcode(0b0101_1010) // JGE
	OP_INC  = Opcode(0b0110_0101) // INC
	OP_DEC  = Opcode(0b0110_0110) // DEC
	OP_NOT  = Opcode(0b0110_1001) // NOT
	OP_LDI  = Opcode(0b1000_0010) // LDI
	OP_LD   = Opcode(0b1000_0011) // LD
	OP_ST   = Opcode(0b1000_0100) // ST
	OP_ADD  = Opcode(0b1010_0000) // ADD
	OP_SUB  = Opcode(0b1010_0001) // SUB
	OP_MUL  = Opcode(0b1010_0010) // MUL
	OP_DIV  = Opcode(0b1010_0011) // DIV
	OP_MOD  = Opcode(0b1010_0100) // MOD
	OP_CMP  = Opcode(0b1010_0111) // CMP
	OP_AND  = Opcode(0b1010_1000) // AND
	OP_OR   = Opcode(0b1010_1010) // OR
	OP_XOR  = Opcode(0b1010_1011) // XOR
	OP_SHL  = Opcode(0b1010_1100) // SHL
	OP_SHR  = Opcode(0b1010_1101) // SHR
)

var _opcodeNames = map[Opcode]string{
	OP_NOP:  "NOP",
	OP_HLT:  "HLT",
	OP_RET:  "RET",
	OP_PUSH: "PUSH",
	OP_POP:  "POP",
	OP_PRN:  "PRN",
	OP_PRA:  "PRA",
	OP_CALL: "CALL",
	OP_JMP:  "JMP",
	OP_JEQ:  "JEQ",
	OP_JNE:  "JNE",
	OP_JGT:  "JGT",
	OP_JLT:  "JLT",
	OP_JLE:  "JLE",
	OP_JGE:  "JGE",
	OP_INC:  "INC",
	OP_DEC:  "DEC",
	OP_NOT:  "NOT",
	OP_LDI:  "LDI",
	OP_LD:   "LD",
	OP_ST:   "ST",
	OP_ADD:  "ADD",
	OP_SUB:  "SUB",
	OP_MUL:  "MUL",
	OP_DIV:  "DIV",
	OP_MOD:  "MOD",
	OP_CMP:  "CMP",
	OP_AND:  "AND",
	OP_OR:   "OR",
	OP_XOR:  "XOR",
	OP_SHL:  "SHL",
	OP_SHR:  "SHR",
}

// opcodeByName maps mnemonics back to opcodes, for the assembler.
var opcodeByName = func() map[string]Opcode {
	names := make(map[string]Opcode, len(_opcodeNames))
	for op, name := range _opcodeNames {
		names[name] = op
	}
	return names
}()

// Operands returns the number of operand bytes following the opcode.
func (op Opcode) Operands() int {
	return int(op >> 6)
}

// Size returns the encoded length of the instruction, opcode included.
func (op Opcode) Size() uint16 {
	return uint16(op.Operands()) + 1
}

// IsAlu returns true if the instruction is executed by the ALU.
func (op Opcode) IsAlu() bool {
	return (op>>5)&1 == 1
}

// SetsPc returns true if the instruction assigns the PC directly.
func (op Opcode) SetsPc() bool {
	return (op>>4)&1 == 1
}

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := _opcodeNames[op]
	return ok
}

// String returns the mnemonic of the opcode.
func (op Opcode) String() string {
	name, ok := _opcodeNames[op]
	if !ok {
		return fmt.Sprintf("0x%02X", byte(op))
	}
	return name
}

// AluOp is an ALU operation type.
type AluOp int

const (
	ALU_OP_ADD = AluOp(0)  // add
	ALU_OP_SUB = AluOp(1)  // sub
	ALU_OP_MUL = AluOp(2)  // mul
	ALU_OP_DIV = AluOp(3)  // div
	ALU_OP_MOD = AluOp(4)  // mod
	ALU_OP_AND = AluOp(5)  // and
	ALU_OP_OR  = AluOp(6)  // or
	ALU_OP_XOR = AluOp(7)  // xor
	ALU_OP_SHL = AluOp(8)  // shl
	ALU_OP_SHR = AluOp(9)  // shr
	ALU_OP_NOT = AluOp(10) // not
	ALU_OP_INC = AluOp(11) // inc
	ALU_OP_DEC = AluOp(12) // dec
)

var _aluOpNames = [...]string{
	ALU_OP_ADD: "add",
	ALU_OP_SUB: "sub",
	ALU_OP_MUL: "mul",
	ALU_OP_DIV: "div",
	ALU_OP_MOD: "mod",
	ALU_OP_AND: "and",
	ALU_OP_OR:  "or",
	ALU_OP_XOR: "xor",
	ALU_OP_SHL: "shl",
	ALU_OP_SHR: "shr",
	ALU_OP_NOT: "not",
	ALU_OP_INC: "inc",
	ALU_OP_DEC: "dec",
}

func (op AluOp) String() string {
	if op < 0 || int(op) >= len(_aluOpNames) {
		return fmt.Sprintf("AluOp(%d)", int(op))
	}
	return _aluOpNames[op]
}

// Flag is the FL register bitfield, set by CMP.
type Flag byte

const (
	FLAG_EQUAL   = Flag(1 << 0) // E
	FLAG_GREATER = Flag(1 << 1) // G
	FLAG_LESS    = Flag(1 << 2) // L
)

// String returns the flags as 'LGE', with '-' for clear bits.
func (fl Flag) String() string {
	out := []byte("---")
	if fl&FLAG_LESS != 0 {
		out[0] = 'L'
	}
	if fl&FLAG_GREATER != 0 {
		out[1] = 'G'
	}
	if fl&FLAG_EQUAL != 0 {
		out[2] = 'E'
	}
	return string(out)
}

// Mode selects how out-of-range addresses and register indexes are handled.
type Mode int

const (
	MODE_STRICT     = Mode(0) // strict
	MODE_COMPATIBLE = Mode(1) // compatible
)

func (mode Mode) String() string {
	switch mode {
	case MODE_STRICT:
		return "strict"
	case MODE_COMPATIBLE:
		return "compatible"
	}
	return fmt.Sprintf("Mode(%d)", int(mode))
}

// Quirk is a set of legacy behaviors that may be enabled on the CPU.
type Quirk uint

const (
	// RET also writes the popped return address into the register
	// named by the byte following the RET opcode.
	QUIRK_RET_REGISTER = Quirk(1 << 0)
	// CMP prints the resulting FL value to the console.
	QUIRK_CMP_PRINT = Quirk(1 << 1)
	// 0x00 is an unknown instruction rather than NOP, so zero-filled
	// memory past the end of a program halts it.
	QUIRK_ZERO_UNKNOWN = Quirk(1 << 2)

	QUIRK_NONE = Quirk(0)
	QUIRK_ALL  = QUIRK_RET_REGISTER | QUIRK_CMP_PRINT | QUIRK_ZERO_UNKNOWN
)
