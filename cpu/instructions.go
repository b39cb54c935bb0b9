package cpu

import (
	"fmt"
)

// handler executes one instruction. It must leave the PC at the next
// instruction to fetch.
type handler func(cpu *Cpu, op Opcode) error

// _handlers is indexed by opcode byte. A nil entry is an unknown instruction.
// ALU instructions other than CMP share opAlu.
var _handlers = func() (table [256]handler) {
	table = [256]handler{
		OP_NOP:  (*Cpu).opNop,
		OP_HLT:  (*Cpu).opHlt,
		OP_LDI:  (*Cpu).opLdi,
		OP_LD:   (*Cpu).opLd,
		OP_ST:   (*Cpu).opSt,
		OP_PRN:  (*Cpu).opPrn,
		OP_PRA:  (*Cpu).opPra,
		OP_PUSH: (*Cpu).opPush,
		OP_POP:  (*Cpu).opPop,
		OP_CALL: (*Cpu).opCall,
		OP_RET:  (*Cpu).opRet,
		OP_CMP:  (*Cpu).opCmp,
		OP_JMP:  (*Cpu).opJmp,
		OP_JEQ:  (*Cpu).opJump,
		OP_JNE:  (*Cpu).opJump,
		OP_JGT:  (*Cpu).opJump,
		OP_JLT:  (*Cpu).opJump,
		OP_JLE:  (*Cpu).opJump,
		OP_JGE:  (*Cpu).opJump,
	}

	for op := range _opcodeNames {
		if op.IsAlu() && table[op] == nil {
			table[op] = (*Cpu).opAlu
		}
	}

	return
}()

var _aluOps = map[Opcode]AluOp{
	OP_ADD: ALU_OP_ADD,
	OP_SUB: ALU_OP_SUB,
	OP_MUL: ALU_OP_MUL,
	OP_DIV: ALU_OP_DIV,
	OP_MOD: ALU_OP_MOD,
	OP_AND: ALU_OP_AND,
	OP_OR:  ALU_OP_OR,
	OP_XOR: ALU_OP_XOR,
	OP_SHL: ALU_OP_SHL,
	OP_SHR: ALU_OP_SHR,
	OP_NOT: ALU_OP_NOT,
	OP_INC: ALU_OP_INC,
	OP_DEC: ALU_OP_DEC,
}

var _jumpConds = map[Opcode]func(fl Flag) bool{
	OP_JEQ: func(fl Flag) bool { return fl&FLAG_EQUAL != 0 },
	OP_JNE: func(fl Flag) bool { return fl&FLAG_EQUAL == 0 },
	OP_JGT: func(fl Flag) bool { return fl&FLAG_GREATER != 0 },
	OP_JLT: func(fl Flag) bool { return fl&FLAG_LESS != 0 },
	OP_JLE: func(fl Flag) bool { return fl&(FLAG_LESS|FLAG_EQUAL) != 0 },
	OP_JGE: func(fl Flag) bool { return fl&(FLAG_GREATER|FLAG_EQUAL) != 0 },
}

func (cpu *Cpu) opNop(op Opcode) (err error) {
	cpu.advance(op)
	return
}

// opHlt leaves the PC on the HLT instruction.
func (cpu *Cpu) opHlt(op Opcode) (err error) {
	cpu.Halted = true
	return
}

func (cpu *Cpu) opLdi(op Opcode) (err error) {
	reg, err := cpu.operandRegister(1)
	if err != nil {
		return
	}
	value, err := cpu.operand(2)
	if err != nil {
		return
	}

	*reg = value
	cpu.advance(op)
	return
}

func (cpu *Cpu) opLd(op Opcode) (err error) {
	reg_a, err := cpu.operandRegister(1)
	if err != nil {
		return
	}
	reg_b, err := cpu.operandRegister(2)
	if err != nil {
		return
	}
	value, err := cpu.MemoryRead(uint16(*reg_b))
	if err != nil {
		return
	}

	*reg_a = value
	cpu.advance(op)
	return
}

func (cpu *Cpu) opSt(op Opcode) (err error) {
	reg_a, err := cpu.operandRegister(1)
	if err != nil {
		return
	}
	reg_b, err := cpu.operandRegister(2)
	if err != nil {
		return
	}

	err = cpu.MemoryWrite(uint16(*reg_a), *reg_b)
	if err != nil {
		return
	}

	cpu.advance(op)
	return
}

func (cpu *Cpu) opPrn(op Opcode) (err error) {
	reg, err := cpu.operandRegister(1)
	if err != nil {
		return
	}

	err = cpu.print(fmt.Sprintf("%d\n", *reg))
	if err != nil {
		return
	}

	cpu.advance(op)
	return
}

func (cpu *Cpu) opPra(op Opcode) (err error) {
	reg, err := cpu.operandRegister(1)
	if err != nil {
		return
	}

	err = cpu.print(string([]byte{*reg}))
	if err != nil {
		return
	}

	cpu.advance(op)
	return
}

func (cpu *Cpu) opPush(op Opcode) (err error) {
	reg, err := cpu.operandRegister(1)
	if err != nil {
		return
	}

	err = cpu.Push(*reg)
	if err != nil {
		return
	}

	cpu.advance(op)
	return
}

func (cpu *Cpu) opPop(op Opcode) (err error) {
	reg, err := cpu.operandRegister(1)
	if err != nil {
		return
	}

	value, err := cpu.Pop()
	if err != nil {
		return
	}

	*reg = value
	cpu.advance(op)
	return
}

// opCall pushes the address following the CALL, then jumps.
func (cpu *Cpu) opCall(op Opcode) (err error) {
	reg, err := cpu.operandRegister(1)
	if err != nil {
		return
	}

	ret, err := cpu.address(cpu.Pc + op.Size())
	if err != nil {
		return
	}

	err = cpu.Push(ret)
	if err != nil {
		return
	}

	cpu.jump(uint16(*reg))
	return
}

func (cpu *Cpu) opRet(op Opcode) (err error) {
	ret, err := cpu.Pop()
	if err != nil {
		return
	}

	if cpu.Quirks&QUIRK_RET_REGISTER != 0 {
		var reg *byte
		reg, err = cpu.operandRegister(1)
		if err != nil {
			return
		}
		*reg = ret
	}

	cpu.jump(uint16(ret))
	return
}

func (cpu *Cpu) opCmp(op Opcode) (err error) {
	reg_a, err := cpu.operandRegister(1)
	if err != nil {
		return
	}
	reg_b, err := cpu.operandRegister(2)
	if err != nil {
		return
	}

	switch a, b := *reg_a, *reg_b; {
	case a == b:
		cpu.Flags = FLAG_EQUAL
	case a > b:
		cpu.Flags = FLAG_GREATER
	default:
		cpu.Flags = FLAG_LESS
	}

	if cpu.Quirks&QUIRK_CMP_PRINT != 0 {
		err = cpu.print(fmt.Sprintf("%d\n", byte(cpu.Flags)))
		if err != nil {
			return
		}
	}

	cpu.advance(op)
	return
}

func (cpu *Cpu) opJmp(op Opcode) (err error) {
	reg, err := cpu.operandRegister(1)
	if err != nil {
		return
	}

	cpu.jump(uint16(*reg))
	return
}

// opJump handles the conditional jumps.
func (cpu *Cpu) opJump(op Opcode) (err error) {
	reg, err := cpu.operandRegister(1)
	if err != nil {
		return
	}

	if _jumpConds[op](cpu.Flags) {
		cpu.jump(uint16(*reg))
	} else {
		cpu.advance(op)
	}
	return
}

func (cpu *Cpu) opAlu(op Opcode) (err error) {
	alu, ok := _aluOps[op]
	if !ok {
		err = ErrAluUnsupported
		return
	}

	reg_a, err := cpu.operand(1)
	if err != nil {
		return
	}

	reg_b := reg_a
	if op.Operands() > 1 {
		reg_b, err = cpu.operand(2)
		if err != nil {
			return
		}
	}

	err = cpu.Alu(alu, reg_a, reg_b)
	if err != nil {
		return
	}

	cpu.advance(op)
	return
}

// Alu performs an ALU operation on two registers, storing the result in
// the first. Single operand operations ignore reg_b.
func (cpu *Cpu) Alu(op AluOp, reg_a, reg_b byte) (err error) {
	a, err := cpu.register(reg_a)
	if err != nil {
		return
	}
	b, err := cpu.register(reg_b)
	if err != nil {
		return
	}

	output, err := doAlu(op, *a, *b)
	if err != nil {
		return
	}

	*a = output
	return
}

// doAlu performs the requested ALU action, and returns the output value.
// Results wrap at 8 bits.
func doAlu(op AluOp, input byte, value byte) (output byte, err error) {
	switch op {
	case ALU_OP_ADD:
		output = input + value
	case ALU_OP_SUB:
		output = input - value
	case ALU_OP_MUL:
		output = input * value
	case ALU_OP_DIV:
		if value == 0 {
			err = ErrDivideByZero
			return
		}
		output = input / value
	case ALU_OP_MOD:
		if value == 0 {
			err = ErrDivideByZero
			return
		}
		output = input % value
	case ALU_OP_AND:
		output = input & value
	case ALU_OP_OR:
		output = input | value
	case ALU_OP_XOR:
		output = input ^ value
	case ALU_OP_SHL:
		output = input << value
	case ALU_OP_SHR:
		output = input >> value
	case ALU_OP_NOT:
		output = ^input
	case ALU_OP_INC:
		output = input + 1
	case ALU_OP_DEC:
		output = input - 1
	default:
		err = ErrAluUnsupported
	}

	return
}
