// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/ls8/io"
)

// Channel is an I/O channel interface.
type Channel io.Channel

const (
	MEMORY_SIZE    = 256  // Bytes of memory.
	REGISTER_COUNT = 8    // General purpose registers.
	REG_SP         = 7    // Register holding the stack pointer.
	SP_INIT        = 0xf4 // Initial stack pointer.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	"SP_INIT":     fmt.Sprintf("0x%x", SP_INIT),
	"FL_E":        fmt.Sprintf("0x%x", byte(FLAG_EQUAL)),
	"FL_G":        fmt.Sprintf("0x%x", byte(FLAG_GREATER)),
	"FL_L":        fmt.Sprintf("0x%x", byte(FLAG_LESS)),
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool  // Set to enable verbose logging.
	Mode    Mode  // Handling of out-of-range addresses and registers.
	Quirks  Quirk // Enabled legacy behaviors.

	Console Channel // Destination of PRN, PRA and diagnostics.

	Pc       uint16               // Program counter.
	Register [REGISTER_COUNT]byte // Register bank. R7 is the stack pointer.
	Flags    Flag                 // FL register, set by CMP.
	Memory   [MEMORY_SIZE]byte    // Code, data and stack.
	Halted   bool                 // Set by HLT or an unknown instruction.
	Ticks    int                  // Instructions executed.
}

// NewCpu creates a new CPU in the requested mode. Compatible mode enables
// all quirks; strict mode enables none.
func NewCpu(mode Mode) (cpu *Cpu) {
	cpu = &Cpu{
		Mode: mode,
	}

	if mode == MODE_COMPATIBLE {
		cpu.Quirks = QUIRK_ALL
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory, registers and flags.
// - Sets the stack pointer to SP_INIT.
// - Sets the PC to 0.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset (%v)", cpu.Mode)
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Register[REG_SP] = SP_INIT
	cpu.Flags = 0
	cpu.Pc = 0
	cpu.Halted = false
	cpu.Ticks = 0
}

// Load writes a program into memory, starting at address 0.
func (cpu *Cpu) Load(program []byte) (err error) {
	if len(program) > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	for n, value := range program {
		err = cpu.MemoryWrite(uint16(n), value)
		if err != nil {
			return
		}
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(program))
	}

	return
}

// Boot resets the CPU and loads the image received from a channel.
func (cpu *Cpu) Boot(rom Channel) (err error) {
	if rom == nil {
		err = ErrChannelInvalid
		return
	}

	cpu.Reset()
	rom.Rewind()

	var address int
	for value := range rom.Receive() {
		if address >= MEMORY_SIZE {
			err = ErrProgramSize
			return
		}
		cpu.Memory[address] = value
		address++
	}

	if cpu.Verbose {
		log.Printf("cpu: boot %d bytes", address)
	}

	return
}

// address maps a memory address according to the CPU mode.
func (cpu *Cpu) address(addr uint16) (index byte, err error) {
	if addr >= MEMORY_SIZE && cpu.Mode != MODE_COMPATIBLE {
		err = ErrAddressRange(addr)
		return
	}

	index = byte(addr)
	return
}

// MemoryRead reads a byte of memory.
func (cpu *Cpu) MemoryRead(addr uint16) (value byte, err error) {
	index, err := cpu.address(addr)
	if err != nil {
		return
	}

	value = cpu.Memory[index]
	return
}

// MemoryWrite writes a byte of memory.
func (cpu *Cpu) MemoryWrite(addr uint16, value byte) (err error) {
	index, err := cpu.address(addr)
	if err != nil {
		return
	}

	cpu.Memory[index] = value
	return
}

// register returns the register selected by an operand byte.
func (cpu *Cpu) register(index byte) (reg *byte, err error) {
	if index >= REGISTER_COUNT {
		if cpu.Mode != MODE_COMPATIBLE {
			err = ErrRegisterRange(index)
			return
		}
		index &= REGISTER_COUNT - 1
	}

	reg = &cpu.Register[index]
	return
}

// operand reads the n'th operand byte of the current instruction.
func (cpu *Cpu) operand(n uint16) (value byte, err error) {
	return cpu.MemoryRead(cpu.Pc + n)
}

// operandRegister decodes the n'th operand as a register.
func (cpu *Cpu) operandRegister(n uint16) (reg *byte, err error) {
	index, err := cpu.operand(n)
	if err != nil {
		return
	}

	return cpu.register(index)
}

// jump assigns the PC.
func (cpu *Cpu) jump(addr uint16) {
	if cpu.Mode == MODE_COMPATIBLE {
		addr &= MEMORY_SIZE - 1
	}
	cpu.Pc = addr
}

// advance moves the PC past the current instruction.
func (cpu *Cpu) advance(op Opcode) {
	cpu.jump(cpu.Pc + op.Size())
}

// print sends text to the console.
func (cpu *Cpu) print(text string) (err error) {
	if cpu.Console == nil {
		return
	}

	for _, ch := range []byte(text) {
		err = cpu.Console.Send(ch)
		if err != nil {
			return
		}
	}

	return
}

// Trace returns PC, the three bytes at PC and all registers, in hex.
// Memory outside the address space reads as wrapped.
func (cpu *Cpu) Trace() string {
	var sb strings.Builder

	pc := cpu.Pc
	fmt.Fprintf(&sb, "TRACE: %02X | %02X %02X %02X |", pc,
		cpu.Memory[byte(pc)], cpu.Memory[byte(pc+1)], cpu.Memory[byte(pc+2)])

	for _, reg := range cpu.Register {
		fmt.Fprintf(&sb, " %02X", reg)
	}

	return sb.String()
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %02X %v\n", "pc", cpu.Pc, Opcode(cpu.Memory[byte(cpu.Pc)]))
	text += fmt.Sprintf("% 5s: %v\n", "fl", cpu.Flags)
	for n, val := range cpu.Register {
		name := fmt.Sprintf("r%d", n)
		if n == REG_SP {
			name = "sp"
		}
		text += fmt.Sprintf("% 5s: %02X\n", name, val)
	}
	if cpu.StackDepth() > 0 {
		text += fmt.Sprintf("% 5s: %02X\n", "stack", cpu.Peek())
	} else {
		text += fmt.Sprintf("% 5s: --\n", "stack")
	}

	return
}

// Tick executes a single instruction.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	ir, err := cpu.MemoryRead(cpu.Pc)
	if err != nil {
		return
	}

	op := Opcode(ir)

	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(op), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%02x: %v", cpu.Pc, op)
	}

	handle := _handlers[ir]
	if op == OP_NOP && cpu.Quirks&QUIRK_ZERO_UNKNOWN != 0 {
		handle = nil
	}
	if handle == nil {
		cpu.Halted = true
		err = cpu.print(f("Unknown instruction") + "\n")
		err = errors.Join(ErrOpcodeUnknown, err)
		return
	}

	err = handle(cpu, op)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// Run executes instructions until the CPU halts. An unknown instruction
// halts the CPU without an error.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Tick()
		if errors.Is(err, ErrOpcodeUnknown) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}

	return
}
