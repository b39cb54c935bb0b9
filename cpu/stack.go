package cpu

// The stack lives in memory below the stack pointer (R7) and grows
// downward. Nothing guards against overflow into code or underflow past
// SP_INIT; the stack pointer simply wraps at 8 bits.

// Push decrements SP, then writes value at SP.
func (cpu *Cpu) Push(value byte) (err error) {
	cpu.Register[REG_SP]--
	err = cpu.MemoryWrite(uint16(cpu.Register[REG_SP]), value)
	return
}

// Pop reads the value at SP, then increments SP.
func (cpu *Cpu) Pop() (value byte, err error) {
	value, err = cpu.MemoryRead(uint16(cpu.Register[REG_SP]))
	if err != nil {
		return
	}

	cpu.Register[REG_SP]++
	return
}

// Peek returns the value at the top of the stack.
func (cpu *Cpu) Peek() (value byte) {
	return cpu.Memory[cpu.Register[REG_SP]]
}

// StackDepth returns the number of bytes pushed since reset. It is
// negative if more bytes were popped than pushed.
func (cpu *Cpu) StackDepth() int {
	return SP_INIT - int(cpu.Register[REG_SP])
}
