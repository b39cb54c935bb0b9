package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(MODE_STRICT)
	assert.Equal(0, cpu.StackDepth())

	assert.NoError(cpu.Push(0x12))
	assert.Equal(1, cpu.StackDepth())
	assert.Equal(byte(0xf3), cpu.Register[REG_SP])
	assert.Equal(byte(0x12), cpu.Memory[0xf3])
	assert.Equal(byte(0x12), cpu.Peek())
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(MODE_STRICT)
	assert.NoError(cpu.Push(0x12))
	assert.NoError(cpu.Push(0xab))

	val, err := cpu.Pop()
	assert.NoError(err)
	assert.Equal(byte(0xab), val)
	assert.Equal(1, cpu.StackDepth())

	val, err = cpu.Pop()
	assert.NoError(err)
	assert.Equal(byte(0x12), val)
	assert.Equal(0, cpu.StackDepth())
}

func TestStack_Underflow(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(MODE_STRICT)
	cpu.Memory[SP_INIT] = 0x99

	val, err := cpu.Pop()
	assert.NoError(err)
	assert.Equal(byte(0x99), val)
	assert.Equal(-1, cpu.StackDepth())
}

func TestStack_Wrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(MODE_STRICT)
	cpu.Register[REG_SP] = 0

	assert.NoError(cpu.Push(0x42))
	assert.Equal(byte(0xff), cpu.Register[REG_SP])
	assert.Equal(byte(0x42), cpu.Memory[0xff])

	val, err := cpu.Pop()
	assert.NoError(err)
	assert.Equal(byte(0x42), val)
	assert.Equal(byte(0), cpu.Register[REG_SP])
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(MODE_STRICT)
	assert.NoError(cpu.Push(1))
	assert.NoError(cpu.Push(2))
	assert.Equal(2, cpu.StackDepth())

	cpu.Reset()
	assert.Equal(0, cpu.StackDepth())
	assert.Equal(byte(0), cpu.Peek())
}
