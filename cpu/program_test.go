package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Lines: []Line{
			{LineNo: 1, Address: 0, Words: []string{"LDI", "R0", "8"},
				Bytes: []byte{byte(OP_LDI), 0x00, 0x08}},
			{LineNo: 3, Address: 3, Words: []string{"PRN", "R0"},
				Bytes: []byte{byte(OP_PRN), 0x00}},
			{LineNo: 4, Address: 5, Words: []string{"HLT"},
				Bytes: []byte{byte(OP_HLT)}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Line)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(2)
	assert.NotNil(dbg.Line)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(2, dbg.Index)

	dbg = prog.Debug(4)
	assert.NotNil(dbg.Line)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(5)
	assert.NotNil(dbg.Line)
	assert.Equal(4, dbg.LineNo)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(10)
	assert.Nil(dbg.Line)
	assert.Equal(0, dbg.Index)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()
	assert.Equal([]byte{0x82, 0x00, 0x08, 0x47, 0x00, 0x01}, prog.Binary())
	assert.Equal(6, prog.Size())

	empty := &Program{}
	assert.Empty(empty.Binary())
	assert.Equal(0, empty.Size())
}

func TestProgram_Binary_Gap(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Lines: []Line{
			{LineNo: 1, Address: 2, Bytes: []byte{0xaa}},
		},
	}
	assert.Equal([]byte{0x00, 0x00, 0xaa}, prog.Binary())
	assert.Equal(3, prog.Size())
}

func TestProgram_Bytes(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	var addresses []uint16
	for address := range prog.Bytes() {
		addresses = append(addresses, address)
		if address == 3 {
			break
		}
	}
	assert.Equal([]uint16{0, 1, 2, 3}, addresses)
}
