package cpu

import (
	"iter"
)

// Line represents a line of source with its location and generated bytes.
type Line struct {
	LineNo    int
	Address   int
	Words     []string
	Bytes     []byte
	LinkLabel string // Label to be resolved into the final byte.
}

// Program is a listing of source lines and the bytes they produce.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug finds the source line that generated the byte at an address.
func (prog *Program) Debug(address uint16) (dbg Debug) {
	for n, line := range prog.Lines {
		if int(address) >= line.Address && int(address) < line.Address+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(address) - line.Address,
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program, starting at address 0.
func (prog *Program) Binary() (bin []byte) {
	for address, value := range prog.Bytes() {
		for int(address) >= len(bin) {
			bin = append(bin, 0)
		}
		bin[address] = value
	}

	return
}

// Bytes iterates over every generated byte and its address.
func (prog *Program) Bytes() iter.Seq2[uint16, byte] {
	return func(yield func(address uint16, value byte) bool) {
		for _, line := range prog.Lines {
			address := uint16(line.Address)
			for n, value := range line.Bytes {
				if !yield(address+uint16(n), value) {
					return
				}
			}
		}
	}
}

// Size returns the number of bytes in the memory image.
func (prog *Program) Size() (size int) {
	for _, line := range prog.Lines {
		end := line.Address + len(line.Bytes)
		if end > size {
			size = end
		}
	}

	return
}
