package io

import (
	"io"
	"iter"
)

// Console provides the operator terminal of the machine. It is output
// only: Output receives everything the print instructions emit, and a
// nil Output discards it.
type Console struct {
	Output io.Writer

	written int
}

var _ Channel = (*Console)(nil)

// Rewind clears the output counter. Output is a stream and
// cannot be rewound.
func (cc *Console) Rewind() {
	cc.written = 0
}

// Written returns the number of bytes sent since the last Rewind.
func (cc *Console) Written() int {
	return cc.written
}

// Receive returns an empty iterator; the console has no keyboard.
func (cc *Console) Receive() iter.Seq[byte] {
	return func(yield func(value byte) bool) {}
}

// Send writes a byte to Output.
func (cc *Console) Send(value byte) (err error) {
	cc.written++

	if cc.Output == nil {
		return
	}

	_, err = cc.Output.Write([]byte{value})

	return
}
