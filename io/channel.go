// Package io provides the byte channels attached to the LS-8 machine:
// the boot image (Rom) and the console used by the print instructions.
package io

import (
	"iter"
)

// Channel defines the interface for all byte channels in the LS-8 system.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator that yields bytes from the channel.
	Receive() iter.Seq[byte]
	// Send writes a single byte to the channel.
	Send(value byte) error
}
