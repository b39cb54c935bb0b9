package io

import (
	"iter"
)

// Rom is a read-only channel holding a program image.
type Rom struct {
	Data []byte
}

var _ Channel = (*Rom)(nil)

// Rewind is a no-op; every Receive starts at the first byte.
func (rc *Rom) Rewind() {
}

func (rc *Rom) Receive() iter.Seq[byte] {
	return func(yield func(value byte) bool) {
		for _, data := range rc.Data {
			if !yield(data) {
				return
			}
		}
	}
}

func (rc *Rom) Send(value byte) error {
	return ErrChannelFull
}
