package io

import (
	"bytes"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole_Send(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	con := &Console{Output: out}

	for _, ch := range []byte("72\n") {
		assert.NoError(con.Send(ch))
	}

	assert.Equal("72\n", out.String())
	assert.Equal(3, con.Written())

	con.Rewind()
	assert.Equal(0, con.Written())
}

func TestConsole_Send_Discard(t *testing.T) {
	assert := assert.New(t)

	con := &Console{}
	assert.NoError(con.Send('x'))
	assert.Equal(1, con.Written())
}

func TestConsole_Receive(t *testing.T) {
	assert := assert.New(t)

	con := &Console{Output: &bytes.Buffer{}}
	assert.Empty(slices.Collect(con.Receive()))
}
