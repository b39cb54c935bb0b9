// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	goio "io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
	"github.com/ezrec/ls8/io"
)

var _emulator_defines = map[string]string{
	"REG_SP":  fmt.Sprintf("%v", cpu.REG_SP),
	"MEM_TOP": fmt.Sprintf("0x%x", cpu.MEMORY_SIZE-1),
}

// Emulator state. CPU + boot ROM + console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Rom     io.Rom     // Boot image channel.
	Console io.Console // Console channel.

	Trace goio.Writer // If set, receives a trace line before every instruction.
}

// NewEmulator creates a new emulator.
func NewEmulator(mode cpu.Mode) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(mode),
		Program: &cpu.Program{},
	}

	emu.Cpu.Console = &emu.Console

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset the emulator, and boot the current program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Rom.Data = emu.Program.Binary()
	emu.Console.Rewind()

	err = emu.Cpu.Boot(&emu.Rom)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: %d bytes, %d lines", len(emu.Rom.Data), len(emu.Program.Lines))
	}

	return
}

// Ticks returns the total instructions executed since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Address returns the current program counter.
func (emu *Emulator) Address() int {
	return int(emu.Cpu.Pc)
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Cpu.Pc >= cpu.MEMORY_SIZE {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// HLT and unknown instructions finish the program without an error.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	address := emu.Address()
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: address, LineNo: lineno, Err: err}
		}
	}()

	if emu.Cpu.Halted {
		done = true
		return
	}

	if emu.Trace != nil {
		_, err = fmt.Fprintln(emu.Trace, emu.Cpu.Trace())
		if err != nil {
			return
		}
	}

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrOpcodeUnknown) {
		err = nil
	}
	if err != nil {
		return
	}

	done = emu.Cpu.Halted

	return
}

// Run ticks the emulator until the program finishes.
func (emu *Emulator) Run() (err error) {
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			return err
		}
	}

	return
}
