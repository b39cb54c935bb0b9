// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [options] FILE\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	var assemble bool
	var strict bool
	var trace bool
	var verbose bool

	flag.Usage = usage
	flag.BoolVar(&assemble, "a", false, "FILE is assembly source, not a binary image")
	flag.BoolVar(&strict, "s", false, "Strict mode: fault on out-of-range addresses and registers")
	flag.BoolVar(&trace, "t", false, "Trace each instruction to stderr")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		log.Fatalf("%v: expected one program file, got %v", os.Args[0], flag.Args())
	}

	path := flag.Arg(0)

	mode := cpu.MODE_COMPATIBLE
	if strict {
		mode = cpu.MODE_STRICT
	}

	emu := emulator.NewEmulator(mode)
	emu.Verbose = verbose
	emu.Console.Output = os.Stdout
	if trace {
		emu.Trace = os.Stderr
	}

	inf, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	defer inf.Close()

	if assemble {
		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
	} else {
		ld := &cpu.Loader{Verbose: verbose}
		emu.Program, err = ld.Parse(inf)
	}
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
	}
}
