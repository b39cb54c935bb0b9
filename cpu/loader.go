package cpu

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"
)

// Loader parses program images: one 8-bit base-2 value per line, with
// text after '#' ignored and blank lines skipped.
type Loader struct {
	Verbose bool // If set, verbosely logs each loaded byte.
}

// Parse parses an input stream into a Program, one byte per value line.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var lines []Line
	var address int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		text_comment := strings.SplitN(text, "#", 2)
		line = strings.TrimSpace(text_comment[0])
		if len(line) == 0 {
			continue
		}

		if address >= MEMORY_SIZE {
			err = ErrProgramSize
			return
		}

		var value uint64
		value, err = strconv.ParseUint(line, 2, 8)
		if err != nil {
			err = ErrParseBinary(line)
			return
		}

		if ld.Verbose {
			log.Printf("%v: %02x: %08b", lineno, address, value)
		}

		lines = append(lines, Line{
			LineNo:  lineno,
			Address: address,
			Words:   []string{line},
			Bytes:   []byte{byte(value)},
		})
		address++
	}

	err = scanner.Err()
	if err != nil {
		// The line that failed to scan.
		lineno++
		line = ""
		return
	}

	prog = &Program{Lines: lines}

	return
}
