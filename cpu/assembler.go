// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the LS-8 system.
//
// Syntax, one statement per line, ';' to end of line is a comment:
//
//	Label:              ; define Label as the current address
//	LDI R0,Label        ; instruction, operands separated by ',' or ' '
//	.equ NAME VALUE     ; define an equate
//	DB 1, 0x2, 'c'      ; data bytes
//	DS some text        ; string bytes, to end of line
//	DS "a;b\n"          ; quoted string bytes, Go escapes
//	LDI R1,$(NAME * 2)  ; compile-time starlark expression
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register indexes.
var regMap = map[string]byte{
	"R0": 0,
	"R1": 1,
	"R2": 2,
	"R3": 3,
	"R4": 4,
	"R5": 5,
	"R6": 6,
	"R7": 7,
	"SP": REG_SP,
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value byte, err error) {
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > 0xff || v64 < -0x80 {
		err = ErrValueRange
		return
	}

	value = byte(v64)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, _err := strconv.ParseInt(str, 0, 64)
		if _err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(address)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// currentAddress gets the address of the next generated byte.
func (asm *Assembler) currentAddress() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Address + len(last.Bytes)
}

// defineLabel binds a label to the current address.
func (asm *Assembler) defineLabel(label string) (err error) {
	_, ok := asm.Label[label]
	if ok {
		err = ErrLabelDuplicate
		return
	}

	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	asm.Label[label] = asm.currentAddress()

	if asm.Verbose {
		log.Printf("%v: %02x", label, asm.Label[label])
	}

	return
}

var charRe = regexp.MustCompile(`^'\\?[^']'`)

// stripComment removes a ';' comment, ignoring ';' inside character
// literals and double-quoted strings.
func stripComment(text string) string {
	quoted := false
	for n := 0; n < len(text); n++ {
		switch ch := text[n]; {
		case quoted && ch == '\\':
			n++
		case ch == '"':
			quoted = !quoted
		case quoted:
		case ch == '\'':
			if lit := charRe.FindString(text[n:]); len(lit) > 0 {
				n += len(lit) - 1
			}
		case ch == ';':
			return text[:n]
		}
	}
	return text
}

// parseLine parses a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Leading labels
	for {
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.HasSuffix(fields[0], ":") {
			break
		}
		err = asm.defineLabel(strings.TrimSuffix(fields[0], ":"))
		if err != nil {
			return
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
	}

	// DS takes the rest of the line verbatim.
	fields := strings.Fields(line)
	if len(fields) > 0 && strings.EqualFold(fields[0], "DS") {
		text := strings.TrimSpace(line[len(fields[0]):])
		if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
			var str string
			str, err = strconv.Unquote(text)
			if err != nil {
				err = ErrParseString(text)
				return
			}
			text = str
		}
		words = []string{"DS", text}
		return
	}

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// getRegister returns the register index named by a word.
func (asm *Assembler) getRegister(word string) (reg byte, err error) {
	reg, ok := regMap[strings.ToUpper(word)]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// getImmediate returns the value of a number or known label. An unknown
// identifier is returned as a label to link, if linking is permitted.
func (asm *Assembler) getImmediate(word string, linkable bool) (value byte, label string, err error) {
	address, ok := asm.Label[word]
	if ok {
		if address >= MEMORY_SIZE {
			err = ErrProgramSize
			return
		}
		value = byte(address)
		return
	}

	value, err = asm.valueOf(word)
	if err == nil {
		return
	}

	_, is_number := err.(ErrParseNumber)
	if is_number && linkable && isIdentifier(word) {
		err = nil
		label = word
		return
	}

	if is_number && isIdentifier(word) {
		err = ErrLabelMissing(word)
	}

	return
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func isIdentifier(word string) bool {
	return identifierRe.MatchString(word)
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var bytes []byte
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(bytes) == 0 {
			return
		}
		line := Line{LineNo: lineno, Address: asm.currentAddress(), Words: initial_words, Bytes: bytes, LinkLabel: label}
		asm.Lines = append(asm.Lines, line)
	}()

	mnemonic := strings.ToUpper(words[0])
	args := words[1:]

	switch mnemonic {
	case "DS":
		bytes = []byte(args[0])
		return
	case "DB":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		for n, arg := range args {
			var value byte
			value, label, err = asm.getImmediate(arg, n == len(args)-1)
			if err != nil {
				return
			}
			bytes = append(bytes, value)
		}
		return
	}

	op, ok := opcodeByName[mnemonic]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	if len(args) < op.Operands() {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > op.Operands() {
		err = ErrOpcodeExtraArgs
		return
	}

	code := []byte{byte(op)}
	for n, arg := range args {
		var value byte
		if op == OP_LDI && n == 1 {
			value, label, err = asm.getImmediate(arg, true)
		} else {
			value, err = asm.getRegister(arg)
		}
		if err != nil {
			return
		}
		code = append(code, value)
	}

	bytes = code

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Lines = asm.Lines[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}

		if asm.currentAddress() > MEMORY_SIZE {
			err = ErrProgramSize
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		// The line that failed to scan.
		lineno++
		line = ""
		return
	}

	// Final linking of labels.
	for n := range asm.Lines {
		op := &asm.Lines[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		label := op.LinkLabel
		address, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		if address >= MEMORY_SIZE {
			err = ErrProgramSize
			return
		}
		op.Bytes[len(op.Bytes)-1] = byte(address)
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}
