package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted         = errors.New(f("halted"))
	ErrOpcodeUnknown  = errors.New(f("unknown instruction"))
	ErrAluUnsupported = errors.New(f("unsupported alu operation"))
	ErrDivideByZero   = errors.New(f("divide by zero"))
	ErrProgramSize    = errors.New(f("program exceeds memory"))
	ErrChannelInvalid = errors.New(f("channel invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrValueRange         = errors.New(f("value exceeds 8 bits"))
)

// ErrAddressRange is a memory address beyond the end of memory.
type ErrAddressRange uint16

func (err ErrAddressRange) Error() string {
	return f("address %#x out of range", uint16(err))
}

// ErrRegisterRange is a register index beyond R7.
type ErrRegisterRange byte

func (err ErrRegisterRange) Error() string {
	return f("register %d out of range", byte(err))
}

// ErrOpcode annotates an execution error with the opcode being executed.
type ErrOpcode Opcode

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x %v", byte(eo), Opcode(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseBinary string

func (err ErrParseBinary) Error() string {
	return f("'%v' is not an 8-bit binary value", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrParseString string

func (err ErrParseString) Error() string {
	return f("%v is not a valid string", string(err))
}
