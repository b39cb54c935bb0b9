package cpu

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func doAssemble(t *testing.T, program []string) (prog *Program) {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(t, err)
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Lines))

	assert.Equal("0", asm.Equate["LINENO"])
}

func TestAssembler_Mult(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"; mult.asm",
		"LDI R0,8",
		"LDI R1,9",
		"MUL R0,R1",
		"PRN R0 ; 72",
		"HLT",
	}

	prog := doAssemble(t, program)

	assert.Equal([]byte{
		0x82, 0x00, 0x08,
		0x82, 0x01, 0x09,
		0xa2, 0x00, 0x01,
		0x47, 0x00,
		0x01,
	}, prog.Binary())

	assert.Equal(5, len(prog.Lines))
	assert.Equal(Line{LineNo: 4, Address: 6, Words: []string{"MUL", "R0", "R1"}, Bytes: []byte{0xa2, 0x00, 0x01}}, prog.Lines[2])
}

func TestAssembler_Labels(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"        LDI R1,Sub",
		"        ldi r0, 7",
		"        CALL R1",
		"        PRN R0",
		"        HLT",
		"Sub:",
		"Also:   PRN R0",
		"        RET",
		"Data:   DB Also, 0x10, Data",
	}

	prog := doAssemble(t, program)

	assert.Equal([]byte{
		0x82, 0x01, 0x0b,
		0x82, 0x00, 0x07,
		0x50, 0x01,
		0x47, 0x00,
		0x01,
		0x47, 0x00,
		0x11,
		0x0b, 0x10, 0x0e,
	}, prog.Binary())
	assert.Equal("Sub", prog.Lines[0].LinkLabel)

	cpu, output := newTestCpu(t, MODE_STRICT, prog.Binary()...)
	assert.NoError(cpu.Run())
	assert.Equal("7\n7\n", output.String())
}

func TestAssembler_Equ(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ CONST_10 0x10",
		"LDI R0,CONST_10",
		"LDI R1,$(CONST_10 + CONST_10)",
		".equ CONST_30 $(2 * CONST_10 + CONST_10)",
		"LDI R2,CONST_30",
		"LDI R3,$(LINENO * 8 + 0x10)",
		".equ COUNTER R4",
		"LDI COUNTER,'A'",
		"LDI R5,$(MAX - 1)",
	}

	asm := &Assembler{}
	asm.Predefine("MAX", "256")
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal([]byte{
		0x82, 0x00, 0x10,
		0x82, 0x01, 0x20,
		0x82, 0x02, 0x30,
		0x82, 0x03, 0x40,
		0x82, 0x04, 0x41,
		0x82, 0x05, 0xff,
	}, prog.Binary())
}

func TestAssembler_Data(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"Msg:  DS Hi, there",
		"      DB '\\n', 0",
		"      db -1 0b101",
	}

	prog := doAssemble(t, program)

	assert.Equal([]byte("Hi, there\n\x00\xff\x05"), prog.Binary())
}

func TestAssembler_Comments(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"      LDI R0,';'   ; semicolon",
		"      DB ';', 1    ; ';'",
		`      DS "a;b\n"   ; quoted`,
		"      DS don't; raw",
		"; only a comment",
	}

	prog := doAssemble(t, program)

	assert.Equal([]byte("\x82\x00;;\x01a;b\ndon't"), prog.Binary())

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(`DS "a\q"`))
	assert.ErrorIs(err, ErrParseString(`"a\q"`))
}

func TestAssembler_Pra(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"        LDI R0,'H'",
		"        PRA R0",
		"        LDI R0,'i'",
		"        PRA R0",
		"        HLT",
	}

	prog := doAssemble(t, program)

	cpu, output := newTestCpu(t, MODE_STRICT, prog.Binary()...)
	assert.NoError(cpu.Run())
	assert.Equal("Hi", output.String())
}

func TestAssembler_Loop(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"        LDI R0,0        ; counter",
		"        LDI R1,3        ; limit",
		"        LDI R2,Loop",
		"        LDI R3,Done",
		"Loop:   CMP R0,R1",
		"        JEQ R3",
		"        PRN R0",
		"        INC R0",
		"        JMP R2",
		"Done:   HLT",
	}

	prog := doAssemble(t, program)

	cpu, output := newTestCpu(t, MODE_STRICT, prog.Binary()...)
	assert.NoError(cpu.Run())
	assert.Equal("0\n1\n2\n", output.String())
}

func TestAssembler_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"invalid", []string{"HLT", "FOO R0"}, 2, ErrInstructionInvalid},
		{"register", []string{"PRN R8"}, 1, ErrRegisterInvalid},
		{"extra", []string{"HLT R0"}, 1, ErrOpcodeExtraArgs},
		{"missing", []string{"LDI R0"}, 1, ErrOpcodeValueMissing},
		{"db_empty", []string{"DB"}, 1, ErrOpcodeValueMissing},
		{"range", []string{"LDI R0,256"}, 1, ErrValueRange},
		{"label_missing", []string{"HLT", "LDI R0,Nowhere"}, 2, ErrLabelMissing("Nowhere")},
		{"label_db", []string{"DB Later, 1", "Later: HLT"}, 1, ErrLabelMissing("Later")},
		{"label_duplicate", []string{"A: HLT", "A: HLT"}, 2, ErrLabelDuplicate},
		{"equ_syntax", []string{".equ A"}, 1, ErrEquateSyntax},
		{"equ_duplicate", []string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{"number", []string{"LDI R0,0x1g"}, 1, ErrParseNumber("0x1g")},
		{"expression", []string{`LDI R0,$("a")`}, 1, ErrParseExpression(`"a"`)},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.ErrorAs(err, &syntax, entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestAssembler_TooLarge(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"DS " + strings.Repeat("x", MEMORY_SIZE),
		"HLT",
	}

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.ErrorIs(err, ErrProgramSize)
}

func TestAssembler_LabelRange(t *testing.T) {
	assert := assert.New(t)

	padding := slices.Repeat([]string{"DB 0"}, MEMORY_SIZE-3)

	// Forward reference to a label past the end of memory.
	program := append([]string{"LDI R0,End"}, padding...)
	program = append(program, "End:")

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.ErrorIs(err, ErrProgramSize)

	var syntax *ErrSyntax
	if assert.ErrorAs(err, &syntax) {
		assert.Equal(1, syntax.LineNo)
	}

	// Backward reference to the same address.
	program = append(slices.Clone(padding), "DB 0, 0, 0", "End:", "LDI R0,End")

	_, err = asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.ErrorIs(err, ErrProgramSize)
}
