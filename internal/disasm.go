package internal

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Line is one entry of a program listing
type Line struct {
	Address uint16
	Data    []byte
	Text    string
}

// String returns the instruction in assembly notation, for example
// "LD V1, $05". Patterns with no assigned meaning render as a data word.
func (op Opcode) String() string {
	var ins *chip8.Instruction
	switch {
	case op == 0x00E0:
		ins = chip8.ClsInst
	case op == 0x00EE:
		ins = chip8.RetInst
	case op.Family() == 0x0:
		return fmt.Sprintf("SYS $%03X", op.NNN())
	default:
		ins = op.instruction()
	}
	if ins == nil {
		return op.dataWord()
	}

	params, ok := op.params(ins.Name)
	if !ok {
		return op.dataWord()
	}
	name := strings.ToUpper(ins.Name)
	if params == "" {
		return name
	}
	return name + " " + params
}

// instruction looks the opcode up in the CHIP-8 instruction table
func (op Opcode) instruction() *chip8.Instruction {
	w := uint16(op)
	for _, entry := range chip8.Opcodes[int(op.Family())] {
		if entry.Info.Mask&w == entry.Info.Value {
			return entry.Instruction
		}
	}
	return nil
}

// params formats the operands of an instruction. It reports false for
// encodings the VM does not execute.
func (op Opcode) params(name string) (string, bool) {
	x, y := op.X(), op.Y()
	switch name {
	case chip8.ClsInst.Name, chip8.RetInst.Name:
		return "", true

	case chip8.JpInst.Name:
		switch op.Family() {
		case 0x1:
			return fmt.Sprintf("$%03X", op.NNN()), true
		case 0xB:
			return fmt.Sprintf("V0, $%03X", op.NNN()), true
		}

	case chip8.CallInst.Name:
		if op.Family() == 0x2 {
			return fmt.Sprintf("$%03X", op.NNN()), true
		}

	case chip8.SeInst.Name, chip8.SneInst.Name:
		switch op.Family() {
		case 0x3, 0x4:
			return fmt.Sprintf("V%X, $%02X", x, op.NN()), true
		case 0x5, 0x9:
			if op.N() == 0 {
				return fmt.Sprintf("V%X, V%X", x, y), true
			}
		}

	case chip8.LdInst.Name:
		switch op.Family() {
		case 0x6:
			return fmt.Sprintf("V%X, $%02X", x, op.NN()), true
		case 0x8:
			if op.N() == 0x0 {
				return fmt.Sprintf("V%X, V%X", x, y), true
			}
		case 0xA:
			return fmt.Sprintf("I, $%03X", op.NNN()), true
		case 0xF:
			if format, ok := loadFormats[op.NN()]; ok {
				return fmt.Sprintf(format, x), true
			}
		}

	case chip8.AddInst.Name:
		switch {
		case op.Family() == 0x7:
			return fmt.Sprintf("V%X, $%02X", x, op.NN()), true
		case op.Family() == 0x8 && op.N() == 0x4:
			return fmt.Sprintf("V%X, V%X", x, y), true
		case op.Family() == 0xF && op.NN() == 0x1E:
			return fmt.Sprintf("I, V%X", x), true
		}

	case chip8.OrInst.Name, chip8.AndInst.Name, chip8.XorInst.Name, chip8.SubInst.Name,
		chip8.SubnInst.Name, chip8.ShrInst.Name, chip8.ShlInst.Name:
		// The shifts read Vy, so both registers are listed.
		if op.Family() == 0x8 {
			return fmt.Sprintf("V%X, V%X", x, y), true
		}

	case chip8.RndInst.Name:
		if op.Family() == 0xC {
			return fmt.Sprintf("V%X, $%02X", x, op.NN()), true
		}

	case chip8.DrwInst.Name:
		if op.Family() == 0xD {
			return fmt.Sprintf("V%X, V%X, $%X", x, y, op.N()), true
		}

	case chip8.SkpInst.Name, chip8.SknpInst.Name:
		if op.Family() == 0xE {
			return fmt.Sprintf("V%X", x), true
		}
	}
	return "", false
}

func (op Opcode) dataWord() string {
	return fmt.Sprintf("DW $%04X", uint16(op))
}

// Operand layouts of the FX load instructions
var loadFormats = map[uint8]string{
	0x07: "V%X, DT",
	0x0A: "V%X, K",
	0x15: "DT, V%X",
	0x18: "ST, V%X",
	0x29: "F, V%X",
	0x33: "B, V%X",
	0x55: "[I], V%X",
	0x65: "V%X, [I]",
}

// Disassemble lists a program image two bytes at a time, with addresses
// starting at origin. A trailing odd byte is listed as a data byte.
func Disassemble(data []byte, origin uint16) []Line {
	lines := make([]Line, 0, (len(data)+1)/2)
	for i := 0; i < len(data); i += 2 {
		addr := origin + uint16(i)
		if i+1 == len(data) {
			lines = append(lines, Line{
				Address: addr,
				Data:    data[i : i+1],
				Text:    fmt.Sprintf("DB $%02X", data[i]),
			})
			break
		}
		op := Opcode(uint16(data[i])<<8 | uint16(data[i+1]))
		lines = append(lines, Line{
			Address: addr,
			Data:    data[i : i+2],
			Text:    op.String(),
		})
	}
	return lines
}
