package internal

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestOpcode_String(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x0123, "SYS $123"},
		{0x1ABC, "JP $ABC"},
		{0x2300, "CALL $300"},
		{0x3A42, "SE VA, $42"},
		{0x4A42, "SNE VA, $42"},
		{0x5AB0, "SE VA, VB"},
		{0x5AB1, "DW $5AB1"},
		{0x6105, "LD V1, $05"},
		{0x71FF, "ADD V1, $FF"},
		{0x8120, "LD V1, V2"},
		{0x8121, "OR V1, V2"},
		{0x8122, "AND V1, V2"},
		{0x8123, "XOR V1, V2"},
		{0x8124, "ADD V1, V2"},
		{0x8125, "SUB V1, V2"},
		{0x8126, "SHR V1, V2"},
		{0x8127, "SUBN V1, V2"},
		{0x812E, "SHL V1, V2"},
		{0x8128, "DW $8128"},
		{0x9AB0, "SNE VA, VB"},
		{0xA2F0, "LD I, $2F0"},
		{0xB300, "JP V0, $300"},
		{0xC30F, "RND V3, $0F"},
		{0xD125, "DRW V1, V2, $5"},
		{0xE39E, "SKP V3"},
		{0xE3A1, "SKNP V3"},
		{0xE3A2, "DW $E3A2"},
		{0xF307, "LD V3, DT"},
		{0xF30A, "LD V3, K"},
		{0xF315, "LD DT, V3"},
		{0xF318, "LD ST, V3"},
		{0xF31E, "ADD I, V3"},
		{0xF329, "LD F, V3"},
		{0xF333, "LD B, V3"},
		{0xF355, "LD [I], V3"},
		{0xF365, "LD V3, [I]"},
		{0xF3FF, "DW $F3FF"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestOpcode_InstructionTable(t *testing.T) {
	tests := []struct {
		op  Opcode
		ins *chip8.Instruction
	}{
		{0x1ABC, chip8.JpInst},
		{0xB300, chip8.JpInst},
		{0x2300, chip8.CallInst},
		{0x5AB0, chip8.SeInst},
		{0x8124, chip8.AddInst},
		{0x8127, chip8.SubnInst},
		{0xA2F0, chip8.LdInst},
		{0xD125, chip8.DrwInst},
		{0xE3A1, chip8.SknpInst},
		{0xF333, chip8.LdInst},
	}

	for _, tt := range tests {
		t.Run(tt.ins.Name, func(t *testing.T) {
			assert.Equal(t, tt.ins, tt.op.instruction())
			assert.True(t, strings.HasPrefix(tt.op.String(), strings.ToUpper(tt.ins.Name)+" "))
		})
	}
}

func TestDisassemble(t *testing.T) {
	lines := Disassemble([]byte{0x00, 0xE0, 0xA2, 0x2A, 0xFF}, pcStartAddr)

	assert.Equal(t, 3, len(lines))
	assert.Equal(t, uint16(0x200), lines[0].Address)
	assert.Equal(t, "CLS", lines[0].Text)
	assert.Equal(t, uint16(0x202), lines[1].Address)
	assert.Equal(t, "LD I, $22A", lines[1].Text)
	assert.Equal(t, 2, len(lines[1].Data))
	assert.Equal(t, uint16(0x204), lines[2].Address)
	assert.Equal(t, "DB $FF", lines[2].Text)
	assert.Equal(t, 1, len(lines[2].Data))
}

func TestDisassemble_Empty(t *testing.T) {
	assert.Equal(t, 0, len(Disassemble(nil, pcStartAddr)))
}
