package internal

// Opcode is a raw 16-bit CHIP-8 instruction. Any bit pattern is representable,
// including ones with no assigned meaning.
type Opcode uint16

// Nibble returns the n'th 4-bit field of the opcode, counting from 1 at the
// most significant end. Out of range positions return 0.
func (op Opcode) Nibble(n int) uint8 {
	if n < 1 || n > 4 {
		return 0
	}
	shift := uint(4-n) * 4
	return uint8((uint16(op) >> shift) & 0x000F)
}

// Family returns the first nibble, which selects the instruction group
func (op Opcode) Family() uint8 {
	return uint8(uint16(op) >> 12)
}

// X returns the second nibble, used as a register index
func (op Opcode) X() uint8 {
	return uint8((uint16(op) >> 8) & 0x000F)
}

// Y returns the third nibble, used as a register index
func (op Opcode) Y() uint8 {
	return uint8((uint16(op) >> 4) & 0x000F)
}

// N returns the lowest nibble, used as a small count such as sprite height
func (op Opcode) N() uint8 {
	return uint8(uint16(op) & 0x000F)
}

// NN returns the lowest 8 bits of the instruction
func (op Opcode) NN() uint8 {
	return uint8(uint16(op) & 0x00FF)
}

// NNN returns the lowest 12 bits of the instruction
func (op Opcode) NNN() uint16 {
	return uint16(op) & 0x0FFF
}
