package internal

import (
	"errors"
	"fmt"
)

// ErrProgramTooLarge is returned when a program image does not fit between
// the program start address and the end of memory.
var ErrProgramTooLarge = errors.New("program size exceeds the maximum size")

// Fault kinds. A *Fault always wraps exactly one of these.
var (
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrUnsupportedOpcode = errors.New("unsupported machine language subroutine")
	ErrInvalidDigit      = errors.New("font digit out of range")
	ErrPCOverflow        = errors.New("program counter overflowed memory")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrMemoryBounds      = errors.New("memory access out of bounds")
	ErrInvalidKey        = errors.New("key index out of range")
)

// Fault is a fatal condition raised while executing an instruction. PC is the
// address the faulting instruction was fetched from; for ErrPCOverflow it is
// the address the fetch was attempted at and Opcode is the last instruction
// that executed.
type Fault struct {
	Err    error
	Opcode Opcode
	PC     uint16
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v: opcode %04X at %03X", f.Err, uint16(f.Opcode), f.PC)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
