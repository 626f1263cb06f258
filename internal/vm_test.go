package internal

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/sirupsen/logrus"
)

// fixedRandom always produces the same value
type fixedRandom int

func (f fixedRandom) Intn(n int) int {
	return int(f) % n
}

func newTestVM(t *testing.T, opts ...Option) *C8VM {
	t.Helper()
	vm, err := NewC8VM(opts...)
	assert.NoError(t, err)
	return vm
}

// loadOps places the given instructions at the program start address
func loadOps(t *testing.T, vm *C8VM, ops ...uint16) {
	t.Helper()
	data := make([]byte, 0, len(ops)*2)
	for _, op := range ops {
		data = append(data, byte(op>>8), byte(op))
	}
	assert.NoError(t, vm.LoadProgramBytes(data))
}

func runCycles(t *testing.T, vm *C8VM, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		assert.NoError(t, vm.Cycle())
	}
}

func TestNewC8VM(t *testing.T) {
	vm := newTestVM(t)

	assert.Equal(t, uint16(pcStartAddr), vm.PC())
	assert.Equal(t, uint16(0), vm.IndexRegister())
	assert.Equal(t, 0, vm.StackDepth())
	assert.Equal(t, DefaultQuirks(), vm.Quirks())
	assert.Equal(t, [registerCount]uint8{}, vm.Registers())
	assert.Equal(t, [DisplaySize]bool{}, vm.Pixels())
	assert.Nil(t, vm.Fault())

	for i, b := range fontset {
		assert.Equal(t, b, vm.memory[fontStartAddr+i])
	}
	assert.Equal(t, uint8(0), vm.memory[fontStartAddr-1])
	assert.Equal(t, uint8(0), vm.memory[fontStartAddr+len(fontset)])
}

func TestNewC8VM_InvalidOptions(t *testing.T) {
	_, err := NewC8VM(WithRandom(nil))
	assert.Error(t, err)

	_, err = NewC8VM(WithLogger(nil))
	assert.Error(t, err)
}

func TestLoadProgramBytes(t *testing.T) {
	vm := newTestVM(t)
	assert.NoError(t, vm.LoadProgramBytes([]byte{0x12, 0x34, 0x56}))

	assert.Equal(t, uint8(0x12), vm.memory[0x200])
	assert.Equal(t, uint8(0x34), vm.memory[0x201])
	assert.Equal(t, uint8(0x56), vm.memory[0x202])
	assert.Equal(t, uint8(0x00), vm.memory[0x203])
}

func TestLoadProgramBytes_MaximumSize(t *testing.T) {
	vm := newTestVM(t)
	data := bytes.Repeat([]byte{0xAB}, maxProgramSize)

	assert.NoError(t, vm.LoadProgramBytes(data))
	assert.Equal(t, uint8(0xAB), vm.memory[totalMemory-1])
}

func TestLoadProgramBytes_TooLarge(t *testing.T) {
	vm := newTestVM(t)
	data := bytes.Repeat([]byte{0xAB}, maxProgramSize+1)

	err := vm.LoadProgramBytes(data)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrProgramTooLarge))
	assert.Equal(t, uint8(0), vm.memory[pcStartAddr])
}

func TestLoadProgram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.ch8")
	assert.NoError(t, os.WriteFile(path, []byte{0x60, 0x2A}, 0o644))

	vm := newTestVM(t)
	assert.NoError(t, vm.LoadProgram(path))
	runCycles(t, vm, 1)
	assert.Equal(t, uint8(0x2A), vm.Register(0))

	err := vm.LoadProgram(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCycle_FetchIsBigEndian(t *testing.T) {
	vm := newTestVM(t)
	loadOps(t, vm, 0xA2F0)

	runCycles(t, vm, 1)
	assert.Equal(t, Opcode(0xA2F0), vm.opcode)
	assert.Equal(t, uint16(0x2F0), vm.IndexRegister())
	assert.Equal(t, uint16(0x202), vm.PC())
}

func TestCycle_ProgramCounterOverflow(t *testing.T) {
	vm := newTestVM(t)
	loadOps(t, vm,
		0x6001, // LD V0, $01
		0xBFFF, // JP V0, $FFF
	)
	runCycles(t, vm, 2)
	assert.Equal(t, uint16(0x1000), vm.PC())

	err := vm.Cycle()
	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.True(t, errors.Is(err, ErrPCOverflow))
	assert.Equal(t, uint16(0x1000), fault.PC)
	assert.Equal(t, Opcode(0xBFFF), fault.Opcode)
}

func TestCycle_LastByteOfMemory(t *testing.T) {
	vm := newTestVM(t)
	loadOps(t, vm, 0x1FFF) // JP $FFF
	runCycles(t, vm, 1)

	err := vm.Cycle()
	assert.True(t, errors.Is(err, ErrPCOverflow))
}

func TestCycle_FaultIsSticky(t *testing.T) {
	vm := newTestVM(t)
	loadOps(t, vm, 0x5121, 0x6005)

	first := vm.Cycle()
	assert.True(t, errors.Is(first, ErrUnknownOpcode))
	pc := vm.PC()

	second := vm.Cycle()
	assert.Equal(t, first, second)
	assert.Equal(t, pc, vm.PC())
	assert.Equal(t, uint8(0), vm.Register(1))
	assert.Equal(t, first, vm.Fault())

	vm.Restart()
	assert.Nil(t, vm.Fault())
	assert.Equal(t, uint16(pcStartAddr), vm.PC())
}

func TestFault_Error(t *testing.T) {
	f := &Fault{Err: ErrUnknownOpcode, Opcode: 0x5121, PC: 0x204}
	assert.Equal(t, "unknown opcode: opcode 5121 at 204", f.Error())
	assert.True(t, errors.Is(f, ErrUnknownOpcode))
	assert.False(t, errors.Is(f, ErrUnsupportedOpcode))
}

func TestReset(t *testing.T) {
	vm := newTestVM(t)
	loadOps(t, vm,
		0x6AFF, // LD VA, $FF
		0xA300, // LD I, $300
		0xFA15, // LD DT, VA
	)
	vm.SetKey(0x3)
	runCycles(t, vm, 3)
	vm.memory[0x50] = 0
	vm.pixels[10] = true

	vm.Reset()

	assert.Equal(t, uint16(pcStartAddr), vm.PC())
	assert.Equal(t, uint16(0), vm.IndexRegister())
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.Equal(t, [registerCount]uint8{}, vm.Registers())
	assert.Equal(t, [DisplaySize]bool{}, vm.Pixels())
	assert.False(t, vm.IsKeySet(0x3))
	assert.Equal(t, Opcode(0), vm.opcode)
	assert.Equal(t, uint8(0), vm.memory[pcStartAddr])
	assert.Equal(t, fontset[0], vm.memory[fontStartAddr])
}

func TestWithLogger_TracesInstructions(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.TraceLevel)

	vm := newTestVM(t, WithLogger(logger))
	loadOps(t, vm, 0x602A, 0x5121)
	runCycles(t, vm, 1)
	assert.True(t, strings.Contains(buf.String(), "LD V0, $2A"))

	assert.Error(t, vm.Cycle())
	assert.True(t, strings.Contains(buf.String(), "Execution halted"))
}
