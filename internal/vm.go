package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// CHIP-8 VM constants
const (
	totalMemory    = 0x1000
	pcStartAddr    = 0x200
	maxProgramSize = totalMemory - pcStartAddr
	stackSize      = 16
	registerCount  = 16

	ProgramStart   = pcStartAddr
	TimerFrequency = 60 // Hz
	ScreenWidth    = 64
	ScreenHeight   = 32
	DisplaySize    = ScreenWidth * ScreenHeight
	KeyCount       = 16
)

// RandomSource supplies the random bytes used by CXNN. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	opcode     Opcode                // Current instruction
	regV       [registerCount]uint8  // 16 general purpose 8-bit registers, VF doubles as flags
	regI       uint16                // 16-bit register that is generally used to store memory addresses
	delayTimer uint8                 // Delay timer
	soundTimer uint8                 // Sound timer
	pc         uint16                // Program counter
	sp         uint8                 // Stack pointer, index of the next free slot
	stack      [stackSize]uint16     // A stack of 16 16-bit return addresses
	memory     [totalMemory]uint8    // 4 KB global memory
	keys       [KeyCount]bool        // Hex keypad state
	pixels     [DisplaySize]bool     // 64 px x 32 px display, row-major
	drawFlag   bool                  // Display changed since the flag was last unset

	fault   error  // Sticky fault, cleared by Reset
	program []byte // Last loaded image, kept for Restart

	quirks Quirks
	rand   RandomSource
	log    *logrus.Entry
}

// Option configures a C8VM on construction
type Option func(*C8VM) error

// WithQuirks sets the quirk flags
func WithQuirks(q Quirks) Option {
	return func(vm *C8VM) error {
		vm.quirks = q
		return nil
	}
}

// WithRandom sets the random source used by CXNN
func WithRandom(src RandomSource) Option {
	return func(vm *C8VM) error {
		if src == nil {
			return errors.New("random source is nil")
		}
		vm.rand = src
		return nil
	}
}

// WithLogger sets the logger. Per cycle traces are emitted at trace level.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(vm *C8VM) error {
		if logger == nil {
			return errors.New("logger is nil")
		}
		vm.log = logger.WithField("component", "vm")
		return nil
	}
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM
func NewC8VM(opts ...Option) (*C8VM, error) {
	silent := logrus.New()
	silent.SetOutput(io.Discard)

	vm := &C8VM{
		quirks: DefaultQuirks(),
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    logrus.NewEntry(silent),
	}
	for _, opt := range opts {
		if err := opt(vm); err != nil {
			return nil, fmt.Errorf("configuring vm: %w", err)
		}
	}
	vm.Reset()
	return vm, nil
}

// Reset restores the power-on state: zeroed registers, memory, stack, timers,
// keypad and display with the font loaded. The loaded program is cleared from
// memory but kept for Restart.
func (vm *C8VM) Reset() {
	vm.opcode = 0
	vm.regV = [registerCount]uint8{}
	vm.regI = 0
	vm.delayTimer = 0
	vm.soundTimer = 0
	vm.pc = pcStartAddr
	vm.sp = 0
	vm.stack = [stackSize]uint16{}
	vm.memory = [totalMemory]uint8{}
	vm.keys = [KeyCount]bool{}
	vm.clearScreen()
	vm.fault = nil
	copy(vm.memory[fontStartAddr:], fontset[:])
}

// Restart resets the VM and loads the last loaded program again
func (vm *C8VM) Restart() {
	vm.Reset()
	copy(vm.memory[pcStartAddr:], vm.program)
	vm.log.WithField("size", len(vm.program)).Debug("Restarted program")
}

// LoadProgram loads a given CHIP-8 program file into the VM's memory
func (vm *C8VM) LoadProgram(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	return vm.LoadProgramBytes(data)
}

// LoadProgramBytes copies a program image verbatim into memory at 0x200.
// Oversized images are rejected without touching memory.
func (vm *C8VM) LoadProgramBytes(data []byte) error {
	size := len(data)
	if size > maxProgramSize {
		return fmt.Errorf("%w: %d bytes, %d available", ErrProgramTooLarge, size, maxProgramSize)
	}
	copy(vm.memory[pcStartAddr:], data)
	vm.program = append(vm.program[:0], data...)
	vm.log.WithField("size", size).Debug("Loaded program")
	return nil
}

// Cycle fetches, decodes and executes one instruction. Once a fault has been
// returned every further call returns the same fault until Reset.
func (vm *C8VM) Cycle() error {
	if vm.fault != nil {
		return vm.fault
	}
	if err := vm.step(); err != nil {
		vm.fault = err
		vm.log.WithFields(logrus.Fields{
			"pc":     fmt.Sprintf("%03X", vm.pc),
			"opcode": fmt.Sprintf("%04X", uint16(vm.opcode)),
		}).WithError(err).Error("Execution halted")
		return err
	}
	return nil
}

func (vm *C8VM) step() error {
	// The fetch reads pc and pc+1, both must lie inside memory.
	if int(vm.pc)+1 >= totalMemory {
		return &Fault{Err: ErrPCOverflow, Opcode: vm.opcode, PC: vm.pc}
	}

	vm.opcode = Opcode(uint16(vm.memory[vm.pc])<<8 | uint16(vm.memory[vm.pc+1]))
	addr := vm.pc
	vm.pc += 2

	if vm.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		vm.log.WithFields(logrus.Fields{
			"pc":     fmt.Sprintf("%03X", addr),
			"opcode": fmt.Sprintf("%04X", uint16(vm.opcode)),
		}).Trace(vm.opcode.String())
	}

	if err := vm.execute(vm.opcode); err != nil {
		return &Fault{Err: err, Opcode: vm.opcode, PC: addr}
	}
	return nil
}

// TickTimers decrements the delay and sound timers. Hosts call it at
// TimerFrequency independently of the instruction rate.
func (vm *C8VM) TickTimers() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}

// RunFrame executes the given number of cycles followed by one timer tick.
// It stops at the first fault.
func (vm *C8VM) RunFrame(cycles int) error {
	for i := 0; i < cycles; i++ {
		if err := vm.Cycle(); err != nil {
			return err
		}
	}
	vm.TickTimers()
	return nil
}

// Fault returns the fault that halted the VM, or nil
func (vm *C8VM) Fault() error {
	return vm.fault
}

// Quirks returns the quirk flags the VM was configured with
func (vm *C8VM) Quirks() Quirks {
	return vm.quirks
}

// PC returns the program counter
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// IndexRegister returns the value of I
func (vm *C8VM) IndexRegister() uint16 {
	return vm.regI
}

// Register returns the value of Vx. x is taken modulo 16.
func (vm *C8VM) Register(x uint8) uint8 {
	return vm.regV[x&0xF]
}

// Registers returns a copy of V0 to VF
func (vm *C8VM) Registers() [registerCount]uint8 {
	return vm.regV
}

// StackDepth returns the number of return addresses on the stack
func (vm *C8VM) StackDepth() int {
	return int(vm.sp)
}

// Pixels returns a copy of the display buffer, indexed y*ScreenWidth+x
func (vm *C8VM) Pixels() [DisplaySize]bool {
	return vm.pixels
}

// Pixel reports whether the pixel at x, y is lit. Coordinates outside the
// screen report false.
func (vm *C8VM) Pixel(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return vm.pixels[y*ScreenWidth+x]
}

// SetKey marks a keypad key as pressed. Codes above 0xF are ignored.
func (vm *C8VM) SetKey(code uint8) {
	if code < KeyCount {
		vm.keys[code] = true
	}
}

// UnsetKey marks a keypad key as released. Codes above 0xF are ignored.
func (vm *C8VM) UnsetKey(code uint8) {
	if code < KeyCount {
		vm.keys[code] = false
	}
}

// IsKeySet reports whether a keypad key is pressed
func (vm *C8VM) IsKeySet(code uint8) bool {
	return code < KeyCount && vm.keys[code]
}

// ReleaseKeys marks every keypad key as released
func (vm *C8VM) ReleaseKeys() {
	vm.keys = [KeyCount]bool{}
}

// IsDrawFlagSet returns whether the display changed since UnsetDrawFlag
func (vm *C8VM) IsDrawFlagSet() bool {
	return vm.drawFlag
}

// UnsetDrawFlag unsets the draw flag
func (vm *C8VM) UnsetDrawFlag() {
	vm.drawFlag = false
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// SoundActive reports whether a tone should be playing
func (vm *C8VM) SoundActive() bool {
	return vm.soundTimer > 0
}
