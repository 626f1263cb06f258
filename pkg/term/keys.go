package term

import "github.com/mnafees/c8vm/internal"

// Terminals report key presses only, so a key counts as held for this many
// frames after its last byte. Auto-repeat keeps a held key alive.
const keyHoldFrames = 6

const (
	keyCtrlC  = 0x03
	keyCtrlR  = 0x12
	keyEscape = 0x1B
)

// Same QWERTY layout as the SDL frontend
var keymap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// keyForByte maps an input byte to a keypad key, ignoring case
func keyForByte(b byte) (uint8, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keymap[b]
	return key, ok
}

// keyboard tracks how many more frames each keypad key stays pressed
type keyboard struct {
	held [internal.KeyCount]int
}

func (k *keyboard) press(key uint8) {
	k.held[key] = keyHoldFrames
}

// apply copies the held state into the VM and ages every held key by a frame
func (k *keyboard) apply(vm *internal.C8VM) {
	for key := range k.held {
		if k.held[key] > 0 {
			vm.SetKey(uint8(key))
			k.held[key]--
		} else {
			vm.UnsetKey(uint8(key))
		}
	}
}
