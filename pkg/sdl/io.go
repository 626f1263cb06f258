package sdl

import (
	"fmt"
	"time"

	"github.com/mnafees/c8vm/internal"
	"github.com/mnafees/c8vm/pkg/audio"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA
)

// IO is the input/output abstraction layer for the VM
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface

	vm             *internal.C8VM
	speaker        audio.Speaker
	log            logrus.FieldLogger
	pixelSize      int32
	cyclesPerFrame int
}

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(vm *internal.C8VM, speaker audio.Speaker, logger logrus.FieldLogger, pixelSize, cyclesPerFrame int) *IO {
	return &IO{
		vm:             vm,
		speaker:        speaker,
		log:            logger.WithField("component", "sdl"),
		pixelSize:      int32(pixelSize),
		cyclesPerFrame: cyclesPerFrame,
	}
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.pixelSize, internal.ScreenHeight*io.pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.surface, err = window.GetSurface()
	if err != nil {
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window: %w", err)
	}
	io.log.WithField("title", title).Debug("Window created")
	return nil
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.window != nil {
		if err := io.window.Destroy(); err != nil {
			io.log.WithError(err).Warn("Destroying window failed")
		}
	}
	sdl.Quit()
}

// Loop is the main application loop. Every 1/60 s it processes pending input,
// runs one frame of instructions and timers, and redraws if the display
// changed. It returns when the window is closed or the VM faults.
func (io *IO) Loop() error {
	ticker := time.NewTicker(time.Second / internal.TimerFrequency)
	defer ticker.Stop()
	defer io.speaker.SetActive(false)

	for range ticker.C {
		if !io.pollEvents() {
			io.log.Info("Quitting")
			return nil
		}

		if err := io.vm.RunFrame(io.cyclesPerFrame); err != nil {
			return err
		}
		io.speaker.SetActive(io.vm.SoundActive())

		if io.vm.IsDrawFlagSet() {
			if err := io.draw(); err != nil {
				return err
			}
		}
	}
	return nil
}

// pollEvents drains the SDL event queue and reports whether to keep running
func (io *IO) pollEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			code := t.Keysym.Scancode
			switch t.GetType() {
			case sdl.KEYDOWN:
				switch code {
				case sdl.SCANCODE_ESCAPE:
					return false
				case sdl.SCANCODE_F5:
					if t.Repeat == 0 {
						io.vm.Restart()
						io.log.Info("Restarted program")
					}
				default:
					if key, ok := keymap(code); ok {
						io.vm.SetKey(key)
					}
				}
			case sdl.KEYUP:
				if key, ok := keymap(code); ok {
					io.vm.UnsetKey(key)
				}
			}
		case *sdl.QuitEvent:
			return false
		}
	}
	return true
}

// Draws the current display buffer on screen
func (io *IO) draw() error {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window: %w", err)
	}
	pixels := io.vm.Pixels()
	for h := int32(0); h < internal.ScreenHeight; h++ {
		for w := int32(0); w < internal.ScreenWidth; w++ {
			if !pixels[h*internal.ScreenWidth+w] {
				continue
			}
			rect := &sdl.Rect{X: w * io.pixelSize, Y: h * io.pixelSize, W: io.pixelSize, H: io.pixelSize}
			if err := io.surface.FillRect(rect, spriteColor); err != nil {
				return fmt.Errorf("drawing pixel: %w", err)
			}
		}
	}
	if err := io.window.UpdateSurface(); err != nil {
		return fmt.Errorf("updating window: %w", err)
	}
	io.vm.UnsetDrawFlag()
	return nil
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
func keymap(code sdl.Scancode) (uint8, bool) {
	switch code {
	case sdl.SCANCODE_1:
		return 0x1, true
	case sdl.SCANCODE_2:
		return 0x2, true
	case sdl.SCANCODE_3:
		return 0x3, true
	case sdl.SCANCODE_4:
		return 0xC, true
	case sdl.SCANCODE_Q:
		return 0x4, true
	case sdl.SCANCODE_W:
		return 0x5, true
	case sdl.SCANCODE_E:
		return 0x6, true
	case sdl.SCANCODE_R:
		return 0xD, true
	case sdl.SCANCODE_A:
		return 0x7, true
	case sdl.SCANCODE_S:
		return 0x8, true
	case sdl.SCANCODE_D:
		return 0x9, true
	case sdl.SCANCODE_F:
		return 0xE, true
	case sdl.SCANCODE_Z:
		return 0xA, true
	case sdl.SCANCODE_X:
		return 0x0, true
	case sdl.SCANCODE_C:
		return 0xB, true
	case sdl.SCANCODE_V:
		return 0xF, true
	default:
		return 0, false
	}
}
