// Package term runs the VM inside a terminal. The display is drawn with
// half-block characters, the keyboard is read from stdin in raw mode.
package term

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mnafees/c8vm/internal"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Speaker plays the tone while the sound timer runs
type Speaker interface {
	SetActive(active bool)
}

// IO is the terminal input/output layer for the VM
type IO struct {
	vm             *internal.C8VM
	speaker        Speaker
	log            logrus.FieldLogger
	cyclesPerFrame int

	in       *os.File
	out      io.Writer
	oldState *term.State
	input    chan byte
	keys     keyboard
}

// NewIO returns a new terminal I/O instance reading stdin and writing stdout
func NewIO(vm *internal.C8VM, speaker Speaker, logger logrus.FieldLogger, cyclesPerFrame int) *IO {
	return &IO{
		vm:             vm,
		speaker:        speaker,
		log:            logger.WithField("component", "term"),
		cyclesPerFrame: cyclesPerFrame,
		in:             os.Stdin,
		out:            os.Stdout,
		input:          make(chan byte, 64),
	}
}

// Setup puts the terminal in raw mode and starts reading key presses
func (io *IO) Setup() error {
	fd := int(io.in.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("stdin is not a terminal")
	}

	if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		if width < internal.ScreenWidth || height < internal.ScreenHeight/2 {
			io.log.WithFields(logrus.Fields{
				"width":  width,
				"height": height,
			}).Warn("Terminal is smaller than the display")
		}
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	io.oldState = oldState
	fmt.Fprint(io.out, clearAll+hideCursor)

	// The reader blocks in Read and is left behind on exit.
	go func() {
		buf := make([]byte, 16)
		for {
			n, err := io.in.Read(buf)
			for _, b := range buf[:n] {
				io.input <- b
			}
			if err != nil {
				close(io.input)
				return
			}
		}
	}()
	return nil
}

// Destroy restores the terminal
func (io *IO) Destroy() {
	fmt.Fprint(io.out, showCursor)
	if io.oldState != nil {
		if err := term.Restore(int(io.in.Fd()), io.oldState); err != nil {
			io.log.WithError(err).Warn("Restoring terminal failed")
		}
		io.oldState = nil
	}
}

// Loop is the main application loop. Pending input is applied before every
// frame so the VM never sees the keypad change mid-frame.
func (io *IO) Loop() error {
	ticker := time.NewTicker(time.Second / internal.TimerFrequency)
	defer ticker.Stop()
	defer io.speaker.SetActive(false)

	for range ticker.C {
		if !io.drainInput() {
			io.log.Info("Quitting")
			return nil
		}
		if err := io.frame(); err != nil {
			return err
		}
	}
	return nil
}

// drainInput handles every queued byte and reports whether to keep running
func (io *IO) drainInput() bool {
	for {
		select {
		case b, ok := <-io.input:
			if !ok || !io.handleByte(b) {
				return false
			}
		default:
			return true
		}
	}
}

// handleByte processes one input byte and reports whether to keep running
func (io *IO) handleByte(b byte) bool {
	switch b {
	case keyEscape, keyCtrlC:
		return false
	case keyCtrlR:
		io.vm.Restart()
		io.keys = keyboard{}
		io.log.Info("Restarted program")
	default:
		if key, ok := keyForByte(b); ok {
			io.keys.press(key)
		}
	}
	return true
}

func (io *IO) frame() error {
	io.keys.apply(io.vm)
	if err := io.vm.RunFrame(io.cyclesPerFrame); err != nil {
		return err
	}
	io.speaker.SetActive(io.vm.SoundActive())

	if io.vm.IsDrawFlagSet() {
		pixels := io.vm.Pixels()
		if _, err := io.out.Write([]byte(render(&pixels))); err != nil {
			return fmt.Errorf("writing display: %w", err)
		}
		io.vm.UnsetDrawFlag()
	}
	return nil
}
