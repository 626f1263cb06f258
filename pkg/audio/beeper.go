// Package audio turns the CHIP-8 sound timer into an audible tone.
package audio

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// Defaults for the beeper tone
const (
	DefaultSampleRate = 44100
	DefaultFrequency  = 440.0

	amplitude = 0x1800
)

// Speaker plays a tone while active
type Speaker interface {
	SetActive(active bool)
	Close() error
}

// Mute is a Speaker that never makes a sound
type Mute struct{}

// SetActive does nothing
func (Mute) SetActive(bool) {}

// Close does nothing
func (Mute) Close() error { return nil }

// squareWave produces 16-bit signed little endian mono samples. It emits
// silence while inactive so the player can keep running.
type squareWave struct {
	active     atomic.Bool
	halfPeriod float64
	phase      float64
	high       bool
}

func newSquareWave(sampleRate int, frequency float64) *squareWave {
	return &squareWave{
		halfPeriod: float64(sampleRate) / frequency / 2,
	}
}

func (w *squareWave) Read(p []byte) (int, error) {
	n := len(p) &^ 1
	active := w.active.Load()
	for i := 0; i < n; i += 2 {
		var sample int16
		if active {
			if w.high {
				sample = amplitude
			} else {
				sample = -amplitude
			}
		}
		binary.LittleEndian.PutUint16(p[i:], uint16(sample))

		w.phase++
		if w.phase >= w.halfPeriod {
			w.phase -= w.halfPeriod
			w.high = !w.high
		}
	}
	return n, nil
}

// Beeper is a Speaker backed by the system audio device
type Beeper struct {
	ctx    *oto.Context
	player *oto.Player
	wave   *squareWave
	mutex  sync.Mutex
}

// NewBeeper opens the audio device and starts a silent square wave
func NewBeeper(sampleRate int, frequency float64) (*Beeper, error) {
	if sampleRate <= 0 || frequency <= 0 {
		return nil, fmt.Errorf("invalid tone %v Hz at %d Hz sample rate", frequency, sampleRate)
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	b := &Beeper{
		ctx:  ctx,
		wave: newSquareWave(sampleRate, frequency),
	}
	b.player = ctx.NewPlayer(b.wave)
	b.player.Play()
	return b, nil
}

// SetActive switches the tone on or off
func (b *Beeper) SetActive(active bool) {
	b.wave.active.Store(active)
}

// Close stops playback
func (b *Beeper) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.player == nil {
		return nil
	}
	err := b.player.Close()
	b.player = nil
	return err
}
