package main

import (
	"errors"
	"os"

	"github.com/mnafees/c8vm/internal/cli"
	"github.com/mnafees/c8vm/pkg/audio"
	"github.com/mnafees/c8vm/pkg/sdl"
	"github.com/sirupsen/logrus"
)

func main() {
	opts, err := cli.ParseFlags("chopper", os.Args[1:])
	logger := cli.CreateLogger(opts.Debug, opts.Quiet)
	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(os.Stderr)
		}
		logger.Fatal(err)
	}

	if err := run(opts, logger); err != nil {
		logger.Fatal(err)
	}
}

// run returns once the window is closed or the VM faults, after the window
// and the audio device have been released.
func run(opts cli.Options, logger *logrus.Logger) error {
	vm, err := cli.NewMachine(opts, logger)
	if err != nil {
		return err
	}

	speaker := newSpeaker(opts.Mute, logger)
	defer speaker.Close()

	io := sdl.NewIO(vm, speaker, logger, opts.Scale, opts.CyclesPerFrame)
	defer io.Destroy()
	if err := io.SetupWindow("Chopper | CHIP-8 Emulator"); err != nil {
		return err
	}
	return io.Loop()
}

// newSpeaker opens the audio device, falling back to silence when it is
// unavailable.
func newSpeaker(mute bool, logger logrus.FieldLogger) audio.Speaker {
	if mute {
		return audio.Mute{}
	}
	beeper, err := audio.NewBeeper(audio.DefaultSampleRate, audio.DefaultFrequency)
	if err != nil {
		logger.WithError(err).Warn("Sound disabled")
		return audio.Mute{}
	}
	return beeper
}
