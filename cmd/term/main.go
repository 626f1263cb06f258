package main

import (
	"errors"
	"os"

	"github.com/mnafees/c8vm/internal/cli"
	"github.com/mnafees/c8vm/pkg/audio"
	"github.com/mnafees/c8vm/pkg/term"
	"github.com/sirupsen/logrus"
)

func main() {
	opts, err := cli.ParseFlags("chopper-term", os.Args[1:])
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

// run returns once the user quits or the VM faults, with the terminal
// restored and the audio device released.
func run(opts cli.Options, logger *logrus.Logger) error {
	vm, err := cli.NewMachine(opts, logger)
	if err != nil {
		return err
	}

	speaker := newSpeaker(opts.Mute, logger)
	defer speaker.Close()

	io := term.NewIO(vm, speaker, logger, opts.CyclesPerFrame)
	if err := io.Setup(); err != nil {
		return err
	}
	defer io.Destroy()
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
