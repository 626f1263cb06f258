package cli

import (
	"fmt"

	"github.com/mnafees/c8vm/internal"
	"github.com/sirupsen/logrus"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	switch {
	case debug:
		logger.SetLevel(logrus.DebugLevel)
	case quiet:
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// NewMachine creates a VM configured from the options and loads the program
func NewMachine(opts Options, logger logrus.FieldLogger) (*internal.C8VM, error) {
	quirks, err := opts.Quirks()
	if err != nil {
		return nil, err
	}

	vm, err := internal.NewC8VM(
		internal.WithQuirks(quirks),
		internal.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating vm: %w", err)
	}
	if err := vm.LoadProgram(opts.Program); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"program":         opts.Program,
		"profile":         opts.Profile,
		"vf_reset":        quirks.VFReset,
		"increment_index": quirks.IncrementIndex,
		"cycles":          opts.CyclesPerFrame,
	}).Info("Loaded program")
	return vm, nil
}
