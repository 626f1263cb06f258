package main

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/mnafees/c8vm/internal/cli"
	"github.com/retroenv/retrogolib/assert"
	"github.com/sirupsen/logrus"
)

func TestRun_MissingProgram(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	opts, err := cli.ParseFlags("chopper", []string{"-mute", filepath.Join(t.TempDir(), "missing.ch8")})
	assert.NoError(t, err)
	assert.Error(t, run(opts, logger))
}
