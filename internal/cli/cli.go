// Package cli handles command line parsing and VM construction for the
// emulator binaries.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mnafees/c8vm/internal"
)

// Defaults for the host loop
const (
	DefaultCyclesPerFrame = 10 // 600 instructions per second at 60 Hz
	DefaultScale          = 20
)

// Options holds the parsed command line
type Options struct {
	Program        string
	CyclesPerFrame int
	Profile        string
	Scale          int
	Mute           bool
	Debug          bool
	Quiet          bool

	vfReset        optionalBool
	incrementIndex optionalBool
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage text and flag defaults
func (e *UsageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s [options] <CHIP-8 program>\n\n", e.flags.Name())
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// ParseFlags parses the arguments following the program name
func ParseFlags(name string, args []string) (Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	opts := Options{}
	flags.IntVar(&opts.CyclesPerFrame, "cycles", DefaultCyclesPerFrame, "instructions executed per 60 Hz frame")
	flags.StringVar(&opts.Profile, "quirks", "default",
		"quirks profile: "+strings.Join(internal.QuirksProfiles(), ", "))
	flags.Var(&opts.vfReset, "vf-reset", "override: 8XY1/8XY2/8XY3 clear VF")
	flags.Var(&opts.incrementIndex, "increment-index", "override: FX55/FX65 advance I")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window pixels per CHIP-8 pixel")
	flags.BoolVar(&opts.Mute, "mute", false, "disable sound")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "quiet", false, "only log errors")

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	if flags.NArg() != 1 {
		return opts, &UsageError{flags: flags, msg: "expected exactly one program file"}
	}
	opts.Program = flags.Arg(0)

	if opts.CyclesPerFrame < 1 {
		return opts, fmt.Errorf("invalid cycles per frame %d", opts.CyclesPerFrame)
	}
	if opts.Scale < 1 {
		return opts, fmt.Errorf("invalid scale %d", opts.Scale)
	}
	if _, err := opts.Quirks(); err != nil {
		return opts, err
	}
	return opts, nil
}

// Quirks returns the selected profile with any flag overrides applied
func (o Options) Quirks() (internal.Quirks, error) {
	q, err := internal.QuirksProfile(o.Profile)
	if err != nil {
		return q, err
	}
	if o.vfReset.set {
		q.VFReset = o.vfReset.value
	}
	if o.incrementIndex.set {
		q.IncrementIndex = o.incrementIndex.value
	}
	return q, nil
}

// optionalBool is a boolean flag that remembers whether it was given
type optionalBool struct {
	set   bool
	value bool
}

func (b *optionalBool) String() string {
	if b == nil || !b.set {
		return ""
	}
	return strconv.FormatBool(b.value)
}

func (b *optionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.set = true
	b.value = v
	return nil
}

func (b *optionalBool) IsBoolFlag() bool {
	return true
}
