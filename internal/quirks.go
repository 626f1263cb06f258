package internal

import (
	"fmt"
	"sort"
)

// Quirks selects between behaviours that historical CHIP-8 interpreters
// disagree on.
type Quirks struct {
	// VFReset clears VF after 8XY1, 8XY2 and 8XY3.
	VFReset bool
	// IncrementIndex advances I by X+1 after FX55 and FX65.
	IncrementIndex bool
}

// DefaultQuirks returns the quirk set used when none is configured:
// VF is reset by the bitwise operations and I is left unchanged by FX55/FX65.
func DefaultQuirks() Quirks {
	return Quirks{VFReset: true}
}

var quirkProfiles = map[string]Quirks{
	"default": DefaultQuirks(),
	"cosmac":  {VFReset: true, IncrementIndex: true},
	"schip":   {},
}

// QuirksProfile returns the named quirk profile
func QuirksProfile(name string) (Quirks, error) {
	q, ok := quirkProfiles[name]
	if !ok {
		return Quirks{}, fmt.Errorf("unknown quirks profile %q", name)
	}
	return q, nil
}

// QuirksProfiles returns the names of all quirk profiles in sorted order
func QuirksProfiles() []string {
	names := make([]string, 0, len(quirkProfiles))
	for name := range quirkProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
