package regdb

import (
	"sort"

	"github.com/samber/oops"
)

// RuleFlags is the bitmask of restrictions attached to a rule. The bit
// values are part of the binary database format and must not change.
type RuleFlags uint32

const (
	FlagNoCCK RuleFlags = 1 << iota
	FlagNoOFDM
	FlagNoIndoor
	FlagNoOutdoor
	FlagDFS
	FlagPTPOnly
	FlagPTMPOnly
)

var flagNames = map[string]RuleFlags{
	"NO-CCK":     FlagNoCCK,
	"NO-OFDM":    FlagNoOFDM,
	"NO-INDOOR":  FlagNoIndoor,
	"NO-OUTDOOR": FlagNoOutdoor,
	"DFS":        FlagDFS,
	"PTP-ONLY":   FlagPTPOnly,
	"PTMP-ONLY":  FlagPTMPOnly,
}

// ParseFlags folds a list of flag names into a bitmask. Unknown names
// are an error.
func ParseFlags(names []string) (RuleFlags, error) {
	var flags RuleFlags
	for _, name := range names {
		bit, ok := flagNames[name]
		if !ok {
			return 0, oops.With("flag", name).Errorf("invalid flag '%s'", name)
		}
		flags |= bit
	}
	return flags, nil
}

// isFlagName reports whether the name collides with a flag keyword.
// Band and power definitions may not reuse flag names.
func isFlagName(name string) bool {
	_, ok := flagNames[name]
	return ok
}

// Names returns the textual flag names set in the mask, sorted.
func (f RuleFlags) Names() []string {
	var out []string
	for name, bit := range flagNames {
		if f&bit != 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
