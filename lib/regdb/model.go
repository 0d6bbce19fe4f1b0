// Package regdb models the wireless regulatory database and parses its
// human-readable source format. A database maps country codes to the
// frequency rules permitted there; the parsed form feeds the binary
// encoder in lib/regbin.
package regdb

import (
	"github.com/go-wireless/regdb/lib/util/logger"
)

var log = logger.GetRegdbLogger()

// FreqBand is a frequency range with the widest channel allowed in it.
// All values are in MHz.
type FreqBand struct {
	StartMHz        float64
	EndMHz          float64
	MaxBandwidthMHz float64
}

// PowerRestriction caps antenna gain (dBi) and radiated power (dBm)
// within a band. Zero means the source declared the value N/A.
type PowerRestriction struct {
	MaxAntennaGainDBI float64
	MaxIRDBm          float64
	MaxEIRPDBm        float64
}

// Rule is one permission line of a country: a band, the power limits in
// it, and restriction flags.
type Rule struct {
	Band  FreqBand
	Power PowerRestriction
	Flags RuleFlags
}

// less orders rules the way the source parser sorts them, band first,
// then power, then flags.
func (r Rule) less(other Rule) bool {
	if r.Band != other.Band {
		a, b := r.Band, other.Band
		if a.StartMHz != b.StartMHz {
			return a.StartMHz < b.StartMHz
		}
		if a.EndMHz != b.EndMHz {
			return a.EndMHz < b.EndMHz
		}
		return a.MaxBandwidthMHz < b.MaxBandwidthMHz
	}
	if r.Power != other.Power {
		a, b := r.Power, other.Power
		if a.MaxAntennaGainDBI != b.MaxAntennaGainDBI {
			return a.MaxAntennaGainDBI < b.MaxAntennaGainDBI
		}
		if a.MaxIRDBm != b.MaxIRDBm {
			return a.MaxIRDBm < b.MaxIRDBm
		}
		return a.MaxEIRPDBm < b.MaxEIRPDBm
	}
	return r.Flags < other.Flags
}

// Country is the ordered rule set for one alpha2 code. Rules stay
// sorted and duplicates are rejected by Contains before insertion.
type Country struct {
	rules []Rule
}

// Add inserts a rule keeping the rule list sorted.
func (c *Country) Add(rule Rule) {
	pos := len(c.rules)
	for i, existing := range c.rules {
		if rule.less(existing) {
			pos = i
			break
		}
	}
	c.rules = append(c.rules, Rule{})
	copy(c.rules[pos+1:], c.rules[pos:])
	c.rules[pos] = rule
}

// Contains reports whether an identical rule is already present.
func (c *Country) Contains(rule Rule) bool {
	for _, existing := range c.rules {
		if existing == rule {
			return true
		}
	}
	return false
}

// Rules returns a copy of the sorted rule list.
func (c *Country) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Database is the parsed regulatory database. A source line declaring
// several country codes fans out to one entry per code, all sharing the
// same rule set.
type Database struct {
	Countries map[string]*Country
}
