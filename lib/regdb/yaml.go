package regdb

import (
	"sort"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type yamlRule struct {
	StartMHz        float64  `yaml:"start_mhz"`
	EndMHz          float64  `yaml:"end_mhz"`
	MaxBandwidthMHz float64  `yaml:"max_bandwidth_mhz"`
	MaxAntennaGain  float64  `yaml:"max_antenna_gain_dbi"`
	MaxIR           float64  `yaml:"max_ir_dbm"`
	MaxEIRP         float64  `yaml:"max_eirp_dbm"`
	Flags           []string `yaml:"flags,omitempty"`
}

type yamlCountry struct {
	Country string     `yaml:"country"`
	Rules   []yamlRule `yaml:"rules"`
}

// YAML renders the database as a YAML document, countries sorted by
// code so the output is stable across runs.
func (db *Database) YAML() ([]byte, error) {
	codes := make([]string, 0, len(db.Countries))
	for code := range db.Countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	doc := make([]yamlCountry, 0, len(codes))
	for _, code := range codes {
		country := yamlCountry{Country: code}
		for _, rule := range db.Countries[code].Rules() {
			country.Rules = append(country.Rules, yamlRule{
				StartMHz:        rule.Band.StartMHz,
				EndMHz:          rule.Band.EndMHz,
				MaxBandwidthMHz: rule.Band.MaxBandwidthMHz,
				MaxAntennaGain:  rule.Power.MaxAntennaGainDBI,
				MaxIR:           rule.Power.MaxIRDBm,
				MaxEIRP:         rule.Power.MaxEIRPDBm,
				Flags:           rule.Flags.Names(),
			})
		}
		doc = append(doc, country)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, oops.Wrapf(err, "encoding database as yaml")
	}
	return out, nil
}
