package regdb

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// SyntaxError reports a malformed line in the database source, with its
// 1-based line number.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("syntax error in line %d", e.Line)
	}
	return fmt.Sprintf("syntax error in line %d (%s)", e.Line, e.Msg)
}

// parser holds the state accumulated over one run of Parse. Named band
// and power definitions are de-duplicated: a definition identical to an
// earlier one gets aliased to the first name, so rules referencing
// either bind to the same values.
type parser struct {
	lineno int

	bands   map[string]FreqBand
	bandRev map[FreqBand]string
	bandDup map[string]string

	power    map[string]PowerRestriction
	powerRev map[PowerRestriction]string
	powerDup map[string]string

	bandLine, powerLine map[string]int
	bandsUsed           map[string]bool
	powerUsed           map[string]bool

	countries   map[string]*Country
	current     *Country
	currentName string
}

// Parse reads the human-readable database format: named band and power
// definitions followed by country blocks whose rules reference them (or
// define anonymous parenthesised bands and powers inline).
func Parse(r io.Reader) (*Database, error) {
	p := &parser{
		bands:     make(map[string]FreqBand),
		bandRev:   make(map[FreqBand]string),
		bandDup:   make(map[string]string),
		power:     make(map[string]PowerRestriction),
		powerRev:  make(map[PowerRestriction]string),
		powerDup:  make(map[string]string),
		bandLine:  make(map[string]int),
		powerLine: make(map[string]int),
		bandsUsed: make(map[string]bool),
		powerUsed: make(map[string]bool),
		countries: make(map[string]*Country),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.lineno++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, oops.Wrapf(err, "reading database source")
	}
	return p.finish(), nil
}

func (p *parser) syntaxError(msg string) error {
	return &SyntaxError{Line: p.lineno, Msg: msg}
}

func (p *parser) warnf(format string, args ...interface{}) {
	log.Warnf("line %d: %s", p.lineno, fmt.Sprintf(format, args...))
}

func (p *parser) parseLine(raw string) error {
	line := strings.TrimSpace(raw)
	line = strings.ReplaceAll(line, " ", "")
	line = strings.ReplaceAll(line, "\t", "")
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	if line == "" {
		return nil
	}
	switch {
	case strings.HasPrefix(line, "band"):
		p.current = nil
		return p.parseBand(line[len("band"):])
	case strings.HasPrefix(line, "power"):
		p.current = nil
		return p.parsePower(line[len("power"):])
	case strings.HasPrefix(line, "country"):
		return p.parseCountry(line[len("country"):])
	case p.current != nil:
		return p.parseCountryItem(line)
	default:
		return p.syntaxError("expected band, power or country definition")
	}
}

func (p *parser) parseBand(line string) error {
	bname, def, ok := strings.Cut(line, ":")
	if !ok {
		return p.syntaxError("band name must be followed by colon")
	}
	if bname == "" {
		return p.syntaxError("'band' keyword must be followed by name")
	}
	if isFlagName(bname) {
		return p.syntaxError("invalid band name")
	}
	return p.parseBandDef(bname, def, true)
}

func (p *parser) parseBandDef(bname, def string, dupWarn bool) error {
	freqs := def
	bw := 20.0
	if at := strings.LastIndex(def, "@"); at >= 0 {
		freqs = def[:at]
		if v, err := strconv.ParseFloat(def[at+1:], 64); err == nil {
			bw = v
		}
	}

	startStr, endStr, ok := strings.Cut(freqs, "-")
	if !ok {
		return p.syntaxError("band must have frequency range")
	}
	start, err := strconv.ParseFloat(startStr, 64)
	if err != nil {
		return p.syntaxError("band must have frequency range")
	}
	end, err := strconv.ParseFloat(endStr, 64)
	if err != nil {
		return p.syntaxError("band must have frequency range")
	}

	b := FreqBand{StartMHz: start, EndMHz: end, MaxBandwidthMHz: bw}
	p.bandDup[bname] = bname
	if prev, dup := p.bandRev[b]; dup {
		if dupWarn {
			p.warnf("duplicate band definition (%q and %q)", bname, prev)
		}
		p.bandDup[bname] = prev
	}
	p.bands[bname] = b
	p.bandRev[b] = bname
	p.bandLine[bname] = p.lineno
	return nil
}

func (p *parser) parsePower(line string) error {
	pname, def, ok := strings.Cut(line, ":")
	if !ok {
		return p.syntaxError("power name must be followed by colon")
	}
	if pname == "" {
		return p.syntaxError("'power' keyword must be followed by name")
	}
	if isFlagName(pname) {
		return p.syntaxError("invalid power name")
	}
	return p.parsePowerDef(pname, def, true)
}

// parsePowerValue converts one power field. Values suffixed "mW" are
// converted to dBm; "N/A" means unrestricted and parses as zero.
func parsePowerValue(s string) (float64, error) {
	if s == "N/A" {
		return 0, nil
	}
	if strings.HasSuffix(s, "mW") {
		mw, err := strconv.ParseFloat(strings.TrimSuffix(s, "mW"), 64)
		if err != nil {
			return 0, err
		}
		return 10.0 * math.Log10(mw), nil
	}
	return strconv.ParseFloat(s, 64)
}

func (p *parser) parsePowerDef(pname, def string, dupWarn bool) error {
	fields := strings.Split(def, ",")
	if len(fields) != 3 {
		return p.syntaxError("invalid power data")
	}
	gainStr := fields[0]
	if gainStr == "N/A" {
		gainStr = "0"
	}
	gain, err := strconv.ParseFloat(gainStr, 64)
	if err != nil {
		return p.syntaxError("invalid power data")
	}
	ir, err := parsePowerValue(fields[1])
	if err != nil {
		return p.syntaxError("invalid power data")
	}
	eirp, err := parsePowerValue(fields[2])
	if err != nil {
		return p.syntaxError("invalid power data")
	}

	pr := PowerRestriction{MaxAntennaGainDBI: gain, MaxIRDBm: ir, MaxEIRPDBm: eirp}
	p.powerDup[pname] = pname
	if prev, dup := p.powerRev[pr]; dup {
		if dupWarn {
			p.warnf("duplicate power definition (%q and %q)", pname, prev)
		}
		p.powerDup[pname] = prev
	}
	p.power[pname] = pr
	p.powerRev[pr] = pname
	p.powerLine[pname] = p.lineno
	return nil
}

func (p *parser) parseCountry(line string) error {
	cname, rest, ok := strings.Cut(line, ":")
	if !ok {
		return p.syntaxError("country name must be followed by colon")
	}
	if cname == "" {
		return p.syntaxError("'country' keyword must be followed by name")
	}
	if rest != "" {
		return p.syntaxError("extra data at end of country line")
	}

	if _, exists := p.countries[cname]; !exists {
		p.countries[cname] = &Country{}
	}
	p.current = p.countries[cname]
	p.currentName = cname
	return nil
}

func (p *parser) parseCountryItem(line string) error {
	var bname string
	if line[0] == '(' {
		// Anonymous inline band definition.
		def, rest, ok := strings.Cut(line[1:], "),")
		if !ok {
			return p.syntaxError("badly parenthesised band definition")
		}
		bname = fmt.Sprintf("UNNAMED %d", p.lineno)
		if err := p.parseBandDef(bname, def, false); err != nil {
			return err
		}
		line = rest
	} else {
		var rest string
		var ok bool
		bname, rest, ok = strings.Cut(line, ",")
		if !ok {
			return p.syntaxError("country definition must have band and power")
		}
		if bname == "" {
			return p.syntaxError("country definition must have band")
		}
		line = rest
	}
	if line == "" {
		return p.syntaxError("country definition must have power")
	}

	var pname string
	var flagList []string
	if line[0] == '(' {
		// Anonymous inline power definition.
		def, rest, ok := strings.Cut(line, "),")
		if !ok {
			def = line
			if !strings.HasSuffix(def, ")") {
				return p.syntaxError("badly parenthesised power definition")
			}
			def = strings.TrimSuffix(def, ")")
		} else {
			flagList = strings.Split(rest, ",")
		}
		def = def[1:]
		pname = fmt.Sprintf("UNNAMED %d", p.lineno)
		if err := p.parsePowerDef(pname, def, false); err != nil {
			return err
		}
	} else {
		fields := strings.Split(line, ",")
		pname = fields[0]
		flagList = fields[1:]
	}

	if _, ok := p.bands[bname]; !ok {
		return p.syntaxError("band does not exist")
	}
	if _, ok := p.power[pname]; !ok {
		return p.syntaxError("power does not exist")
	}
	p.bandsUsed[bname] = true
	p.powerUsed[pname] = true

	// Bind to the first equivalent definition so the binary database
	// stays compact.
	bname = p.bandDup[bname]
	pname = p.powerDup[pname]

	flags, err := ParseFlags(flagList)
	if err != nil {
		return p.syntaxError(err.Error())
	}

	rule := Rule{Band: p.bands[bname], Power: p.power[pname], Flags: flags}
	if p.current.Contains(rule) {
		p.warnf("rule %q, %q added to %q twice", bname, pname, p.currentName)
		return nil
	}
	p.current.Add(rule)
	return nil
}

func (p *parser) finish() *Database {
	db := &Database{Countries: make(map[string]*Country)}
	for name, country := range p.countries {
		for _, code := range strings.Split(name, ",") {
			db.Countries[code] = country
		}
	}

	for name := range p.bands {
		if p.bandsUsed[name] {
			continue
		}
		// De-duplicated aliases were warned about once already.
		if p.bandDup[name] == name {
			log.Warnf("line %d: unused band definition %q", p.bandLine[name], name)
		}
	}
	for name := range p.power {
		if p.powerUsed[name] {
			continue
		}
		if p.powerDup[name] == name {
			log.Warnf("line %d: unused power definition %q", p.powerLine[name], name)
		}
	}
	return db
}
