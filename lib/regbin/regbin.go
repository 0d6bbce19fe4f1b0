// Package regbin reads and writes the signed binary form of the
// regulatory database.
//
// The file is a fixed big-endian layout: a magic/version header, the
// index of the signing key in the trusted key table, the country
// records, and a trailing RSA signature over everything before it.
// Frequencies are stored in kHz and powers in hundredths of a dB, so
// the format carries no floating point.
//
// Read() takes an io.Reader and the key table to verify against. The
// key named by the file's header is looked up with KeyTable.Get; an
// out-of-range index surfaces the table's error unchanged, it is never
// substituted with another key.
package regbin

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/go-wireless/regdb/lib/keys"
	"github.com/go-wireless/regdb/lib/regdb"
	"github.com/go-wireless/regdb/lib/util/logger"
	"github.com/samber/oops"
)

var log = logger.GetRegdbLogger()

// magicBytes opens every database file.
var magicBytes = [4]byte{'R', 'E', 'G', 'B'}

// FormatVersion is the only version this package reads and writes.
const FormatVersion = uint32(1)

var ErrMissingMagic = errors.New("missing magic bytes")
var ErrUnsupportedVersion = errors.New("unsupported format version")
var ErrTruncated = errors.New("truncated database file")
var ErrInvalidSignature = errors.New("invalid signature")

const (
	countryRecordSize = 2 + 2   // alpha2 + rule count
	ruleRecordSize    = 7 * 4   // seven big-endian words
	maxRuleValue      = 1 << 31 // sanity bound for encoded words
)

// Read parses a signed database and verifies its signature against the
// key the header names in the given table.
func Read(r io.Reader, table *keys.KeyTable) (*regdb.Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, oops.Wrapf(err, "reading database file")
	}
	if len(data) < 16 {
		return nil, ErrTruncated
	}
	if !bytes.Equal(data[0:4], magicBytes[:]) {
		return nil, ErrMissingMagic
	}
	version := binary.BigEndian.Uint32(data[4:8])
	if version != FormatVersion {
		return nil, oops.With("version", version).Wrapf(ErrUnsupportedVersion, "version %d", version)
	}
	keyIndex := binary.BigEndian.Uint32(data[8:12])
	countryCount := binary.BigEndian.Uint32(data[12:16])

	db := &regdb.Database{Countries: make(map[string]*regdb.Country)}
	pos := 16
	for i := uint32(0); i < countryCount; i++ {
		if len(data)-pos < countryRecordSize {
			return nil, ErrTruncated
		}
		code := string(data[pos : pos+2])
		ruleCount := binary.BigEndian.Uint16(data[pos+2 : pos+4])
		pos += countryRecordSize

		country := &regdb.Country{}
		for j := uint16(0); j < ruleCount; j++ {
			if len(data)-pos < ruleRecordSize {
				return nil, ErrTruncated
			}
			country.Add(decodeRule(data[pos : pos+ruleRecordSize]))
			pos += ruleRecordSize
		}
		db.Countries[code] = country
	}

	if len(data)-pos < 2 {
		return nil, ErrTruncated
	}
	sigLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
	signed := data[:pos]
	pos += 2
	if len(data)-pos != sigLen {
		return nil, ErrTruncated
	}
	sig := data[pos:]

	key, err := table.Get(int(keyIndex))
	if err != nil {
		return nil, err
	}
	pub, err := key.RSA()
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(signed)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		log.WithFields(logger.Fields{
			"key_index": keyIndex,
			"countries": countryCount,
		}).Warn("database signature check failed")
		return nil, ErrInvalidSignature
	}

	log.WithFields(logger.Fields{
		"key_index": keyIndex,
		"countries": len(db.Countries),
	}).Debug("verified database file")
	return db, nil
}

func decodeRule(rec []byte) regdb.Rule {
	word := func(i int) uint32 { return binary.BigEndian.Uint32(rec[i*4 : i*4+4]) }
	return regdb.Rule{
		Band: regdb.FreqBand{
			StartMHz:        float64(word(0)) / 1000.0,
			EndMHz:          float64(word(1)) / 1000.0,
			MaxBandwidthMHz: float64(word(2)) / 1000.0,
		},
		Power: regdb.PowerRestriction{
			MaxAntennaGainDBI: float64(word(3)) / 100.0,
			MaxIRDBm:          float64(word(4)) / 100.0,
			MaxEIRPDBm:        float64(word(5)) / 100.0,
		},
		Flags: regdb.RuleFlags(word(6)),
	}
}

func encodeWord(v float64, scale float64) (uint32, error) {
	scaled := math.Round(v * scale)
	if scaled < 0 || scaled >= maxRuleValue {
		return 0, oops.With("value", v).Errorf("value %v out of range for database encoding", v)
	}
	return uint32(scaled), nil
}
