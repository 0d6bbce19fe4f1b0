package regbin

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"sort"

	"github.com/go-wireless/regdb/lib/regdb"
	"github.com/samber/oops"
)

// Write encodes the database, signs it with the given key and writes
// the result. keyIndex is the position the matching public key holds in
// the verifier's key table; it is recorded in the header as-is.
func Write(w io.Writer, db *regdb.Database, keyIndex int, signer *rsa.PrivateKey) error {
	if signer == nil {
		return oops.Errorf("cannot write database without signing key")
	}
	if keyIndex < 0 {
		return oops.Errorf("negative key index %d", keyIndex)
	}

	var buf bytes.Buffer
	buf.Write(magicBytes[:])
	writeWord(&buf, FormatVersion)
	writeWord(&buf, uint32(keyIndex))
	writeWord(&buf, uint32(len(db.Countries)))

	// Countries are written sorted by code so identical databases
	// produce identical files.
	codes := make([]string, 0, len(db.Countries))
	for code := range db.Countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		if len(code) != 2 {
			return oops.With("country", code).Errorf("country code %q is not two bytes", code)
		}
		rules := db.Countries[code].Rules()
		if len(rules) > 0xffff {
			return oops.With("country", code).Errorf("too many rules for country %q", code)
		}
		buf.WriteString(code)
		var count [2]byte
		binary.BigEndian.PutUint16(count[:], uint16(len(rules)))
		buf.Write(count[:])
		for _, rule := range rules {
			if err := encodeRule(&buf, rule); err != nil {
				return err
			}
		}
	}

	digest := sha256.Sum256(buf.Bytes())
	sig, err := rsa.SignPKCS1v15(rand.Reader, signer, crypto.SHA256, digest[:])
	if err != nil {
		return oops.Wrapf(err, "signing database")
	}
	var sigLen [2]byte
	binary.BigEndian.PutUint16(sigLen[:], uint16(len(sig)))
	buf.Write(sigLen[:])
	buf.Write(sig)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return oops.Wrapf(err, "writing database file")
	}
	return nil
}

func writeWord(buf *bytes.Buffer, v uint32) {
	var word [4]byte
	binary.BigEndian.PutUint32(word[:], v)
	buf.Write(word[:])
}

func encodeRule(buf *bytes.Buffer, rule regdb.Rule) error {
	words := []struct {
		value float64
		scale float64
	}{
		{rule.Band.StartMHz, 1000},
		{rule.Band.EndMHz, 1000},
		{rule.Band.MaxBandwidthMHz, 1000},
		{rule.Power.MaxAntennaGainDBI, 100},
		{rule.Power.MaxIRDBm, 100},
		{rule.Power.MaxEIRPDBm, 100},
	}
	for _, w := range words {
		encoded, err := encodeWord(w.value, w.scale)
		if err != nil {
			return err
		}
		writeWord(buf, encoded)
	}
	writeWord(buf, uint32(rule.Flags))
	return nil
}
