// Package keys holds the public keys trusted to sign the regulatory
// database, as an ordered, immutable table.
//
// Each key is a pair of big numbers (exponent and modulus) transcribed
// from the 32-bit little-endian limb encoding the keys are distributed
// in. The table is safe for concurrent reads; nothing mutates it after
// initialization.
package keys

import (
	"crypto/rsa"
	"errors"

	"github.com/go-wireless/regdb/lib/util/logger"
	"github.com/samber/oops"
)

var log = logger.GetRegdbLogger()

// ErrIndexOutOfRange is returned by KeyTable.Get for an index that does
// not name a key. It must be surfaced to the caller; silently handing
// back a different key would defeat signature checking.
var ErrIndexOutOfRange = errors.New("key index out of range")

// PublicKey is one RSA public key: exponent and modulus.
type PublicKey struct {
	Exponent BigNumber
	Modulus  BigNumber
}

// RSA converts the key into a crypto/rsa public key. The limbs are
// decoded into integers first; raw words are never copied across
// representations.
func (k PublicKey) RSA() (*rsa.PublicKey, error) {
	e := k.Exponent.Int()
	if !e.IsInt64() || e.Int64() <= 1 {
		return nil, oops.Errorf("unusable public exponent %s", e)
	}
	n := k.Modulus.Int()
	if n.Sign() <= 0 {
		return nil, oops.Errorf("unusable modulus")
	}
	return &rsa.PublicKey{
		N: n,
		E: int(e.Int64()),
	}, nil
}

// KeyTable is an ordered, read-only collection of public keys. The
// declared order is significant: signed databases name their key by
// position in this table.
type KeyTable struct {
	entries []PublicKey
}

// NewKeyTable builds a table from keys in the given order.
func NewKeyTable(entries ...PublicKey) *KeyTable {
	out := make([]PublicKey, len(entries))
	copy(out, entries)
	return &KeyTable{entries: out}
}

// Count returns the number of keys in the table.
func (t *KeyTable) Count() int {
	return len(t.entries)
}

// Get returns the key at the given zero-based position, or
// ErrIndexOutOfRange when the index is negative or past the end.
func (t *KeyTable) Get(index int) (PublicKey, error) {
	if index < 0 || index >= len(t.entries) {
		log.WithFields(logger.Fields{
			"index": index,
			"count": len(t.entries),
		}).Warn("key lookup out of range")
		return PublicKey{}, oops.With("index", index).With("count", len(t.entries)).
			Wrapf(ErrIndexOutOfRange, "no key at index %d", index)
	}
	return t.entries[index], nil
}

// mustBigNumber is for the compiled-in key literals, which are known
// to be non-empty.
func mustBigNumber(limbs []uint32) BigNumber {
	b, err := NewBigNumber(limbs)
	if err != nil {
		panic(err)
	}
	return b
}
