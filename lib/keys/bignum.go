package keys

import (
	"math/big"

	"github.com/samber/oops"
)

// limbBits is the width of one limb. The database signing keys are
// distributed as sequences of 32-bit words, least-significant word first,
// and that encoding is preserved here.
const limbBits = 32

// BigNumber is an arbitrary-precision non-negative integer stored as
// 32-bit limbs in little-endian limb order. The represented value is
// the sum of limbs[i] * 2^(32*i). A BigNumber is immutable once built.
type BigNumber struct {
	limbs []uint32
}

// NewBigNumber builds a BigNumber from limbs in little-endian limb order.
// The limb sequence is copied. An empty sequence is rejected.
func NewBigNumber(limbs []uint32) (BigNumber, error) {
	if len(limbs) == 0 {
		return BigNumber{}, oops.Errorf("big number must have at least one limb")
	}
	out := make([]uint32, len(limbs))
	copy(out, limbs)
	return BigNumber{limbs: out}, nil
}

// BigNumberFromInt re-encodes a non-negative integer into 32-bit
// little-endian limbs. Zero encodes as a single zero limb.
func BigNumberFromInt(v *big.Int) (BigNumber, error) {
	if v == nil {
		return BigNumber{}, oops.Errorf("cannot encode nil integer")
	}
	if v.Sign() < 0 {
		return BigNumber{}, oops.Errorf("cannot encode negative integer %s", v)
	}
	n := (v.BitLen() + limbBits - 1) / limbBits
	if n == 0 {
		n = 1
	}
	limbs := make([]uint32, n)
	rest := new(big.Int).Set(v)
	mask := big.NewInt(0xffffffff)
	word := new(big.Int)
	for i := 0; i < n; i++ {
		limbs[i] = uint32(word.And(rest, mask).Uint64())
		rest.Rsh(rest, limbBits)
	}
	return BigNumber{limbs: limbs}, nil
}

// Limbs returns a copy of the limb sequence, least-significant limb first.
func (b BigNumber) Limbs() []uint32 {
	out := make([]uint32, len(b.limbs))
	copy(out, b.limbs)
	return out
}

// LimbCount returns the number of 32-bit limbs.
func (b BigNumber) LimbCount() int {
	return len(b.limbs)
}

// Int reconstructs the represented integer.
func (b BigNumber) Int() *big.Int {
	v := new(big.Int)
	word := new(big.Int)
	for i := len(b.limbs) - 1; i >= 0; i-- {
		v.Lsh(v, limbBits)
		v.Or(v, word.SetUint64(uint64(b.limbs[i])))
	}
	return v
}

// BitLen returns the bit length of the represented integer. Leading zero
// limbs do not contribute, so the most significant non-zero limb decides.
func (b BigNumber) BitLen() int {
	return b.Int().BitLen()
}
