package keys

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBigNumberRejectsEmpty(t *testing.T) {
	_, err := NewBigNumber(nil)
	assert.Error(t, err)
	_, err = NewBigNumber([]uint32{})
	assert.Error(t, err)
}

func TestBigNumberValue(t *testing.T) {
	// 0x00000001_00000002 in little-endian limb order
	b, err := NewBigNumber([]uint32{2, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, b.LimbCount())
	assert.Equal(t, "4294967298", b.Int().String())
}

func TestBigNumberRoundTrip(t *testing.T) {
	limbs := []uint32{0x16a0d8e1, 0x63a27054, 0x00000000, 0xdc9fca11}
	b, err := NewBigNumber(limbs)
	require.NoError(t, err)

	back, err := BigNumberFromInt(b.Int())
	require.NoError(t, err)
	// The top limb is non-zero, so re-encoding reproduces the exact
	// sequence, length included.
	assert.Equal(t, limbs, back.Limbs())
}

func TestBigNumberFromIntZero(t *testing.T) {
	b, err := BigNumberFromInt(big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, b.Limbs())
}

func TestBigNumberFromIntRejectsNegative(t *testing.T) {
	_, err := BigNumberFromInt(big.NewInt(-5))
	assert.Error(t, err)
}

func TestBigNumberLimbsAreCopied(t *testing.T) {
	limbs := []uint32{7}
	b, err := NewBigNumber(limbs)
	require.NoError(t, err)
	limbs[0] = 9
	assert.Equal(t, []uint32{7}, b.Limbs())

	got := b.Limbs()
	got[0] = 11
	assert.Equal(t, []uint32{7}, b.Limbs())
}

func TestKeyTableSingleEntry(t *testing.T) {
	key := PublicKey{
		Exponent: mustBigNumber([]uint32{0x00010001}),
		Modulus:  mustBigNumber([]uint32{0x00000005}),
	}
	table := NewKeyTable(key)

	assert.Equal(t, 1, table.Count())

	got, err := table.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(65537), got.Exponent.Int().Int64())

	_, err = table.Get(1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	_, err = table.Get(-1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
}

func TestKeyTableOrderPreserved(t *testing.T) {
	a := PublicKey{
		Exponent: mustBigNumber([]uint32{3}),
		Modulus:  mustBigNumber([]uint32{15}),
	}
	b := PublicKey{
		Exponent: mustBigNumber([]uint32{65537}),
		Modulus:  mustBigNumber([]uint32{21}),
	}
	table := NewKeyTable(a, b)

	got0, err := table.Get(0)
	require.NoError(t, err)
	got1, err := table.Get(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got0.Exponent.Int().Int64())
	assert.Equal(t, int64(65537), got1.Exponent.Int().Int64())
}

func TestBuiltinTable(t *testing.T) {
	table := Builtin()
	require.Equal(t, 1, table.Count())

	for i := 0; i < table.Count(); i++ {
		key, err := table.Get(i)
		require.NoError(t, err)
		assert.NotZero(t, key.Exponent.LimbCount())
		assert.NotZero(t, key.Modulus.LimbCount())
	}

	key, err := table.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(65537), key.Exponent.Int().Int64())
	assert.Equal(t, 64, key.Modulus.LimbCount())
	// 63 full limbs below the top one, and the top limb 0xd6579971
	// occupies all 32 bits.
	assert.Equal(t, 2048, key.Modulus.BitLen())
}

func TestBuiltinKeyRSA(t *testing.T) {
	key, err := Builtin().Get(0)
	require.NoError(t, err)

	pub, err := key.RSA()
	require.NoError(t, err)
	assert.Equal(t, 65537, pub.E)
	assert.Equal(t, 2048, pub.N.BitLen())
	assert.Equal(t, key.Modulus.Int(), pub.N)
}

func TestRSARejectsBadExponent(t *testing.T) {
	key := PublicKey{
		Exponent: mustBigNumber([]uint32{1}),
		Modulus:  mustBigNumber([]uint32{21}),
	}
	_, err := key.RSA()
	assert.Error(t, err)
}
