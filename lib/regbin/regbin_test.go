package regbin

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/go-wireless/regdb/lib/keys"
	"github.com/go-wireless/regdb/lib/regdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `
band 2g: 2402-2482 @ 40
band 5g: 5170-5250
power std: 6, 20, 30
power low: N/A, N/A, 23

country DE:
	2g, std
	5g, low, DFS, NO-OUTDOOR

country US:
	2g, std
`

func genSigner(t *testing.T) (*rsa.PrivateKey, *keys.KeyTable) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	exp, err := keys.BigNumberFromInt(big.NewInt(int64(priv.PublicKey.E)))
	require.NoError(t, err)
	mod, err := keys.BigNumberFromInt(priv.PublicKey.N)
	require.NoError(t, err)

	return priv, keys.NewKeyTable(keys.PublicKey{Exponent: exp, Modulus: mod})
}

func testDatabase(t *testing.T) *regdb.Database {
	t.Helper()
	db, err := regdb.Parse(strings.NewReader(testSource))
	require.NoError(t, err)
	return db
}

func signedFile(t *testing.T, db *regdb.Database, keyIndex int, signer *rsa.PrivateKey) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, db, keyIndex, signer))
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	signer, table := genSigner(t)
	db := testDatabase(t)

	file := signedFile(t, db, 0, signer)
	got, err := Read(bytes.NewReader(file), table)
	require.NoError(t, err)

	require.Len(t, got.Countries, 2)
	require.Contains(t, got.Countries, "DE")
	require.Contains(t, got.Countries, "US")

	want := db.Countries["DE"].Rules()
	rules := got.Countries["DE"].Rules()
	require.Len(t, rules, len(want))
	for i := range want {
		assert.InDelta(t, want[i].Band.StartMHz, rules[i].Band.StartMHz, 0.001)
		assert.InDelta(t, want[i].Band.EndMHz, rules[i].Band.EndMHz, 0.001)
		assert.InDelta(t, want[i].Band.MaxBandwidthMHz, rules[i].Band.MaxBandwidthMHz, 0.001)
		assert.InDelta(t, want[i].Power.MaxAntennaGainDBI, rules[i].Power.MaxAntennaGainDBI, 0.01)
		assert.InDelta(t, want[i].Power.MaxIRDBm, rules[i].Power.MaxIRDBm, 0.01)
		assert.InDelta(t, want[i].Power.MaxEIRPDBm, rules[i].Power.MaxEIRPDBm, 0.01)
		assert.Equal(t, want[i].Flags, rules[i].Flags)
	}
}

func TestDeterministicOutput(t *testing.T) {
	signer, _ := genSigner(t)
	db := testDatabase(t)

	a := signedFile(t, db, 0, signer)
	b := signedFile(t, db, 0, signer)
	// PKCS#1 v1.5 signing is deterministic, so the whole file is.
	assert.Equal(t, a, b)
}

func TestTamperedFileRejected(t *testing.T) {
	signer, table := genSigner(t)
	file := signedFile(t, testDatabase(t), 0, signer)

	// Flip one bit inside the country records.
	file[20] ^= 0x01
	_, err := Read(bytes.NewReader(file), table)
	assert.True(t, errors.Is(err, ErrInvalidSignature), "got %v", err)
}

func TestMissingMagic(t *testing.T) {
	_, table := genSigner(t)
	file := make([]byte, 64)
	copy(file, "NOPE")
	_, err := Read(bytes.NewReader(file), table)
	assert.True(t, errors.Is(err, ErrMissingMagic))
}

func TestUnsupportedVersion(t *testing.T) {
	signer, table := genSigner(t)
	file := signedFile(t, testDatabase(t), 0, signer)

	file[7] = 0x7f
	_, err := Read(bytes.NewReader(file), table)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
}

func TestUnknownKeyIndex(t *testing.T) {
	signer, table := genSigner(t)
	file := signedFile(t, testDatabase(t), 5, signer)

	_, err := Read(bytes.NewReader(file), table)
	assert.True(t, errors.Is(err, keys.ErrIndexOutOfRange), "got %v", err)
}

func TestTruncatedFile(t *testing.T) {
	signer, table := genSigner(t)
	file := signedFile(t, testDatabase(t), 0, signer)

	for _, cut := range []int{0, 3, 15, 17, len(file) / 2, len(file) - 1} {
		_, err := Read(bytes.NewReader(file[:cut]), table)
		assert.True(t, errors.Is(err, ErrTruncated), "cut=%d got %v", cut, err)
	}
}

func TestWriteRejectsBadInput(t *testing.T) {
	signer, _ := genSigner(t)
	db := testDatabase(t)

	var buf bytes.Buffer
	assert.Error(t, Write(&buf, db, 0, nil))
	assert.Error(t, Write(&buf, db, -1, signer))

	bad := &regdb.Database{Countries: map[string]*regdb.Country{"DEU": {}}}
	assert.Error(t, Write(&buf, bad, 0, signer))
}
