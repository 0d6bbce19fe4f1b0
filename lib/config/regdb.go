package config

import "path/filepath"

// RegdbConfig carries the paths and signing settings the command line
// tools work with.
type RegdbConfig struct {
	// DatabasePath is the human-readable database source (db.txt).
	DatabasePath string

	// BinaryPath is where the signed binary database lives.
	BinaryPath string

	// KeyIndex is the position of the signing key in the trusted key
	// table, recorded in the binary header when compiling.
	KeyIndex int

	// SigningKeyPath points at the PEM-encoded RSA private key used to
	// sign compiled databases. Empty for verify-only installs.
	SigningKeyPath string
}

// DefaultRegdbConfig returns the defaults: everything under $HOME/.regdb,
// signed by the first key in the table.
func DefaultRegdbConfig() *RegdbConfig {
	return &RegdbConfig{
		DatabasePath: filepath.Join(BuildRegdbDirPath(), "db.txt"),
		BinaryPath:   filepath.Join(BuildRegdbDirPath(), "regulatory.bin"),
		KeyIndex:     0,
	}
}
