package cmd

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/go-wireless/regdb/lib/config"
	"github.com/go-wireless/regdb/lib/regbin"
	"github.com/go-wireless/regdb/lib/regdb"
	"github.com/go-wireless/regdb/lib/util/logger"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

var (
	compileOutput   string
	compileKeyFile  string
	compileKeyIndex int
)

var compileCmd = &cobra.Command{
	Use:   "compile [db.txt]",
	Short: "Compile and sign the database source",
	Long: `Parse the human-readable database source and write the signed binary
database. The signing key must be the RSA private key matching the
public key at the given index of the verifier's key table.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.NewRegdbConfigFromViper()
		source := cfg.DatabasePath
		if len(args) == 1 {
			source = args[0]
		}
		output := compileOutput
		if output == "" {
			output = cfg.BinaryPath
		}
		keyFile := compileKeyFile
		if keyFile == "" {
			keyFile = cfg.SigningKeyPath
		}
		if keyFile == "" {
			return oops.Errorf("no signing key: pass --key or set signing.key_file")
		}
		keyIndex := compileKeyIndex
		if !cmd.Flags().Changed("key-index") {
			keyIndex = cfg.KeyIndex
		}

		signer, err := loadSigningKey(keyFile)
		if err != nil {
			return err
		}

		in, err := os.Open(source)
		if err != nil {
			return oops.Wrapf(err, "opening database source %s", source)
		}
		defer in.Close()

		db, err := regdb.Parse(in)
		if err != nil {
			return err
		}

		out, err := os.Create(output)
		if err != nil {
			return oops.Wrapf(err, "creating %s", output)
		}
		defer out.Close()

		if err := regbin.Write(out, db, keyIndex, signer); err != nil {
			return err
		}

		log.WithFields(logger.Fields{
			"source":    source,
			"output":    output,
			"countries": len(db.Countries),
			"key_index": keyIndex,
		}).Debug("compiled database")
		cmd.Printf("wrote %s (%d countries, key index %d)\n", output, len(db.Countries), keyIndex)
		return nil
	},
}

// loadSigningKey reads a PEM-encoded RSA private key, accepting both
// PKCS#1 and PKCS#8 encodings.
func loadSigningKey(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Wrapf(err, "reading signing key %s", path)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, oops.Errorf("no PEM block in %s", path)
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, oops.Wrapf(err, "parsing signing key %s", path)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, oops.Errorf("signing key %s is not an RSA key", path)
	}
	return key, nil
}

func init() {
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output file (default from config)")
	compileCmd.Flags().StringVar(&compileKeyFile, "key", "", "PEM RSA private key to sign with")
	compileCmd.Flags().IntVar(&compileKeyIndex, "key-index", 0, "key table index recorded in the header")
	rootCmd.AddCommand(compileCmd)
}
