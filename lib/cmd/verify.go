package cmd

import (
	"os"

	"github.com/go-wireless/regdb/lib/config"
	"github.com/go-wireless/regdb/lib/keys"
	"github.com/go-wireless/regdb/lib/regbin"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [regulatory.bin]",
	Short: "Verify a binary database against the trusted keys",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.NewRegdbConfigFromViper().BinaryPath
		if len(args) == 1 {
			path = args[0]
		}

		f, err := os.Open(path)
		if err != nil {
			return oops.Wrapf(err, "opening %s", path)
		}
		defer f.Close()

		db, err := regbin.Read(f, keys.Builtin())
		if err != nil {
			return oops.Wrapf(err, "%s failed verification", path)
		}

		cmd.Printf("%s: signature OK, %d countries\n", path, len(db.Countries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
