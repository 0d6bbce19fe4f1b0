package cmd

import (
	"github.com/go-wireless/regdb/lib/keys"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the trusted key table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := keys.Builtin()
		for i := 0; i < table.Count(); i++ {
			key, err := table.Get(i)
			if err != nil {
				return err
			}
			cmd.Printf("key %d: e=%s, n=%d bits (%d limbs)\n",
				i, key.Exponent.Int(), key.Modulus.BitLen(), key.Modulus.LimbCount())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
