// Package cmd wires the regdb command line tool: compiling the
// human-readable database into its signed binary form, verifying and
// dumping binaries, and listing the trusted key table.
package cmd

import (
	"os"

	"github.com/go-wireless/regdb/lib/config"
	"github.com/go-wireless/regdb/lib/util/logger"
	"github.com/spf13/cobra"
)

var log = logger.GetRegdbLogger()

var rootCmd = &cobra.Command{
	Use:   "regdb",
	Short: "Wireless regulatory database tool",
	Long: `regdb compiles the wireless regulatory database source into a signed
binary database, and verifies and inspects such binaries against the
compiled-in key table.`,
	SilenceUsage: true,
}

// Execute runs the root command. Errors have been reported by the
// failing subcommand, so only the exit code is left to set.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(config.InitConfig)
	rootCmd.PersistentFlags().StringVar(&config.CfgFile, "config", "",
		"config file (default is $HOME/.regdb/config.yaml)")
}
