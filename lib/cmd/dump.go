package cmd

import (
	"bufio"
	"bytes"
	"os"
	"sort"
	"strings"

	"github.com/go-wireless/regdb/lib/keys"
	"github.com/go-wireless/regdb/lib/regbin"
	"github.com/go-wireless/regdb/lib/regdb"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

var dumpFormat string

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the contents of a database",
	Long: `Print the rules of a database file. Binary databases are verified
against the trusted key table before dumping; source files are parsed
directly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(args[0])
		if err != nil {
			return err
		}

		switch dumpFormat {
		case "yaml":
			out, err := db.YAML()
			if err != nil {
				return err
			}
			cmd.Print(string(out))
			return nil
		case "text":
			printText(cmd, db)
			return nil
		default:
			return oops.Errorf("unknown dump format %q", dumpFormat)
		}
	},
}

// openDatabase loads either format, deciding by the file's magic.
func openDatabase(path string) (*regdb.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oops.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, _ := br.Peek(4)
	if bytes.Equal(head, []byte("REGB")) {
		return regbin.Read(br, keys.Builtin())
	}
	return regdb.Parse(br)
}

func printText(cmd *cobra.Command, db *regdb.Database) {
	codes := make([]string, 0, len(db.Countries))
	for code := range db.Countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		cmd.Printf("country %s:\n", code)
		for _, rule := range db.Countries[code].Rules() {
			flags := ""
			if names := rule.Flags.Names(); len(names) > 0 {
				flags = ", " + strings.Join(names, ", ")
			}
			cmd.Printf("\t(%g - %g @ %g), (%g, %g, %g)%s\n",
				rule.Band.StartMHz, rule.Band.EndMHz, rule.Band.MaxBandwidthMHz,
				rule.Power.MaxAntennaGainDBI, rule.Power.MaxIRDBm, rule.Power.MaxEIRPDBm,
				flags)
		}
	}
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "text", "output format: text or yaml")
	rootCmd.AddCommand(dumpCmd)
}
