package config

import (
	"os"
	"path/filepath"

	"github.com/go-wireless/regdb/lib/util"
	"github.com/go-wireless/regdb/lib/util/logger"
	"github.com/spf13/viper"
)

var (
	CfgFile string
	log     = logger.GetRegdbLogger()
)

const REGDB_BASE_DIR = ".regdb"

func InitConfig() {
	if CfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(CfgFile)
	} else {
		// Set up viper to use the default config path $HOME/.regdb/
		viper.AddConfigPath(BuildRegdbDirPath())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Load defaults
	setDefaults()

	// handle config file creating it if needed
	handleConfigFile()
}

func setDefaults() {
	defaults := DefaultRegdbConfig()
	viper.SetDefault("database.source", defaults.DatabasePath)
	viper.SetDefault("database.binary", defaults.BinaryPath)
	viper.SetDefault("signing.key_index", defaults.KeyIndex)
	viper.SetDefault("signing.key_file", defaults.SigningKeyPath)
}

// NewRegdbConfigFromViper creates a new RegdbConfig from current viper settings
func NewRegdbConfigFromViper() *RegdbConfig {
	return &RegdbConfig{
		DatabasePath:   viper.GetString("database.source"),
		BinaryPath:     viper.GetString("database.binary"),
		KeyIndex:       viper.GetInt("signing.key_index"),
		SigningKeyPath: viper.GetString("signing.key_file"),
	}
}

func createDefaultConfig(defaultConfigDir string) {
	defaultConfigFile := filepath.Join(defaultConfigDir, "config.yaml")
	// Ensure directory exists
	if err := os.MkdirAll(defaultConfigDir, 0o755); err != nil {
		log.Fatalf("Could not create config directory: %s", err)
	}

	// Write current config file
	if err := viper.WriteConfigAs(defaultConfigFile); err != nil {
		log.Fatalf("Could not write default config file: %s", err)
	}

	log.Debugf("Created default configuration at: %s", defaultConfigFile)
}

func handleConfigFile() {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if CfgFile != "" {
				log.Fatalf("Config file %s is not found: %s", CfgFile, err)
			} else {
				createDefaultConfig(BuildRegdbDirPath())
			}
		} else {
			log.Fatalf("Error reading config file: %s", err)
		}
	} else {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}

func BuildRegdbDirPath() string {
	return filepath.Join(util.UserHome(), REGDB_BASE_DIR)
}
