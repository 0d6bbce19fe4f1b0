package util

import (
	"os"

	"github.com/go-wireless/regdb/lib/util/logger"
)

var log = logger.GetRegdbLogger()

// UserHome returns the current user's home directory.
// Falls back to $HOME environment variable if os.UserHomeDir fails.
// As a last resort, uses the current working directory rather than panicking,
// which allows operation in containerized environments where $HOME may not be set.
func UserHome() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv("HOME"); home != "" {
			log.WithError(err).Warn("os.UserHomeDir failed, falling back to $HOME")
			return home
		}
		if home := os.Getenv("USERPROFILE"); home != "" {
			log.WithError(err).Warn("os.UserHomeDir failed, falling back to USERPROFILE")
			return home
		}
		if wd, wdErr := os.Getwd(); wdErr == nil {
			log.WithError(err).Warn("os.UserHomeDir and $HOME unavailable; falling back to working directory")
			return wd
		}
		panic("regdb: unable to determine home directory; set $HOME environment variable")
	}

	return homeDir
}

// CheckFileExists reports whether a file exists at the path.
func CheckFileExists(fpath string) bool {
	_, e := os.Stat(fpath)
	return e == nil
}
