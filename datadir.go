package fundselling

import (
	"errors"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is the name of the application folder in the user data directory.
const AppName = "fundselling"

// DefaultDataDir returns the per-user data directory of the application:
//
//	linux, bsd: $XDG_DATA_HOME/fundselling or ~/.local/share/fundselling
//	darwin:     ~/Library/Application Support/fundselling
func DefaultDataDir() (string, error) {
	if xdg.DataHome == "" {
		return "", errors.New("cannot locate the user data directory")
	}
	return filepath.Join(xdg.DataHome, AppName), nil
}
