// Package paths resolves the user home directory, expands a leading tilde in
// user-supplied paths, and locates the files neovate-desk reads and writes.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/andywolf/neovate-desk/internal/apperr"
)

const (
	// HomeEnv is consulted first when resolving the home directory.
	HomeEnv = "HOME"
	// FallbackHomeEnv is consulted when HomeEnv is unset or blank.
	FallbackHomeEnv = "USERPROFILE"

	// ConfigDirName is the directory under home holding the Neovate config.
	ConfigDirName = ".neovate"
	// ConfigFileName is the Neovate config document.
	ConfigFileName = "config.json"
)

// ErrNoHomeDirectory is returned when neither home variable holds a usable value.
var ErrNoHomeDirectory = apperr.Environment("cannot locate the user home directory (HOME/USERPROFILE not set)")

// ResolveHome returns the user's home directory from the environment.
func ResolveHome() (string, error) {
	for _, key := range []string{HomeEnv, FallbackHomeEnv} {
		if home := os.Getenv(key); strings.TrimSpace(home) != "" {
			return home, nil
		}
	}
	return "", ErrNoHomeDirectory
}

// ExpandTilde replaces a leading "~/" (or "~\") with the home directory.
// Exactly "~" expands to the home directory itself. Any other input,
// including "~user", is returned unchanged.
func ExpandTilde(input string) (string, error) {
	if rest, ok := cutTildePrefix(input); ok {
		home, err := ResolveHome()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, rest), nil
	}
	if strings.TrimSpace(input) == "~" {
		return ResolveHome()
	}
	return input, nil
}

func cutTildePrefix(input string) (string, bool) {
	if rest, ok := strings.CutPrefix(input, "~/"); ok {
		return rest, true
	}
	return strings.CutPrefix(input, `~\`)
}

// ConfigPath returns <home>/.neovate/config.json.
func ConfigPath() (string, error) {
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDirName, ConfigFileName), nil
}

// AppDataDir returns the application-local data directory for identifier:
// $XDG_DATA_HOME/<id> on Linux, ~/Library/Application Support/<id> on macOS
// and %LOCALAPPDATA%\<id> on Windows.
func AppDataDir(identifier string) string {
	return filepath.Join(xdg.DataHome, identifier)
}
