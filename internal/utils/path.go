package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// AppName names the config and data directories.
const AppName = "kanaserve"

// DictionaryNames are the SKK dictionary files searched for, largest first.
var DictionaryNames = []string{"SKK-JISYO.L", "SKK-JISYO.M", "SKK-JISYO.S"}

// ConfigDir returns the platform config directory for the app.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		home = os.TempDir()
	}
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(home, "AppData", "Roaming", AppName)
	default:
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(home, ".config", AppName)
	}
}

// DataDir returns the directory for learned data and downloaded dictionaries.
func DataDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(ConfigDir(), "data")
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// DictionarySearchPaths lists directories searched for a dictionary when
// none is configured, in priority order.
func DictionarySearchPaths() []string {
	paths := []string{DataDir()}
	if execDir, err := executableDir(); err == nil {
		paths = append(paths, filepath.Join(execDir, "data"), execDir)
	}
	return append(paths, "/usr/share/skk", "/usr/local/share/skk", "/opt/homebrew/share/skk")
}

// FindDictionary returns the first DictionaryNames file found in dirs.
func FindDictionary(dirs []string) (string, bool) {
	for _, dir := range dirs {
		for _, name := range DictionaryNames {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				log.Debugf("Found dictionary at %s", p)
				return p, true
			}
		}
	}
	return "", false
}
