// Package config locates the engine's optional on-disk override file.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the telnet engine's configuration directory, honouring
// XDG_CONFIG_HOME on Unix and APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "telnet")
}

// File returns the path to the optional JSON overrides file
// (connect timeouts, term/speed, send_environ allowlist).
func File() string {
	return filepath.Join(Dir(), "config.json")
}
