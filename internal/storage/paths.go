// Package storage persists finished games and running totals in BadgerDB.
package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessduel"

// dbSubdir is the BadgerDB directory inside a data directory.
const dbSubdir = "db"

// platformBase returns the per-user data root for goos:
// ~/Library/Application Support on macOS, %APPDATA% on Windows and
// $XDG_DATA_HOME or ~/.local/share elsewhere.
func platformBase(goos string) (string, error) {
	var env string
	var fallback []string
	switch goos {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}
	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// DataDir resolves and creates the application data directory. A non-empty
// override is used as is; otherwise the platform location is chosen.
func DataDir(override string) (string, error) {
	dir := override
	if dir == "" {
		base, err := platformBase(runtime.GOOS)
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, appName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// DatabaseDir returns the BadgerDB directory inside DataDir(override), creating it.
func DatabaseDir(override string) (string, error) {
	dataDir, err := DataDir(override)
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(dataDir, dbSubdir)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	log.Printf("storage: database directory %s", dbDir)
	return dbDir, nil
}
