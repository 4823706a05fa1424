// Package config resolves runtime settings from defaults, .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	AppName = "tasklist"

	DBFile  = "tasklist.db"
	LogFile = "tasklist.log"
)

type RuntimeConfig struct {
	DBPath   string
	LogFile  string
	LogLevel string
	// Density is the list view density level, 1 to 3.
	Density int
}

func DefaultRuntimeConfig() RuntimeConfig {
	dir := DefaultDataDir()
	return RuntimeConfig{
		DBPath:   filepath.Join(dir, DBFile),
		LogFile:  filepath.Join(dir, LogFile),
		LogLevel: "info",
		Density:  1,
	}
}

// DefaultDataDir uses XDG_DATA_HOME when set, otherwise $HOME/.local/share.
func DefaultDataDir() string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKLIST_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("TASKLIST_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("TASKLIST_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvInt("TASKLIST_DENSITY"); ok && v >= 1 && v <= 3 {
		cfg.Density = v
	}
	return cfg
}

// LoadDotEnv loads each existing file into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
