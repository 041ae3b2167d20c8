// Package config loads stockhop settings from .env and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/stockhop/cli/internal/storage"
	"github.com/stockhop/cli/internal/tabs"
)

// Config holds all runtime settings. Flags override these after Load.
type Config struct {
	// Storage settings
	Storage storage.Kind
	DataDir string

	// Tab opening
	Opener tabs.Kind
	CDPURL string

	// Logging
	LogLevel string
	LogFile  string
}

// LogLevels are the accepted values of LogLevel.
var LogLevels = []string{"debug", "info", "warn", "error", "disabled"}

// Load reads configuration from environment variables and an optional
// .env file in the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Storage:  storage.Kind(getEnvOrDefault("STOCKHOP_STORAGE", string(storage.KindFile))),
		DataDir:  getEnvOrDefault("STOCKHOP_DATA_DIR", DefaultDataDir()),
		Opener:   tabs.Kind(getEnvOrDefault("STOCKHOP_OPENER", string(tabs.KindSystem))),
		CDPURL:   getEnvOrDefault("STOCKHOP_CDP_URL", tabs.DefaultCDPURL),
		LogLevel: getEnvOrDefault("STOCKHOP_LOG_LEVEL", "warn"),
		LogFile:  os.Getenv("STOCKHOP_LOG_FILE"),
	}
	return cfg, nil
}

// Validate rejects unknown enum values.
func (c *Config) Validate() error {
	if !slices.Contains(storage.Kinds, c.Storage) {
		return fmt.Errorf("unknown storage backend %q (want one of %s)", c.Storage, joinKinds(storage.Kinds))
	}
	if !slices.Contains(tabs.Kinds, c.Opener) {
		return fmt.Errorf("unknown opener %q (want one of %s)", c.Opener, joinKinds(tabs.Kinds))
	}
	if !slices.Contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("unknown log level %q (want one of %s)", c.LogLevel, strings.Join(LogLevels, ", "))
	}
	if c.Storage != storage.KindMemory && c.DataDir == "" {
		return fmt.Errorf("data directory is required for the %s backend", c.Storage)
	}
	return nil
}

// PtermLevel maps LogLevel to a pterm level.
func (c *Config) PtermLevel() pterm.LogLevel {
	switch c.LogLevel {
	case "debug":
		return pterm.LogLevelDebug
	case "info":
		return pterm.LogLevelInfo
	case "error":
		return pterm.LogLevelError
	case "disabled":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelWarn
	}
}

// DefaultDataDir is the per-user directory history is stored in.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "stockhop")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func joinKinds[K ~string](kinds []K) string {
	s := make([]string, len(kinds))
	for i, k := range kinds {
		s[i] = string(k)
	}
	return strings.Join(s, ", ")
}
