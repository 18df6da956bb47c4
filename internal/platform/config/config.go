package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const appName = "dpwrk"

const (
	DefaultTickInterval   = time.Second
	DefaultAutoResetDelay = 5 * time.Second
)

type Config struct {
	DataDir         string
	DBPath          string
	PreferencesPath string
	SocketPath      string
	LogPath         string
	LogLevel        string
	TickInterval    time.Duration
	AutoResetDelay  time.Duration
}

func New(dataDir, logLevel string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	if strings.TrimSpace(logLevel) == "" {
		logLevel = "info"
	}
	return Config{
		DataDir:         dataDir,
		DBPath:          filepath.Join(dataDir, appName+".db"),
		PreferencesPath: filepath.Join(dataDir, "preferences.yaml"),
		SocketPath:      filepath.Join(dataDir, appName+".sock"),
		LogPath:         filepath.Join(dataDir, appName+".log"),
		LogLevel:        logLevel,
		TickInterval:    DefaultTickInterval,
		AutoResetDelay:  DefaultAutoResetDelay,
	}, nil
}

// DefaultDataDir resolves the per-user directory holding the database,
// preferences file and daemon socket.
func DefaultDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return filepath.Join(configDir, appName), nil
	}
	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("resolve data dir: %w", err)
		}
		return "", fmt.Errorf("resolve data dir: %w", homeErr)
	}
	return filepath.Join(homeDir, ".config", appName), nil
}
