package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Media
	MediaRoot string // root directory all productions live under

	// Server
	ServerPort string

	// Catalog
	RescanCron           string // cron expression for periodic catalog rebuilds
	SubtitleCacheMinutes int    // TTL for converted subtitle bodies

	// Paths
	DatabaseFile string // $CONFIG_DIR/mediaserv.db
	IgnoreFile   string // $CONFIG_DIR/ignore.txt

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("RESCAN_CRON", "0 * * * *")
	viper.SetDefault("SUBTITLE_CACHE_MINUTES", 10)
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "mediaserv")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// Media
		MediaRoot: viper.GetString("MEDIA_ROOT"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Catalog
		RescanCron:           viper.GetString("RESCAN_CRON"),
		SubtitleCacheMinutes: viper.GetInt("SUBTITLE_CACHE_MINUTES"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "mediaserv.db"),
		IgnoreFile:   filepath.Join(configDir, "ignore.txt"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.MediaRoot == "" {
		return nil, fmt.Errorf("MEDIA_ROOT is required")
	}
	mediaRoot, err := filepath.Abs(config.MediaRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for MEDIA_ROOT: %w", err)
	}
	config.MediaRoot = mediaRoot

	if info, err := os.Stat(config.MediaRoot); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("MEDIA_ROOT is not a readable directory: %s", config.MediaRoot)
	}

	return config, nil
}
