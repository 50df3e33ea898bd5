package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all process-level configuration
type Config struct {
	// Server
	ServerPort string

	// TMDB
	TMDBAPIKey       string // default key, profiles may override
	TMDBBaseURL      string
	TMDBImageBaseURL string
	TMDBLanguage     string

	// Paths
	ProfilesFile     string // $CONFIG_DIR/profiles.json
	ProcessedLogFile string // $CONFIG_DIR/processed.log

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500")
	viper.SetDefault("TMDB_LANGUAGE", "zh-CN")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "linkarr")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &Config{
		ServerPort: viper.GetString("SERVER_PORT"),

		TMDBAPIKey:       viper.GetString("TMDB_API_KEY"),
		TMDBBaseURL:      viper.GetString("TMDB_BASE_URL"),
		TMDBImageBaseURL: viper.GetString("TMDB_IMAGE_BASE_URL"),
		TMDBLanguage:     viper.GetString("TMDB_LANGUAGE"),

		ProfilesFile:     filepath.Join(configDir, "profiles.json"),
		ProcessedLogFile: filepath.Join(configDir, "processed.log"),

		LogLevel: viper.GetString("LOG_LEVEL"),
	}, nil
}
