package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys. Each can be set through OPTIONPRUNER_<KEY> or the config file.
const (
	KeyDatabaseURL = "DATABASE_URL"
	KeyTablePrefix = "TABLE_PREFIX"
	KeyEntityType  = "ENTITY_TYPE"
	KeyValueTable  = "VALUE_TABLE"
	KeyLogLevel    = "LOG_LEVEL"
	KeyFormat      = "FORMAT"
	KeyOutputDir   = "OUTPUT_DIR"

	envPrefix      = "OPTIONPRUNER"
	configFileName = ".optionpruner"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Catalog  CatalogConfig
	Output   OutputConfig
	LogLevel string
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	URL string
}

// CatalogConfig describes where the EAV tables live
type CatalogConfig struct {
	TablePrefix    string
	EntityTypeCode string
	ValueTable     string
}

// OutputConfig represents report output configuration
type OutputConfig struct {
	Format string
	Dir    string
}

// InitConfig initializes viper configuration.
// configFile is optional; without it .optionpruner.env is looked up in the
// working directory and the home directory.
func InitConfig(configFile string) error {
	viper.SetConfigType("env")

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		viper.SetConfigName(configFileName)
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		// Read config file (optional, ignore error if not found)
		_ = viper.ReadInConfig()
	}

	// Environment variables take precedence over config file
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault(KeyTablePrefix, "")
	viper.SetDefault(KeyEntityType, "catalog_product")
	viper.SetDefault(KeyValueTable, "catalog_product_entity_int")
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyFormat, "text")

	return nil
}

// Load loads configuration from viper
func Load() (*Config, error) {
	dbURL := viper.GetString(KeyDatabaseURL)
	if dbURL == "" {
		return nil, fmt.Errorf("%s is required (set --db-url, %s_%s or the config file)", KeyDatabaseURL, envPrefix, KeyDatabaseURL)
	}

	config := &Config{
		Database: DatabaseConfig{
			URL: dbURL,
		},
		Catalog: CatalogConfig{
			TablePrefix:    viper.GetString(KeyTablePrefix),
			EntityTypeCode: viper.GetString(KeyEntityType),
			ValueTable:     viper.GetString(KeyValueTable),
		},
		Output: OutputConfig{
			Format: viper.GetString(KeyFormat),
			Dir:    viper.GetString(KeyOutputDir),
		},
		LogLevel: viper.GetString(KeyLogLevel),
	}

	return config, nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
