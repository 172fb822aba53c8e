// Package config loads settings from a .env file, an optional config file and the environment.
//
// Precedence (highest first): environment, config file, defaults. Values from .env are exported
// into the environment before anything else is read, without overriding variables already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"mapmarkers/api/jsonbin"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const CONFIG_NAME = "mapmarkers"

const (
	BACKEND_JSONBIN = "jsonbin"
	BACKEND_FILE    = "file"
)

type Config struct {
	MarkersBackend   string        `mapstructure:"markers_backend"`
	JSONBinBaseURL   string        `mapstructure:"jsonbin_base_url"`
	JSONBinBinID     string        `mapstructure:"jsonbin_bin_id"`
	JSONBinAPIKey    string        `mapstructure:"jsonbin_api_key"`
	JSONBinAccessKey string        `mapstructure:"jsonbin_access_key"`
	JSONBinRateLimit int           `mapstructure:"jsonbin_rate_limit"` // Requests per minute, 0 for unlimited.
	CacheTimeout     time.Duration `mapstructure:"cache_timeout"`
	DataDir          string        `mapstructure:"data_dir"`
	CategoriesFile   string        `mapstructure:"categories_file"` // Empty for the built-in table.
	LogLevel         string        `mapstructure:"log_level"`
	BotToken         string        `mapstructure:"bot_token"`
	BotGuildID       string        `mapstructure:"bot_guild_id"` // Empty registers commands globally.
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("markers_backend", BACKEND_JSONBIN)
	v.SetDefault("jsonbin_base_url", jsonbin.DEFAULT_BASE_URL)
	v.SetDefault("jsonbin_bin_id", "")
	v.SetDefault("jsonbin_api_key", "")
	v.SetDefault("jsonbin_access_key", "")
	v.SetDefault("jsonbin_rate_limit", 60)
	v.SetDefault("cache_timeout", "30s")
	v.SetDefault("data_dir", "./db")
	v.SetDefault("categories_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("bot_token", "")
	v.SetDefault("bot_guild_id", "")
}

// Exports the variables of the given .env files (default ".env") into the environment.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return fmt.Errorf("error loading %s: %w", f, err)
		}

		log.WithField("file", f).Debug("loaded env file")
	}

	return nil
}

// Reads the config. With an empty configFile, "mapmarkers.{json,yaml,toml}" in the working dir
// is used if present. An explicitly given file must exist.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(CONFIG_NAME)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	cfg.MarkersBackend = strings.ToLower(strings.TrimSpace(cfg.MarkersBackend))
	return cfg, nil
}

// Reports missing or invalid settings for the selected backend.
func (c *Config) Validate() error {
	var errs []error

	switch c.MarkersBackend {
	case BACKEND_JSONBIN:
		if c.JSONBinBinID == "" {
			errs = append(errs, errors.New("jsonbin_bin_id must be set"))
		}
		if c.JSONBinAPIKey == "" && c.JSONBinAccessKey == "" {
			errs = append(errs, errors.New("jsonbin_api_key or jsonbin_access_key must be set"))
		}
	case BACKEND_FILE:
		if c.DataDir == "" {
			errs = append(errs, errors.New("data_dir must be set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown markers_backend %q, expected %q or %q", c.MarkersBackend, BACKEND_JSONBIN, BACKEND_FILE))
	}

	if c.CacheTimeout < 0 {
		errs = append(errs, errors.New("cache_timeout must not be negative"))
	}
	if c.JSONBinRateLimit < 0 {
		errs = append(errs, errors.New("jsonbin_rate_limit must not be negative"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Applies the configured log level to the standard logger.
func (c *Config) ApplyLogLevel() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithError(err).Warn("invalid log level, keeping the current one")
		return
	}

	log.SetLevel(level)
}
