// Package config loads apksplit settings from file, .env and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/huanfeng/apkhub-split/internal/errors"
	"github.com/huanfeng/apkhub-split/pkg/models"
)

const (
	// FileName is the config file name without extension
	FileName = "apksplit"
	// EnvPrefix prefixes environment overrides, e.g. APKSPLIT_DEVICE_ABI
	EnvPrefix = "APKSPLIT"
)

// Default returns the built-in configuration
func Default() models.Config {
	return models.Config{
		Device: models.DeviceConfig{
			ABI:    "arm64_v8a",
			DPI:    420,
			Locale: "en-US",
		},
		Scanning: models.ScanningConfig{
			Recursive: false,
			Inspect:   false,
		},
		ADB: models.ADBConfig{
			Path:          "adb",
			DefaultDevice: "",
			Workers:       0,
		},
		Log: models.LogConfig{
			Level:      "warn",
			Format:     "text",
			File:       "",
			MaxSizeMB:  10,
			MaxFiles:   3,
			MaxAgeDays: 28,
		},
		Cache: models.CacheConfig{
			Size: 16,
		},
	}
}

// Load loads configuration from file and environment. A missing config file
// is not an error. Variables in a .env file in the working directory are
// loaded first and never override the real environment.
func Load(configPath string) (*models.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.NewConfigurationError(errors.CodeConfigUnreadable, "failed to load .env file", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.NewConfigurationError(errors.CodeConfigUnreadable, "failed to read config file", err).
				WithContext("path", configPath)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigurationError(errors.CodeConfigUnreadable, "failed to unmarshal config", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so that environment overrides apply even
// when no config file sets them
func setDefaults(v *viper.Viper, cfg models.Config) {
	v.SetDefault("device.abi", cfg.Device.ABI)
	v.SetDefault("device.dpi", cfg.Device.DPI)
	v.SetDefault("device.locale", cfg.Device.Locale)
	v.SetDefault("scanning.recursive", cfg.Scanning.Recursive)
	v.SetDefault("scanning.inspect", cfg.Scanning.Inspect)
	v.SetDefault("adb.path", cfg.ADB.Path)
	v.SetDefault("adb.default_device", cfg.ADB.DefaultDevice)
	v.SetDefault("adb.workers", cfg.ADB.Workers)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_files", cfg.Log.MaxFiles)
	v.SetDefault("log.max_age_days", cfg.Log.MaxAgeDays)
	v.SetDefault("cache.size", cfg.Cache.Size)
}

const templateHeader = `# apksplit configuration
#
# device:   fallback profile used when neither flags nor --device are given
# scanning: recursive descends into sub folders of folder sources
# adb:      path to the adb binary and the device used when several are attached
# log:      level is debug, info, warn or error; file enables rotating JSON logs
# cache:    number of classified sources kept in memory

`

// SaveTemplate writes the default configuration to path
func SaveTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	return os.WriteFile(path, append([]byte(templateHeader), data...), 0644)
}
