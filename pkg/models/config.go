package models

// Config represents the application configuration
type Config struct {
	Device   DeviceConfig   `mapstructure:"device" json:"device" yaml:"device"`
	Scanning ScanningConfig `mapstructure:"scanning" json:"scanning" yaml:"scanning"`
	ADB      ADBConfig      `mapstructure:"adb" json:"adb" yaml:"adb"`
	Log      LogConfig      `mapstructure:"log" json:"log" yaml:"log"`
	Cache    CacheConfig    `mapstructure:"cache" json:"cache" yaml:"cache"`
}

// DeviceConfig is the fallback device profile used when no flags or device are given
type DeviceConfig struct {
	ABI    string `mapstructure:"abi" json:"abi" yaml:"abi"`
	DPI    int    `mapstructure:"dpi" json:"dpi" yaml:"dpi"`
	Locale string `mapstructure:"locale" json:"locale" yaml:"locale"`
}

// ScanningConfig contains scanning-related configuration
type ScanningConfig struct {
	Recursive bool `mapstructure:"recursive" json:"recursive" yaml:"recursive"`
	// Inspect reads the base APK manifest when the bundle has no manifest.json
	Inspect bool `mapstructure:"inspect" json:"inspect" yaml:"inspect"`
}

// ADBConfig contains ADB configuration
type ADBConfig struct {
	Path          string `mapstructure:"path" json:"path" yaml:"path"`
	DefaultDevice string `mapstructure:"default_device" json:"default_device" yaml:"default_device"`
	// Workers bounds concurrent device probes, 0 means one per CPU
	Workers int `mapstructure:"workers" json:"workers" yaml:"workers"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level" json:"level" yaml:"level"`
	Format     string `mapstructure:"format" json:"format" yaml:"format"`
	File       string `mapstructure:"file" json:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`
	MaxFiles   int    `mapstructure:"max_files" json:"max_files" yaml:"max_files"`
	MaxAgeDays int    `mapstructure:"max_age_days" json:"max_age_days" yaml:"max_age_days"`
}

// CacheConfig sizes the classification cache
type CacheConfig struct {
	Size int `mapstructure:"size" json:"size" yaml:"size"`
}
