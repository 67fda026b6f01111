// Package config loads the elestrals configuration from config.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	fileName = "config"
	fileType = "yaml"
	// FileExt is the config file name inside the config directory.
	FileExt = "config.yaml"
)

// Config keys.
const (
	KeyDataDir         = "data_dir"
	KeyDBPath          = "db_path"
	KeyServerAddr      = "server.addr"
	KeyCORSOrigins     = "server.cors_origins"
	KeyShutdownTimeout = "server.shutdown_timeout"
	KeyCacheSize       = "import.cache_size"
	KeyProgressEvery   = "import.progress_every"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
)

// Defaults.
const (
	DefaultAddr            = ":3000"
	DefaultCORSOrigins     = "*"
	DefaultShutdownTimeout = 15 * time.Second
	DefaultCacheSize       = 1024
	DefaultProgressEvery   = 100
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Config is the merged configuration. DataDir and DBPath hold the raw
// config-file values; directory resolution happens in package paths.
type Config struct {
	DataDir string       `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	DBPath  string       `mapstructure:"db_path" yaml:"db_path,omitempty"`
	Server  ServerConfig `mapstructure:"server" yaml:"server"`
	Import  ImportConfig `mapstructure:"import" yaml:"import"`
	Log     LogConfig    `mapstructure:"log" yaml:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	CORSOrigins     string        `mapstructure:"cors_origins" yaml:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ImportConfig configures the card importer.
type ImportConfig struct {
	CacheSize     int `mapstructure:"cache_size" yaml:"cache_size"`
	ProgressEvery int `mapstructure:"progress_every" yaml:"progress_every"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// EnvOverrides holds the environment variables that override config.yaml.
// DB matches the variable the catalog has always used for its database path.
type EnvOverrides struct {
	ConfigDir string `env:"ELESTRALS_CONFIG_DIR"`
	DataDir   string `env:"ELESTRALS_DATA_DIR"`
	DBPath    string `env:"DB"`
	Addr      string `env:"ELESTRALS_ADDR"`
	LogLevel  string `env:"ELESTRALS_LOG_LEVEL"`
	LogFormat string `env:"ELESTRALS_LOG_FORMAT"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			CORSOrigins:     DefaultCORSOrigins,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Import: ImportConfig{
			CacheSize:     DefaultCacheSize,
			ProgressEvery: DefaultProgressEvery,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// ParseEnv reads EnvOverrides from the process environment.
func ParseEnv() (EnvOverrides, error) {
	var e EnvOverrides
	if err := env.Parse(&e); err != nil {
		return EnvOverrides{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Load reads config.yaml from configDir using Viper and applies the
// environment overrides. A missing config.yaml is not an error.
func Load(configDir string, e EnvOverrides) (Config, error) {
	d := Default()

	v := viper.New()
	v.SetDefault(KeyServerAddr, d.Server.Addr)
	v.SetDefault(KeyCORSOrigins, d.Server.CORSOrigins)
	v.SetDefault(KeyShutdownTimeout, d.Server.ShutdownTimeout)
	v.SetDefault(KeyCacheSize, d.Import.CacheSize)
	v.SetDefault(KeyProgressEvery, d.Import.ProgressEvery)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	if configDir != "" {
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if e.Addr != "" {
		cfg.Server.Addr = e.Addr
	}
	if e.LogLevel != "" {
		cfg.Log.Level = e.LogLevel
	}
	if e.LogFormat != "" {
		cfg.Log.Format = e.LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects non-positive sizes and timeouts.
func (c Config) Validate() error {
	if c.Import.CacheSize <= 0 {
		return fmt.Errorf("invalid config: %s must be positive", KeyCacheSize)
	}
	if c.Import.ProgressEvery <= 0 {
		return fmt.Errorf("invalid config: %s must be positive", KeyProgressEvery)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid config: %s must be positive", KeyShutdownTimeout)
	}
	return nil
}

// WriteIfMissing writes cfg as config.yaml into configDir unless the file
// already exists. It reports whether a file was written.
func WriteIfMissing(configDir string, cfg Config) (bool, error) {
	path := filepath.Join(configDir, FileExt)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
