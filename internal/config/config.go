package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. PNGME_LOG_LEVEL.
const EnvPrefix = "PNGME"

// Config represents the complete application configuration
type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Files   FilesConfig   `yaml:"files" mapstructure:"files"`
	Payload PayloadConfig `yaml:"payload" mapstructure:"payload"`
	Print   PrintConfig   `yaml:"print" mapstructure:"print"`
}

// LogConfig represents logging configuration with rotation support
type LogConfig struct {
	File       string `yaml:"file" mapstructure:"file"`               // Log file path (empty = stderr only)
	Level      string `yaml:"level" mapstructure:"level"`             // Log level (debug, info, warn, error)
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`       // Max size in MB before rotation
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`         // Max age in days to keep files
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // Max number of old files to keep
	Compress   bool   `yaml:"compress" mapstructure:"compress"`       // Compress old log files
}

// FilesConfig controls how png files are written back.
type FilesConfig struct {
	Backup       bool   `yaml:"backup" mapstructure:"backup"`
	BackupSuffix string `yaml:"backup_suffix" mapstructure:"backup_suffix"`
	Mode         string `yaml:"mode" mapstructure:"mode"` // octal permission bits for new files
	WriteRetries int    `yaml:"write_retries" mapstructure:"write_retries"`
}

// PayloadConfig controls message compression.
type PayloadConfig struct {
	CompressionLevel int   `yaml:"compression_level" mapstructure:"compression_level"`
	MaxInflatedSize  int64 `yaml:"max_inflated_size" mapstructure:"max_inflated_size"`
}

// PrintConfig controls the print command.
type PrintConfig struct {
	Workers int    `yaml:"workers" mapstructure:"workers"`
	Format  string `yaml:"format" mapstructure:"format"`   // text or json
	Preview int    `yaml:"preview" mapstructure:"preview"` // payload preview width, 0 = auto
}

var (
	validLogLevels    = []string{"debug", "info", "warn", "error"}
	validPrintFormats = []string{"text", "json"}
)

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			File:       "",     // Empty = stderr only
			Level:      "warn", // Quiet by default, stdout belongs to command output
			MaxSize:    10,
			MaxAge:     14,
			MaxBackups: 3,
			Compress:   true,
		},
		Files: FilesConfig{
			Backup:       false,
			BackupSuffix: ".bak",
			Mode:         "0644",
			WriteRetries: 3,
		},
		Payload: PayloadConfig{
			CompressionLevel: 6,
			MaxInflatedSize:  16 << 20, // 16MB
		},
		Print: PrintConfig{
			Workers: 4,
			Format:  "text",
			Preview: 0,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Log.Level != "" && !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of: %s", strings.Join(validLogLevels, ", "))
	}

	if c.Log.MaxSize < 0 {
		return fmt.Errorf("log.max_size must be non-negative")
	}

	if c.Log.MaxAge < 0 {
		return fmt.Errorf("log.max_age must be non-negative")
	}

	if c.Log.MaxBackups < 0 {
		return fmt.Errorf("log.max_backups must be non-negative")
	}

	if c.Files.Backup && c.Files.BackupSuffix == "" {
		return fmt.Errorf("files.backup_suffix cannot be empty when backups are enabled")
	}

	if _, err := parseFileMode(c.Files.Mode); err != nil {
		return fmt.Errorf("files.mode: %w", err)
	}

	if c.Files.WriteRetries < 0 {
		return fmt.Errorf("files.write_retries must be non-negative")
	}

	if c.Payload.CompressionLevel < -2 || c.Payload.CompressionLevel > 9 {
		return fmt.Errorf("payload.compression_level must be between -2 and 9")
	}

	if c.Payload.MaxInflatedSize < 0 {
		return fmt.Errorf("payload.max_inflated_size must be non-negative")
	}

	if c.Print.Workers < 0 {
		return fmt.Errorf("print.workers must be non-negative")
	}

	if c.Print.Format != "" && !slices.Contains(validPrintFormats, c.Print.Format) {
		return fmt.Errorf("print.format must be one of: %s", strings.Join(validPrintFormats, ", "))
	}

	if c.Print.Preview < 0 {
		return fmt.Errorf("print.preview must be non-negative")
	}

	return nil
}

// SaveToFile saves a configuration to a YAML file
func SaveToFile(fs afero.Fs, config *Config, filename string) error {
	if filename == "" {
		return fmt.Errorf("no config file path provided")
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(fs, filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadConfig loads configuration from the OS filesystem and merges it
// with defaults.
func LoadConfig(configFile string) (*Config, error) {
	return LoadConfigFs(afero.NewOsFs(), configFile)
}

// LoadConfigFs loads configuration from fs and merges it with defaults.
//
// With an explicit configFile the file must exist. Without one, pngme.yaml
// is searched in the working directory and in $HOME/.config/pngme; finding
// nothing leaves the defaults in place.
func LoadConfigFs(fs afero.Fs, configFile string) (*Config, error) {
	config := DefaultConfig()

	v := viper.New()
	v.SetFs(fs)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v, config)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("pngme")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pngme"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// registerDefaults makes every key known to viper so that environment
// variables are picked up by Unmarshal even without a config file.
func registerDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("log.file", c.Log.File)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.max_size", c.Log.MaxSize)
	v.SetDefault("log.max_age", c.Log.MaxAge)
	v.SetDefault("log.max_backups", c.Log.MaxBackups)
	v.SetDefault("log.compress", c.Log.Compress)
	v.SetDefault("files.backup", c.Files.Backup)
	v.SetDefault("files.backup_suffix", c.Files.BackupSuffix)
	v.SetDefault("files.mode", c.Files.Mode)
	v.SetDefault("files.write_retries", c.Files.WriteRetries)
	v.SetDefault("payload.compression_level", c.Payload.CompressionLevel)
	v.SetDefault("payload.max_inflated_size", c.Payload.MaxInflatedSize)
	v.SetDefault("print.workers", c.Print.Workers)
	v.SetDefault("print.format", c.Print.Format)
	v.SetDefault("print.preview", c.Print.Preview)
}
