package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultLogDir   = "logfiles"
	defaultLogName  = "log"
	defaultLogLevel = "info"
	defaultFormat   = "text"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvLogDir   = "WEEKDAY_LOG_DIR"
	EnvLogName  = "WEEKDAY_LOG_NAME"
	EnvLogLevel = "WEEKDAY_LOG_LEVEL"
	EnvFormat   = "WEEKDAY_FORMAT"
)

// Config is the top-level application configuration.
type Config struct {
	// LogDir is the directory log files are written to. Created if missing.
	LogDir string `yaml:"log_dir" json:"log_dir" validate:"required"`

	// LogName is the log file base name. A timestamp suffix and ".log"
	// are appended for every run.
	LogName string `yaml:"log_name" json:"log_name" validate:"required,excludesall=/\\"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn warning error"`

	// Format selects how the result is printed: text, json or ics.
	Format string `yaml:"format" json:"format" validate:"oneof=text json ics"`

	// LogFormat is a text/template for log lines over .Time, .Level,
	// .Component and .Message. Empty uses the built-in layout.
	LogFormat string `yaml:"log_format,omitempty" json:"log_format,omitempty"`

	// Console mirrors log lines to stderr. A nil value means true.
	Console *bool `yaml:"console,omitempty" json:"console,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogDir:   defaultLogDir,
		LogName:  defaultLogName,
		LogLevel: defaultLogLevel,
		Format:   defaultFormat,
	}
}

// ConsoleEnabled reports whether log lines should also go to the console.
func (c *Config) ConsoleEnabled() bool {
	return c.Console == nil || *c.Console
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.LogDir == "" {
		c.LogDir = defaultLogDir
	}
	if c.LogName == "" {
		c.LogName = defaultLogName
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = defaultFormat
	}
}

// Validate checks field values after normalization.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from WEEKDAY_* environment variables. If envFile
// is non-empty and exists it is loaded first; variables already set in the
// process environment win over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if v := os.Getenv(EnvLogDir); v != "" {
		c.LogDir = v
	}
	if v := os.Getenv(EnvLogName); v != "" {
		c.LogName = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
	c.Normalize()
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If path is empty or the file does not exist, defaults are returned.
//   - Otherwise the YAML is unmarshalled, normalized and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	cfg, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile is like Load but the file must exist.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0755).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".weekday-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
