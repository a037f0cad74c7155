package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"qrterm/internal/debounce"
	"qrterm/internal/domain"
	"qrterm/internal/encoder"
	"qrterm/internal/session"
)

// Config holds the user settings read from ~/.qrterm.yaml.
type Config struct {
	SaveDirectory string   `yaml:"save_directory"`
	DefaultSize   int      `yaml:"default_size"`
	Margin        int      `yaml:"margin"`
	Encoder       string   `yaml:"encoder"`
	Debounce      Duration `yaml:"debounce"`
	FeedbackDelay Duration `yaml:"feedback_delay"`
	Confirmations bool     `yaml:"confirmations"`
	LogFile       string   `yaml:"log_file"`
	LogLevel      string   `yaml:"log_level"`
}

// Duration accepts "500ms" style strings in YAML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

func defaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &Config{
		SaveDirectory: "",
		DefaultSize:   domain.DefaultSize,
		Margin:        domain.DefaultMargin,
		Encoder:       encoder.BackendSkip2,
		Debounce:      Duration{debounce.DefaultQuiet},
		FeedbackDelay: Duration{session.DefaultFeedbackDelay},
		Confirmations: true,
		LogFile:       filepath.Join(homeDir, ".qrterm", "qrterm.log"),
		LogLevel:      "info",
	}
}

func defaultConfigPath() string {
	if v := os.Getenv("QRTERM_CONFIG"); v != "" {
		return v
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".qrterm.yaml"
	}
	return filepath.Join(homeDir, ".qrterm.yaml")
}

// loadConfig reads path, falling back to defaults when it does not exist.
// A .env file in the working directory and QRTERM_* variables override the
// file. A missing .env is fine; an unreadable or malformed one is an error.
func loadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	config := defaultConfig()
	if path == "" {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(config)
	config.SaveDirectory = expandPath(config.SaveDirectory)
	config.LogFile = expandPath(config.LogFile)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("QRTERM_SAVE_DIRECTORY"); v != "" {
		c.SaveDirectory = v
	}
	if v := os.Getenv("QRTERM_DEFAULT_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DefaultSize = n
		}
	}
	if v := os.Getenv("QRTERM_MARGIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Margin = n
		}
	}
	if v := os.Getenv("QRTERM_ENCODER"); v != "" {
		c.Encoder = v
	}
	if v := os.Getenv("QRTERM_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Debounce = Duration{d}
		}
	}
	if v := os.Getenv("QRTERM_FEEDBACK_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.FeedbackDelay = Duration{d}
		}
	}
	if v := os.Getenv("QRTERM_CONFIRMATIONS"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			c.Confirmations = true
		case "false", "0", "no":
			c.Confirmations = false
		}
	}
	if v := os.Getenv("QRTERM_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("QRTERM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate rejects settings the session cannot run with.
func (c *Config) Validate() error {
	if !domain.ValidSize(c.DefaultSize) {
		return fmt.Errorf("default_size %d is not one of %v: %w", c.DefaultSize, domain.Sizes, domain.ErrValidation)
	}
	if c.Margin < 0 {
		return fmt.Errorf("margin must not be negative: %w", domain.ErrValidation)
	}
	if c.Debounce.Duration <= 0 {
		return fmt.Errorf("debounce must be positive: %w", domain.ErrValidation)
	}
	if c.FeedbackDelay.Duration < 0 {
		return fmt.Errorf("feedback_delay must not be negative: %w", domain.ErrValidation)
	}
	if _, err := encoder.New(c.Encoder); err != nil {
		return err
	}
	return nil
}

func expandPath(value string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
		}
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

// GetSavePath places a bare filename under SaveDirectory.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(c.SaveDirectory, filename)
}
