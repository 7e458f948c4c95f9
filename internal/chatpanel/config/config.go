package config

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/longkey1/chatpanel/internal/chatpanel"
	"github.com/spf13/viper"
)

var validate = validator.New()

// Config holds the configuration of the chat widget
type Config struct {
	BaseURL           string        `toml:"base_url" mapstructure:"base_url" validate:"required,url"` // Chat service root, no default
	Title             string        `toml:"title" mapstructure:"title"`
	WelcomeMessage    string        `toml:"welcome_message" mapstructure:"welcome_message"`
	StillWorkingDelay time.Duration `toml:"still_working_delay" mapstructure:"still_working_delay" validate:"gt=0"`
	RequestTimeout    time.Duration `toml:"request_timeout" mapstructure:"request_timeout" validate:"gte=0"` // 0 = no timeout
	LogLevel          string        `toml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	LogFile           string        `toml:"log_file" mapstructure:"log_file"`
	TemplateDirs      []string      `toml:"template_dirs" mapstructure:"template_dirs"`
}

// NewDefaultConfig returns a new Config with default values.
// BaseURL has no default; it must be configured.
func NewDefaultConfig(templateDir string) *Config {
	return &Config{
		BaseURL:           "",
		Title:             "Nestlé Assistant",
		WelcomeMessage:    chatpanel.DefaultWelcome,
		StillWorkingDelay: chatpanel.DefaultStillWorkingDelay,
		RequestTimeout:    0,
		LogLevel:          "info",
		LogFile:           "",
		TemplateDirs:      []string{templateDir},
	}
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	baseURL, err := expandEnvVar(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("error expanding base_url: %v", err)
	}
	config.BaseURL = baseURL

	// Convert template directories to absolute paths
	for i, dir := range config.TemplateDirs {
		absPath, err := ResolvePath(dir)
		if err != nil {
			return nil, fmt.Errorf("error resolving template directory path '%s': %v", dir, err)
		}
		config.TemplateDirs[i] = absPath
	}

	if config.LogFile != "" {
		logFile, err := ResolvePath(config.LogFile)
		if err != nil {
			return nil, fmt.Errorf("error resolving log file path '%s': %v", config.LogFile, err)
		}
		config.LogFile = logFile
	}

	return config, nil
}

// Validate checks the values needed to talk to the chat service.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is not configured. Set it in config file (base_url) or environment variable (CHATPANEL_BASE_URL)")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// WidgetOptions returns the widget options derived from the configuration.
func (c *Config) WidgetOptions() []chatpanel.Option {
	return []chatpanel.Option{
		chatpanel.WithWelcome(c.WelcomeMessage),
		chatpanel.WithStillWorkingDelay(c.StillWorkingDelay),
	}
}

// fileConfig is the on-disk shape of Config. Durations are written as strings
// such as "60s" so that viper can decode them again.
type fileConfig struct {
	BaseURL           string   `toml:"base_url"`
	Title             string   `toml:"title"`
	WelcomeMessage    string   `toml:"welcome_message"`
	StillWorkingDelay string   `toml:"still_working_delay"`
	RequestTimeout    string   `toml:"request_timeout"`
	LogLevel          string   `toml:"log_level"`
	LogFile           string   `toml:"log_file"`
	TemplateDirs      []string `toml:"template_dirs"`
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	fc := fileConfig{
		BaseURL:           c.BaseURL,
		Title:             c.Title,
		WelcomeMessage:    c.WelcomeMessage,
		StillWorkingDelay: c.StillWorkingDelay.String(),
		RequestTimeout:    c.RequestTimeout.String(),
		LogLevel:          c.LogLevel,
		LogFile:           c.LogFile,
		TemplateDirs:      c.TemplateDirs,
	}
	if err := toml.NewEncoder(w).Encode(fc); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
