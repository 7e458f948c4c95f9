/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/longkey1/chatpanel/internal/chatpanel/config"
	"github.com/longkey1/chatpanel/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatpanel",
	Short: "A terminal chat widget for a remote chat service",
	Long: `chatpanel is a toggleable chat panel for your terminal.
It collects your messages, forwards them to a remote chat service and renders the conversation.
You can configure the tool using a TOML configuration file, environment variables or a .env file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/chatpanel/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	// A missing .env is fine
	_ = godotenv.Load()

	viper.SetEnvPrefix("CHATPANEL")
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "chatpanel")

	defaultConfig := config.NewDefaultConfig(filepath.Join(userConfigDir, "templates"))

	viper.SetDefault("base_url", defaultConfig.BaseURL)
	viper.SetDefault("title", defaultConfig.Title)
	viper.SetDefault("welcome_message", defaultConfig.WelcomeMessage)
	viper.SetDefault("still_working_delay", defaultConfig.StillWorkingDelay)
	viper.SetDefault("request_timeout", defaultConfig.RequestTimeout)
	viper.SetDefault("log_level", defaultConfig.LogLevel)
	viper.SetDefault("log_file", defaultConfig.LogFile)
	viper.SetDefault("template_dirs", defaultConfig.TemplateDirs)

	viper.BindEnv("base_url", "CHATPANEL_BASE_URL")
	viper.BindEnv("still_working_delay", "CHATPANEL_STILL_WORKING_DELAY")
	viper.BindEnv("request_timeout", "CHATPANEL_REQUEST_TIMEOUT")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else {
		// System-wide config first (lower priority)
		for _, path := range []string{"/etc/chatpanel", "/usr/local/etc/chatpanel"} {
			viper.AddConfigPath(path)
		}
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		systemConfigLoaded := false
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			if verbose {
				fmt.Fprintln(os.Stderr, "Loaded system-wide config:", viper.ConfigFileUsed())
			}
		}

		// User config (higher priority)
		viper.AddConfigPath(userConfigDir)
		if systemConfigLoaded {
			if err := viper.MergeInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error merging user config file: %v\n", err)
				}
			}
		} else if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			}
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "  CHATPANEL_BASE_URL:", viper.GetString("base_url"))
		fmt.Fprintln(os.Stderr, "  CHATPANEL_STILL_WORKING_DELAY:", viper.GetDuration("still_working_delay"))
		fmt.Fprintln(os.Stderr, "  CHATPANEL_REQUEST_TIMEOUT:", viper.GetDuration("request_timeout"))
	}
}

// loadConfig loads and validates the configuration needed to reach the chat service.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the command logger. When the terminal belongs to the TUI,
// logs go to the configured log file or nowhere. The returned func releases the log file.
func newLogger(cfg *config.Config, terminalOwned bool) (zerolog.Logger, func(), error) {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	if !terminalOwned {
		l, err := logger.New(logger.Options{Level: level, Writer: os.Stderr, Console: true})
		return l, func() {}, err
	}

	if cfg.LogFile == "" {
		return zerolog.New(io.Discard), func() {}, nil
	}
	f, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	l, err := logger.New(logger.Options{Level: level, Writer: f})
	if err != nil {
		f.Close()
		return zerolog.Nop(), func() {}, err
	}
	return l, func() { f.Close() }, nil
}
