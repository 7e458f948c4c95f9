package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/longkey1/chatpanel/internal/chatpanel/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	Long: `Initialize the configuration file with default settings.
The config file will be created at $HOME/.config/chatpanel/config.toml by default.
You can specify a different location using the --config option.

The chat service URL has no default: edit base_url afterwards or set CHATPANEL_BASE_URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %v", err)
		}

		// Set config file path
		configFile := filepath.Join(home, ".config", "chatpanel", "config.toml")
		if cfgFile != "" {
			configFile = cfgFile
		}

		templatesDir, err := writeDefaultConfig(configFile)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", configFile)
		fmt.Fprintf(cmd.OutOrStdout(), "Templates directory created at: %s\n", templatesDir)
		return nil
	},
}

// writeDefaultConfig creates configFile and the templates directory next to it.
// An existing file is never overwritten.
func writeDefaultConfig(configFile string) (string, error) {
	// Create config directory
	configDir := filepath.Dir(configFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %v", err)
	}

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return "", fmt.Errorf("config file already exists at: %s", configFile)
	}

	templatesDir := filepath.Join(configDir, "templates")
	cfg := config.NewDefaultConfig(templatesDir)

	f, err := os.Create(configFile)
	if err != nil {
		return "", fmt.Errorf("failed to create config file: %v", err)
	}
	defer f.Close()

	if err := cfg.Encode(f); err != nil {
		return "", err
	}

	if err := os.MkdirAll(templatesDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create templates directory: %v", err)
	}
	return templatesDir, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
