package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/longkey1/chatpanel/internal/chatpanel/config"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const availableFields = "configfile, base_url, title, welcome_message, still_working_delay, request_timeout, log_level, log_file, template_dirs"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file, .env file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + availableFields + `

Examples:
  chatpanel config                      # Show all configuration
  chatpanel config base_url             # Show only the chat service URL
  chatpanel config still_working_delay  # Show only the still-working delay`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration without validation so that a partial setup can be inspected
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if len(args) > 0 {
			value, ok := configField(cfg, args[0])
			if !ok {
				fmt.Fprintf(os.Stderr, "Available fields: %s\n", availableFields)
				return fmt.Errorf("unknown field: %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		}

		renderConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

// configRows lists every displayed field in order
func configRows(cfg *config.Config) [][]string {
	return [][]string{
		{"configfile", viper.ConfigFileUsed()},
		{"base_url", cfg.BaseURL},
		{"title", cfg.Title},
		{"welcome_message", cfg.WelcomeMessage},
		{"still_working_delay", cfg.StillWorkingDelay.String()},
		{"request_timeout", cfg.RequestTimeout.String()},
		{"log_level", cfg.LogLevel},
		{"log_file", cfg.LogFile},
		// Template directories are already absolute paths
		{"template_dirs", strings.Join(cfg.TemplateDirs, ",")},
	}
}

// configField returns the value of a single field. Names are case-insensitive
// and the underscores may be omitted.
func configField(cfg *config.Config, field string) (string, bool) {
	want := strings.ReplaceAll(strings.ToLower(field), "_", "")
	for _, row := range configRows(cfg) {
		if strings.ReplaceAll(row[0], "_", "") == want {
			return row[1], true
		}
	}
	return "", false
}

func renderConfig(w io.Writer, cfg *config.Config) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(configRows(cfg))
	table.Render()
}

func init() {
	rootCmd.AddCommand(configCmd)
}
