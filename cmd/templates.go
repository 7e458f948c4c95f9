package cmd

import (
	"fmt"
	"os"

	"github.com/longkey1/chatpanel/internal/chatpanel/config"
	"github.com/longkey1/chatpanel/internal/chatpanel/template"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var withDir bool

// templatesCmd represents the templates command
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available message templates",
	Long: `List all available message templates from the configured template directories.
This command recursively scans all template directories and displays the names of
available .toml template files, including those in subdirectories.

Template names are displayed as relative paths from the template directory root.
For example, a file at ${template_dir}/food/coffee.toml is displayed as "food/coffee".
When a name exists in several directories, the last directory wins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "Template directories: %v\n", cfg.TemplateDirs)
		}

		entries, err := template.List(cfg.TemplateDirs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No message templates found.")
			fmt.Fprintln(out, "Create .toml files in the following directories:")
			for _, dir := range cfg.TemplateDirs {
				fmt.Fprintf(out, "  - %s\n", dir)
			}
			return nil
		}

		header := []string{"Name", "Description"}
		if withDir {
			header = append(header, "Directory")
		}
		table := tablewriter.NewWriter(out)
		table.SetHeader(header)
		table.SetAutoWrapText(false)
		for _, e := range entries {
			row := []string{e.Name, e.Description}
			if withDir {
				row = append(row, e.Dir)
			}
			table.Append(row)
		}
		table.Render()

		fmt.Fprintf(out, "\nUse a template with: chatpanel chat --template <name> [message]\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.Flags().BoolVar(&withDir, "with-dir", false, "Show the directory each template was found in")
}
