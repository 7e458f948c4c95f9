package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

// wakeCmd represents the wake command
var wakeCmd = &cobra.Command{
	Use:   "wake",
	Short: "Wake up the chat service",
	Long: `Send a health check to the chat service.
A server that sleeps when idle can take a few minutes to answer its first request.
Run this ahead of time so that the panel answers quickly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, closeLog, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer closeLog()

		client := newChatClient(cfg, logger)

		fmt.Fprintln(os.Stderr, noticeColor.Sprint("Waking up "+cfg.BaseURL+" ..."))
		start := time.Now()
		message, err := client.Ping(cmd.Context())
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		elapsed := time.Since(start).Round(time.Millisecond)
		color.Fprintf(cmd.OutOrStdout(), "<green>Server is up</> (%s)\n", elapsed)
		if message != "" {
			fmt.Fprintln(cmd.OutOrStdout(), message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(wakeCmd)
}
