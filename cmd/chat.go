/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/longkey1/chatpanel/internal/chatpanel"
	"github.com/longkey1/chatpanel/internal/chatpanel/template"
	"github.com/spf13/cobra"
)

var (
	templateName string
	argFlags     []string
	useEditor    bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send a single message to the chat service",
	Long: `Send a single message to the chat service and print the reply.
The message goes through the same widget as the panel, so the wake-up notices
of a cold server are printed to stderr while you wait.

If no message is provided as an argument, it reads from stdin.
If --editor flag is set, it opens the default editor (from EDITOR environment variable) to compose the message.

The template file should be in TOML format with the following structure:
message = "Message with optional {{input}} and {{key}} placeholders"
description = "optional description"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		message, err := readMessage(args, os.Stdin)
		if err != nil {
			return err
		}

		message, err = template.FormatMessage(message, templateName, cfg.TemplateDirs, argFlags)
		if err != nil {
			return fmt.Errorf("formatting message with template: %w", err)
		}
		if strings.TrimSpace(message) == "" {
			return fmt.Errorf("message is empty")
		}

		logger, closeLog, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer closeLog()

		// Notices go to stderr; the reply alone goes to stdout
		t := newTranscript(os.Stderr)
		t.showLoading = false
		t.skipBot = true
		w := newWidget(cfg, newChatClient(cfg, logger), logger, t.Observe)
		defer w.Unmount()

		return sendOnce(cmd, w, message)
	},
}

// sendOnce submits message and prints the reply on stdout
func sendOnce(cmd *cobra.Command, w *chatpanel.Widget, message string) error {
	if err := w.Submit(cmd.Context(), message); err != nil {
		return err
	}
	if err := w.LastError(); err != nil {
		return fmt.Errorf("chat request failed: %w", err)
	}

	messages := w.State().Messages
	for i := len(messages) - 1; i >= 0; i-- {
		if m := messages[i]; m.Sender() == chatpanel.SenderBot && !m.IsNotice() {
			fmt.Fprintln(cmd.OutOrStdout(), m.Text())
			return nil
		}
	}
	return fmt.Errorf("no reply received")
}

// readMessage returns the message from the editor, the arguments or in
func readMessage(args []string, in io.Reader) (string, error) {
	if useEditor {
		message, err := getMessageFromEditor()
		if err != nil {
			return "", fmt.Errorf("getting message from editor: %w", err)
		}
		return message, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	input, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading from stdin: %w", err)
	}
	return strings.TrimSpace(string(input)), nil
}

// getMessageFromEditor opens the default editor and returns the edited message
func getMessageFromEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return "", fmt.Errorf("EDITOR environment variable is not set")
	}

	// Create a temporary file
	tmpFile, err := os.CreateTemp("", "chatpanel-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %v", err)
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	// Open the editor
	cmd := exec.Command(editor, tmpFile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to open editor: %v", err)
	}

	// Read the edited content
	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %v", err)
	}

	return strings.TrimSpace(string(content)), nil
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&templateName, "template", "t", "", "Name of the message template (without .toml extension)")
	chatCmd.Flags().StringArrayVar(&argFlags, "arg", []string{}, "Key-value pairs for the message template (format: key:value)")
	chatCmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "Use default editor (from EDITOR environment variable) to compose message")
}
