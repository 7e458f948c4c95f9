package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/longkey1/chatpanel/internal/chatpanel"
	"github.com/longkey1/chatpanel/internal/tui"
	"github.com/spf13/cobra"
)

var (
	plainMode  bool
	startClose bool
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the chat panel",
	Long: `Open the chat panel and talk to the configured chat service.

The panel floats in the bottom-right corner of the terminal.
  ctrl+t  toggle the panel
  esc     close the panel
  enter   send the typed message
  ctrl+c  quit

The first request of a session may take a while when the server is asleep;
the panel tells you so while you wait.

With --plain, a line-oriented mode is used instead of the full-screen panel.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if plainMode {
			logger, closeLog, err := newLogger(cfg, false)
			if err != nil {
				return err
			}
			defer closeLog()

			t := newTranscript(os.Stdout)
			w := newWidget(cfg, newChatClient(cfg, logger), logger, t.Observe)
			defer w.Unmount()
			return runPlainMode(cmd.Context(), w, !startClose, os.Stdin, os.Stderr)
		}

		logger, closeLog, err := newLogger(cfg, true)
		if err != nil {
			return err
		}
		defer closeLog()

		notifier := tui.NewNotifier()
		w := newWidget(cfg, newChatClient(cfg, logger), logger, notifier.Observe)
		defer w.Unmount()

		logger.Info().Str("session", w.Session().GetShortID()).Str("base_url", cfg.BaseURL).Msg("Opening chat panel")

		model := tui.NewModel(w, notifier, tui.Options{
			Title:     cfg.Title,
			StartOpen: !startClose,
			Logger:    logger,
		})
		if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return fmt.Errorf("running chat panel: %w", err)
		}
		return nil
	},
}

// runPlainMode reads lines from in and submits them to the widget.
// Commands start with a slash; the conversation is printed by the widget observers.
func runPlainMode(ctx context.Context, w *chatpanel.Widget, startOpen bool, in io.Reader, errOut io.Writer) error {
	fmt.Fprintf(errOut, "\n=== Chat [%s] ===\n", w.Session().GetShortID())
	fmt.Fprintf(errOut, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n")
	fmt.Fprintf(errOut, "==================\n\n")

	if startOpen {
		w.Show()
	}

	scanner := bufio.NewScanner(in)
	for {
		if w.State().UI.Open {
			fmt.Fprint(errOut, "You> ")
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
			fmt.Fprintln(errOut, "\nGoodbye!")
			return nil
		}

		input := scanner.Text()
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "/") {
			if handleSpecialCommand(trimmed, w, errOut) {
				continue
			}
			return nil
		}

		if !w.State().UI.Open {
			fmt.Fprintln(errOut, "The panel is closed. Type '/open' or '/toggle' to chat.")
			continue
		}

		if err := w.Submit(ctx, input); err != nil {
			return err
		}
	}
}

// handleSpecialCommand processes slash commands in plain mode.
// Returns true to continue the loop, false to exit
func handleSpecialCommand(command string, w *chatpanel.Widget, errOut io.Writer) bool {
	command = strings.ToLower(strings.TrimSpace(command))

	switch command {
	case "/help", "/h":
		fmt.Fprintln(errOut, "\nAvailable commands:")
		fmt.Fprintln(errOut, "  /help, /h     - Show this help message")
		fmt.Fprintln(errOut, "  /toggle, /t   - Open or close the panel")
		fmt.Fprintln(errOut, "  /open         - Open the panel")
		fmt.Fprintln(errOut, "  /close        - Close the panel")
		fmt.Fprintln(errOut, "  /info, /i     - Show session information")
		fmt.Fprintln(errOut, "  /exit, /quit  - Exit")
		fmt.Fprintln(errOut, "  Ctrl+D        - Exit")
		fmt.Fprintln(errOut, "")
		return true

	case "/toggle", "/t":
		w.Toggle()
		return true

	case "/open":
		w.Show()
		return true

	case "/close":
		w.Hide()
		return true

	case "/info", "/i":
		sess := w.Session()
		state := w.State()
		fmt.Fprintln(errOut, "\nSession Information:")
		fmt.Fprintf(errOut, "  ID: %s\n", sess.GetShortID())
		fmt.Fprintf(errOut, "  Full ID: %s\n", sess.ID)
		fmt.Fprintf(errOut, "  Started: %s\n", sess.StartedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(errOut, "  Phase: %s\n", sess.Phase())
		fmt.Fprintf(errOut, "  Messages: %d\n", len(state.Messages))
		fmt.Fprintf(errOut, "  Open: %v\n", state.UI.Open)
		fmt.Fprintln(errOut, "")
		return true

	case "/exit", "/quit", "/q":
		fmt.Fprintln(errOut, "Goodbye!")
		return false

	default:
		fmt.Fprintf(errOut, "Unknown command: %s (type '/help' for available commands)\n", command)
		return true
	}
}

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().BoolVar(&plainMode, "plain", false, "Use the line-oriented mode instead of the full-screen panel")
	openCmd.Flags().BoolVar(&startClose, "closed", false, "Start with the panel collapsed")
}
