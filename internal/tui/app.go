// Package tui renders the chat widget as a floating terminal panel.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/chatpanel/internal/chatpanel"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	maxPanelWidth  = 64
	maxPanelHeight = 26
)

// stateChangedMsg tells the program the widget changed outside of Update.
type stateChangedMsg struct{}

// submitDoneMsg is sent when a submission returns.
type submitDoneMsg struct{ err error }

// Notifier bridges widget observers to the Bubble Tea event loop.
// Signals are coalesced: the model always re-reads the latest state.
type Notifier struct {
	ch chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Observe is a chatpanel.Observer. It never blocks.
func (n *Notifier) Observe(chatpanel.State) {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *Notifier) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-n.ch:
			return stateChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// Options configures the panel model.
type Options struct {
	Title     string
	StartOpen bool
	Logger    zerolog.Logger
}

type Model struct {
	widget   *chatpanel.Widget
	notifier *Notifier
	state    chatpanel.State
	title    string

	input    textinput.Model
	spin     spinner.Model
	viewport viewport.Model
	width    int
	height   int

	ctx      context.Context
	cancel   context.CancelFunc
	logger   zerolog.Logger
	quitting bool
}

// NewModel creates the panel model for w. The notifier must be registered on w
// with chatpanel.WithObserver(n.Observe).
func NewModel(w *chatpanel.Widget, n *Notifier, opts Options) Model {
	in := textinput.New()
	in.Placeholder = "Ask something..."
	in.Prompt = "➤ "
	in.CharLimit = 2000

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		widget:   w,
		notifier: n,
		title:    opts.Title,
		input:    in,
		spin:     s,
		viewport: viewport.New(maxPanelWidth-2, maxPanelHeight-6),
		width:    120,
		height:   30,
		ctx:      ctx,
		cancel:   cancel,
		logger:   opts.Logger.With().Str("component", "tui").Logger(),
	}
	if m.title == "" {
		m.title = "Assistant"
	}
	if opts.StartOpen {
		w.Show()
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.notifier.wait(m.ctx), textinput.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case stateChangedMsg:
		m.refresh()
		return m, m.notifier.wait(m.ctx)

	case submitDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, chatpanel.ErrUnmounted) {
			m.logger.Warn().Err(msg.err).Msg("Submission rejected")
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.widget.Unmount()
		m.cancel()
		m.quitting = true
		return m, tea.Quit

	case "ctrl+t":
		m.widget.Toggle()
		m.refresh()
		return m, nil
	}

	if !m.state.UI.Open {
		if msg.String() == "q" {
			m.widget.Unmount()
			m.cancel()
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.widget.Hide()
		m.refresh()
		return m, nil

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case "enter":
		if m.state.UI.Loading {
			return m, nil
		}
		text := m.input.Value()
		m.input.Reset()
		m.widget.SetDraft("")
		m.refresh()
		return m, m.submit(text)
	}

	if m.state.UI.Loading {
		// input is disabled while a request is outstanding
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.widget.SetDraft(m.input.Value())
	m.refresh()
	return m, cmd
}

func (m Model) submit(text string) tea.Cmd {
	w := m.widget
	ctx := m.ctx
	return func() tea.Msg {
		return submitDoneMsg{err: w.Submit(ctx, text)}
	}
}

// refresh pulls a new snapshot and syncs the sub-models with it.
func (m *Model) refresh() {
	m.state = m.widget.State()

	if m.state.UI.Open && !m.state.UI.Loading {
		m.input.Focus()
	} else {
		m.input.Blur()
	}

	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *Model) resize() {
	w, h := m.panelSize()
	m.viewport.Width = w - 2
	m.viewport.Height = h - 6
	m.input.Width = w - 6
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m Model) panelSize() (int, int) {
	w := min(maxPanelWidth, m.width-2)
	h := min(maxPanelHeight, m.height-2)
	return max(w, 24), max(h, 10)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.state.UI.Open {
		launcher := launcherStyle.Render("💬 Chat") + "\n" + helpStyle.Render("ctrl+t: open  q: quit")
		return lipgloss.Place(m.width, m.height, lipgloss.Right, lipgloss.Bottom, launcher)
	}

	w, _ := m.panelSize()

	var b strings.Builder

	header := headerStyle.Width(w - 2).Render(m.title + "  " + dimStyle.Render("esc ×"))
	b.WriteString(header + "\n")
	b.WriteString(m.viewport.View() + "\n")

	if m.state.UI.Loading {
		b.WriteString(m.spin.View() + loadingStyle.Render(" Processing...") + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(inputStyle.Width(w - 2).Render(m.input.View()) + "\n")
	b.WriteString(helpStyle.Render("enter: send  esc: close  ctrl+t: toggle  ctrl+c: quit"))

	panel := panelStyle.Width(w - 2).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Right, lipgloss.Bottom, panel)
}

func (m Model) renderMessages() string {
	width := m.viewport.Width - 2
	if width < 10 {
		width = 10
	}
	lines := lo.Map(m.state.Messages, func(msg chatpanel.Message, _ int) string {
		return renderMessage(msg, width)
	})
	return strings.Join(lines, "\n\n")
}

func renderMessage(msg chatpanel.Message, width int) string {
	switch {
	case msg.IsNotice():
		return noticeStyle.Width(width).Render("⏳ " + msg.Text())
	case msg.Sender() == chatpanel.SenderUser:
		style := userStyle
		if lipgloss.Width(msg.Text())+4 > width {
			style = style.Width(width)
		}
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, style.Render(msg.Text()+" 👤"))
	default:
		return botStyle.Width(width).Render("🤖 " + msg.Text())
	}
}

// State returns the snapshot the model last rendered.
func (m Model) State() chatpanel.State {
	return m.state
}
