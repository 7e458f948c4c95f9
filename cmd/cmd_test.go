package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/longkey1/chatpanel/internal/chatpanel"
	"github.com/longkey1/chatpanel/internal/chatpanel/config"
	"github.com/longkey1/chatpanel/internal/mocks"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRunPlainMode(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().
		Chat(gomock.Any(), "Is Nescafé instant?").
		Return("Yes, it is.", nil).
		Times(1)

	var out, errOut bytes.Buffer
	tr := newTranscript(&out)
	w := chatpanel.NewWidget(client, chatpanel.WithObserver(tr.Observe))
	t.Cleanup(w.Unmount)

	in := strings.NewReader(strings.Join([]string{
		"Is Nescafé instant?",
		"   ",
		"/close",
		"ignored while closed",
		"/bogus",
		"/exit",
		"never read",
	}, "\n"))

	req.NoError(runPlainMode(context.Background(), w, true, in, &errOut))

	req.Contains(out.String(), chatpanel.DefaultWelcome)
	req.Contains(out.String(), chatpanel.WakingUpNotice)
	req.Contains(out.String(), "Yes, it is.")
	req.Contains(errOut.String(), "The panel is closed")
	req.Contains(errOut.String(), "Unknown command: /bogus")
	req.Contains(errOut.String(), "Goodbye!")

	state := w.State()
	req.False(state.UI.Open)
	req.Len(state.Messages, 3)
}

func TestRunPlainMode_EOF(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	w := chatpanel.NewWidget(mocks.NewMockClient(ctrl))
	t.Cleanup(w.Unmount)

	var errOut bytes.Buffer
	req.NoError(runPlainMode(context.Background(), w, false, strings.NewReader("/toggle\n/info\n"), &errOut))

	req.True(w.State().UI.Open)
	req.Contains(errOut.String(), "Phase: first-call-pending")
	req.Contains(errOut.String(), "Goodbye!")
}

func TestTranscript_Observe(t *testing.T) {
	req := require.New(t)

	var out bytes.Buffer
	tr := newTranscript(&out)

	welcome := chatpanel.BotMessage("Welcome aboard")
	user := chatpanel.UserMessage("What is Maggi?")
	notice := chatpanel.Notice(chatpanel.WakingUpNotice)
	reply := chatpanel.BotMessage("A brand of noodles.")

	tr.Observe(chatpanel.State{UI: chatpanel.UIState{Open: true}, Messages: []chatpanel.Message{welcome}})
	tr.Observe(chatpanel.State{
		UI:       chatpanel.UIState{Open: true, Loading: true},
		Messages: []chatpanel.Message{welcome, user, notice},
	})
	tr.Observe(chatpanel.State{
		UI:       chatpanel.UIState{Open: true},
		Messages: []chatpanel.Message{welcome, user, reply},
	})
	tr.Observe(chatpanel.State{
		UI:       chatpanel.UIState{Open: false},
		Messages: []chatpanel.Message{welcome, user, reply},
	})

	got := out.String()
	req.Equal(1, strings.Count(got, "Welcome aboard"))
	req.Equal(1, strings.Count(got, chatpanel.WakingUpNotice))
	req.Equal(1, strings.Count(got, "A brand of noodles."))
	req.Equal(1, strings.Count(got, "Processing..."))
	req.NotContains(got, "What is Maggi?", "typed text is not echoed")
}

func TestSendOnce(t *testing.T) {
	t.Run("should print the reply", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		client.EXPECT().Chat(gomock.Any(), "hello").Return("Hello! How can I help?", nil)

		w := chatpanel.NewWidget(client)
		var out bytes.Buffer
		c := &cobra.Command{}
		c.SetContext(context.Background())
		c.SetOut(&out)

		req.NoError(sendOnce(c, w, "hello"))
		req.Equal("Hello! How can I help?\n", out.String())
	})

	t.Run("should fail when the request fails", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		boom := errors.New("connection refused")
		client.EXPECT().Chat(gomock.Any(), "hello").Return("", boom)

		w := chatpanel.NewWidget(client)
		var out bytes.Buffer
		c := &cobra.Command{}
		c.SetContext(context.Background())
		c.SetOut(&out)

		err := sendOnce(c, w, "hello")
		req.ErrorIs(err, boom)
		req.Empty(out.String())
	})
}

func TestReadMessage(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{name: "arguments are joined", args: []string{"recommend", "a", "cereal"}, want: "recommend a cereal"},
		{name: "stdin is trimmed", stdin: "  from a pipe\n", want: "from a pipe"},
		{name: "arguments win over stdin", args: []string{"args"}, stdin: "stdin", want: "args"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readMessage(tt.args, strings.NewReader(tt.stdin))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestConfigField(t *testing.T) {
	cfg := config.NewDefaultConfig("/tmp/templates")
	cfg.BaseURL = "https://bot.example.com"
	cfg.RequestTimeout = 30 * time.Second

	tests := []struct {
		field  string
		want   string
		wantOk bool
	}{
		{field: "base_url", want: "https://bot.example.com", wantOk: true},
		{field: "BaseURL", want: "https://bot.example.com", wantOk: true},
		{field: "still_working_delay", want: "1m0s", wantOk: true},
		{field: "request_timeout", want: "30s", wantOk: true},
		{field: "template_dirs", want: "/tmp/templates", wantOk: true},
		{field: "token", want: "", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := configField(cfg, tt.field)
			require.Equal(t, tt.wantOk, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRenderConfig(t *testing.T) {
	cfg := config.NewDefaultConfig("/tmp/templates")
	cfg.BaseURL = "https://bot.example.com"

	var out bytes.Buffer
	renderConfig(&out, cfg)

	require.Contains(t, out.String(), "https://bot.example.com")
	require.Contains(t, out.String(), "FIELD")
	require.Contains(t, out.String(), "still_working_delay")
}

func TestWriteDefaultConfig(t *testing.T) {
	req := require.New(t)
	configFile := filepath.Join(t.TempDir(), "chatpanel", "config.toml")

	templatesDir, err := writeDefaultConfig(configFile)
	req.NoError(err)
	req.Equal(filepath.Join(filepath.Dir(configFile), "templates"), templatesDir)
	req.DirExists(templatesDir)

	content, err := os.ReadFile(configFile)
	req.NoError(err)
	req.Contains(string(content), `base_url = ""`)
	req.Contains(string(content), `still_working_delay = "1m0s"`)

	_, err = writeDefaultConfig(configFile)
	req.ErrorContains(err, "already exists")
}
