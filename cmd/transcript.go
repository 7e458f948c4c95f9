package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/gookit/color"
	"github.com/longkey1/chatpanel/internal/chatpanel"
)

var (
	userColor    = color.Style{color.FgCyan, color.OpBold}
	botColor     = color.Style{color.FgGreen}
	noticeColor  = color.Style{color.FgYellow, color.OpItalic}
	loadingColor = color.Style{color.FgGray}
)

// transcript prints a conversation line by line as the widget reports changes.
// Lines already printed stay on the terminal; notices that the widget removes
// are simply not printed again.
type transcript struct {
	mu      sync.Mutex
	out     io.Writer
	printed []chatpanel.Message
	loading bool

	skipUser    bool // the user already sees what they typed
	skipBot     bool
	showLoading bool
}

func newTranscript(out io.Writer) *transcript {
	return &transcript{out: out, skipUser: true, showLoading: true}
}

// Observe is a chatpanel.Observer.
func (t *transcript) Observe(s chatpanel.State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := 0
	for k < len(t.printed) && k < len(s.Messages) && t.printed[k] == s.Messages[k] {
		k++
	}
	for _, m := range s.Messages[k:] {
		t.printLocked(m)
	}
	t.printed = s.Messages

	if t.showLoading && s.UI.Loading && !t.loading {
		fmt.Fprintln(t.out, loadingColor.Sprint("Processing..."))
	}
	t.loading = s.UI.Loading
}

func (t *transcript) printLocked(m chatpanel.Message) {
	switch {
	case m.IsNotice():
		fmt.Fprintln(t.out, noticeColor.Sprint("⏳ "+m.Text()))
	case m.Sender() == chatpanel.SenderUser:
		if !t.skipUser {
			fmt.Fprintln(t.out, userColor.Sprint("You> ")+m.Text())
		}
	case !t.skipBot:
		fmt.Fprintf(t.out, "%s%s\n\n", botColor.Sprint("Bot> "), m.Text())
	}
}
