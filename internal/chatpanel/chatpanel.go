// Package chatpanel provides the core of the chat widget: the conversation store,
// the visibility controller and the request lifecycle manager.
// Renderers (the terminal panel, the plain line mode) consume State snapshots
// and drive the widget only through its exported operations.
package chatpanel

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../mocks/mock_client.go -package=mocks github.com/longkey1/chatpanel/internal/chatpanel Client

// Client defines the remote chat endpoint the widget talks to.
// One call is made per submitted message.
//
// Example usage:
//
//	client := chatapi.NewClient(cfg.BaseURL)
//	reply, err := client.Chat(ctx, "Hello!")
type Client interface {
	// Chat sends a single message and returns the bot reply.
	Chat(ctx context.Context, message string) (string, error)
}

// Timer is a pending deferred call that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler arms deferred calls. The default implementation uses time.AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// UIState holds the presentation flags of the widget.
type UIState struct {
	Open      bool
	Loading   bool
	FirstCall bool
	Draft     string
}

// State is a snapshot of the widget handed to renderers.
type State struct {
	UI       UIState
	Messages []Message
}

// Observer is notified with a fresh snapshot after every state change.
// Observers run on the goroutine that caused the change and must not call
// mutating widget operations synchronously.
type Observer func(State)
