package chatpanel

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultStillWorkingDelay is how long the first request may run before the
// second notice is shown.
const DefaultStillWorkingDelay = 60 * time.Second

// Option configures a Widget.
type Option func(*Widget)

// WithSession sets the session context. A fresh session is used otherwise.
func WithSession(s *Session) Option {
	return func(w *Widget) { w.session = s }
}

// WithWelcome overrides the message seeded on first open.
func WithWelcome(text string) Option {
	return func(w *Widget) {
		if text != "" {
			w.welcome = text
		}
	}
}

// WithStillWorkingDelay overrides the delay of the second first-call notice.
func WithStillWorkingDelay(d time.Duration) Option {
	return func(w *Widget) {
		if d > 0 {
			w.stillWorkingDelay = d
		}
	}
}

// WithScheduler replaces the timer implementation.
func WithScheduler(s Scheduler) Option {
	return func(w *Widget) { w.scheduler = s }
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Widget) { w.logger = l }
}

// WithObserver registers a renderer callback.
func WithObserver(o Observer) Option {
	return func(w *Widget) { w.observers = append(w.observers, o) }
}

// inflight tracks the single outstanding request.
type inflight struct {
	id     uint64
	cancel context.CancelFunc
	timer  Timer
}

// Widget is the chat widget core.
// All operations are safe for concurrent use; at most one request is outstanding.
type Widget struct {
	client            Client
	session           *Session
	welcome           string
	stillWorkingDelay time.Duration
	scheduler         Scheduler
	logger            zerolog.Logger
	observers         []Observer

	mu        sync.Mutex
	conv      Conversation
	open      bool
	draft     string
	pending   *inflight
	seq       uint64
	unmounted bool
	lastErr   error

	version uint64

	// notifyMu serializes deliveries; delivered drops snapshots that lost the race.
	notifyMu  sync.Mutex
	delivered uint64
}

// NewWidget creates a collapsed widget with an empty conversation.
func NewWidget(client Client, opts ...Option) *Widget {
	w := &Widget{
		client:            client,
		welcome:           DefaultWelcome,
		stillWorkingDelay: DefaultStillWorkingDelay,
		scheduler:         realScheduler{},
		logger:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.session == nil {
		w.session = NewSession()
	}
	w.logger = w.logger.With().
		Str("component", "widget").
		Str("session", w.session.GetShortID()).
		Logger()
	return w
}

// Session returns the session context of the widget.
func (w *Widget) Session() *Session {
	return w.session
}

// State returns a snapshot of the widget.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// LastError returns the error of the most recent settled request, or nil if it succeeded.
func (w *Widget) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Toggle flips the panel visibility, seeding the welcome message on the first open.
func (w *Widget) Toggle() {
	w.mu.Lock()
	w.setOpenLocked(!w.open)
	w.notifyAndUnlock()
}

// Show opens the panel.
func (w *Widget) Show() {
	w.mu.Lock()
	if w.open {
		w.mu.Unlock()
		return
	}
	w.setOpenLocked(true)
	w.notifyAndUnlock()
}

// Hide collapses the panel. The conversation is kept.
func (w *Widget) Hide() {
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return
	}
	w.setOpenLocked(false)
	w.notifyAndUnlock()
}

func (w *Widget) setOpenLocked(open bool) {
	w.open = open
	if open && w.conv.Empty() {
		w.conv.Append(BotMessage(w.welcome))
		w.logger.Debug().Msg("Seeded welcome message")
	}
}

// SetDraft records the text currently typed in the input control.
func (w *Widget) SetDraft(text string) {
	w.mu.Lock()
	if w.draft == text {
		w.mu.Unlock()
		return
	}
	w.draft = text
	w.notifyAndUnlock()
}

// SubmitDraft submits the current draft.
func (w *Widget) SubmitDraft(ctx context.Context) error {
	w.mu.Lock()
	draft := w.draft
	w.mu.Unlock()
	return w.Submit(ctx, draft)
}

// Submit sends one user message and blocks until the request settles.
//
// Blank text is ignored. A request failure is not returned: it is reported in
// the conversation as a bot error message and kept in LastError.
// ErrBusy is returned while another submission is outstanding.
func (w *Widget) Submit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	w.mu.Lock()
	if w.unmounted {
		w.mu.Unlock()
		return ErrUnmounted
	}
	if w.pending != nil {
		w.mu.Unlock()
		return ErrBusy
	}

	w.conv.Append(UserMessage(text))
	w.draft = ""
	w.lastErr = nil

	reqCtx, cancel := context.WithCancel(ctx)
	w.seq++
	req := &inflight{id: w.seq, cancel: cancel}
	w.pending = req

	firstCall := w.session.FirstCall()
	if firstCall {
		w.conv.Append(Notice(WakingUpNotice))
		id := req.id
		req.timer = w.scheduler.AfterFunc(w.stillWorkingDelay, func() {
			w.stillWorking(id)
		})
	}
	w.logger.Debug().
		Uint64("request", req.id).
		Bool("first_call", firstCall).
		Int("length", len(text)).
		Msg("Sending message")
	w.notifyAndUnlock()

	start := time.Now()
	reply, err := w.client.Chat(reqCtx, text)

	w.mu.Lock()
	if w.pending != req {
		// Unmounted while the request was outstanding.
		w.mu.Unlock()
		return ErrUnmounted
	}
	w.settleLocked(req, reply, err, time.Since(start))
	w.notifyAndUnlock()
	return nil
}

func (w *Widget) settleLocked(req *inflight, reply string, err error, elapsed time.Duration) {
	if req.timer != nil {
		req.timer.Stop()
	}
	req.cancel()
	w.pending = nil

	removed := w.conv.RemoveNotices()
	if err != nil {
		w.conv.Append(BotMessage(ErrorReply))
		w.lastErr = err
		w.logger.Warn().
			Err(err).
			Uint64("request", req.id).
			Dur("elapsed", elapsed).
			Msg("Chat request failed")
	} else {
		w.conv.Append(BotMessage(reply))
		w.logger.Debug().
			Uint64("request", req.id).
			Dur("elapsed", elapsed).
			Int("notices_removed", removed).
			Msg("Chat request settled")
	}
	w.session.MarkSettled()
}

// stillWorking appends the delayed notice if request id is still outstanding.
func (w *Widget) stillWorking(id uint64) {
	w.mu.Lock()
	if w.unmounted || w.pending == nil || w.pending.id != id {
		w.mu.Unlock()
		return
	}
	w.conv.Append(Notice(StillWorkingNotice))
	w.logger.Debug().Uint64("request", id).Msg("Request still outstanding")
	w.notifyAndUnlock()
}

// Unmount tears the widget down: the outstanding request and its timer are
// cancelled and later submissions return ErrUnmounted.
func (w *Widget) Unmount() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.unmounted {
		return
	}
	w.unmounted = true
	if req := w.pending; req != nil {
		if req.timer != nil {
			req.timer.Stop()
		}
		req.cancel()
		w.pending = nil
		w.logger.Debug().Uint64("request", req.id).Msg("Cancelled outstanding request")
	}
}

func (w *Widget) snapshotLocked() State {
	return State{
		UI: UIState{
			Open:      w.open,
			Loading:   w.pending != nil,
			FirstCall: w.session.FirstCall(),
			Draft:     w.draft,
		},
		Messages: w.conv.Messages(),
	}
}

// notifyAndUnlock snapshots the state, releases mu and delivers the snapshot
// to the observers. Must be called with mu held. A snapshot older than one
// already delivered is dropped, so observers only ever move forward.
func (w *Widget) notifyAndUnlock() {
	if len(w.observers) == 0 {
		w.mu.Unlock()
		return
	}
	w.version++
	version := w.version
	state := w.snapshotLocked()
	w.mu.Unlock()

	w.notifyMu.Lock()
	defer w.notifyMu.Unlock()
	if version <= w.delivered {
		return
	}
	w.delivered = version
	for _, o := range w.observers {
		o(state)
	}
}
