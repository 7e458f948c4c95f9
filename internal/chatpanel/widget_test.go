package chatpanel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/longkey1/chatpanel/internal/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

// fakeScheduler records timers and fires them on demand.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{delay: d, fn: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs every armed timer. With force, stopped timers run too, which
// simulates a timer that already fired when Stop was called.
func (s *fakeScheduler) fire(force bool) {
	s.mu.Lock()
	timers := append([]*fakeTimer(nil), s.timers...)
	s.mu.Unlock()
	for _, t := range timers {
		if force || !t.stopped {
			t.fn()
		}
	}
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func newTestWidget(t *testing.T, opts ...Option) (*Widget, *mocks.MockClient, *fakeScheduler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	sched := &fakeScheduler{}
	opts = append([]Option{WithScheduler(sched)}, opts...)
	return NewWidget(client, opts...), client, sched
}

func TestWidget_Toggle(t *testing.T) {
	t.Run("should seed the welcome message on first open", func(t *testing.T) {
		req := require.New(t)
		w, _, _ := newTestWidget(t)

		req.False(w.State().UI.Open)
		req.Empty(w.State().Messages)

		w.Toggle()

		state := w.State()
		req.True(state.UI.Open)
		req.Equal([]Message{BotMessage(DefaultWelcome)}, state.Messages)
	})

	t.Run("should never seed twice", func(t *testing.T) {
		req := require.New(t)
		w, _, _ := newTestWidget(t, WithWelcome("Hello there"))

		w.Toggle()
		w.Toggle()
		w.Toggle()
		w.Show()
		w.Show()

		state := w.State()
		req.True(state.UI.Open)
		req.Equal([]Message{BotMessage("Hello there")}, state.Messages)
	})

	t.Run("should hide without touching the conversation", func(t *testing.T) {
		req := require.New(t)
		w, _, _ := newTestWidget(t)

		w.Show()
		w.Hide()
		w.Hide()

		state := w.State()
		req.False(state.UI.Open)
		req.Len(state.Messages, 1)
	})
}

func TestWidget_Submit_IgnoresBlankInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "spaces", input: "   "},
		{name: "tabs and newlines", input: "\t\n \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			// No expectation: any Chat call fails the test.
			w, _, sched := newTestWidget(t)
			w.Show()
			before := w.State()

			err := w.Submit(context.Background(), tt.input)

			req.NoError(err)
			req.Equal(before, w.State())
			req.Zero(sched.count())
		})
	}
}

func TestWidget_Submit_Success(t *testing.T) {
	req := require.New(t)
	w, client, sched := newTestWidget(t)

	client.EXPECT().
		Chat(gomock.Any(), "What is KitKat?").
		DoAndReturn(func(ctx context.Context, message string) (string, error) {
			state := w.State()
			req.True(state.UI.Loading)
			req.True(state.UI.FirstCall)
			req.Equal([]Message{
				UserMessage("What is KitKat?"),
				Notice(WakingUpNotice),
			}, state.Messages)
			return "A chocolate bar.", nil
		}).
		Times(1)

	err := w.Submit(context.Background(), "What is KitKat?")

	req.NoError(err)
	req.NoError(w.LastError())
	state := w.State()
	req.False(state.UI.Loading)
	req.False(state.UI.FirstCall)
	req.Equal([]Message{
		UserMessage("What is KitKat?"),
		BotMessage("A chocolate bar."),
	}, state.Messages)

	req.Equal(1, sched.count())
	req.Equal(DefaultStillWorkingDelay, sched.timers[0].delay)
	req.True(sched.timers[0].stopped, "timer is cancelled on settlement")
}

func TestWidget_Submit_Failure(t *testing.T) {
	req := require.New(t)
	w, client, _ := newTestWidget(t)
	boom := errors.New("connection refused")

	client.EXPECT().
		Chat(gomock.Any(), "hello").
		Return("", boom).
		Times(1)

	err := w.Submit(context.Background(), "hello")

	req.NoError(err)
	req.ErrorIs(w.LastError(), boom)
	state := w.State()
	req.False(state.UI.Loading)
	req.False(state.UI.FirstCall, "a failed first call still settles the latch")
	req.Equal([]Message{
		UserMessage("hello"),
		BotMessage(ErrorReply),
	}, state.Messages)
}

func TestWidget_Submit_WakingNoticeOnlyOnFirstCall(t *testing.T) {
	req := require.New(t)
	w, client, sched := newTestWidget(t)

	gomock.InOrder(
		client.EXPECT().Chat(gomock.Any(), "first").Return("", errors.New("timeout")),
		client.EXPECT().
			Chat(gomock.Any(), "second").
			DoAndReturn(func(ctx context.Context, message string) (string, error) {
				state := w.State()
				req.False(state.UI.FirstCall)
				last := state.Messages[len(state.Messages)-1]
				req.Equal(UserMessage("second"), last)
				return "ok", nil
			}),
	)

	req.NoError(w.Submit(context.Background(), "first"))
	req.NoError(w.Submit(context.Background(), "second"))

	req.Equal(1, sched.count(), "the still-working timer is armed once per session")
	for _, m := range w.State().Messages {
		req.False(m.IsNotice())
	}
}

func TestWidget_Submit_StillWorkingNotice(t *testing.T) {
	t.Run("should append the notice while the request is outstanding", func(t *testing.T) {
		req := require.New(t)
		w, client, sched := newTestWidget(t, WithStillWorkingDelay(5*time.Second))

		client.EXPECT().
			Chat(gomock.Any(), "slow").
			DoAndReturn(func(ctx context.Context, message string) (string, error) {
				sched.fire(false)
				req.Equal([]Message{
					UserMessage("slow"),
					Notice(WakingUpNotice),
					Notice(StillWorkingNotice),
				}, w.State().Messages)
				return "done", nil
			})

		req.NoError(w.Submit(context.Background(), "slow"))

		req.Equal(5*time.Second, sched.timers[0].delay)
		req.Equal([]Message{
			UserMessage("slow"),
			BotMessage("done"),
		}, w.State().Messages)
	})

	t.Run("should ignore a timer that fires after settlement", func(t *testing.T) {
		req := require.New(t)
		w, client, sched := newTestWidget(t)

		client.EXPECT().Chat(gomock.Any(), "fast").Return("done", nil)

		req.NoError(w.Submit(context.Background(), "fast"))
		sched.fire(true)

		req.Equal([]Message{
			UserMessage("fast"),
			BotMessage("done"),
		}, w.State().Messages)
	})
}

func TestWidget_Submit_SingleFlight(t *testing.T) {
	req := require.New(t)
	w, client, _ := newTestWidget(t)

	client.EXPECT().
		Chat(gomock.Any(), "one").
		DoAndReturn(func(ctx context.Context, message string) (string, error) {
			before := w.State()
			err := w.Submit(context.Background(), "two")
			req.ErrorIs(err, ErrBusy)
			req.Equal(before, w.State())
			return "reply", nil
		}).
		Times(1)

	req.NoError(w.Submit(context.Background(), "one"))
	req.Len(w.State().Messages, 2)
}

func TestWidget_Unmount(t *testing.T) {
	t.Run("should cancel the outstanding request", func(t *testing.T) {
		req := require.New(t)
		w, client, sched := newTestWidget(t)

		client.EXPECT().
			Chat(gomock.Any(), "bye").
			DoAndReturn(func(ctx context.Context, message string) (string, error) {
				w.Unmount()
				<-ctx.Done()
				return "", ctx.Err()
			})

		err := w.Submit(context.Background(), "bye")

		req.ErrorIs(err, ErrUnmounted)
		req.True(sched.timers[0].stopped)
		req.False(w.State().UI.Loading)

		sched.fire(true)
		for _, m := range w.State().Messages {
			req.NotEqual(StillWorkingNotice, m.Text())
		}
	})

	t.Run("should reject later submissions", func(t *testing.T) {
		req := require.New(t)
		w, _, _ := newTestWidget(t)

		w.Unmount()
		w.Unmount()

		req.ErrorIs(w.Submit(context.Background(), "hello"), ErrUnmounted)
		req.Empty(w.State().Messages)
	})
}

func TestWidget_SubmitDraft(t *testing.T) {
	req := require.New(t)
	w, client, _ := newTestWidget(t)

	client.EXPECT().Chat(gomock.Any(), "typed text").Return("answer", nil)

	w.SetDraft("typed text")
	req.Equal("typed text", w.State().UI.Draft)

	req.NoError(w.SubmitDraft(context.Background()))

	state := w.State()
	req.Empty(state.UI.Draft)
	req.Equal(UserMessage("typed text"), state.Messages[0])
}

func TestWidget_Observer(t *testing.T) {
	req := require.New(t)

	var mu sync.Mutex
	var loading []bool
	var last State
	observer := func(s State) {
		mu.Lock()
		defer mu.Unlock()
		loading = append(loading, s.UI.Loading)
		last = s
		// Renderers get a copy; scribbling on it must not leak back.
		if len(s.Messages) > 0 {
			s.Messages[0] = UserMessage("scribbled")
		}
	}

	w, client, _ := newTestWidget(t, WithObserver(observer))
	client.EXPECT().Chat(gomock.Any(), "hi").Return("hello", nil)

	w.Toggle()
	req.NoError(w.Submit(context.Background(), "hi"))

	mu.Lock()
	defer mu.Unlock()
	req.Equal([]bool{false, true, false}, loading)
	req.False(last.UI.Loading)
	req.Equal(BotMessage(DefaultWelcome), w.State().Messages[0])
}
