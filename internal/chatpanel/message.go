package chatpanel

// Sender identifies who authored a message.
type Sender int

const (
	SenderUser Sender = iota
	SenderBot
)

func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderBot:
		return "bot"
	default:
		return "unknown"
	}
}

// Kind separates conversation entries from transient notices.
type Kind int

const (
	// KindMessage is a regular conversation entry.
	KindMessage Kind = iota
	// KindNotice is a bot-attributed latency hint, removed once the request settles.
	KindNotice
)

// Fixed texts shown by the widget.
const (
	DefaultWelcome     = "Ready to serve you! I'm NestléBot to help you with anything."
	WakingUpNotice     = "Please wait while we wake up the server. This may take 1-3 minutes for the first request..."
	StillWorkingNotice = "Still working on your request... Server is initializing. Thanks for your patience!"
	ErrorReply         = "Error contacting server. Please try again."
)

// Message represents a single entry in the conversation.
// Values are immutable once created; use the constructors.
type Message struct {
	sender Sender
	kind   Kind
	text   string
}

// UserMessage creates a message authored by the user.
func UserMessage(text string) Message {
	return Message{sender: SenderUser, kind: KindMessage, text: text}
}

// BotMessage creates a regular message authored by the bot.
func BotMessage(text string) Message {
	return Message{sender: SenderBot, kind: KindMessage, text: text}
}

// Notice creates a transient bot notice.
func Notice(text string) Message {
	return Message{sender: SenderBot, kind: KindNotice, text: text}
}

func (m Message) Sender() Sender { return m.sender }
func (m Message) Kind() Kind     { return m.kind }
func (m Message) Text() string   { return m.text }

// IsNotice reports whether the message is a transient notice.
func (m Message) IsNotice() bool {
	return m.kind == KindNotice
}
