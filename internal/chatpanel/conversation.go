package chatpanel

import "github.com/samber/lo"

// Conversation is the ordered message thread of one widget.
// It is only ever appended to, or filtered to drop notices.
type Conversation struct {
	messages []Message
}

// Append adds a message at the end of the thread.
func (c *Conversation) Append(m Message) {
	c.messages = append(c.messages, m)
}

// RemoveNotices drops every transient notice and returns how many were removed.
// Relative order of the remaining messages is preserved.
func (c *Conversation) RemoveNotices() int {
	kept := lo.Reject(c.messages, func(m Message, _ int) bool {
		return m.IsNotice()
	})
	removed := len(c.messages) - len(kept)
	c.messages = kept
	return removed
}

// Len returns the number of messages, notices included.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Empty reports whether nothing has been appended yet.
func (c *Conversation) Empty() bool {
	return len(c.messages) == 0
}

// Messages returns a copy of the thread.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message, if any.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}
