// Package comms carries messages between kingdoms.
package comms

import (
	"errors"

	"github.com/tatianab/stronghold/internal/models"
)

const (
	// MaxMessages is how many messages the courier holds at once.
	MaxMessages = 20
	// MaxContentLength is the width of a message body in a save file,
	// terminator included.
	MaxContentLength = 200
)

var (
	ErrInboxFull    = errors.New("message store full")
	ErrEmptyMessage = errors.New("message is empty")
)

type Message struct {
	Sender   string
	Receiver string
	Content  string
	Read     bool
}

// Courier stores messages for every kingdom in arrival order.
type Courier struct {
	messages []Message
}

func NewCourier() *Courier {
	return &Courier{}
}

// Send delivers content to receiver, cutting it to 199 bytes. When the store
// is full the oldest message that has already been read makes room; if every
// message is unread the send fails.
func (c *Courier) Send(sender, receiver, content string) error {
	if content == "" {
		return ErrEmptyMessage
	}
	if len(c.messages) >= MaxMessages && !c.evictRead() {
		return ErrInboxFull
	}
	c.messages = append(c.messages, Message{
		Sender:   models.TruncateName(sender),
		Receiver: models.TruncateName(receiver),
		Content:  models.Truncate(content, MaxContentLength-1),
	})
	return nil
}

func (c *Courier) evictRead() bool {
	for i, m := range c.messages {
		if m.Read {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			return true
		}
	}
	return false
}

// Read returns every message addressed to name and marks them read. The
// returned copies keep the read flag they had before the call.
func (c *Courier) Read(name string) []Message {
	var out []Message
	for i := range c.messages {
		if c.messages[i].Receiver == name {
			out = append(out, c.messages[i])
			c.messages[i].Read = true
		}
	}
	return out
}

// Unread counts messages waiting for name.
func (c *Courier) Unread(name string) int {
	n := 0
	for _, m := range c.messages {
		if m.Receiver == name && !m.Read {
			n++
		}
	}
	return n
}

func (c *Courier) Len() int {
	return len(c.messages)
}
