package comms

import (
	"github.com/tatianab/stronghold/internal/binfmt"
	"github.com/tatianab/stronghold/internal/models"
)

func (c *Courier) EncodeBinary(w *binfmt.Writer) {
	w.Int(len(c.messages))
	for _, m := range c.messages {
		w.String(m.Sender, models.MaxNameLength)
		w.String(m.Receiver, models.MaxNameLength)
		w.String(m.Content, MaxContentLength)
		w.Bool(m.Read)
	}
}

func (c *Courier) DecodeBinary(r *binfmt.Reader) error {
	n := r.Count(MaxMessages)
	messages := make([]Message, 0, n)
	for i := 0; i < n; i++ {
		messages = append(messages, Message{
			Sender:   r.String(models.MaxNameLength),
			Receiver: r.String(models.MaxNameLength),
			Content:  r.String(MaxContentLength),
			Read:     r.Bool(),
		})
	}
	if err := r.Err(); err != nil {
		return err
	}
	c.messages = messages
	return nil
}
