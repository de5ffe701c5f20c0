package peer

import (
	"sync"
	"time"
)

type Message struct {
	From string    `json:"from"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// History is an in-memory chat log. It isn't bounded.
type History struct {
	mu       sync.Mutex
	messages []Message
}

func NewHistory() *History {
	return new(History)
}

func (h *History) Append(msg Message) {
	h.mu.Lock()
	h.messages = append(h.messages, msg)
	h.mu.Unlock()
}

// All returns a copy of the messages in order of arrival. Never nil.
func (h *History) All() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append(make([]Message, 0, len(h.messages)), h.messages...)
}
