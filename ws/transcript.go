package ws

import (
	"sync"
	"time"

	"sharebox/model"
)

// Transcript is the bounded in-memory chat history. Append-only with
// FIFO eviction; nothing is persisted across restarts.
type Transcript struct {
	mu    sync.Mutex
	limit int
	msgs  []model.ChatMessage
}

func NewTranscript(limit int) *Transcript {
	if limit <= 0 {
		limit = 100
	}
	return &Transcript{limit: limit}
}

// Append stamps msg with a sequence id and the current time, stores it
// and evicts the oldest entry past the cap.
func (t *Transcript) Append(msg model.ChatMessage) model.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg.ID = int64(len(t.msgs)) + 1
	msg.Timestamp = time.Now()

	t.msgs = append(t.msgs, msg)
	if len(t.msgs) > t.limit {
		t.msgs = t.msgs[1:]
	}
	return msg
}

// Recent returns up to n of the newest messages, oldest first.
func (t *Transcript) Recent(n int) []model.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := len(t.msgs) - n
	if start < 0 {
		start = 0
	}

	out := make([]model.ChatMessage, len(t.msgs)-start)
	copy(out, t.msgs[start:])
	return out
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.msgs)
}
