package blackbox

import (
	"fmt"
	"sync"
)

// ConversationMemory keeps a bounded per-user transcript for follow-up
// prompts. State is scoped to the instance so separate bots and tests
// do not share history.
type ConversationMemory struct {
	mu    sync.Mutex
	limit int
	turns map[int64][]string
}

// NewConversationMemory creates a memory keeping at most limit lines per user.
func NewConversationMemory(limit int) *ConversationMemory {
	if limit <= 0 {
		limit = 20
	}
	return &ConversationMemory{
		limit: limit,
		turns: make(map[int64][]string),
	}
}

// RecordUser appends the user's message to their transcript.
func (m *ConversationMemory) RecordUser(userID int64, message string) {
	m.record(userID, fmt.Sprintf("User: %s", message))
}

// RecordReply appends the bot's answer to the user's transcript.
func (m *ConversationMemory) RecordReply(userID int64, message string) {
	m.record(userID, fmt.Sprintf("AI: %s", message))
}

func (m *ConversationMemory) record(userID int64, line string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	turns := append(m.turns[userID], line)
	if len(turns) > m.limit {
		turns = turns[len(turns)-m.limit:]
	}
	m.turns[userID] = turns
}

// History returns a copy of the user's transcript.
func (m *ConversationMemory) History(userID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	turns := m.turns[userID]
	out := make([]string, len(turns))
	copy(out, turns)
	return out
}

// Reset drops the user's transcript.
func (m *ConversationMemory) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.turns, userID)
}
