package activity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry kinds recorded in the feed.
const (
	KindCreated = "todo_created"
	KindUpdated = "todo_updated"
	KindDeleted = "todo_deleted"
)

// Entry is one recorded todo event.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	TodoID    int64     `json:"todo_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed keeps the newest entries up to a fixed limit.
type Feed struct {
	entries []Entry
	limit   int
	mu      sync.RWMutex
}

// NewFeed creates a feed that retains at most limit entries.
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Feed{
		entries: make([]Entry, 0, limit),
		limit:   limit,
	}
}

// Record appends an entry, dropping the oldest one when the feed is full.
func (f *Feed) Record(kind string, todoID int64, message string, at time.Time) Entry {
	entry := Entry{
		ID:        uuid.New().String(),
		Kind:      kind,
		TodoID:    todoID,
		Message:   message,
		Timestamp: at,
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.entries) == f.limit {
		copy(f.entries, f.entries[1:])
		f.entries = f.entries[:len(f.entries)-1]
	}
	f.entries = append(f.entries, entry)
	return entry
}

// Recent returns up to n entries, newest first. n <= 0 returns all of them.
func (f *Feed) Recent(n int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if n <= 0 || n > len(f.entries) {
		n = len(f.entries)
	}
	result := make([]Entry, 0, n)
	for i := len(f.entries) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, f.entries[i])
	}
	return result
}

// Len returns the number of retained entries.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}
