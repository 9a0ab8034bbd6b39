package lineup

import (
	"sync"
	"time"
)

// DefaultHistoryLimit is the number of undo steps kept per lineup.
const DefaultHistoryLimit = 10

// Entry is one undo step: the lineup as it was before the labelled action.
type Entry struct {
	ID         string
	Label      string
	Lineup     Lineup
	RecordedAt time.Time
}

// History is a bounded stack of prior lineups. Snapshots are plain Lineup
// values, which are immutable, so recording never clones.
type History struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
	newID   func() string
	now     func() time.Time
}

type HistoryOption func(*History)

func WithHistoryClock(now func() time.Time) HistoryOption {
	return func(h *History) {
		if now != nil {
			h.now = now
		}
	}
}

func WithHistoryIDs(newID func() string) HistoryOption {
	return func(h *History) {
		if newID != nil {
			h.newID = newID
		}
	}
}

func NewHistory(limit int, opts ...HistoryOption) *History {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	h := &History{
		limit:   limit,
		entries: make([]Entry, 0, limit),
		newID:   func() string { return "" },
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Record pushes the pre-operation lineup. The oldest entry is dropped once the
// stack is full.
func (h *History) Record(prior Lineup, label string) Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := Entry{
		ID:         h.newID(),
		Label:      label,
		Lineup:     prior,
		RecordedAt: h.now().UTC(),
	}
	if len(h.entries) == h.limit {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, entry)
	return entry
}

// Undo pops the most recent entry. ok is false when there is nothing to undo.
func (h *History) Undo() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return Entry{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries[len(h.entries)-1] = Entry{}
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries lists recorded steps, newest first.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Entry, len(h.entries))
	for i, e := range h.entries {
		out[len(h.entries)-1-i] = e
	}
	return out
}

func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clear(h.entries)
	h.entries = h.entries[:0]
}
