package notify

import (
	"context"
	"sync"
	"time"
)

const defaultFeedLimit = 50

// Feed keeps the most recent notices in memory so HTTP clients can poll what
// the editor would have shown as toasts.
type Feed struct {
	sink
	mu    sync.RWMutex
	limit int
	items []Notice
}

func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	f := &Feed{limit: limit}
	f.sink = sink{now: time.Now, emit: f.push}
	return f
}

func (f *Feed) push(_ context.Context, n Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append([]Notice(nil), f.items[over:]...)
	}
}

// Recent returns the buffered notices, newest first.
func (f *Feed) Recent() []Notice {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Notice, 0, len(f.items))
	for i := len(f.items) - 1; i >= 0; i-- {
		out = append(out, f.items[i])
	}
	return out
}
