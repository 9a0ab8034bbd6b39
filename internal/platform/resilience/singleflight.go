package resilience

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// SingleFlight deduplicates concurrent calls for the same key. A caller whose
// context ends stops waiting; the shared call keeps running for the others.
type SingleFlight struct {
	group singleflight.Group
}

// Do returns the result of fn for key. shared reports whether the result was
// handed to more than one caller.
func (g *SingleFlight) Do(ctx context.Context, key string, fn func() (any, error)) (v any, err error, shared bool) {
	ch := g.group.DoChan(key, fn)
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-ch:
		return res.Val, res.Err, res.Shared
	}
}

// Forget makes the next Do for key start a new call even if one is running.
func (g *SingleFlight) Forget(key string) {
	g.group.Forget(key)
}
