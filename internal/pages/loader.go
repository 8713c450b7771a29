package pages

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for a fetch whose result was discarded because a
// newer fetch started before it completed.
var ErrSuperseded = errors.New("superseded by a newer fetch")

// Loader sequences the fetches of one page so that only the most recently
// started one is ever applied. Starting a fetch cancels the one in flight.
type Loader struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Begin tags a new fetch and returns the context it must run under. The
// previous in-flight fetch, if any, is cancelled.
func (l *Loader) Begin(ctx context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	l.seq++
	l.cancel = cancel

	return ctx, l.seq
}

// Commit runs apply if seq is still the latest fetch and reports whether it
// did. apply runs under the loader lock and must not call back into it.
func (l *Loader) Commit(seq uint64, apply func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.seq {
		return false
	}

	if apply != nil {
		apply()
	}

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	return true
}

// Latest returns the tag of the most recently started fetch.
func (l *Loader) Latest() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.seq
}

// Stop cancels the in-flight fetch and discards any result still to come,
// as when a page is left.
func (l *Loader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	l.seq++
}

// Load runs fetch under l and hands its outcome to apply only when no newer
// fetch has started meanwhile. It returns ErrSuperseded for a discarded
// result and the fetch error otherwise.
func Load[T any](ctx context.Context, l *Loader, fetch func(context.Context) (T, error), apply func(T, error)) error {
	fetchCtx, seq := l.Begin(ctx)

	v, err := fetch(fetchCtx)

	if !l.Commit(seq, func() { apply(v, err) }) {
		return ErrSuperseded
	}

	return err
}
