// Package bulk applies one single-item mutation to many ids concurrently.
//
// Every call settles; failures are collected per id rather than aborting the
// batch, there is no rollback, and the caller's refetch runs exactly once
// afterwards so the view converges on server state.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

// DefaultConcurrency caps in-flight requests per batch.
const DefaultConcurrency = 8

// ErrEmptySelection is returned when a batch is started with no ids.
var ErrEmptySelection = errors.New("no items selected")

// Action mutates a single item.
type Action func(ctx context.Context, id string) error

// Refetch reloads the affected collection once the batch has settled.
type Refetch func(ctx context.Context) error

// Failure records why one id failed.
type Failure struct {
	ID  string
	Err error
}

// Result summarizes a settled batch.
type Result struct {
	BatchID   uuid.UUID
	Succeeded []string
	Failed    []Failure
	Duration  time.Duration
	// RefetchErr is set when the follow-up refetch failed.
	RefetchErr error
}

// Total returns the number of ids attempted.
func (r Result) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// AllSucceeded reports whether every id succeeded.
func (r Result) AllSucceeded() bool {
	return len(r.Failed) == 0 && len(r.Succeeded) > 0
}

// FailedIDs returns the failed ids in input order.
func (r Result) FailedIDs() []string {
	ids := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		ids[i] = f.ID
	}

	return ids
}

// Summary renders the user-facing count line, e.g. "2 succeeded, 1 failed".
func (r Result) Summary() string {
	return fmt.Sprintf("%d succeeded, %d failed", len(r.Succeeded), len(r.Failed))
}

// Err joins the per-id failures, or returns nil when none failed.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}

	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = fmt.Errorf("%s: %w", f.ID, f.Err)
	}

	return errors.Join(errs...)
}

// Runner executes batches.
type Runner struct {
	concurrency int
	logger      interfaces.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency caps the number of concurrent calls. n <= 0 keeps the default.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		concurrency: DefaultConcurrency,
		logger:      &interfaces.NoOpLogger{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run calls action once per unique id, waits for every call to settle, then
// calls refetch exactly once (when non-nil) regardless of failures. A
// cancelled ctx fails the ids that had not started yet.
func (r *Runner) Run(ctx context.Context, ids []string, action Action, refetch Refetch) (Result, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return Result{}, ErrEmptySelection
	}

	res := Result{BatchID: uuid.New()}
	start := time.Now()

	r.logger.Info("Batch %s: applying to %d items", res.BatchID, len(ids))

	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}

			errs[i] = action(ctx, id)

			return nil
		})
	}

	_ = g.Wait()

	for i, id := range ids {
		if errs[i] != nil {
			r.logger.Error("Batch %s: %s failed: %v", res.BatchID, id, errs[i])
			res.Failed = append(res.Failed, Failure{ID: id, Err: errs[i]})
			continue
		}

		res.Succeeded = append(res.Succeeded, id)
	}

	res.Duration = time.Since(start)
	r.logger.Info("Batch %s: %s in %v", res.BatchID, res.Summary(), res.Duration)

	if refetch != nil {
		if err := refetch(context.WithoutCancel(ctx)); err != nil {
			res.RefetchErr = err
			r.logger.Error("Batch %s: refetch failed: %v", res.BatchID, err)
		}
	}

	return res, nil
}

// dedupe drops empty and repeated ids, keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if id == "" {
			continue
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
