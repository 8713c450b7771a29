package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the write and rename of an atomic save.
const DefaultDebounce = 150 * time.Millisecond

// Watch reloads the store whenever another process rewrites or removes the
// session file and calls onChange with the resulting sign-in state. It
// blocks until ctx is done. Errors from the watcher are passed to onError
// when it is non-nil.
func Watch(ctx context.Context, s *Store, debounce time.Duration, onChange func(signedIn bool), onError func(error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if onError == nil {
		onError = func(error) {}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start session watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory so atomic replace and removal are both seen.
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Base(s.path)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if err := s.Reload(); err != nil {
			onError(err)
			return
		}
		onChange(s.Token() != "")
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, fire)
			mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			onError(err)
		}
	}
}
