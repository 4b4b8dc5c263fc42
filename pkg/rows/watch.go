package rows

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ReloadEvent reports the outcome of reloading a watched dataset file.
type ReloadEvent struct {
	Err  error
	Op   fsnotify.Op
	Rows int
}

// Watcher reloads a [Slice] from its dataset file whenever the file changes.
//
// The parent directory is watched rather than the file itself so that
// editors which replace files on save keep triggering reloads.
type Watcher struct {
	watcher   *fsnotify.Watcher
	target    *Slice
	path      string
	listeners []chan<- ReloadEvent
	mu        sync.Mutex
}

// NewWatcher creates a [Watcher] for path, feeding target.
func NewWatcher(path string, target *Slice) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	err = watcher.Add(filepath.Dir(abs))
	if err != nil {
		cerr := watcher.Close()
		if cerr != nil {
			slog.Error("close watcher", slog.Any("err", cerr))
		}

		return nil, fmt.Errorf("add path to watcher: %w", err)
	}

	return &Watcher{
		watcher: watcher,
		target:  target,
		path:    abs,
	}, nil
}

// Subscribe registers ch to receive a [ReloadEvent] after each reload.
func (w *Watcher) Subscribe(ch chan<- ReloadEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.listeners = append(w.listeners, ch)
}

func (w *Watcher) broadcast(evt ReloadEvent) {
	w.mu.Lock()
	listeners := w.listeners
	w.mu.Unlock()

	for _, ch := range listeners {
		ch <- evt
	}
}

// Run handles file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(evt.Name) != w.path {
				continue
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) || evt.Has(fsnotify.Remove) {
				continue
			}

			w.broadcast(w.reload(evt.Op))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.broadcast(ReloadEvent{Err: fmt.Errorf("watch %s: %w", w.path, err)})
		}
	}
}

func (w *Watcher) reload(op fsnotify.Op) ReloadEvent {
	logger := slog.With(
		slog.String("path", w.path),
		slog.String("op", op.String()),
	)

	doc, err := LoadFile(w.path)
	if err == nil {
		err = w.target.Replace(doc.Rows)
	}
	if err != nil {
		logger.Warn("reload dataset", slog.Any("err", err))

		return ReloadEvent{Op: op, Err: err}
	}

	logger.Debug("reloaded dataset", slog.Int("rows", w.target.Len()))

	return ReloadEvent{Op: op, Rows: w.target.Len()}
}

// Close stops watching. It implements [io.Closer].
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}
