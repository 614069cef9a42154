package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNoDirs is returned when a Watcher is given nothing to watch.
var ErrNoDirs = errors.New("at least one directory is required")

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates a new file was created.
	OpCreate Operation = iota
	// OpModify indicates an existing file was written.
	OpModify
	// OpDelete indicates a file was removed.
	OpDelete
	// OpRename indicates a file was renamed away.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// FileEvent is a change to one file.
type FileEvent struct {
	// Path is the absolute, cleaned file path.
	Path      string
	Operation Operation
	Timestamp time.Time
}

// Options configures a Watcher.
type Options struct {
	// DebounceWindow is the quiet period before a batch is emitted.
	// Default: 200ms
	DebounceWindow time.Duration

	// PollInterval is the scan interval when polling.
	// Default: 1s
	PollInterval time.Duration

	// ForcePolling skips fsnotify.
	ForcePolling bool

	// Filter keeps only paths it returns true for. Nil keeps every file.
	Filter func(path string) bool

	// Logger receives watcher diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		DebounceWindow: 200 * time.Millisecond,
		PollInterval:   time.Second,
	}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = defaults.DebounceWindow
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaults.PollInterval
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Watcher watches the files directly inside a set of directories.
type Watcher struct {
	dirs   []string
	opts   Options
	fsw    *fsnotify.Watcher
	logger *slog.Logger

	debouncer *Debouncer
	events    chan []FileEvent
	errors    chan error

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates a watcher for dirs. fsnotify is used unless it cannot be
// initialised for every dir or opts.ForcePolling is set. Run must be called
// to release the watch.
func New(dirs []string, opts Options) (*Watcher, error) {
	if len(dirs) == 0 {
		return nil, ErrNoDirs
	}
	opts = opts.WithDefaults()

	w := &Watcher{
		opts:      opts,
		logger:    opts.Logger,
		debouncer: NewDebouncer(opts.DebounceWindow, opts.Logger),
		events:    make(chan []FileEvent, 16),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}

	seen := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve absolute path: %w", err)
		}
		if !seen[abs] {
			seen[abs] = true
			w.dirs = append(w.dirs, abs)
		}
	}

	if !opts.ForcePolling {
		fsw, err := newFsnotify(w.dirs)
		if err != nil {
			w.logger.Warn("fsnotify_unavailable", slog.String("error", err.Error()))
		} else {
			w.fsw = fsw
		}
	}

	return w, nil
}

// newFsnotify registers every dir so changes made before Run are seen.
func newFsnotify(dirs []string) (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return fsw, nil
}

// Mode returns "fsnotify" or "polling".
func (w *Watcher) Mode() string {
	if w.fsw != nil {
		return "fsnotify"
	}
	return "polling"
}

// Dirs returns the absolute directories being watched.
func (w *Watcher) Dirs() []string {
	return w.dirs
}

// Events returns debounced batches. It is closed when Run returns.
func (w *Watcher) Events() <-chan []FileEvent {
	return w.events
}

// Errors returns non-fatal watcher errors. It is closed when Run returns.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop makes Run return. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// Run watches until ctx is cancelled or Stop is called. It returns
// ctx.Err() on cancellation and nil on Stop.
func (w *Watcher) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.forward()
	}()

	var err error
	if w.fsw != nil {
		err = w.runFsnotify(ctx)
	} else {
		err = w.runPolling(ctx)
	}

	w.debouncer.Stop()
	wg.Wait()
	close(w.events)
	close(w.errors)
	return err
}

func (w *Watcher) forward() {
	for batch := range w.debouncer.Output() {
		select {
		case w.events <- batch:
		default:
			w.logger.Warn("watch_events_dropped", slog.Int("batch_size", len(batch)))
		}
	}
}

func (w *Watcher) runFsnotify(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	w.logger.Debug("watch_started", slog.String("mode", w.Mode()), slog.Any("dirs", w.dirs))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

// handle converts an fsnotify event. Chmod-only events are ignored.
func (w *Watcher) handle(ev fsnotify.Event) {
	var op Operation
	switch {
	case ev.Has(fsnotify.Create):
		op = OpCreate
	case ev.Has(fsnotify.Write):
		op = OpModify
	case ev.Has(fsnotify.Remove):
		op = OpDelete
	case ev.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}
	w.add(filepath.Clean(ev.Name), op)
}

func (w *Watcher) add(path string, op Operation) {
	if w.opts.Filter != nil && !w.opts.Filter(path) {
		return
	}
	w.debouncer.Add(FileEvent{Path: path, Operation: op, Timestamp: time.Now()})
}

func (w *Watcher) emitError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}

type snapshot struct {
	modTime time.Time
	size    int64
}

func (w *Watcher) runPolling(ctx context.Context) error {
	state := w.scan()
	w.logger.Debug("watch_started", slog.String("mode", w.Mode()), slog.Any("dirs", w.dirs))

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case <-ticker.C:
			next := w.scan()
			for path, snap := range next {
				prev, ok := state[path]
				switch {
				case !ok:
					w.add(path, OpCreate)
				case !prev.modTime.Equal(snap.modTime) || prev.size != snap.size:
					w.add(path, OpModify)
				}
			}
			for path := range state {
				if _, ok := next[path]; !ok {
					w.add(path, OpDelete)
				}
			}
			state = next
		}
	}
}

// scan records the regular files directly inside each watched directory.
func (w *Watcher) scan() map[string]snapshot {
	state := make(map[string]snapshot)
	for _, dir := range w.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			w.emitError(fmt.Errorf("scan %s: %w", dir, err))
			continue
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			state[filepath.Join(dir, entry.Name())] = snapshot{modTime: info.ModTime(), size: info.Size()}
		}
	}
	return state
}
