// Package watcher reloads a rule file when it changes on disk.
//
// The directory holding the file is watched rather than the file itself,
// so editors that save by rename are seen. Events are debounced; a reload
// that fails keeps the previous rule set.
package watcher

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/inlinemark/internal/config/loader"
	"github.com/dshills/inlinemark/internal/markup/rule"
)

// ErrClosed is returned when starting or reloading a closed Reloader.
var ErrClosed = errors.New("reloader closed")

// Handler is called after every reload attempt. On failure err is set and
// rs is the rule set still in effect.
type Handler func(rs *rule.RuleSet, err error)

// Reloader holds the current rule set loaded from one file.
type Reloader struct {
	mu sync.Mutex

	loader   *loader.Loader
	path     string
	current  atomic.Pointer[rule.RuleSet]
	handlers []Handler
	debounce time.Duration
	logger   *slog.Logger

	fsw     *fsnotify.Watcher
	timer   *time.Timer
	running bool
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Reloader.
type Option func(*Reloader)

// WithDebounce sets how long events must settle before a reload.
func WithDebounce(d time.Duration) Option {
	return func(r *Reloader) {
		if d >= 0 {
			r.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reloader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New loads path once and returns a Reloader serving it.
// A failed initial load is returned as an error.
func New(l *loader.Loader, path string, opts ...Option) (*Reloader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	r := &Reloader{
		loader:   l,
		path:     absPath,
		debounce: 100 * time.Millisecond,
		logger:   slog.New(slog.DiscardHandler),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	rs, err := l.Load(absPath)
	if err != nil {
		return nil, err
	}
	r.current.Store(rs)
	return r, nil
}

// Current returns the rule set in effect. Safe for concurrent use.
func (r *Reloader) Current() *rule.RuleSet {
	return r.current.Load()
}

// Path returns the absolute path of the watched file.
func (r *Reloader) Path() string {
	return r.path
}

// OnReload registers a handler for reload attempts. Handlers run on the
// reload goroutine and must not call Close.
func (r *Reloader) OnReload(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, h)
}

// Reload loads the file now. On failure the previous set stays current.
func (r *Reloader) Reload() error {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrClosed
	}

	rs, err := r.loader.Load(r.path)
	if err != nil {
		r.logger.Warn("rule reload failed, keeping previous rules",
			slog.String("path", r.path),
			slog.Any("error", err))
		r.notify(r.Current(), err)
		return err
	}
	r.current.Store(rs)
	r.logger.Info("rules reloaded",
		slog.String("path", r.path),
		slog.Int("rules", rs.Len()))
	r.notify(rs, nil)
	return nil
}

// Start begins watching. Starting twice is a no-op.
func (r *Reloader) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(r.path)); err != nil {
		_ = fsw.Close()
		return err
	}
	r.fsw = fsw
	r.running = true

	r.wg.Add(1)
	go r.processLoop()
	return nil
}

// Close stops watching. It is safe to call more than once.
func (r *Reloader) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.closeCh)
	if r.timer != nil && r.timer.Stop() {
		r.wg.Done()
	}
	fsw := r.fsw
	r.mu.Unlock()

	r.wg.Wait()
	if fsw != nil {
		return fsw.Close()
	}
	return nil
}

// processLoop handles incoming fsnotify events.
func (r *Reloader) processLoop() {
	defer r.wg.Done()

	for {
		select {
		case <-r.closeCh:
			return

		case ev, ok := <-r.fsw.Events:
			if !ok {
				return
			}
			if r.relevant(ev) {
				r.schedule()
			}

		case err, ok := <-r.fsw.Errors:
			if !ok {
				return
			}
			r.logger.Warn("rule file watch error", slog.Any("error", err))
		}
	}
}

// relevant reports whether ev concerns the rule file or a sibling rule
// file it may include.
func (r *Reloader) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	if name == r.path {
		return true
	}
	_, err = loader.FormatFromPath(name)
	return err == nil
}

// schedule arms the debounce timer, restarting it on every event. An armed
// timer counts in wg until it is stopped or its reload returns, so Close
// waits for a reload already in flight.
func (r *Reloader) schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if r.timer != nil && r.timer.Stop() {
		r.wg.Done()
	}
	r.wg.Add(1)
	r.timer = time.AfterFunc(r.debounce, func() {
		defer r.wg.Done()
		select {
		case <-r.closeCh:
			return
		default:
		}
		_ = r.Reload()
	})
}

// notify calls handlers with panic recovery to keep the watcher running.
func (r *Reloader) notify(rs *rule.RuleSet, err error) {
	r.mu.Lock()
	handlers := make([]Handler, len(r.handlers))
	copy(handlers, r.handlers)
	r.mu.Unlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if p := recover(); p != nil {
					r.logger.Error("reload handler panicked", slog.Any("panic", p))
				}
			}()
			h(rs, err)
		}()
	}
}
