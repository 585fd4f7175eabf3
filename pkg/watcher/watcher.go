// Package watcher monitors a git repository for the events the tutorial
// cares about: branch switches, commits, pushes, and working-tree edits.
// It watches the repository root plus the relevant .git paths with fsnotify,
// debounces bursts, and falls back to polling when fsnotify is unavailable.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDuration coalesces event bursts (git touches many files
// per operation).
const DefaultDebounceDuration = 250 * time.Millisecond

// DefaultPollInterval is the default polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// Common errors.
var (
	ErrRepoRemoved    = errors.New("watched repository was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a RepoWatcher.
type Option func(*RepoWatcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *RepoWatcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *RepoWatcher) {
		w.pollInterval = d
	}
}

// WithOnChange sets the callback invoked when the repository changes.
func WithOnChange(fn func()) Option {
	return func(w *RepoWatcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) Option {
	return func(w *RepoWatcher) {
		w.onError = fn
	}
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *RepoWatcher) {
		w.forcePoll = force
	}
}

// RepoWatcher monitors a repository using fsnotify with polling fallback.
type RepoWatcher struct {
	repoPath         string
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool

	fsWatcher   *fsnotify.Watcher
	debouncer   *Debouncer
	useFallback bool
	lastState   repoStamp

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// repoStamp is the polled fingerprint of the paths that matter.
type repoStamp struct {
	headMtime  time.Time
	refsMtime  time.Time
	indexMtime time.Time
}

// New creates a watcher for the repository at repoPath.
func New(repoPath string, opts ...Option) (*RepoWatcher, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}

	w := &RepoWatcher{
		repoPath:         abs,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.debouncer = NewDebouncer(w.debounceDuration)

	return w, nil
}

// watchPaths lists the directories to register with fsnotify: the working
// tree root for edits, .git for HEAD/index, refs/heads for commits and
// branch creation.
func (w *RepoWatcher) watchPaths() []string {
	git := filepath.Join(w.repoPath, ".git")
	return []string{
		w.repoPath,
		git,
		filepath.Join(git, "refs", "heads"),
	}
}

// Start begins watching the repository for changes.
func (w *RepoWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.useFallback = w.forcePoll || envBool("SKIFF_FORCE_POLLING")
	w.lastState = w.stamp()

	if !w.useFallback {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			w.useFallback = true
		} else {
			added := 0
			for _, p := range w.watchPaths() {
				if err := fsw.Add(p); err == nil {
					added++
				}
			}
			if added == 0 {
				fsw.Close()
				w.useFallback = true
			} else {
				w.fsWatcher = fsw
				go w.watchFsnotify()
			}
		}
	}

	if w.useFallback {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// Stop stops watching. The change channel is intentionally not closed; a
// close would race with notifyChange, and Stop only runs at program exit.
func (w *RepoWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}

	if w.cancel != nil {
		w.cancel()
	}

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}

	w.debouncer.Cancel()
	w.started = false
}

// IsPolling returns true if the watcher is using polling mode.
func (w *RepoWatcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.useFallback
}

// IsStarted returns true if the watcher is running.
func (w *RepoWatcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives when the repository changes.
// This is an alternative to using the OnChange callback.
func (w *RepoWatcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the watched repository path.
func (w *RepoWatcher) Path() string {
	return w.repoPath
}

func envBool(name string) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// watchFsnotify monitors using fsnotify events.
func (w *RepoWatcher) watchFsnotify() {
	w.mu.RLock()
	if w.fsWatcher == nil {
		w.mu.RUnlock()
		return
	}
	events := w.fsWatcher.Events
	errs := w.fsWatcher.Errors
	w.mu.RUnlock()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}

			// Lock files and editor temp files churn constantly; git's own
			// state transitions always touch one of the interesting names.
			base := filepath.Base(event.Name)
			if strings.HasSuffix(base, ".lock") || strings.HasSuffix(base, ".swp") {
				continue
			}

			if event.Name == w.repoPath && event.Op&fsnotify.Remove != 0 {
				w.onError(ErrRepoRemoved)
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// watchPolling monitors using periodic stat checks of .git metadata.
func (w *RepoWatcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			if _, err := os.Stat(w.repoPath); err != nil {
				if os.IsNotExist(err) {
					w.onError(ErrRepoRemoved)
				} else if os.IsPermission(err) {
					w.onError(ErrPermission)
				} else {
					w.onError(err)
				}
				continue
			}

			cur := w.stamp()
			w.mu.Lock()
			changed := cur != w.lastState
			if changed {
				w.lastState = cur
			}
			w.mu.Unlock()

			if changed {
				w.debouncer.Trigger(w.notifyChange)
			}
		}
	}
}

func (w *RepoWatcher) stamp() repoStamp {
	git := filepath.Join(w.repoPath, ".git")
	var s repoStamp
	if info, err := os.Stat(filepath.Join(git, "HEAD")); err == nil {
		s.headMtime = info.ModTime()
	}
	if info, err := os.Stat(filepath.Join(git, "refs", "heads")); err == nil {
		s.refsMtime = info.ModTime()
	}
	if info, err := os.Stat(filepath.Join(git, "index")); err == nil {
		s.indexMtime = info.ModTime()
	}
	return s
}

// notifyChange invokes the onChange callback and signals the change channel.
func (w *RepoWatcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()

	// Best-effort guard against callbacks after Stop; callbacks are
	// idempotent so the small race window is harmless.
	if !started {
		return
	}

	w.onChange()

	// Non-blocking send to change channel
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
