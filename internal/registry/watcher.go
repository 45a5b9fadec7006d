package registry

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// WatchConfig contains watcher settings.
type WatchConfig struct {
	Debounce       time.Duration // quiet period before a changed profile is dropped
	IgnorePatterns []string      // glob patterns for files that are never profiles
}

// DefaultWatchConfig returns a WatchConfig with a 250ms debounce.
func DefaultWatchConfig() *WatchConfig {
	return &WatchConfig{
		Debounce:       250 * time.Millisecond,
		IgnorePatterns: DefaultIgnorePatterns(),
	}
}

// WatchSummary contains stats from the watch session.
type WatchSummary struct {
	Reloads  int // profiles invalidated after a change
	Ignored  int // events for files that are not profiles
	Errors   int // errors reported by the file system watcher
	Duration time.Duration
}

// Watcher invalidates registry entries when their profile files change.
type Watcher struct {
	registry  *Registry
	config    *WatchConfig
	filter    *FileFilter
	debouncer *Debouncer
	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	startTime time.Time

	// OnReload is called after a site's cached profile was dropped.
	OnReload func(siteID string)
	// OnError is called for errors reported by the file system watcher.
	OnError func(err error)

	mu      sync.Mutex
	reloads int
	ignored int
	errs    int
}

// NewWatcher creates a Watcher for r. If config is nil, the default
// configuration is used.
func NewWatcher(r *Registry, config *WatchConfig) *Watcher {
	if config == nil {
		config = DefaultWatchConfig()
	}
	w := &Watcher{
		registry: r,
		config:   config,
		filter:   NewFileFilter(config.IgnorePatterns),
		done:     make(chan struct{}),
	}
	w.debouncer = NewDebouncer(config.Debounce, w.reload)
	return w
}

// Start begins watching the registry's profile directory. It runs until
// Stop is called.
func (w *Watcher) Start() error {
	dir, err := filepath.Abs(w.registry.Dir())
	if err != nil {
		return errors.Wrap(err, "resolving profile directory")
	}

	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
		return errors.Wrapf(err, "watching %s", dir)
	}

	w.startTime = time.Now()
	w.done = make(chan struct{})
	w.stopOnce = sync.Once{}

	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop shuts down the watcher and returns a summary of the session. Changes
// still waiting out the debounce delay are dropped. Calling Stop again, or
// after a failed Start, only returns the summary.
func (w *Watcher) Stop() *WatchSummary {
	w.stopOnce.Do(func() { close(w.done) })
	w.wg.Wait()
	w.debouncer.CancelAll()

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	summary := &WatchSummary{
		Reloads: w.reloads,
		Ignored: w.ignored,
		Errors:  w.errs,
	}
	if !w.startTime.IsZero() {
		summary.Duration = time.Since(w.startTime)
	}
	return summary
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.handleEvent(event.Name)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.errs++
			w.mu.Unlock()
			if w.OnError != nil {
				w.OnError(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(path string) {
	siteID, ok := w.filter.SiteFor(path)
	if !ok {
		w.mu.Lock()
		w.ignored++
		w.mu.Unlock()
		return
	}
	w.debouncer.Add(siteID)
}

func (w *Watcher) reload(siteID string) {
	w.registry.Invalidate(siteID)

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	if w.OnReload != nil {
		w.OnReload(siteID)
	}
}

// IsRunning reports whether the watcher has been started and not stopped.
func (w *Watcher) IsRunning() bool {
	select {
	case <-w.done:
		return false
	default:
		return w.fsWatcher != nil
	}
}
