package confloader

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/yndnr/shardmap-go/internal/telemetry/logger"
)

const (
	// DefaultDebounce is how long a watched file must stay quiet before its
	// callbacks run.
	DefaultDebounce = 100 * time.Millisecond

	// DefaultMinInterval is the minimum time between two callback rounds.
	DefaultMinInterval = 250 * time.Millisecond
)

// Watcher watches configuration files for changes.
//
// Editors and os.WriteFile produce several events per save (truncate, then
// one or more writes). The watcher coalesces them: callbacks run once the
// file has been quiet for the debounce period, and callback rounds are paced
// to at most one per minimum interval.
type Watcher struct {
	watcher   *fsnotify.Watcher
	files     map[string]struct{}
	pending   map[string]struct{}
	callbacks []func(string)
	mu        sync.RWMutex

	kick        chan struct{}
	debounce    time.Duration
	minInterval time.Duration
	limiter     *rate.Limiter

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
	stopped  chan struct{}
	logger   logger.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithDebounce sets the quiet period that ends a burst of events.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithMinInterval sets the minimum time between callback rounds. Zero
// disables pacing.
func WithMinInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.minInterval = d
	}
}

// NewWatcher creates a new configuration file watcher.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:     fw,
		files:       make(map[string]struct{}),
		pending:     make(map[string]struct{}),
		kick:        make(chan struct{}, 1),
		debounce:    DefaultDebounce,
		minInterval: DefaultMinInterval,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
		logger:      logger.Nop(),
	}

	for _, opt := range opts {
		opt(w)
	}

	limit := rate.Inf
	if w.minInterval > 0 {
		limit = rate.Every(w.minInterval)
	}
	w.limiter = rate.NewLimiter(limit, 1)

	return w, nil
}

// Watch adds a file to watch. The parent directory is watched so editors
// that replace the file by rename are still noticed.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(abs)
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Error("failed to watch directory", "path", dir, "error", err)
		return err
	}

	w.mu.Lock()
	w.files[abs] = struct{}{}
	w.mu.Unlock()

	w.logger.Debug("watching configuration file", "path", abs)
	return nil
}

// OnChange registers a callback invoked with the path of a changed file.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start processes events until Stop is called. It blocks.
func (w *Watcher) Start() {
	defer close(w.stopped)

	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		w.dispatch()
	}()
	defer func() { <-dispatched }()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, ok := w.watched(event.Name)
			if !ok {
				continue
			}
			w.logger.Debug("configuration file changed", "file", abs, "op", event.Op.String())
			w.mark(abs)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("configuration watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// StartAsync runs Start in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.cancel()
		err = w.watcher.Close()
	})
	return err
}

// Wait blocks until Start has returned. Only call it after Start or
// StartAsync.
func (w *Watcher) Wait() {
	<-w.stopped
}

func (w *Watcher) watched(name string) (string, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.files[abs]
	return abs, ok
}

func (w *Watcher) mark(path string) {
	w.mu.Lock()
	w.pending[path] = struct{}{}
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// dispatch runs callbacks for pending files, one round per settled burst.
func (w *Watcher) dispatch() {
	for {
		select {
		case <-w.kick:
		case <-w.done:
			return
		}
		if !w.settle() {
			return
		}
		if err := w.limiter.Wait(w.ctx); err != nil {
			return
		}
		for _, path := range w.takePending() {
			w.notify(path)
		}
	}
}

// settle waits until no event has arrived for the debounce period. It
// returns false if the watcher was stopped meanwhile.
func (w *Watcher) settle() bool {
	timer := time.NewTimer(w.debounce)
	defer timer.Stop()

	for {
		select {
		case <-w.kick:
			timer.Reset(w.debounce)
		case <-timer.C:
			return true
		case <-w.done:
			return false
		}
	}
}

func (w *Watcher) takePending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	slices.Sort(paths)
	return paths
}

func (w *Watcher) notify(path string) {
	w.mu.RLock()
	callbacks := slices.Clone(w.callbacks)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		cb(path)
	}
}
