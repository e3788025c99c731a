package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dpup/trek.ersn.net/server/internal/config"
	"github.com/dpup/trek.ersn.net/server/internal/lib/route"
)

// Reloader re-reads route data
type Reloader interface {
	Reload(ctx context.Context) error
}

// DataWatcher reloads the route when track files change. Bursts of file
// events are collapsed into one reload after a quiet period, and an optional
// rescan interval reloads even without events.
type DataWatcher struct {
	reloader Reloader
	config   *config.RouteConfig
	logger   *zap.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	done     chan struct{}
	running  bool
}

// NewDataWatcher creates a watcher that calls reloader on change
func NewDataWatcher(reloader Reloader, cfg *config.RouteConfig, logger *zap.Logger) *DataWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataWatcher{
		reloader: reloader,
		config:   cfg,
		logger:   logger,
	}
}

// Start begins watching the data directory. It returns once the watch is
// established; reloads happen in the background until ctx ends or Stop.
func (d *DataWatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return nil
	}

	var events <-chan fsnotify.Event
	var watchErrors <-chan error
	if d.config.Watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		if err := w.Add(d.config.DataDir); err != nil {
			_ = w.Close()
			return err
		}
		d.watcher = w
		events, watchErrors = w.Events, w.Errors
	}

	d.stopChan = make(chan struct{})
	d.done = make(chan struct{})
	d.running = true

	d.logger.Info("watching track data",
		zap.String("dir", d.config.DataDir),
		zap.Bool("fsnotify", d.config.Watch),
		zap.Duration("rescan_interval", d.config.RescanInterval))

	go d.loop(ctx, events, watchErrors)
	return nil
}

// Stop ends watching and waits for any in-flight reload to finish
func (d *DataWatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = false
	close(d.stopChan)
	done, w := d.done, d.watcher
	d.watcher = nil
	d.mu.Unlock()

	<-done
	d.logger.Info("stopped watching track data")
	if w != nil {
		return w.Close()
	}
	return nil
}

// IsRunning returns whether the watcher is active
func (d *DataWatcher) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *DataWatcher) loop(ctx context.Context, events <-chan fsnotify.Event, watchErrors <-chan error) {
	defer close(d.done)

	var rescan <-chan time.Time
	if d.config.RescanInterval > 0 {
		ticker := time.NewTicker(d.config.RescanInterval)
		defer ticker.Stop()
		rescan = ticker.C
	}

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("data watcher stopping due to context cancellation")
			return
		case <-d.stopChan:
			return
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !d.relevant(event) {
				continue
			}
			d.logger.Debug("track file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			debounce.Reset(d.config.Debounce)
		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			d.logger.Warn("file watch error", zap.Error(err))
		case <-debounce.C:
			d.reload(ctx, "file change")
		case <-rescan:
			d.reload(ctx, "rescan")
		}
	}
}

// relevant reports whether event touches a file matching the track pattern
func (d *DataWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	pattern := d.config.Pattern
	if pattern == "" {
		pattern = route.DefaultPattern
	}
	matched, err := filepath.Match(pattern, filepath.Base(event.Name))
	return err == nil && matched
}

func (d *DataWatcher) reload(ctx context.Context, reason string) {
	reloadCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	err := d.reloader.Reload(reloadCtx)
	var notFound *route.NotFoundError
	switch {
	case err == nil:
		d.logger.Info("track reloaded", zap.String("reason", reason))
	case errors.As(err, &notFound):
		d.logger.Warn("track reload found no data", zap.String("reason", reason), zap.Error(err))
	default:
		d.logger.Error("track reload failed", zap.String("reason", reason), zap.Error(err))
	}
}
