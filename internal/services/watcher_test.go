package services

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/trek.ersn.net/server/internal/config"
)

type countingReloader struct {
	calls atomic.Int32
}

func (c *countingReloader) Reload(context.Context) error {
	c.calls.Add(1)
	return nil
}

func watchConfig(dir string) *config.RouteConfig {
	cfg := config.DefaultConfig().Route
	cfg.DataDir = dir
	cfg.Debounce = 20 * time.Millisecond
	return &cfg
}

func TestDataWatcher_ReloadsOnTrackChange(t *testing.T) {
	dir := t.TempDir()
	reloader := &countingReloader{}
	w := NewDataWatcher(reloader, watchConfig(dir), nil)

	require.NoError(t, w.Start(context.Background()))
	defer func() { require.NoError(t, w.Stop()) }()
	assert.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), reloader.calls.Load(), "files not matching the pattern are ignored")

	// A burst of writes collapses into a single reload
	path := filepath.Join(dir, "day1.kml")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("<kml/>"), 0o644))
	}
	require.Eventually(t, func() bool { return reloader.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestDataWatcher_PeriodicRescan(t *testing.T) {
	cfg := watchConfig(t.TempDir())
	cfg.Watch = false
	cfg.RescanInterval = 10 * time.Millisecond

	reloader := &countingReloader{}
	w := NewDataWatcher(reloader, cfg, nil)
	require.NoError(t, w.Start(context.Background()))

	require.Eventually(t, func() bool { return reloader.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, w.Stop())
	assert.False(t, w.IsRunning())

	// No reloads once stopped
	calls := reloader.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, reloader.calls.Load())
}

func TestDataWatcher_StopsWithContext(t *testing.T) {
	cfg := watchConfig(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())

	w := NewDataWatcher(&countingReloader{}, cfg, nil)
	require.NoError(t, w.Start(ctx))
	cancel()

	// Stop still returns once the loop has exited on its own
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop(), "stopping twice is harmless")
}

func TestDataWatcher_MissingDirectory(t *testing.T) {
	cfg := watchConfig(filepath.Join(t.TempDir(), "missing"))

	w := NewDataWatcher(&countingReloader{}, cfg, nil)
	assert.Error(t, w.Start(context.Background()))
	assert.False(t, w.IsRunning())
}

func TestDataWatcher_ReloadsRouteService(t *testing.T) {
	dir := t.TempDir()
	cfg := watchConfig(dir)
	svc, err := NewRouteService(cfg, nil, nil)
	require.NoError(t, err)

	w := NewDataWatcher(svc, cfg, nil)
	require.NoError(t, w.Start(context.Background()))
	defer func() { require.NoError(t, w.Stop()) }()

	writeHundredKm(t, dir)
	require.Eventually(t, func() bool { return svc.Health().Points == 2 }, 2*time.Second, 10*time.Millisecond)
}
