package cache

import (
	"encoding/hex"
	"sync"
	"time"

	"github.com/zeebo/blake3"

	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
)

// Digest identifies file contents
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Sum returns the BLAKE3 digest of data
func Sum(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

// TrackCache provides thread-safe in-memory caching of parsed track files.
// Entries are keyed by file name and only served while the file's content
// digest is unchanged, so an edited file is always re-parsed.
type TrackCache struct {
	entries map[string]*TrackEntry
	mutex   sync.RWMutex
	now     func() time.Time

	hits   int
	misses int
}

// TrackEntry represents a cached parse result with metadata
type TrackEntry struct {
	Name      string      `json:"name"`
	Digest    Digest      `json:"digest"`
	Points    []geo.Point `json:"points"`
	CreatedAt time.Time   `json:"created_at"`
	LastUsed  time.Time   `json:"last_used"`
}

// NewTrackCache creates a new in-memory track cache
func NewTrackCache() *TrackCache {
	return &TrackCache{
		entries: make(map[string]*TrackEntry),
		now:     time.Now,
	}
}

// Get returns the cached points for name if they were parsed from content
// with the same digest. The returned slice must not be modified.
func (c *TrackCache) Get(name string, digest Digest) ([]geo.Point, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[name]
	if !exists || entry.Digest != digest {
		c.misses++
		return nil, false
	}

	c.hits++
	entry.LastUsed = c.now()
	return entry.Points, true
}

// Set stores the parse result for name, replacing any previous version
func (c *TrackCache) Set(name string, digest Digest, points []geo.Point) {
	now := c.now()
	entry := &TrackEntry{
		Name:      name,
		Digest:    digest,
		Points:    points,
		CreatedAt: now,
		LastUsed:  now,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[name] = entry
}

// Retain drops entries for files not in names and returns how many were removed
func (c *TrackCache) Retain(names []string) int {
	keep := make(map[string]struct{}, len(names))
	for _, name := range names {
		keep[name] = struct{}{}
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	var removed int
	for name := range c.entries {
		if _, ok := keep[name]; !ok {
			delete(c.entries, name)
			removed++
		}
	}
	return removed
}

// Delete removes an entry from cache
func (c *TrackCache) Delete(name string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, name)
}

// Clear removes all entries from cache
func (c *TrackCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*TrackEntry)
}

// Stats returns cache statistics
func (c *TrackCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := CacheStats{
		TotalEntries: len(c.entries),
		Hits:         c.hits,
		Misses:       c.misses,
	}

	for _, entry := range c.entries {
		stats.TotalPoints += len(entry.Points)

		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}

	return stats
}

// CacheStats provides cache usage statistics
type CacheStats struct {
	TotalEntries int       `json:"total_entries"`
	TotalPoints  int       `json:"total_points"`
	Hits         int       `json:"hits"`
	Misses       int       `json:"misses"`
	OldestEntry  time.Time `json:"oldest_entry"`
	NewestEntry  time.Time `json:"newest_entry"`
}
