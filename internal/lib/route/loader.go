package route

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/dpup/trek.ersn.net/server/internal/cache"
	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
	"github.com/dpup/trek.ersn.net/server/internal/lib/kmltrack"
)

// DefaultPattern selects the track files in a data directory
const DefaultPattern = "*.kml"

// Loader reads track files and concatenates their coordinates
type Loader struct {
	cache  *cache.TrackCache
	logger *zap.Logger
}

// NewLoader creates a Loader. A nil cache disables caching; a nil logger
// discards log output.
func NewLoader(trackCache *cache.TrackCache, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{cache: trackCache, logger: logger}
}

// LoadDir loads the track files in dir matching pattern
func (l *Loader) LoadDir(dir, pattern string) (Track, error) {
	track, err := l.Load(os.DirFS(dir), pattern)
	if nf, ok := err.(*NotFoundError); ok {
		nf.Dir = dir
	}
	return track, err
}

// Load reads every file in fsys matching pattern in lexicographic order and
// concatenates their LineString coordinates. The first file that fails to
// parse aborts the load.
func (l *Loader) Load(fsys fs.FS, pattern string) (Track, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	names, err := l.listFiles(fsys, pattern)
	if err != nil {
		return Track{}, err
	}
	if len(names) == 0 {
		return Track{}, &NotFoundError{Pattern: pattern}
	}

	var points []geo.Point
	var parsed int
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return Track{}, fmt.Errorf("failed to read track file %s: %w", name, err)
		}

		filePoints, err := l.extract(name, data, &parsed)
		if err != nil {
			return Track{}, err
		}
		points = append(points, filePoints...)
	}

	if l.cache != nil {
		if removed := l.cache.Retain(names); removed > 0 {
			l.logger.Debug("dropped cached tracks for removed files", zap.Int("removed", removed))
		}
	}

	if len(points) == 0 {
		return Track{}, &NotFoundError{Pattern: pattern, Files: names}
	}

	l.logger.Info("loaded track",
		zap.Int("files", len(names)),
		zap.Int("parsed", parsed),
		zap.Int("points", len(points)))

	return Track{Points: points, Files: names}, nil
}

func (l *Loader) listFiles(fsys fs.FS, pattern string) ([]string, error) {
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid track file pattern %q: %w", pattern, err)
	}

	names := make([]string, 0, len(matches))
	for _, name := range matches {
		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

func (l *Loader) extract(name string, data []byte, parsed *int) ([]geo.Point, error) {
	var digest cache.Digest
	if l.cache != nil {
		digest = cache.Sum(data)
		if points, ok := l.cache.Get(name, digest); ok {
			return points, nil
		}
	}

	points, err := kmltrack.Extract(bytes.NewReader(data))
	if err != nil {
		return nil, kmltrack.WithName(err, name)
	}
	*parsed++

	if l.cache != nil {
		l.cache.Set(name, digest, points)
	}
	return points, nil
}
