package gtfs

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
)

// Encode writes s to w using gob encoding.
func Encode(s *Schedule, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("failed to encode Schedule: %w", err)
	}
	return nil
}

// Decode reads a Schedule previously written by Encode.
func Decode(r io.Reader) (*Schedule, error) {
	var s Schedule
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode Schedule: %w", err)
	}
	return &s, nil
}

// Serialize is Encode into a byte slice.
func Serialize(s *Schedule) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize is Decode from a byte slice.
func Deserialize(data []byte) (*Schedule, error) {
	return Decode(bytes.NewReader(data))
}

// CacheKey identifies the snapshot for one feed pair.
func CacheKey(staticURL, realtimeURL string) string {
	return strconv.FormatUint(xxhash.Sum64String(staticURL+"|"+realtimeURL), 16)
}

// DiskCache persists Schedule snapshots for a single feed pair.
//
// It assumes a single writer per directory.
type DiskCache struct {
	dir    string
	key    string
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewDiskCache creates the directory lazily on the first Store. A nil clock means time.Now.
func NewDiskCache(dir, staticURL, realtimeURL string, ttl time.Duration, now func() time.Time, logger zerolog.Logger) *DiskCache {
	if now == nil {
		now = time.Now
	}
	return &DiskCache{
		dir:    dir,
		key:    CacheKey(staticURL, realtimeURL),
		ttl:    ttl,
		now:    now,
		logger: logger.With().Str("component", "gtfs-cache").Logger(),
	}
}

func (c *DiskCache) prefix() string { return "gtfs-" + c.key + "-" }

// Path returns the snapshot file name for an expiry instant.
func (c *DiskCache) Path(expiry time.Time) string {
	return filepath.Join(c.dir, c.prefix()+strconv.FormatInt(expiry.Unix(), 10)+".gob")
}

type snapshotFile struct {
	path   string
	expiry time.Time
}

func (c *DiskCache) list() ([]snapshotFile, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, c.prefix()+"*.gob"))
	if err != nil {
		return nil, err
	}
	var out []snapshotFile
	for _, m := range matches {
		stamp := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), c.prefix()), ".gob")
		epoch, err := strconv.ParseInt(stamp, 10, 64)
		if err != nil {
			c.remove(m, "unparseable expiry")
			continue
		}
		out = append(out, snapshotFile{path: m, expiry: time.Unix(epoch, 0)})
	}
	// newest expiry first
	sort.Slice(out, func(i, j int) bool { return out[i].expiry.After(out[j].expiry) })
	return out, nil
}

// Load deletes expired and corrupt snapshots, then returns the first valid one and its
// expiry. ok is false on a miss.
func (c *DiskCache) Load() (sched *Schedule, expiry time.Time, ok bool) {
	files, err := c.list()
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to list snapshots")
		return nil, time.Time{}, false
	}
	now := c.now()
	for _, f := range files {
		if !now.Before(f.expiry) {
			c.remove(f.path, "expired")
			continue
		}
		if sched != nil {
			continue
		}
		s, err := c.read(f.path)
		if err != nil {
			c.logger.Warn().Err(err).Str("path", f.path).Msg("discarding corrupt snapshot")
			c.remove(f.path, "corrupt")
			continue
		}
		sched, expiry = s, f.expiry
	}
	if sched == nil {
		return nil, time.Time{}, false
	}
	c.logger.Debug().Time("expires", expiry).Msg("loaded schedule snapshot")
	return sched, expiry, true
}

func (c *DiskCache) read(path string) (*Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// Store writes s with expiry now+ttl through a temp file and rename, then removes the other
// snapshots for this key. It returns the expiry even when writing fails so the caller can keep
// using its in-memory copy for the same period.
func (c *DiskCache) Store(s *Schedule) (time.Time, error) {
	expiry := c.now().Add(c.ttl)
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return expiry, fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, c.prefix()+"*.tmp")
	if err != nil {
		return expiry, fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if err := Encode(s, tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return expiry, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return expiry, err
	}

	final := c.Path(expiry)
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		return expiry, fmt.Errorf("rename snapshot: %w", err)
	}

	if files, err := c.list(); err == nil {
		for _, f := range files {
			if f.path != final {
				c.remove(f.path, "superseded")
			}
		}
	}
	c.logger.Info().Str("path", final).Time("expires", expiry).Msg("stored schedule snapshot")
	return expiry, nil
}

func (c *DiskCache) remove(path, reason string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.logger.Warn().Err(err).Str("path", path).Str("reason", reason).Msg("failed to remove snapshot")
		return
	}
	c.logger.Debug().Str("path", path).Str("reason", reason).Msg("removed snapshot")
}
