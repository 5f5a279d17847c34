// Package refcache caches parsed reference data (plants, PPAP and deviation
// extracts) keyed by a source-file signature, so repeated requests do not
// re-parse unchanged workbooks.
package refcache

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Signature identifies a version of a source file. Two files with equal
// size and modification time are assumed identical.
type Signature struct {
	Size    int64
	ModTime time.Time
}

// StatFunc provides file signatures. Injected so tests control staleness
// without touching the filesystem.
type StatFunc func(path string) (Signature, error)

// OSStat is the production StatFunc backed by os.Stat.
func OSStat(path string) (Signature, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Signature{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Signature{Size: info.Size(), ModTime: info.ModTime()}, nil
}

type entry[T any] struct {
	sig   Signature
	value T
}

// Cache is an explicit, constructor-injected cache of loaded reference
// data, safe for concurrent use. Concurrent refreshes of the same stale
// path may duplicate the load work; each refresh stores the whole entry
// under the lock, so readers never observe a partial overwrite.
type Cache[T any] struct {
	logger *slog.Logger
	stat   StatFunc

	mu      sync.Mutex
	entries map[string]entry[T]
}

// New creates a cache with the given stat provider. A nil stat falls back
// to OSStat and a nil logger to slog.Default.
func New[T any](logger *slog.Logger, stat StatFunc) *Cache[T] {
	if logger == nil {
		logger = slog.Default()
	}
	if stat == nil {
		stat = OSStat
	}
	return &Cache[T]{
		logger:  logger.With(slog.String("component", "refcache")),
		stat:    stat,
		entries: make(map[string]entry[T]),
	}
}

// Load returns the cached value for path, re-running load whenever the file
// signature changed since the last call. Stat or load failures are returned
// without disturbing any existing entry.
func (c *Cache[T]) Load(path string, load func(path string) (T, error)) (T, error) {
	var zero T

	sig, err := c.stat(path)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	cached, ok := c.entries[path]
	c.mu.Unlock()
	if ok && cached.sig == sig {
		return cached.value, nil
	}

	c.logger.Info("reference data stale, reloading",
		slog.String("path", path),
		slog.Int64("size", sig.Size),
		slog.Time("mod_time", sig.ModTime))

	// The lock is not held across load, so concurrent refreshes of the
	// same stale path may run load more than once. Each stores a whole
	// entry below, never a partial one.
	value, err := load(path)
	if err != nil {
		return zero, fmt.Errorf("load %s: %w", path, err)
	}

	c.mu.Lock()
	c.entries[path] = entry[T]{sig: sig, value: value}
	c.mu.Unlock()
	return value, nil
}
