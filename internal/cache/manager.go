package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Manager layers a MemoryCache over a DiskCache. Disk hits are promoted to
// memory; writes go to both levels.
type Manager struct {
	memory *MemoryCache
	disk   *DiskCache
	logger *log.Logger
}

// NewManager opens the cache levels described by cfg. An empty Dir uses
// the per-user cache directory.
func NewManager(cfg Config, logger *log.Logger) (*Manager, error) {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to find user cache directory: %w", err)
		}
		cfg.Dir = filepath.Join(base, "readaloud", "segments")
	}

	disk, err := NewDiskCache(cfg.Dir, cfg.DiskCapacity, cfg.CompressionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create disk cache: %w", err)
	}
	if cfg.TTL > 0 {
		if n := disk.RemoveOlderThan(time.Now().Add(-cfg.TTL)); n > 0 {
			logger.Debug("Expired cached segments", "count", n)
		}
	}

	return &Manager{
		memory: NewMemoryCache(cfg.MemoryCapacity),
		disk:   disk,
		logger: logger,
	}, nil
}

// Get checks memory, then disk.
func (m *Manager) Get(key string) ([]byte, bool) {
	if data, ok := m.memory.Get(key); ok {
		return data, true
	}
	data, ok := m.disk.Get(key)
	if !ok {
		return nil, false
	}
	if err := m.memory.Put(key, data); err != nil && !errors.Is(err, ErrItemTooLarge) {
		m.logger.Debug("Cache promotion failed", "error", err)
	}
	return data, true
}

// Put stores value in both levels. Values too large for a level skip it.
func (m *Manager) Put(key string, value []byte) error {
	if err := m.memory.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return fmt.Errorf("memory cache: %w", err)
	}
	if err := m.disk.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return fmt.Errorf("disk cache: %w", err)
	}
	return nil
}

// Clear empties both levels.
func (m *Manager) Clear() error {
	return errors.Join(m.memory.Clear(), m.disk.Clear())
}

// Stats returns the counters of each level.
func (m *Manager) Stats() (memory, disk Stats) {
	return m.memory.Stats(), m.disk.Stats()
}

// Close flushes the disk index.
func (m *Manager) Close() error {
	return m.disk.Close()
}

// Key derives the cache key for text synthesized by engine with voice.
func Key(engine, voice, text string) string {
	hash := sha256.Sum256([]byte(engine + "|" + voice + "|" + text))
	return hex.EncodeToString(hash[:16])
}
