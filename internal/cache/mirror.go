package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// ErrNoMirror indicates the mirror file does not exist yet.
var ErrNoMirror = errors.New("cache: no mirror present")

// Mirror is a single-slot, file-backed copy of the most recent task list,
// consumed as the last-resort read tier after both cache tiers miss.
//
// Writes are atomic (temp file + rename) so a crash mid-write never leaves a
// torn mirror behind.
type Mirror struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewMirror creates a mirror backed by the given file path.
func NewMirror(path string, logger *zap.Logger) (*Mirror, error) {
	if path == "" {
		return nil, fmt.Errorf("cache: mirror path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{path: path, logger: logger}, nil
}

// Write replaces the mirror contents.
func (m *Mirror) Write(value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshaling mirror: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("cache: creating mirror directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".mirror-*")
	if err != nil {
		return fmt.Errorf("cache: creating temp mirror: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("cache: writing mirror: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cache: closing mirror: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cache: setting mirror permissions: %w", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cache: replacing mirror: %w", err)
	}

	m.logger.Debug("mirror updated", zap.String("path", m.path), zap.Int("bytes", len(payload)))
	return nil
}

// Read decodes the mirror contents into dest. ErrNoMirror when absent.
func (m *Mirror) Read(dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoMirror
		}
		return fmt.Errorf("cache: reading mirror: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("cache: decoding mirror: %w", err)
	}
	return nil
}
