// Package localstore provides the POS client's durable key/value snapshots:
// one JSON file per key under a data directory. It plays the role browser
// local storage played for the original web client.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Well-known snapshot keys.
const (
	KeyProducts      = "products"
	KeySales         = "sales"
	KeyCloudProducts = "cloud_products"
	KeyCloudSales    = "cloud_sales"
)

// Store persists JSON snapshots under a directory.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger *zap.Logger
}

// New creates the data directory if needed and returns a Store over it.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Save serializes v and overwrites the snapshot for key.
func (s *Store) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}

	s.logger.Debug("snapshot saved", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Load reads the snapshot for key into v. The boolean reports whether the
// snapshot existed; an absent key is not an error.
func (s *Store) Load(key string, v any) (bool, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path(key))
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read snapshot %s: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}

	return true, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
