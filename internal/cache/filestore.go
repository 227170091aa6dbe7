package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/altuslabsxyz/solbuild/internal/output"
)

// FileStore is the on-disk cache backend. Entries are flat JSON files
// named {kind}_{key}.json so they stay greppable and diffable with
// ordinary shell tools.
type FileStore struct {
	dir    string
	logger *output.Logger
}

// Entry describes one stored cache file.
type Entry struct {
	Kind    Kind
	Key     string
	Size    int64
	ModTime time.Time
}

// Stats summarizes cache usage.
type Stats struct {
	TotalEntries int
	TotalSize    int64
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed cache rooted at dir.
func NewFileStore(dir string, logger *output.Logger) *FileStore {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &FileStore{
		dir:    dir,
		logger: logger,
	}
}

// Initialize creates the cache directory if it doesn't exist.
func (s *FileStore) Initialize() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// Dir returns the cache directory path.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file path for a kind and key.
func (s *FileStore) Path(kind Kind, key string) string {
	return filepath.Join(s.dir, Filename(kind, key))
}

// Has reports whether an entry file exists for the key.
func (s *FileStore) Has(kind Kind, key string) bool {
	info, err := os.Stat(s.Path(kind, key))
	return err == nil && info.Mode().IsRegular()
}

// Read returns the stored document for the key.
func (s *FileStore) Read(kind Kind, key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(kind, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotCachedError{Kind: kind, Key: key}
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return data, nil
}

// Write stores a document under the key. The document is written to a
// temporary file first and renamed into place, so readers never observe
// a partially written entry.
func (s *FileStore) Write(kind Kind, key string, data []byte) error {
	if !isValidKey(key) {
		return &InvalidKeyError{Key: key}
	}
	if err := s.Initialize(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+string(kind)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close cache file: %w", err)
	}

	if err := os.Rename(tmpPath, s.Path(kind, key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Lock acquires an advisory file lock for the key. Processes compiling
// the same input block here until the winner has stored its output.
func (s *FileStore) Lock(key string) (func() error, error) {
	if !isValidKey(key) {
		return nil, &InvalidKeyError{Key: key}
	}
	if err := s.Initialize(); err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(s.dir, key+".lock"))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire cache lock: %w", err)
	}
	return lock.Unlock, nil
}

// Remove deletes the input and output entries for a key.
func (s *FileStore) Remove(key string) error {
	if !isValidKey(key) {
		return &InvalidKeyError{Key: key}
	}
	for _, kind := range []Kind{KindInput, KindOutput} {
		if err := os.Remove(s.Path(kind, key)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cache entry: %w", err)
		}
	}
	os.Remove(filepath.Join(s.dir, key+".lock"))
	return nil
}

// List scans the cache directory and returns all valid entries.
// Files that don't match the entry naming scheme are skipped.
func (s *FileStore) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		kind, key, ok := parseFilename(de.Name())
		if !ok {
			continue
		}
		info, err := de.Info()
		if err != nil {
			s.logger.Debug("Skipping cache entry %s: %v", de.Name(), err)
			continue
		}
		entries = append(entries, Entry{
			Kind:    kind,
			Key:     key,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

// Stats returns cache statistics.
func (s *FileStore) Stats() (*Stats, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	stats := &Stats{}
	for _, e := range entries {
		stats.TotalEntries++
		stats.TotalSize += e.Size
	}
	return stats, nil
}

// Clean removes all cache entries and recreates the directory.
func (s *FileStore) Clean() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to clean cache: %w", err)
	}
	return s.Initialize()
}

// parseFilename splits an entry file name into its kind and key.
func parseFilename(name string) (Kind, string, bool) {
	base, ok := strings.CutSuffix(name, ".json")
	if !ok {
		return "", "", false
	}
	for _, kind := range []Kind{KindInput, KindOutput} {
		key, ok := strings.CutPrefix(base, string(kind)+"_")
		if ok && isValidKey(key) {
			return kind, key, true
		}
	}
	return "", "", false
}
