package props

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Parse reads build.prop formatted properties: one key=value per line.
// Blank lines, '#' comments and import directives are skipped, lines without
// '=' are ignored and a later assignment of a key wins.
func Parse(r io.Reader) (map[string]string, error) {
	values := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "import ") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// FileStore reads a build.prop file. The file is re-parsed whenever its
// modification time or size changes, so edits are seen on the next read.
type FileStore struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	size    int64
	loaded  bool
	values  map[string]string
}

// NewFileStore returns a store over path. The file is read lazily.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// OpenFileStore returns a store over path and reads it once to surface
// errors early.
func OpenFileStore(path string) (*FileStore, error) {
	s := NewFileStore(path)
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file the store reads.
func (s *FileStore) Path() string {
	return s.path
}

// Lookup returns the value of key. A missing key is "", nil; a file that
// cannot be read is an error.
func (s *FileStore) Lookup(key string) (string, error) {
	if err := s.reload(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

// Get returns the value of key, or def when it is unset or unreadable.
func (s *FileStore) Get(key, def string) string {
	value, err := s.Lookup(key)
	if err != nil || value == "" {
		return def
	}
	return value
}

func (s *FileStore) reload() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("props: stat %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("props: open %s: %w", s.path, err)
	}
	defer f.Close()
	values, err := Parse(f)
	if err != nil {
		return fmt.Errorf("props: parse %s: %w", s.path, err)
	}
	s.values = values
	s.modTime = info.ModTime()
	s.size = info.Size()
	s.loaded = true
	return nil
}
