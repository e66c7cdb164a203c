package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileStore persists documents as a JSON object in a single file on
// disk. It is the default driver and the closest analog to the
// browser-local storage the system is modeled on.
type fileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store at path, creating the parent
// directory if needed.
func NewFileStore(path string) (Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &fileStore{path: path}, nil
}

func (s *fileStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.read()
	if err != nil {
		return nil, err
	}
	blob, ok := docs[key]
	if !ok {
		return nil, nil
	}
	return blob, nil
}

func (s *fileStore) Set(ctx context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.read()
	if err != nil {
		return err
	}
	docs[key] = json.RawMessage(blob)
	return s.write(docs)
}

func (s *fileStore) Close() error {
	return nil
}

func (s *fileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	docs := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &docs); err != nil {
			// Unparseable store file: treat as empty, callers fall
			// back to the default document.
			return map[string]json.RawMessage{}, nil
		}
	}
	return docs, nil
}

// write replaces the store file through a rename so a crash mid-write
// never leaves a truncated document behind.
func (s *fileStore) write(docs map[string]json.RawMessage) error {
	data, err := json.Marshal(docs)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
