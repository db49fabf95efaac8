package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one JSON document per namespace under dir. Writes go
// through a temp file and rename so a crash never leaves half a session.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(namespace string) string {
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '.' {
			return '_'
		}
		return r
	}, namespace)
	return filepath.Join(s.dir, safe+".json")
}

func (s *FileStore) load(namespace string) (map[string]string, error) {
	raw, err := os.ReadFile(s.path(namespace))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	doc := map[string]string{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("corrupt session file: %w", err)
	}
	return doc, nil
}

func (s *FileStore) save(namespace string, doc map[string]string) error {
	target := s.path(namespace)
	if len(doc) == 0 {
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".session-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func (s *FileStore) Get(_ context.Context, namespace, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(namespace)
	if err != nil {
		return "", false, err
	}
	v, ok := doc[key]
	return v, ok, nil
}

func (s *FileStore) Set(_ context.Context, namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(namespace)
	if err != nil {
		return err
	}
	doc[key] = value
	return s.save(namespace, doc)
}

func (s *FileStore) Delete(_ context.Context, namespace string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(namespace)
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(doc, k)
	}
	return s.save(namespace, doc)
}
