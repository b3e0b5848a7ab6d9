package testutil

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// MemoryStorage is an in-memory bucket for tests.
type MemoryStorage struct {
	Name string

	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	SaveErr    error
	PresignErr error
	Presigns   int
}

func NewMemoryStorage(name string) *MemoryStorage {
	return &MemoryStorage{
		Name:    name,
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *MemoryStorage) Save(_ context.Context, path string, file io.Reader, contentType string) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = data
	s.types[path] = contentType
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; !ok {
		return errors.New("object not found")
	}
	delete(s.objects, path)
	delete(s.types, path)
	return nil
}

func (s *MemoryStorage) PublicURL(path string) string {
	return "https://storage.test/" + s.Name + "/" + path
}

func (s *MemoryStorage) PresignedURL(_ context.Context, path string, expiry time.Duration) (string, error) {
	s.mu.Lock()
	s.Presigns++
	s.mu.Unlock()
	if s.PresignErr != nil {
		return "", s.PresignErr
	}
	return s.PublicURL(path) + "?expires=" + expiry.String(), nil
}

// Paths lists stored object keys.
func (s *MemoryStorage) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.objects))
	for p := range s.objects {
		paths = append(paths, p)
	}
	return paths
}

func (s *MemoryStorage) ContentType(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.types[path]
}
