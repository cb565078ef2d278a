package storage

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MemStore is an in-memory BlobStore for tests.
type MemStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string][]byte)}
}

func (s *MemStore) UploadFile(objectName string, data io.Reader) error {
	payload, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[objectName] = payload
	return nil
}

func (s *MemStore) DownloadFile(objectName string) (io.ReadCloser, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.blobs[objectName]
	if !ok {
		return nil, 0, fmt.Errorf("object %q not found", objectName)
	}
	return io.NopCloser(bytes.NewReader(payload)), int64(len(payload)), nil
}

func (s *MemStore) DeleteFile(objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, objectName)
	return nil
}

// DeletePrefix drops every blob under the prefix, mirroring the cloud backend.
func (s *MemStore) DeletePrefix(prefix string) error {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range s.blobs {
		if strings.HasPrefix(name, prefix) {
			delete(s.blobs, name)
		}
	}
	return nil
}

func (s *MemStore) Close() error { return nil }

// Len reports how many blobs are stored. Test helper.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
