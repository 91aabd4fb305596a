package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/pos/backend/internal/application/attachment"
)

var _ attachment.ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps objects in process memory.
// It backs development setups without S3 credentials; objects are lost on restart.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryObjectStorage creates an empty MemoryObjectStorage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "http://localhost:8080/files",
		objects: make(map[string]memoryObject),
	}
}

// Upload stores a copy of data
func (m *MemoryObjectStorage) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[storageKey] = memoryObject{data: buf, contentType: contentType}
	return nil
}

// GenerateDownloadURL returns a URL under BaseURL; it is not signed
func (m *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	return m.BaseURL + "/" + (&url.URL{Path: storageKey}).EscapedPath(), expiresAt, nil
}

// Get returns a stored object
func (m *MemoryObjectStorage) Get(storageKey string) (data []byte, contentType string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[storageKey]
	return obj.data, obj.contentType, ok
}

// ObjectExists reports whether storageKey was uploaded
func (m *MemoryObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errEmptyKey
	}
	_, _, ok := m.Get(storageKey)
	return ok, nil
}
