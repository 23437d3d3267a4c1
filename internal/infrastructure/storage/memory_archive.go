package storage

import (
	"context"
	"errors"
	"sync"

	gstapp "github.com/vikasgargbear/production-infra-sub001/internal/application/gst"
)

// StoredObject is one file held by MemoryArchive
type StoredObject struct {
	Data        []byte
	ContentType string
}

// MemoryArchive keeps uploaded reports in memory. It backs local runs with
// storage disabled and the tests.
type MemoryArchive struct {
	mu      sync.RWMutex
	objects map[string]StoredObject
}

// NewMemoryArchive creates an empty MemoryArchive
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string]StoredObject)}
}

// Upload implements gst.ReportArchive
func (m *MemoryArchive) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[storageKey] = StoredObject{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// Get returns a stored object
func (m *MemoryArchive) Get(storageKey string) (StoredObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[storageKey]
	return obj, ok
}

// Len returns the number of stored objects
func (m *MemoryArchive) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

var _ gstapp.ReportArchive = (*MemoryArchive)(nil)
