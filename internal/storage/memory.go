package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
)

// ErrObjectNotFound is returned by the memory backend for unknown keys.
var ErrObjectNotFound = errors.New("object not found")

// Memory is an in-process ObjectStorage backend. It backs dev mode, where no
// object store is configured, and tests.
type Memory struct {
	bucket string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemory constructs an empty in-memory backend.
func NewMemory(bucket string) *Memory {
	return &Memory{
		bucket:  bucket,
		objects: make(map[string][]byte),
	}
}

// EnsureBucket is a no-op for the memory backend.
func (m *Memory) EnsureBucket(_ context.Context) error {
	return nil
}

// Put stores an object.
func (m *Memory) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data

	return nil
}

// Get opens a reader for a stored object.
func (m *Memory) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes a stored object. Deleting an unknown key is a no-op.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)

	return nil
}

// Bucket returns the configured bucket name.
func (m *Memory) Bucket() string {
	return m.bucket
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.objects)
}
