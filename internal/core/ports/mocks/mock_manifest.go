package mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
)

// MockManifestStore is an in-memory implementation of ports.ManifestStore
type MockManifestStore struct {
	mu      sync.Mutex
	lockMu  sync.Mutex
	assets  []domain.Asset
	loadErr error
	saveErr error
	locks   int
	saves   int
}

// NewMockManifestStore creates a store holding a copy of assets
func NewMockManifestStore(assets ...domain.Asset) *MockManifestStore {
	return &MockManifestStore{assets: append([]domain.Asset{}, assets...)}
}

func (m *MockManifestStore) Load(ctx context.Context) ([]domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.Asset{}, m.assets...), nil
}

func (m *MockManifestStore) Save(ctx context.Context, assets []domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.assets = append([]domain.Asset{}, assets...)
	m.saves++
	return nil
}

func (m *MockManifestStore) Lock(ctx context.Context) (func(), error) {
	m.lockMu.Lock()
	m.mu.Lock()
	m.locks++
	m.mu.Unlock()
	return m.lockMu.Unlock, nil
}

// SetLoadError makes every Load fail with err (nil to reset)
func (m *MockManifestStore) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetSaveError makes every Save fail with err (nil to reset)
func (m *MockManifestStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Assets returns the current records
func (m *MockManifestStore) Assets() []domain.Asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Asset{}, m.assets...)
}

// Saves returns how many Save calls succeeded
func (m *MockManifestStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Locks returns how many times the lock was taken
func (m *MockManifestStore) Locks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks
}

// --- MockPublisher ---

// MockPublisher records uploaded objects in memory
type MockPublisher struct {
	mu         sync.Mutex
	objects    map[string][]byte
	types      map[string]string
	shouldFail bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (m *MockPublisher) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return fmt.Errorf("put failed for %s", key)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.objects[key] = buf.Bytes()
	m.types[key] = contentType
	return nil
}

func (m *MockPublisher) Location() string {
	return "mock://bucket"
}

func (m *MockPublisher) SetShouldFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
}

// Object returns an uploaded object and its content type
func (m *MockPublisher) Object(key string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, m.types[key], ok
}

// Len returns the number of uploaded objects
func (m *MockPublisher) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
