package store

import (
	"context"
	"strings"
	"sync"

	"github.com/serroba/shortly/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository and denylist.Lookup.
type MemoryStore struct {
	mu     sync.RWMutex
	links  map[shortener.Code]shortener.ShortLink
	banned map[string]struct{}
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links:  make(map[shortener.Code]shortener.ShortLink),
		banned: make(map[string]struct{}),
	}
}

// Create inserts link unless its code is already present.
func (m *MemoryStore) Create(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[link.Code]; ok {
		return shortener.ErrCodeTaken
	}

	m.links[link.Code] = *link

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &link, nil
}

// BanDomain adds a host to the denylist.
func (m *MemoryStore) BanDomain(_ context.Context, domain string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.banned[strings.ToLower(domain)] = struct{}{}

	return nil
}

func (m *MemoryStore) IsBannedDomain(_ context.Context, host string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.banned[strings.ToLower(host)]

	return ok, nil
}

// Len returns the number of stored short links.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.links)
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
