package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process AssetStore for local development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	baseURL string
	objects map[string]*Payload
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		objects: make(map[string]*Payload),
	}
}

func (m *MemoryStore) Upload(_ context.Context, payload string, folder string) (string, error) {
	decoded, err := ParseDataURI(payload)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), decoded.Extension)

	m.mu.Lock()
	m.objects[key] = decoded
	m.mu.Unlock()

	return m.baseURL + "/" + key, nil
}

func (m *MemoryStore) Destroy(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key := range m.objects {
		if strings.HasPrefix(key, publicID+".") {
			delete(m.objects, key)
			removed++
		}
	}

	if removed == 0 {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, publicID)
	}
	return nil
}

// Get returns the object stored under key, the URL path after the base URL.
func (m *MemoryStore) Get(key string) (*Payload, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.objects[key]
	return p, ok
}

// Keys lists the stored object keys in sorted order.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
