// Package snapshot archives what the dashboard was looking at: each CSV
// upload and each built report can be stored under a timestamped key, so
// completeness progress can be compared over time. In-memory by default,
// S3/minio when configured.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned for keys with no stored snapshot.
var ErrNotFound = errors.New("snapshot: not found")

type Store interface {
	Put(ctx context.Context, key string, contentType string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// Key builds the storage key for a snapshot category ("csv", "report")
// and session, stamped to the second.
func Key(category, sessionID string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s", category, sessionID, at.UTC().Format("20060102T150405Z"))
}

type memoryObject struct {
	contentType string
	content     []byte
}

// MemoryStore is the no-configuration fallback backend.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (m *MemoryStore) Put(_ context.Context, key, contentType string, content []byte) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("snapshot: key is required")
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	m.mu.Lock()
	m.objects[key] = memoryObject{contentType: contentType, content: cp}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	obj, ok := m.objects[strings.TrimSpace(key)]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(obj.content))
	copy(cp, obj.content)
	return cp, nil
}

func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
