package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("document not found")

// Store keeps JSON documents grouped by kind. Owner is a secondary key used
// for listing: the user id for user data, the email for user records.
type Store interface {
	Put(ctx context.Context, kind, id, owner string, body []byte) error
	Get(ctx context.Context, kind, id string) (owner string, body []byte, err error)
	List(ctx context.Context, kind, owner string) ([][]byte, error)
	Delete(ctx context.Context, kind, id string) error
	Close() error
}

type memoryEntry struct {
	owner string
	body  []byte
	seq   int
}

// MemoryStore is the default, process-local Store.
type MemoryStore struct {
	mu   sync.RWMutex
	seq  int
	docs map[string]map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]memoryEntry)}
}

func (m *MemoryStore) Put(_ context.Context, kind, id, owner string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.docs[kind]
	if !ok {
		bucket = make(map[string]memoryEntry)
		m.docs[kind] = bucket
	}
	entry, exists := bucket[id]
	if !exists {
		m.seq++
		entry.seq = m.seq
	}
	entry.owner = owner
	entry.body = append([]byte(nil), body...)
	bucket[id] = entry
	return nil
}

func (m *MemoryStore) Get(_ context.Context, kind, id string) (string, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.docs[kind][id]
	if !ok {
		return "", nil, ErrNotFound
	}
	return entry.owner, append([]byte(nil), entry.body...), nil
}

func (m *MemoryStore) List(_ context.Context, kind, owner string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []memoryEntry
	for _, entry := range m.docs[kind] {
		if entry.owner == owner {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([][]byte, len(entries))
	for i, entry := range entries {
		out[i] = append([]byte(nil), entry.body...)
	}
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[kind][id]; !ok {
		return ErrNotFound
	}
	delete(m.docs[kind], id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func putDoc(ctx context.Context, s Store, kind, id, owner string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, kind, id, owner, body)
}

func getDoc[T any](ctx context.Context, s Store, kind, id string) (T, string, error) {
	var out T
	owner, body, err := s.Get(ctx, kind, id)
	if err != nil {
		return out, "", err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, "", err
	}
	return out, owner, nil
}

func listDocs[T any](ctx context.Context, s Store, kind, owner string) ([]T, error) {
	bodies, err := s.List(ctx, kind, owner)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(bodies))
	for _, body := range bodies {
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
