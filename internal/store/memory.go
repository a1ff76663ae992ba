package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process document store for development and tests.
type Memory struct {
	docReader
	mu   sync.RWMutex
	docs map[string]map[string][]byte
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	m := &Memory{docs: make(map[string]map[string][]byte)}
	m.docReader = docReader{raw: m}
	return m
}

func (m *Memory) Name() string { return "memory" }

// Put stores a raw JSON document.
func (m *Memory) Put(_ context.Context, collection, id string, body []byte) error {
	if !json.Valid(body) {
		return fmt.Errorf("put %s/%s: invalid JSON", collection, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string][]byte)
	}
	m.docs[collection][id] = append([]byte(nil), body...)
	return nil
}

// PutJSON marshals v and stores it.
func (m *Memory) PutJSON(ctx context.Context, collection, id string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	return m.Put(ctx, collection, id, body)
}

func (m *Memory) get(_ context.Context, collection, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return body, nil
}

func (m *Memory) ids(_ context.Context, collection string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.docs[collection]))
	for id := range m.docs[collection] {
		out = append(out, id)
	}
	return out, nil
}
