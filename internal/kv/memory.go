package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store. It does not survive restarts.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{buckets: make(map[string]map[string][]byte)}
}

func (m *Memory) Bucket(name string) Bucket {
	return &memoryBucket{store: m, name: name}
}

type memoryBucket struct {
	store *Memory
	name  string
}

func (b *memoryBucket) entries() map[string][]byte {
	entries, ok := b.store.buckets[b.name]
	if !ok {
		entries = make(map[string][]byte)
		b.store.buckets[b.name] = entries
	}

	return entries
}

func (b *memoryBucket) Get(_ context.Context, key string) ([]byte, error) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	v, ok := b.entries()[key]
	if !ok {
		return nil, ErrNotFound
	}

	return clone(v), nil
}

func (b *memoryBucket) Put(_ context.Context, key string, value []byte) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	b.entries()[key] = clone(value)

	return nil
}

func (b *memoryBucket) Insert(_ context.Context, key string, value []byte) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	entries := b.entries()
	if _, ok := entries[key]; ok {
		return ErrExists
	}

	entries[key] = clone(value)

	return nil
}

func (b *memoryBucket) Scan(_ context.Context, prefix string) ([]Entry, error) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	var out []Entry

	for k, v := range b.entries() {
		if strings.HasPrefix(k, prefix) {
			out = append(out, Entry{Key: k, Value: clone(v)})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out, nil
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
