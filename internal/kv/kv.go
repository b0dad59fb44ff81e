// Package kv is the key-value persistence surface the domain stores are built on.
// Each domain store owns one bucket; there are no cross-bucket transactions.
package kv

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("kv: key not found")
	ErrExists   = errors.New("kv: key already exists")
)

// Entry is a stored key and its raw value.
type Entry struct {
	Key   string
	Value []byte
}

// Bucket is a namespaced key-value collection.
type Bucket interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put creates or replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	// Insert stores the value only if key is absent, returning ErrExists otherwise.
	Insert(ctx context.Context, key string, value []byte) error
	// Scan returns every entry whose key starts with prefix, ordered by key.
	Scan(ctx context.Context, prefix string) ([]Entry, error)
}

// Store hands out buckets by name.
type Store interface {
	Bucket(name string) Bucket
}
