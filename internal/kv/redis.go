package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// Redis stores bucket entries as plain string keys named "<prefix>:<bucket>:<key>".
type Redis struct {
	client redis.UniversalClient
	prefix string
}

func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Bucket(name string) Bucket {
	ns := name + ":"
	if r.prefix != "" {
		ns = r.prefix + ":" + ns
	}

	return &redisBucket{client: r.client, ns: ns}
}

type redisBucket struct {
	client redis.UniversalClient
	ns     string
}

func (b *redisBucket) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.client.Get(ctx, b.ns+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("getting %s%s: %w", b.ns, key, err)
	}

	return v, nil
}

func (b *redisBucket) Put(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, b.ns+key, value, 0).Err(); err != nil {
		return fmt.Errorf("putting %s%s: %w", b.ns, key, err)
	}

	return nil
}

func (b *redisBucket) Insert(ctx context.Context, key string, value []byte) error {
	ok, err := b.client.SetNX(ctx, b.ns+key, value, 0).Result()
	if err != nil {
		return fmt.Errorf("inserting %s%s: %w", b.ns, key, err)
	}

	if !ok {
		return ErrExists
	}

	return nil
}

func (b *redisBucket) Scan(ctx context.Context, prefix string) ([]Entry, error) {
	pattern := escapeGlob(b.ns+prefix) + "*"

	var keys []string

	iter := b.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", pattern, err)
	}

	if len(keys) == 0 {
		return nil, nil
	}

	sort.Strings(keys)

	values, err := b.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading %d keys: %w", len(keys), err)
	}

	out := make([]Entry, 0, len(keys))

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// Deleted between SCAN and MGET.
			continue
		}

		out = append(out, Entry{Key: strings.TrimPrefix(keys[i], b.ns), Value: []byte(s)})
	}

	return out, nil
}

func escapeGlob(s string) string {
	var sb strings.Builder

	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			sb.WriteRune('\\')
		}

		sb.WriteRune(r)
	}

	return sb.String()
}
