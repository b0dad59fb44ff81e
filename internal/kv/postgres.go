package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres stores every bucket in the kv_entries table, keyed by (bucket, key).
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Bucket(name string) Bucket {
	return &postgresBucket{db: p.db, name: name}
}

type postgresBucket struct {
	db   *sql.DB
	name string
}

func (b *postgresBucket) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_entries WHERE bucket = $1 AND key = $2`

	var value []byte

	err := b.db.QueryRowContext(ctx, query, b.name, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("getting %s/%s: %w", b.name, key, err)
	}

	return value, nil
}

func (b *postgresBucket) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (bucket, key, value, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (bucket, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := b.db.ExecContext(ctx, query, b.name, key, string(value)); err != nil {
		return fmt.Errorf("putting %s/%s: %w", b.name, key, err)
	}

	return nil
}

func (b *postgresBucket) Insert(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (bucket, key, value, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (bucket, key) DO NOTHING
	`

	res, err := b.db.ExecContext(ctx, query, b.name, key, string(value))
	if err != nil {
		return fmt.Errorf("inserting %s/%s: %w", b.name, key, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting %s/%s: %w", b.name, key, err)
	}

	if n == 0 {
		return ErrExists
	}

	return nil
}

func (b *postgresBucket) Scan(ctx context.Context, prefix string) ([]Entry, error) {
	query := `
		SELECT key, value
		FROM kv_entries
		WHERE bucket = $1 AND starts_with(key, $2)
		ORDER BY key ASC
	`

	rows, err := b.db.QueryContext(ctx, query, b.name, prefix)
	if err != nil {
		return nil, fmt.Errorf("scanning %s/%s: %w", b.name, prefix, err)
	}
	defer rows.Close()

	var out []Entry

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", b.name, err)
	}

	return out, nil
}
