package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// ErrNotFound is returned by KV.Get when the key has no value.
var ErrNotFound = errors.New("store: key not found")

// KV is a string-keyed blob table. Writes replace the whole value.
type KV struct {
	drv *entsql.Driver
}

// Get returns the value stored under key, or ErrNotFound.
func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	b := sqlite()
	query, args := b.Select("value").
		From(b.Table(kvTableName)).
		Where(entsql.EQ("key", key)).
		Query()

	var rows entsql.Rows
	if err := k.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get %q: %w", key, err)
		}
		return nil, ErrNotFound
	}
	var value []byte
	if err := rows.Scan(&value); err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// Set writes value under key, replacing any previous value.
func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	query, args := sqlite().Insert(kvTableName).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().Unix()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := k.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (k *KV) Delete(ctx context.Context, key string) error {
	query, args := sqlite().Delete(kvTableName).
		Where(entsql.EQ("key", key)).
		Query()
	if err := k.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
