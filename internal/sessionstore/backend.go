package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/parley/internal/store"
)

// OpenBackend resolves a backend spec to a KV. Accepted forms:
//
//	""                  the default SQLite database (db)
//	sqlite:<path>       a separate SQLite file
//	file:<dir>          one JSON file per key under dir
//	memory:             process memory, lost on exit
//	redis://...         Redis (rediss:// for TLS)
//	postgres://...      PostgreSQL (postgresql:// also accepted)
//
// The returned close function releases anything OpenBackend opened; it
// never closes db.
func OpenBackend(ctx context.Context, spec string, db *store.Store) (KV, func() error, error) {
	noop := func() error { return nil }

	scheme, rest, _ := strings.Cut(spec, ":")
	switch strings.ToLower(scheme) {
	case "", "sqlite":
		if rest == "" {
			if db == nil {
				return nil, nil, errors.New("sqlite backend: no default database open")
			}
			return db.KV(), noop, nil
		}
		if err := store.EnsureDir(rest); err != nil {
			return nil, nil, fmt.Errorf("sqlite backend: %w", err)
		}
		s, err := store.Open(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite backend: %w", err)
		}
		return s.KV(), s.Close, nil

	case "file":
		if rest == "" {
			return nil, nil, errors.New("file backend: directory is required")
		}
		f, err := NewFile(rest)
		if err != nil {
			return nil, nil, err
		}
		return f, noop, nil

	case "memory":
		return NewMemory(), noop, nil

	case "redis", "rediss":
		r, err := NewRedis(ctx, spec, "parley:")
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil

	case "postgres", "postgresql":
		p, err := NewPostgres(ctx, spec)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown session store %q", spec)
}
