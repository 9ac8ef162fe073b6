// Package sessionstore persists the single active practice session under a
// fixed key in a pluggable key-value backend.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/abhisek/parley/internal/practice"
	"github.com/abhisek/parley/internal/store"
)

// DefaultKey is the key the session is stored under unless overridden.
const DefaultKey = "language_practice_session"

// ErrNotFound is returned by KV.Get for a missing key.
var ErrNotFound = store.ErrNotFound

// KV is the minimal key-value surface a backend provides.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store implements practice.Store over a KV backend. It never returns
// errors: failures are logged and reported as absent or false.
type Store struct {
	kv     KV
	key    string
	logger *slog.Logger
}

var _ practice.Store = (*Store)(nil)

// New returns a Store writing under key. An empty key means DefaultKey and
// a nil logger means slog.Default().
func New(kv KV, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, key: key, logger: logger.With("component", "sessionstore", "key", key)}
}

// Key returns the key the session is stored under.
func (s *Store) Key() string { return s.key }

// Stored reports whether any record sits under the key, including one
// Load would reject as unreadable or invalid.
func (s *Store) Stored(ctx context.Context) bool {
	_, err := s.kv.Get(ctx, s.key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to read session", "error", err)
	}
	return err == nil
}

// Load returns the persisted session. Missing, unreadable, undecodable
// and invalid records all read as absent.
func (s *Store) Load(ctx context.Context) (*practice.Session, bool) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load session", "error", err)
		return nil, false
	}

	var sess practice.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.logger.WarnContext(ctx, "failed to decode session", "error", err)
		return nil, false
	}
	if err := sess.Validate(); err != nil {
		s.logger.WarnContext(ctx, "ignoring stored session", "error", err)
		return nil, false
	}
	if sess.History == nil {
		sess.History = []practice.HistoryItem{}
	}
	return &sess, true
}

// Save overwrites the persisted session.
func (s *Store) Save(ctx context.Context, sess *practice.Session) bool {
	raw, err := json.Marshal(sess)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode session", "error", err)
		return false
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		s.logger.WarnContext(ctx, "failed to save session", "error", err)
		return false
	}
	return true
}

// Clear removes the persisted session.
func (s *Store) Clear(ctx context.Context) bool {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.logger.WarnContext(ctx, "failed to clear session", "error", err)
		return false
	}
	return true
}
