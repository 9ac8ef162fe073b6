package sessionstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/parley/internal/practice"
	"github.com/abhisek/parley/internal/store"
)

func testSession(t *testing.T) *practice.Session {
	t.Helper()
	s, err := practice.NewSession(practice.SetupParams{
		NativeLanguage: "English",
		TargetLanguage: "German",
		Difficulty:     practice.Intermediate,
		Scenario:       "Checking into a hotel",
	})
	require.NoError(t, err)
	return s.Apply(nil, practice.Feedback{NextPrompt: "Guten Tag! Haben Sie reserviert?", Opening: true})
}

// exerciseKV runs the same contract checks against any backend.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()
	st := New(kv, "", nil)

	_, ok := st.Load(ctx)
	assert.False(t, ok, "empty backend should load as absent")

	sess := testSession(t)
	require.True(t, st.Save(ctx, sess))

	got, ok := st.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.Prompt(), got.Prompt())
	assert.Equal(t, practice.Intermediate, got.Difficulty)
	assert.True(t, got.LastFeedback.Opening)

	next := got.Apply(ptr("Ja, auf Müller."), practice.Feedback{Corrected: "Ja, auf den Namen Müller.", NextPrompt: "Wie lange bleiben Sie?"})
	require.True(t, st.Save(ctx, next))
	got, ok = st.Load(ctx)
	require.True(t, ok)
	require.Len(t, got.History, 1)
	assert.Equal(t, "Ja, auf Müller.", got.History[0].Answer)

	require.True(t, st.Clear(ctx))
	_, ok = st.Load(ctx)
	assert.False(t, ok, "cleared backend should load as absent")
	assert.True(t, st.Clear(ctx), "clearing twice is fine")
}

func ptr(s string) *string { return &s }

func TestMemoryBackend(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)
	exerciseKV(t, f)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files should be left behind")
}

func TestSQLiteBackend(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "parley.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	exerciseKV(t, db.KV())
}

func TestRedisBackend(t *testing.T) {
	url := os.Getenv("PARLEY_TEST_REDIS_URL")
	if url == "" {
		t.Skip("PARLEY_TEST_REDIS_URL not set")
	}
	r, err := NewRedis(context.Background(), url, "parley-test:")
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	exerciseKV(t, r)
}

func TestPostgresBackend(t *testing.T) {
	url := os.Getenv("PARLEY_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("PARLEY_TEST_POSTGRES_URL not set")
	}
	p, err := NewPostgres(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	exerciseKV(t, p)
}

func TestLoad_CorruptRecordIsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	st := New(kv, "custom", nil)

	require.NoError(t, kv.Set(ctx, "custom", []byte(`{not json`)))
	_, ok := st.Load(ctx)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "custom", []byte(`{"nativeLanguage":"English","targetLanguage":"","difficulty":"beginner","scenario":"x"}`)))
	_, ok = st.Load(ctx)
	assert.False(t, ok, "record failing validation should read as absent")

	require.NoError(t, kv.Set(ctx, "custom", []byte(`{"nativeLanguage":"English","targetLanguage":"Italian","difficulty":"beginner","scenario":"x","currentPrompt":null}`)))
	got, ok := st.Load(ctx)
	require.True(t, ok)
	assert.NotNil(t, got.History, "missing history decodes as empty")
}

func TestStored_SeesRecordsLoadRejects(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	st := New(kv, "", nil)

	assert.False(t, st.Stored(ctx))

	require.NoError(t, kv.Set(ctx, DefaultKey, []byte(`{"nativeLanguage":""}`)))
	_, ok := st.Load(ctx)
	assert.False(t, ok)
	assert.True(t, st.Stored(ctx))

	assert.True(t, st.Clear(ctx))
	assert.False(t, st.Stored(ctx))
}

func TestKeyIsolation(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	a := New(kv, "a", nil)
	b := New(kv, "b", nil)

	require.True(t, a.Save(ctx, testSession(t)))
	_, ok := b.Load(ctx)
	assert.False(t, ok)
	assert.Equal(t, DefaultKey, New(kv, "", nil).Key())
}

type failingKV struct{}

var errBackend = errors.New("backend down")

func (failingKV) Get(context.Context, string) ([]byte, error) { return nil, errBackend }
func (failingKV) Set(context.Context, string, []byte) error   { return errBackend }
func (failingKV) Delete(context.Context, string) error        { return errBackend }

func TestFailuresAreSilent(t *testing.T) {
	ctx := context.Background()
	st := New(failingKV{}, "", nil)

	_, ok := st.Load(ctx)
	assert.False(t, ok)
	assert.False(t, st.Save(ctx, testSession(t)))
	assert.False(t, st.Clear(ctx))
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "default.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	kv, closeFn, err := OpenBackend(ctx, "", db)
	require.NoError(t, err)
	assert.IsType(t, &store.KV{}, kv)
	require.NoError(t, closeFn())

	kv, closeFn, err = OpenBackend(ctx, "memory:", nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)
	require.NoError(t, closeFn())

	kv, closeFn, err = OpenBackend(ctx, "file:"+t.TempDir(), nil)
	require.NoError(t, err)
	assert.IsType(t, &File{}, kv)
	require.NoError(t, closeFn())

	kv, closeFn, err = OpenBackend(ctx, "sqlite:"+filepath.Join(t.TempDir(), "other.db"), nil)
	require.NoError(t, err)
	assert.IsType(t, &store.KV{}, kv)
	require.NoError(t, closeFn())

	_, _, err = OpenBackend(ctx, "", nil)
	assert.Error(t, err)
	_, _, err = OpenBackend(ctx, "s3://bucket", nil)
	assert.Error(t, err)
}
