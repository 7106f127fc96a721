package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethicalml/kompute-jni/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s := &Store{DBPath: filepath.Join(t.TempDir(), "history.sqlite")}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := newTestStore(t)

	in := api.RunRecord{
		Kind:         api.RunParams,
		Samples:      5,
		Iterations:   100,
		LearningRate: 0.1,
		Params:       []float32{0.0003, 1.5875, -0.794},
		Loss:         0.375,
		Backend:      "cpu",
		Duration:     api.Duration{Duration: 3 * time.Millisecond},
	}

	rec, err := s.Record(t.Context(), in)
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)
	_, err = uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := s.Get(t.Context(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, api.RunParams, got.Kind)
	assert.Equal(t, 5, got.Samples)
	assert.Equal(t, float32(0.1), got.LearningRate)
	assert.Equal(t, in.Params, got.Params)
	assert.Equal(t, "cpu", got.Backend)
	assert.Equal(t, 3*time.Millisecond, got.Duration.Duration)
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		_, err := s.Record(t.Context(), api.RunRecord{
			Kind:      api.RunPredict,
			Samples:   i + 1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	runs, err := s.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, 3, runs[0].Samples)
	assert.Equal(t, 1, runs[2].Samples)
	assert.NotNil(t, runs[2].Params)

	runs, err = s.List(t.Context(), 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestListEmpty(t *testing.T) {
	s := newTestStore(t)

	runs, err := s.List(t.Context(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.sqlite")

	s := &Store{DBPath: path}
	rec, err := s.Record(t.Context(), api.RunRecord{Kind: api.RunPredict, Samples: 2})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s = &Store{DBPath: path}
	defer s.Close()

	got, err := s.Get(t.Context(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Samples)

	db, err := s.ensureDB()
	require.NoError(t, err)
	version, err := db.getSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
}

func TestHistoryFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.sqlite")
	t.Setenv("KOMPUTE_HISTORY", path)

	s := &Store{}
	defer s.Close()

	_, err := s.Record(t.Context(), api.RunRecord{Kind: api.RunParams})
	require.NoError(t, err)
	assert.FileExists(t, path)
}
