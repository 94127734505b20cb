package embedding

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntity struct {
	id int64
}

func (e fakeEntity) EntityID() int64 { return e.id }

type stubStore struct {
	entities []fakeEntity
	listErr  error

	flushed   [][]VectorUpdate
	failFlush int // 1-based index of the flush call that fails, 0 = never
	flushErr  error
}

func (s *stubStore) List(ctx context.Context) ([]fakeEntity, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.entities, nil
}

func (s *stubStore) FlushEmbeddings(ctx context.Context, updates []VectorUpdate) error {
	// the runner reuses the backing array between checkpoints, so keep a copy
	batch := make([]VectorUpdate, len(updates))
	copy(batch, updates)
	s.flushed = append(s.flushed, batch)

	if s.failFlush == len(s.flushed) {
		return s.flushErr
	}
	return nil
}

type stubEmbedder struct {
	failID int64
}

func (e *stubEmbedder) Embed(ctx context.Context, entity fakeEntity) ([]float32, error) {
	if entity.id == e.failID {
		return nil, errors.New("empty title")
	}
	return []float32{float32(entity.id), 1}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeEntities(n int) []fakeEntity {
	entities := make([]fakeEntity, n)
	for i := range entities {
		entities[i] = fakeEntity{id: int64(i + 1)}
	}
	return entities
}

func TestRunnerIsolatesEmbedFailures(t *testing.T) {
	store := &stubStore{entities: makeEntities(5)}
	embedder := &stubEmbedder{failID: 3}
	runner := NewRunner[fakeEntity]("movie", store, embedder, 100, discardLogger())

	stats, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 4, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)
	require.Len(t, stats.Failures, 1)
	assert.Equal(t, int64(3), stats.Failures[0].ID)

	// the failed entity never reaches the store
	require.Len(t, store.flushed, 1)
	ids := make([]int64, 0, len(store.flushed[0]))
	for _, update := range store.flushed[0] {
		ids = append(ids, update.ID)
	}
	assert.Equal(t, []int64{1, 2, 4, 5}, ids)
}

func TestRunnerFlushesAtCheckpointBoundaries(t *testing.T) {
	store := &stubStore{entities: makeEntities(5)}
	runner := NewRunner[fakeEntity]("movie", store, &stubEmbedder{}, 2, discardLogger())

	stats, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Succeeded)
	require.Len(t, store.flushed, 3)
	assert.Len(t, store.flushed[0], 2)
	assert.Len(t, store.flushed[1], 2)
	assert.Len(t, store.flushed[2], 1)
}

func TestRunnerFlushFailureIsolatesChunk(t *testing.T) {
	store := &stubStore{
		entities:  makeEntities(4),
		failFlush: 1,
		flushErr:  errors.New("connection reset"),
	}
	runner := NewRunner[fakeEntity]("user", store, &stubEmbedder{}, 2, discardLogger())

	stats, err := runner.Run(context.Background())
	require.NoError(t, err)

	// the first chunk is lost but the second one still commits
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 2, stats.Succeeded)
	require.Len(t, stats.Failures, 2)
	assert.Equal(t, int64(1), stats.Failures[0].ID)
	assert.Equal(t, int64(2), stats.Failures[1].ID)
	require.Len(t, store.flushed, 2)
}

func TestRunnerListErrorIsFatal(t *testing.T) {
	store := &stubStore{listErr: errors.New("relation does not exist")}
	runner := NewRunner[fakeEntity]("movie", store, &stubEmbedder{}, 2, discardLogger())

	stats, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, stats)
	assert.Contains(t, err.Error(), "failed to list movie entities")
}

func TestRunnerRerunProducesIdenticalVectors(t *testing.T) {
	run := func() [][]VectorUpdate {
		store := &stubStore{entities: makeEntities(5)}
		runner := NewRunner[fakeEntity]("movie", store, &stubEmbedder{}, 2, discardLogger())
		_, err := runner.Run(context.Background())
		require.NoError(t, err)
		return store.flushed
	}

	assert.Equal(t, run(), run())
}
