package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStatsStore struct {
	stats      *VectorStats
	statsErr   error
	samples    []VectorSample
	samplesErr error
	lastLimit  int
}

func (s *stubStatsStore) VectorStats(ctx context.Context) (*VectorStats, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return s.stats, nil
}

func (s *stubStatsStore) SampleVectors(ctx context.Context, limit int) ([]VectorSample, error) {
	s.lastLimit = limit
	if s.samplesErr != nil {
		return nil, s.samplesErr
	}
	return s.samples, nil
}

func TestVerifierReportsOK(t *testing.T) {
	movieStore := &stubStatsStore{
		stats: &VectorStats{Total: 1682, WithVector: 1680, AvgDimension: 128},
		samples: []VectorSample{
			{ID: 1, Dimension: 128},
			{ID: 2, Dimension: 128},
		},
	}
	userStore := &stubStatsStore{
		stats: &VectorStats{Total: 943, WithVector: 943, AvgDimension: 128},
	}

	verifier := NewVerifier([]VerifyTarget{
		{Kind: "movie", Store: movieStore},
		{Kind: "user", Store: userStore},
	}, 128, discardLogger())

	report, err := verifier.Verify(context.Background())
	require.NoError(t, err)

	assert.True(t, report.OK())
	require.Len(t, report.Kinds, 2)
	assert.Equal(t, "movie", report.Kinds[0].Kind)
	assert.Equal(t, int64(1682), report.Kinds[0].Stats.Total)
	assert.Equal(t, 3, movieStore.lastLimit)
}

func TestVerifierDetectsAverageDimensionMismatch(t *testing.T) {
	store := &stubStatsStore{
		stats: &VectorStats{Total: 10, WithVector: 10, AvgDimension: 110},
	}

	verifier := NewVerifier([]VerifyTarget{{Kind: "movie", Store: store}}, 128, discardLogger())

	report, err := verifier.Verify(context.Background())
	require.NoError(t, err)

	assert.False(t, report.OK())
	require.Len(t, report.Kinds[0].Discrepancies, 1)
	assert.Contains(t, report.Kinds[0].Discrepancies[0], "average dimension")
}

func TestVerifierDetectsSampleDimensionMismatch(t *testing.T) {
	store := &stubStatsStore{
		stats:   &VectorStats{Total: 10, WithVector: 10, AvgDimension: 128},
		samples: []VectorSample{{ID: 7, Dimension: 64}},
	}

	verifier := NewVerifier([]VerifyTarget{{Kind: "user", Store: store}}, 128, discardLogger())

	report, err := verifier.Verify(context.Background())
	require.NoError(t, err)

	assert.False(t, report.OK())
	require.Len(t, report.Kinds[0].Discrepancies, 1)
	assert.Contains(t, report.Kinds[0].Discrepancies[0], "entity 7")
}

func TestVerifierEmptyTableIsNotADiscrepancy(t *testing.T) {
	store := &stubStatsStore{
		stats: &VectorStats{Total: 10, WithVector: 0, AvgDimension: 0},
	}

	verifier := NewVerifier([]VerifyTarget{{Kind: "movie", Store: store}}, 128, discardLogger())

	report, err := verifier.Verify(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK())
}

func TestVerifierPropagatesStoreErrors(t *testing.T) {
	verifier := NewVerifier([]VerifyTarget{
		{Kind: "movie", Store: &stubStatsStore{statsErr: errors.New("timeout")}},
	}, 128, discardLogger())

	_, err := verifier.Verify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to collect movie vector stats")

	verifier = NewVerifier([]VerifyTarget{
		{Kind: "user", Store: &stubStatsStore{
			stats:      &VectorStats{},
			samplesErr: errors.New("timeout"),
		}},
	}, 128, discardLogger())

	_, err = verifier.Verify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to sample user vectors")
}
