package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/jinford/movielens-embed/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEncoder struct {
	lastText string
	vector   []float32
	err      error
}

func (e *stubEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.lastText = text
	if e.err != nil {
		return nil, e.err
	}
	return e.vector, nil
}

func movieWithGenres(title string, indexes ...int) models.Movie {
	genres := make([]bool, models.NumGenres)
	for _, i := range indexes {
		genres[i] = true
	}
	return models.Movie{ID: 1, Title: title, Genres: genres}
}

func TestMovieEmbedderBuildsTextFromTitleAndGenres(t *testing.T) {
	encoder := &stubEncoder{vector: []float32{0.5, 0.5}}
	embedder := NewMovieEmbedder(encoder, DefaultTextDimension, DefaultDimension)

	// animation=2, children=3 in the declared genre order
	movie := movieWithGenres("Toy Story", 2, 3)

	vector, err := embedder.Embed(context.Background(), movie)
	require.NoError(t, err)

	assert.Equal(t, "Toy Story animation children", encoder.lastText)
	require.Len(t, vector, DefaultDimension)
	assert.InDelta(t, 1.0, vectorNorm(vector), 1e-6)

	// genre flags live at offsets textDim..textDim+17 and only the two
	// active positions are non-zero
	for i := 0; i < models.NumGenres; i++ {
		v := vector[DefaultTextDimension+i]
		if i == 2 || i == 3 {
			assert.Greater(t, v, float32(0), "genre position %d", i)
		} else {
			assert.Equal(t, float32(0), v, "genre position %d", i)
		}
	}
}

func TestMovieEmbedderFallsBackToGeneralText(t *testing.T) {
	encoder := &stubEncoder{vector: []float32{1}}
	embedder := NewMovieEmbedder(encoder, DefaultTextDimension, DefaultDimension)

	_, err := embedder.Embed(context.Background(), movieWithGenres("Unlabeled Film"))
	require.NoError(t, err)

	assert.Equal(t, "Unlabeled Film general", encoder.lastText)
}

func TestMovieEmbedderTruncatesTextVector(t *testing.T) {
	// encoder output longer than textDim: everything past index textDim-1
	// must be dropped before the genre flags are appended
	long := make([]float32, 384)
	long[200] = 5
	encoder := &stubEncoder{vector: long}
	embedder := NewMovieEmbedder(encoder, DefaultTextDimension, DefaultDimension)

	vector, err := embedder.Embed(context.Background(), movieWithGenres("Silent"))
	require.NoError(t, err)

	// the only non-zero encoder value was truncated away and no genre flag
	// is set, so the fused vector is all-zero (zero norm is a no-op)
	require.Len(t, vector, DefaultDimension)
	for _, v := range vector {
		assert.Equal(t, float32(0), v)
	}
}

func TestMovieEmbedderPropagatesEncoderError(t *testing.T) {
	encoder := &stubEncoder{err: errors.New("empty input")}
	embedder := NewMovieEmbedder(encoder, DefaultTextDimension, DefaultDimension)

	_, err := embedder.Embed(context.Background(), movieWithGenres("Broken"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode movie text")
}
