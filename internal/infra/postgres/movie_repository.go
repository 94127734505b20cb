package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jinford/movielens-embed/internal/core/embedding"
	"github.com/jinford/movielens-embed/pkg/models"
)

// MovieRepository は movies テーブルへの読み書きを提供します
type MovieRepository struct {
	pool *pgxpool.Pool
}

// NewMovieRepository は新しい MovieRepository を作成します
func NewMovieRepository(pool *pgxpool.Pool) *MovieRepository {
	return &MovieRepository{pool: pool}
}

// コンパイル時の型チェック
var (
	_ embedding.EntityStore[models.Movie] = (*MovieRepository)(nil)
	_ embedding.StatsStore                = (*MovieRepository)(nil)
)

// List は全映画を movie_id 昇順で取得します
func (r *MovieRepository) List(ctx context.Context) ([]models.Movie, error) {
	query := fmt.Sprintf(
		`SELECT movie_id, title, %s FROM movies ORDER BY movie_id`,
		strings.Join(models.GenreColumns, ", "),
	)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		movie := models.Movie{Genres: make([]bool, models.NumGenres)}

		dest := make([]any, 0, 2+models.NumGenres)
		dest = append(dest, &movie.ID, &movie.Title)
		for i := range movie.Genres {
			dest = append(dest, &movie.Genres[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan movie row: %w", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movie rows: %w", err)
	}

	return movies, nil
}

// FlushEmbeddings はバッチ分の埋め込みを単一トランザクションで書き戻します
func (r *MovieRepository) FlushEmbeddings(ctx context.Context, updates []embedding.VectorUpdate) error {
	return flushEmbeddings(ctx, r.pool, "movies", "movie_id", updates)
}

// VectorStats は映画の埋め込み集計を返します
func (r *MovieRepository) VectorStats(ctx context.Context) (*embedding.VectorStats, error) {
	return vectorStats(ctx, r.pool, "movies")
}

// SampleVectors は埋め込みを持つ映画のサンプルを返します
func (r *MovieRepository) SampleVectors(ctx context.Context, limit int) ([]embedding.VectorSample, error) {
	return sampleVectors(ctx, r.pool, "movies", "movie_id", limit)
}
