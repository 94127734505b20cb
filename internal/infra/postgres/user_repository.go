package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jinford/movielens-embed/internal/core/embedding"
	"github.com/jinford/movielens-embed/pkg/models"
)

// UserRepository は users テーブルと評価集計への読み書きを提供します
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository は新しい UserRepository を作成します
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// コンパイル時の型チェック
var (
	_ embedding.EntityStore[models.User] = (*UserRepository)(nil)
	_ embedding.StatsStore               = (*UserRepository)(nil)
)

// List は全ユーザーを評価統計・ジャンル嗜好つきで user_id 昇順に取得します
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	users, err := r.listWithRatingStats(ctx)
	if err != nil {
		return nil, err
	}

	prefs, err := r.genrePreferences(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i].GenrePrefs = prefs[users[i].ID]
	}

	return users, nil
}

// listWithRatingStats はユーザー属性と評価集計（件数・平均・標準偏差）を取得する
func (r *UserRepository) listWithRatingStats(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.user_id, u.age, u.gender, u.occupation,
		       COUNT(r.rating) AS num_ratings,
		       AVG(r.rating::float) AS avg_rating,
		       STDDEV(r.rating::float) AS rating_stddev
		FROM users u
		LEFT JOIN ratings r ON u.user_id = r.user_id
		GROUP BY u.user_id, u.age, u.gender, u.occupation
		ORDER BY u.user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var (
			user       models.User
			age        pgtype.Int4
			gender     pgtype.Text
			occupation pgtype.Text
			avgRating  pgtype.Float8
			stddev     pgtype.Float8
		)
		if err := rows.Scan(&user.ID, &age, &gender, &occupation, &user.NumRatings, &avgRating, &stddev); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}

		user.Age = PgintToFloatPtr(age)
		user.Gender = PgtextToStringPtr(gender)
		user.Occupation = PgtextToStringPtr(occupation)
		user.AvgRating = PgfloatToFloatPtr(avgRating)
		user.RatingStddev = PgfloatToFloatPtr(stddev)

		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, nil
}

// genrePreferences はユーザーごとのジャンル別平均評価を取得する。
// そのジャンルの映画を評価していない場合は nil のまま。
func (r *UserRepository) genrePreferences(ctx context.Context) (map[int64][]*float64, error) {
	var sb strings.Builder
	sb.WriteString("SELECT u.user_id")
	for _, column := range models.GenreColumns {
		fmt.Fprintf(&sb, ", AVG(CASE WHEN m.%s THEN r.rating::float END)", column)
	}
	sb.WriteString(`
		FROM users u
		LEFT JOIN ratings r ON u.user_id = r.user_id
		LEFT JOIN movies m ON r.movie_id = m.movie_id
		GROUP BY u.user_id
		ORDER BY u.user_id
	`)

	rows, err := r.pool.Query(ctx, sb.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query genre preferences: %w", err)
	}
	defer rows.Close()

	prefs := make(map[int64][]*float64)
	for rows.Next() {
		var userID int64
		columns := make([]pgtype.Float8, models.NumGenres)

		dest := make([]any, 0, 1+models.NumGenres)
		dest = append(dest, &userID)
		for i := range columns {
			dest = append(dest, &columns[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan genre preference row: %w", err)
		}

		values := make([]*float64, models.NumGenres)
		for i, column := range columns {
			values[i] = PgfloatToFloatPtr(column)
		}
		prefs[userID] = values
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate genre preference rows: %w", err)
	}

	return prefs, nil
}

// ListOccupations は観測された職業カテゴリの集合を返します（順序エンコード用）
func (r *UserRepository) ListOccupations(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT occupation FROM users WHERE occupation IS NOT NULL ORDER BY occupation
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list occupations: %w", err)
	}
	defer rows.Close()

	var occupations []string
	for rows.Next() {
		var occupation string
		if err := rows.Scan(&occupation); err != nil {
			return nil, fmt.Errorf("failed to scan occupation row: %w", err)
		}
		occupations = append(occupations, occupation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate occupation rows: %w", err)
	}

	return occupations, nil
}

// FlushEmbeddings はバッチ分の埋め込みを単一トランザクションで書き戻します
func (r *UserRepository) FlushEmbeddings(ctx context.Context, updates []embedding.VectorUpdate) error {
	return flushEmbeddings(ctx, r.pool, "users", "user_id", updates)
}

// VectorStats はユーザーの埋め込み集計を返します
func (r *UserRepository) VectorStats(ctx context.Context) (*embedding.VectorStats, error) {
	return vectorStats(ctx, r.pool, "users")
}

// SampleVectors は埋め込みを持つユーザーのサンプルを返します
func (r *UserRepository) SampleVectors(ctx context.Context, limit int) ([]embedding.VectorSample, error) {
	return sampleVectors(ctx, r.pool, "users", "user_id", limit)
}
