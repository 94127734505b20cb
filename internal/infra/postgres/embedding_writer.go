package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jinford/movielens-embed/internal/core/embedding"
	pgvector "github.com/pgvector/pgvector-go"
)

// flushEmbeddings はバッチ分の埋め込みを単一トランザクションで UPDATE する。
// コミットがチェックポイントの永続化境界となる。テーブル名と識別子列名は
// パッケージ内の定数で、値はすべてプレースホルダで渡す。
func flushEmbeddings(ctx context.Context, pool *pgxpool.Pool, table, idColumn string, updates []embedding.VectorUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // コミット済みなら no-op

	query := fmt.Sprintf(`UPDATE %s SET embedding = $1 WHERE %s = $2`, table, idColumn)

	batch := &pgx.Batch{}
	for _, update := range updates {
		batch.Queue(query, pgvector.NewVector(update.Vector), update.ID)
	}

	results := tx.SendBatch(ctx, batch)
	for range updates {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to update %s embedding: %w", table, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit embeddings: %w", err)
	}

	return nil
}

// vectorStats は件数・埋め込み保有数・平均次元を集計する
func vectorStats(ctx context.Context, pool *pgxpool.Pool, table string) (*embedding.VectorStats, error) {
	query := fmt.Sprintf(
		`SELECT COUNT(*), COUNT(embedding), COALESCE(AVG(vector_dims(embedding)), 0) FROM %s`,
		table,
	)

	stats := &embedding.VectorStats{}
	err := pool.QueryRow(ctx, query).Scan(&stats.Total, &stats.WithVector, &stats.AvgDimension)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s vector stats: %w", table, err)
	}

	return stats, nil
}

// sampleVectors は埋め込みを持つ行のサンプルを識別子昇順で返す
func sampleVectors(ctx context.Context, pool *pgxpool.Pool, table, idColumn string, limit int) ([]embedding.VectorSample, error) {
	query := fmt.Sprintf(
		`SELECT %s, vector_dims(embedding) FROM %s WHERE embedding IS NOT NULL ORDER BY %s LIMIT $1`,
		idColumn, table, idColumn,
	)

	rows, err := pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample %s vectors: %w", table, err)
	}
	defer rows.Close()

	var samples []embedding.VectorSample
	for rows.Next() {
		var sample embedding.VectorSample
		if err := rows.Scan(&sample.ID, &sample.Dimension); err != nil {
			return nil, fmt.Errorf("failed to scan %s sample row: %w", table, err)
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s sample rows: %w", table, err)
	}

	return samples, nil
}
