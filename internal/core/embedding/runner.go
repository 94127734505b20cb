package embedding

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultCheckpointSize はチェックポイント（トランザクション確定）間隔の既定値
const DefaultCheckpointSize = 100

// Entity は埋め込み対象エンティティの共通インターフェース
type Entity interface {
	EntityID() int64
}

// VectorUpdate は1エンティティ分の書き戻し内容
type VectorUpdate struct {
	ID     int64
	Vector []float32
}

// EntityStore は1種類のエンティティの読み書きを提供する。
// List は識別子の昇順で全件を返し、FlushEmbeddings は渡されたバッチを
// 単一トランザクションで永続化しなければならない。
type EntityStore[E Entity] interface {
	List(ctx context.Context) ([]E, error)
	FlushEmbeddings(ctx context.Context, updates []VectorUpdate) error
}

// EntityEmbedder はエンティティ1件を埋め込みベクトルに変換する
type EntityEmbedder[E Entity] interface {
	Embed(ctx context.Context, entity E) ([]float32, error)
}

// Failure はスキップされたエンティティとその理由
type Failure struct {
	ID  int64
	Err error
}

// RunStats は1回のバッチ実行の結果集計。Failures は実行中のみ保持され、
// 永続化されない。
type RunStats struct {
	Kind      string
	Total     int
	Succeeded int
	Failed    int
	Failures  []Failure
}

// Runner は1種類のエンティティ全件を逐次処理するバッチ実行器。
// 1件の失敗は記録して処理を継続し、チェックポイントごとに書き込みを
// トランザクションで確定する。実行内での再試行は行わない。
type Runner[E Entity] struct {
	kind           string
	store          EntityStore[E]
	embedder       EntityEmbedder[E]
	checkpointSize int
	logger         *slog.Logger
}

// NewRunner は新しい Runner を作成する。checkpointSize が 0 以下の場合は
// 既定値が使われる。
func NewRunner[E Entity](kind string, store EntityStore[E], embedder EntityEmbedder[E], checkpointSize int, logger *slog.Logger) *Runner[E] {
	if checkpointSize <= 0 {
		checkpointSize = DefaultCheckpointSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner[E]{
		kind:           kind,
		store:          store,
		embedder:       embedder,
		checkpointSize: checkpointSize,
		logger:         logger,
	}
}

// Run は全エンティティを処理して結果集計を返す。
// 全件取得の失敗のみが致命的エラーとなり、それ以外の失敗はすべて
// エンティティ単位で隔離される。出力は現在の入力のみの関数なので
// 再実行は冪等。
func (r *Runner[E]) Run(ctx context.Context) (*RunStats, error) {
	entities, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s entities: %w", r.kind, err)
	}

	r.logger.Info("embedding run started", "kind", r.kind, "total", len(entities))

	stats := &RunStats{Kind: r.kind, Total: len(entities)}
	pending := make([]VectorUpdate, 0, r.checkpointSize)

	for i, entity := range entities {
		vector, err := r.embedder.Embed(ctx, entity)
		if err != nil {
			r.recordFailure(stats, entity.EntityID(), err)
		} else {
			pending = append(pending, VectorUpdate{ID: entity.EntityID(), Vector: vector})
		}

		if (i+1)%r.checkpointSize == 0 {
			pending = r.flush(ctx, stats, pending)
			r.logger.Info("checkpoint committed", "kind", r.kind, "processed", i+1, "total", len(entities))
		}
	}

	r.flush(ctx, stats, pending)

	r.logger.Info("embedding run finished",
		"kind", r.kind,
		"total", stats.Total,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
	)

	return stats, nil
}

// flush は蓄積した書き込みを確定する。失敗した場合はそのチャンクの
// エンティティを失敗として記録し、実行は継続する。
func (r *Runner[E]) flush(ctx context.Context, stats *RunStats, pending []VectorUpdate) []VectorUpdate {
	if len(pending) == 0 {
		return pending
	}

	if err := r.store.FlushEmbeddings(ctx, pending); err != nil {
		for _, update := range pending {
			r.recordFailure(stats, update.ID, fmt.Errorf("failed to persist embedding: %w", err))
		}
	} else {
		stats.Succeeded += len(pending)
	}

	return pending[:0]
}

func (r *Runner[E]) recordFailure(stats *RunStats, id int64, err error) {
	stats.Failed++
	stats.Failures = append(stats.Failures, Failure{ID: id, Err: err})
	r.logger.Warn("entity skipped", "kind", r.kind, "id", id, "error", err)
}
