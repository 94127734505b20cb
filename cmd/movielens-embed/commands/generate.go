package commands

import (
	"context"
	"fmt"

	"github.com/jinford/movielens-embed/internal/core/embedding"
	"github.com/jinford/movielens-embed/internal/infra/openai"
	"github.com/jinford/movielens-embed/internal/infra/postgres"
	"github.com/urfave/cli/v3"
)

// GenerateAction は映画・ユーザー全件の埋め込みを生成し、
// 最後に永続化結果を検証するコマンドのアクション
func GenerateAction(ctx context.Context, cmd *cli.Command) error {
	connString, err := connStringArg(cmd)
	if err != nil {
		return err
	}

	// 共通コンテキストの初期化（接続失敗はここで致命的エラーになる）
	appCtx, err := NewAppContext(ctx, cmd.String("env"), connString)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	cfg := appCtx.Config
	log := appCtx.Logger
	pool := appCtx.Database.Pool

	// 前提テーブルの確認（欠けていれば何も処理せずに終了する）
	if err := postgres.CheckRequiredTables(ctx, pool); err != nil {
		return err
	}

	encoder := openai.NewEmbedder(cfg.OpenAI.APIKey,
		openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
		openai.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
	)

	// 映画の埋め込み生成
	movieRepo := postgres.NewMovieRepository(pool)
	movieEmbedder := embedding.NewMovieEmbedder(encoder, cfg.Embedding.TextDimension, cfg.Embedding.Dimension)
	movieRunner := embedding.NewRunner("movie", movieRepo, movieEmbedder, cfg.Embedding.CheckpointSize, log)
	movieStats, err := movieRunner.Run(ctx)
	if err != nil {
		return fmt.Errorf("movie embedding run failed: %w", err)
	}

	// ユーザーの埋め込み生成（職業カテゴリの全集合を先に取得する）
	userRepo := postgres.NewUserRepository(pool)
	occupations, err := userRepo.ListOccupations(ctx)
	if err != nil {
		return fmt.Errorf("failed to build occupation universe: %w", err)
	}
	userEmbedder := embedding.NewUserEmbedder(embedding.NewOrdinalEncoder(occupations), cfg.Embedding.Dimension)
	userRunner := embedding.NewRunner("user", userRepo, userEmbedder, cfg.Embedding.CheckpointSize, log)
	userStats, err := userRunner.Run(ctx)
	if err != nil {
		return fmt.Errorf("user embedding run failed: %w", err)
	}

	// 事後検証
	verifier := embedding.NewVerifier([]embedding.VerifyTarget{
		{Kind: "movie", Store: movieRepo},
		{Kind: "user", Store: userRepo},
	}, cfg.Embedding.Dimension, log)
	report, err := verifier.Verify(ctx)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	log.Info("embedding generation completed",
		"movies_succeeded", movieStats.Succeeded,
		"movies_failed", movieStats.Failed,
		"users_succeeded", userStats.Succeeded,
		"users_failed", userStats.Failed,
		"verification_ok", report.OK(),
	)

	return nil
}
