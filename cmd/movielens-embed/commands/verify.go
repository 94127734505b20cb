package commands

import (
	"context"
	"fmt"

	"github.com/jinford/movielens-embed/internal/core/embedding"
	"github.com/jinford/movielens-embed/internal/infra/postgres"
	"github.com/urfave/cli/v3"
)

// VerifyAction は永続化済みの埋め込みを検証するコマンドのアクション。
// データは一切変更しない。
func VerifyAction(ctx context.Context, cmd *cli.Command) error {
	connString, err := connStringArg(cmd)
	if err != nil {
		return err
	}

	appCtx, err := NewAppContext(ctx, cmd.String("env"), connString)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	pool := appCtx.Database.Pool

	if err := postgres.CheckRequiredTables(ctx, pool); err != nil {
		return err
	}

	verifier := embedding.NewVerifier([]embedding.VerifyTarget{
		{Kind: "movie", Store: postgres.NewMovieRepository(pool)},
		{Kind: "user", Store: postgres.NewUserRepository(pool)},
	}, appCtx.Config.Embedding.Dimension, appCtx.Logger)

	report, err := verifier.Verify(ctx)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if !report.OK() {
		return fmt.Errorf("verification found dimension discrepancies")
	}

	return nil
}
