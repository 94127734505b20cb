package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jinford/movielens-embed/cmd/movielens-embed/commands"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "movielens-embed",
		Usage: "MovieLens の映画・ユーザーの類似検索用埋め込みベクトルを生成する",
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "全エンティティの埋め込みを生成してデータベースに書き戻す",
				ArgsUsage: "<connection-string>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
				},
				Action: commands.GenerateAction,
			},
			{
				Name:      "verify",
				Usage:     "永続化された埋め込みを検証する（読み取り専用）",
				ArgsUsage: "<connection-string>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
				},
				Action: commands.VerifyAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
