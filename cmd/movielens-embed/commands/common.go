package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/movielens-embed/internal/platform/logger"
	"github.com/jinford/movielens-embed/pkg/config"
	"github.com/jinford/movielens-embed/pkg/db"
	"github.com/urfave/cli/v3"
)

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config   *config.Config
	Database *db.DB
	Logger   *slog.Logger
}

// NewAppContext は設定を読み込み、位置引数の接続文字列でDBに接続して
// AppContext を作成する。接続失敗は致命的エラーとなる。
func NewAppContext(ctx context.Context, envFile, connString string) (*AppContext, error) {
	// 設定の読み込み
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// ロガーの初期化
	appLogger := logger.New(logger.DefaultConfig())

	// データベース接続
	database, err := db.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &AppContext{
		Config:   cfg,
		Database: database,
		Logger:   appLogger,
	}, nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	if ac.Database != nil {
		ac.Database.Close()
	}
}

// connStringArg は位置引数の接続文字列を取り出す。欠けている場合は
// 使用方法つきの非ゼロ終了エラーを返す。
func connStringArg(cmd *cli.Command) (string, error) {
	connString := cmd.Args().First()
	if connString == "" {
		return "", cli.Exit(fmt.Sprintf("usage: movielens-embed %s <connection-string>", cmd.Name), 1)
	}
	return connString, nil
}
