package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します。
// ストア接続文字列は設定ではなくコマンドラインの位置引数で渡される。
type Config struct {
	// OpenAI設定（Embeddings用）
	OpenAI OpenAIConfig

	// 埋め込みパイプライン設定
	Embedding EmbeddingConfig
}

// OpenAIConfig はOpenAI API設定
type OpenAIConfig struct {
	APIKey             string
	EmbeddingModel     string
	EmbeddingDimension int
}

// EmbeddingConfig は埋め込みベクトルのレイアウトとチェックポイント設定
type EmbeddingConfig struct {
	// Dimension は最終ベクトルの次元数 L
	Dimension int
	// TextDimension はテキスト由来グループに割り当てる次元数 T
	TextDimension int
	// CheckpointSize はトランザクション確定間隔（エンティティ数）
	CheckpointSize int
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSION", 384),
		},
		Embedding: EmbeddingConfig{
			Dimension:      getEnvAsInt("EMBED_DIMENSION", 128),
			TextDimension:  getEnvAsInt("EMBED_TEXT_DIMENSION", 110),
			CheckpointSize: getEnvAsInt("EMBED_CHECKPOINT_SIZE", 100),
		},
	}

	return cfg, nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
