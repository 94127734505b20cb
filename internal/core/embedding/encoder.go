package embedding

import "context"

// TextEncoder はテキストを固定長ベクトルに変換する外部コラボレータのインターフェース
type TextEncoder interface {
	// Embed は単一テキストのEmbeddingを生成する
	Embed(ctx context.Context, text string) ([]float32, error)
}
