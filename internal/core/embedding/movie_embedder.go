package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinford/movielens-embed/pkg/models"
)

const (
	// DefaultDimension は最終的な埋め込みベクトルの次元数
	DefaultDimension = 128
	// DefaultTextDimension はテキスト由来グループに割り当てる次元数
	DefaultTextDimension = 110
	// fallbackGenreText はジャンルフラグが1つも立っていない映画の代替テキスト
	fallbackGenreText = "general"
)

// MovieEmbedder はタイトルとジャンルから映画の埋め込みベクトルを構築する。
// テキストエンコーダの呼び出し以外の I/O は行わない。
type MovieEmbedder struct {
	encoder TextEncoder
	textDim int
	dim     int
}

// NewMovieEmbedder は新しい MovieEmbedder を作成する
func NewMovieEmbedder(encoder TextEncoder, textDim, dim int) *MovieEmbedder {
	return &MovieEmbedder{
		encoder: encoder,
		textDim: textDim,
		dim:     dim,
	}
}

// Embed はタイトル＋有効ジャンル名のテキスト埋め込み（長さ textDim に整形）と
// ジャンルフラグの 0/1 ベクトルを融合した単位ノルムベクトルを返す。
// エンコーダのエラーはそのままこの映画単体の失敗として返す。
func (e *MovieEmbedder) Embed(ctx context.Context, movie models.Movie) ([]float32, error) {
	text := fmt.Sprintf("%s %s", movie.Title, genreText(movie))

	textVector, err := e.encoder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode movie text: %w", err)
	}

	flags := make([]float32, len(movie.Genres))
	for i, active := range movie.Genres {
		if active {
			flags[i] = 1
		}
	}

	return Fuse([]FeatureGroup{
		{Name: "text-semantic", Values: Resize(textVector, e.textDim)},
		{Name: "genre-flags", Values: flags},
	}, e.dim), nil
}

// genreText は有効ジャンルの表示名を空白区切りで連結する
func genreText(movie models.Movie) string {
	active := movie.ActiveGenres()
	if len(active) == 0 {
		return fallbackGenreText
	}
	return strings.Join(active, " ")
}

// インターフェース実装の確認
var _ EntityEmbedder[models.Movie] = (*MovieEmbedder)(nil)
