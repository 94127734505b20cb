package embedding

import (
	"context"

	"github.com/jinford/movielens-embed/pkg/models"
)

// ユーザー特徴量の正規化パラメータ（MovieLens データセットの統計に基づく）
const (
	ageMin         = 18.0
	ageMax         = 73.0
	ratingCountCap = 100.0
	ratingStdCap   = 2.0
	genderPositive = "M"
)

// UserEmbedder は人口統計・評価行動・ジャンル嗜好からユーザーの
// 埋め込みベクトルを構築する。現在の属性値のみに依存する純粋関数で、
// I/O は一切行わない。
type UserEmbedder struct {
	occupations *OrdinalEncoder
	dim         int
}

// NewUserEmbedder は職業カテゴリのエンコーダを受け取って UserEmbedder を作成する
func NewUserEmbedder(occupations *OrdinalEncoder, dim int) *UserEmbedder {
	return &UserEmbedder{
		occupations: occupations,
		dim:         dim,
	}
}

// Embed は [人口統計(3), 評価行動(3), ジャンル嗜好(18)] の24値を融合した
// 単位ノルムベクトルを返す。残りの次元は正規化前にゼロ埋めされる。
func (e *UserEmbedder) Embed(_ context.Context, user models.User) ([]float32, error) {
	demographic := []float32{
		ScaleRange(user.Age, ageMin, ageMax),
		BinaryFlag(user.Gender, genderPositive),
		e.occupations.Encode(user.Occupation),
	}

	numRatings := float64(user.NumRatings)
	behavior := []float32{
		ScaleCapped(&numRatings, ratingCountCap),
		ScaleRating(user.AvgRating),
		ScaleCapped(user.RatingStddev, ratingStdCap),
	}

	preference := make([]float32, models.NumGenres)
	for i := range preference {
		var pref *float64
		if i < len(user.GenrePrefs) {
			pref = user.GenrePrefs[i]
		}
		preference[i] = ScaleRating(pref)
	}

	return Fuse([]FeatureGroup{
		{Name: "demographic", Values: demographic},
		{Name: "behavior", Values: behavior},
		{Name: "genre-preference", Values: preference},
	}, e.dim), nil
}

// インターフェース実装の確認
var _ EntityEmbedder[models.User] = (*UserEmbedder)(nil)
