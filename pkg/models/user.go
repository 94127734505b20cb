package models

// User は users テーブルの1行に評価集計を加えたものを表します。
// nil のフィールドは「値なし」を意味し、正規化時に既定値へ置換される。
type User struct {
	ID           int64
	Age          *float64
	Gender       *string
	Occupation   *string
	NumRatings   int64
	AvgRating    *float64 // 評価が1件もないユーザーは nil
	RatingStddev *float64 // 評価が1件のユーザーも nil（STDDEV は NULL を返す）

	// GenrePrefs はジャンル別の平均評価（GenreNames と同順、長さ NumGenres）。
	// そのジャンルの映画を評価していない場合は nil。
	GenrePrefs []*float64
}

// EntityID はエンティティ識別子を返す
func (u User) EntityID() int64 {
	return u.ID
}
