package models

// NumGenres は MovieLens データセットのジャンル数
const NumGenres = 18

// GenreNames はジャンルの表示名。映画テーブルのフラグ列と同じ順序で、
// 埋め込み入力テキストとベクトルのレイアウトの両方がこの順序に依存する。
var GenreNames = []string{
	"action", "adventure", "animation", "children", "comedy", "crime",
	"documentary", "drama", "fantasy", "film noir", "horror", "musical",
	"mystery", "romance", "sci-fi", "thriller", "war", "western",
}

// GenreColumns は movies テーブルのジャンルフラグ列名（GenreNames と同順）
var GenreColumns = []string{
	"genre_action", "genre_adventure", "genre_animation", "genre_children",
	"genre_comedy", "genre_crime", "genre_documentary", "genre_drama",
	"genre_fantasy", "genre_film_noir", "genre_horror", "genre_musical",
	"genre_mystery", "genre_romance", "genre_sci_fi", "genre_thriller",
	"genre_war", "genre_western",
}
