package models

// Movie は movies テーブルの1行を表します
type Movie struct {
	ID     int64
	Title  string
	Genres []bool // GenreNames と同順のフラグ（長さ NumGenres）
}

// EntityID はエンティティ識別子を返す
func (m Movie) EntityID() int64 {
	return m.ID
}

// ActiveGenres は有効なフラグに対応するジャンル表示名を返します
func (m Movie) ActiveGenres() []string {
	names := make([]string, 0, len(m.Genres))
	for i, active := range m.Genres {
		if active && i < len(GenreNames) {
			names = append(names, GenreNames[i])
		}
	}
	return names
}
