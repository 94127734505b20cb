package embedding

import "math"

// FeatureGroup は1種類の属性から得られる固定長の特徴量サブベクトル
type FeatureGroup struct {
	Name   string
	Values []float32
}

// Resize はベクトルを長さ n に揃える。長い場合は先頭 n 要素への切り詰め、
// 短い場合は末尾へのゼロ埋め。切り詰めで失われる要素は黙って捨てられる。
func Resize(values []float32, n int) []float32 {
	resized := make([]float32, n)
	copy(resized, values)
	return resized
}

// Fuse は特徴量グループを宣言順に連結し、長さ target に揃えたうえで
// ユークリッドノルムで正規化したベクトルを返す。ノルムが 0 の場合は
// ゼロベクトルのまま返す。入力によらず失敗しない全域関数。
func Fuse(groups []FeatureGroup, target int) []float32 {
	total := 0
	for _, g := range groups {
		total += len(g.Values)
	}

	concat := make([]float32, 0, total)
	for _, g := range groups {
		concat = append(concat, g.Values...)
	}

	fused := Resize(concat, target)
	return normalize(fused)
}

// normalize はベクトルを単位ノルムに正規化する（ノルム 0 は無変換）
func normalize(values []float32) []float32 {
	var sum float64
	for _, v := range values {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return values
	}

	for i, v := range values {
		values[i] = float32(float64(v) / norm)
	}
	return values
}
