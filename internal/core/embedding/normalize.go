package embedding

import "sort"

// 評価値は 1〜5 のスケール。欠損時は中立値 2.5 を補完してからスケールする。
const (
	ratingMin     = 1.0
	ratingMax     = 5.0
	neutralRating = 2.5
)

// ScaleRange は既知レンジ [min, max] の値を [0, 1] に線形変換する。
// 値が欠損している場合は中点 0.5 を返す。レンジ外の値は 0/1 に丸める。
func ScaleRange(value *float64, min, max float64) float32 {
	if value == nil {
		return 0.5
	}
	return clamp01((*value - min) / (max - min))
}

// ScaleCapped は上限 cap で頭打ちにした比率 min(value/cap, 1) を返す。
// 値が欠損している場合は 0 を返す。
func ScaleCapped(value *float64, cap float64) float32 {
	if value == nil {
		return 0
	}
	return clamp01(*value / cap)
}

// ScaleRating は 1〜5 の評価値を (value-1)/4 で [0, 1] に変換する。
// 値が欠損している場合は中立値 2.5 を補完する（結果は 0.375）。
func ScaleRating(value *float64) float32 {
	v := neutralRating
	if value != nil {
		v = *value
	}
	return clamp01((v - ratingMin) / (ratingMax - ratingMin))
}

// BinaryFlag は値が positive と一致する場合のみ 1 を返す。
// 欠損やそれ以外の値はすべて 0。
func BinaryFlag(value *string, positive string) float32 {
	if value != nil && *value == positive {
		return 1
	}
	return 0
}

// OrdinalEncoder はカテゴリ値を安定した順序ランクに基づく [0, 1) の値へ変換する。
// 観測されたカテゴリ全体をソートしてランクを割り当てるため、同じ入力集合からは
// 常に同じエンコード結果が得られる。
type OrdinalEncoder struct {
	ranks map[string]int
	size  int
}

// NewOrdinalEncoder は観測されたカテゴリ集合からエンコーダを構築する
func NewOrdinalEncoder(universe []string) *OrdinalEncoder {
	sorted := make([]string, len(universe))
	copy(sorted, universe)
	sort.Strings(sorted)

	ranks := make(map[string]int, len(sorted))
	for i, category := range sorted {
		ranks[category] = i
	}

	return &OrdinalEncoder{ranks: ranks, size: len(sorted)}
}

// Encode はカテゴリのランクを集合サイズで割った値を返す。
// 欠損または未知のカテゴリは 0。
func (e *OrdinalEncoder) Encode(value *string) float32 {
	if value == nil || e.size == 0 {
		return 0
	}
	rank, ok := e.ranks[*value]
	if !ok {
		return 0
	}
	return float32(rank) / float32(e.size)
}

// Size はカテゴリ集合のサイズを返す
func (e *OrdinalEncoder) Size() int {
	return e.size
}

func clamp01(v float64) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return float32(v)
}
