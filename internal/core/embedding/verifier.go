package embedding

import (
	"context"
	"fmt"
	"log/slog"
)

// sampleLimit は目視確認用サンプルの件数
const sampleLimit = 3

// VectorStats は永続化された埋め込みの集計値
type VectorStats struct {
	Total        int64
	WithVector   int64
	AvgDimension float64
}

// VectorSample は目視確認用のサンプル行
type VectorSample struct {
	ID        int64
	Dimension int
}

// StatsStore は検証用の読み取り専用アクセスを提供する
type StatsStore interface {
	VectorStats(ctx context.Context) (*VectorStats, error)
	SampleVectors(ctx context.Context, limit int) ([]VectorSample, error)
}

// VerifyTarget は検証対象のエンティティ種別とそのストア
type VerifyTarget struct {
	Kind  string
	Store StatsStore
}

// KindReport は1種別分の検証結果
type KindReport struct {
	Kind          string
	Stats         VectorStats
	Samples       []VectorSample
	Discrepancies []string
}

// Report は検証全体の結果
type Report struct {
	Kinds []KindReport
}

// OK はすべての種別で次元の不整合が検出されなかった場合に true を返す
func (r *Report) OK() bool {
	for _, k := range r.Kinds {
		if len(k.Discrepancies) > 0 {
			return false
		}
	}
	return true
}

// Verifier は永続化された埋め込みの事後検証を行う。読み取り専用で、
// データを一切変更しない。
type Verifier struct {
	targets []VerifyTarget
	dim     int
	logger  *slog.Logger
}

// NewVerifier は新しい Verifier を作成する
func NewVerifier(targets []VerifyTarget, dim int, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{targets: targets, dim: dim, logger: logger}
}

// Verify は種別ごとに件数・ベクトル保有数・平均次元・サンプルを収集し、
// 期待次元からの逸脱を不整合として報告する
func (v *Verifier) Verify(ctx context.Context) (*Report, error) {
	report := &Report{}

	for _, target := range v.targets {
		stats, err := target.Store.VectorStats(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to collect %s vector stats: %w", target.Kind, err)
		}

		samples, err := target.Store.SampleVectors(ctx, sampleLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to sample %s vectors: %w", target.Kind, err)
		}

		kindReport := KindReport{Kind: target.Kind, Stats: *stats, Samples: samples}

		if stats.WithVector > 0 && stats.AvgDimension != float64(v.dim) {
			kindReport.Discrepancies = append(kindReport.Discrepancies,
				fmt.Sprintf("average dimension %.2f differs from expected %d", stats.AvgDimension, v.dim))
		}
		for _, sample := range samples {
			if sample.Dimension != v.dim {
				kindReport.Discrepancies = append(kindReport.Discrepancies,
					fmt.Sprintf("entity %d has dimension %d, expected %d", sample.ID, sample.Dimension, v.dim))
			}
		}

		v.logger.Info("verification result",
			"kind", target.Kind,
			"total", stats.Total,
			"with_vector", stats.WithVector,
			"avg_dimension", stats.AvgDimension,
			"discrepancies", len(kindReport.Discrepancies),
		)
		for _, sample := range samples {
			v.logger.Info("sample vector", "kind", target.Kind, "id", sample.ID, "dimension", sample.Dimension)
		}

		report.Kinds = append(report.Kinds, kindReport)
	}

	return report, nil
}
