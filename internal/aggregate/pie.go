// Package aggregate はレコードをグラフ描画用の系列に整形する。
//
// 円グラフはカテゴリごとの値と構成比、積み上げ棒グラフは曜日ごとに
// 7つの時間帯を固定順で積み上げた区間 [start, end] を持つ。
package aggregate

import (
	"math"

	"github.com/samber/lo"

	"github.com/y-hirakaw/accident-charts/internal/dataset"
)

// PieSlice は円グラフの1扇形
type PieSlice struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
}

// PieSeries は円グラフの集計結果
type PieSeries struct {
	Total  float64    `json:"total"`
	Slices []PieSlice `json:"slices"`
}

// Empty は合計が0で描画できる扇形がないことを返す
func (s PieSeries) Empty() bool {
	return s.Total <= 0
}

// BuildPie は入力順を保ったまま構成比と角度を計算する。
// 合計が0の場合は構成比・角度ともに0になる
func BuildPie(records []dataset.PieRecord) PieSeries {
	total := lo.SumBy(records, func(r dataset.PieRecord) float64 { return r.Value })

	series := PieSeries{Total: total, Slices: make([]PieSlice, 0, len(records))}
	var cumulative float64
	for _, r := range records {
		slice := PieSlice{
			Label:      r.Key,
			Value:      r.Value,
			Percentage: Percentage(r.Value, total),
		}
		if total > 0 {
			slice.StartAngle = cumulative / total * 2 * math.Pi
			cumulative += r.Value
			slice.EndAngle = cumulative / total * 2 * math.Pi
		}
		series.Slices = append(series.Slices, slice)
	}
	return series
}

// Percentage は value/total を百分率で小数第1位に丸める。total が0なら0
func Percentage(value, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(value/total*1000) / 10
}
