package render

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// categoryColors はカテゴリ用の10色
	categoryColors = hexColors(
		"1f77b4", "ff7f0e", "2ca02c", "d62728", "9467bd",
		"8c564b", "e377c2", "7f7f7f", "bcbd22", "17becf",
	)

	// bucketColors は時間帯 (早朝から深夜) の色
	bucketColors = hexColors(
		"d73027", "f46d43", "fdae61", "fee08b", "66bd63", "1a9850", "006837",
	)

	noDataColor = drawing.ColorFromHex("cccccc")
	textColor   = drawing.ColorFromHex("333333")
	axisColor   = drawing.ColorFromHex("000000")
)

func hexColors(hexes ...string) []drawing.Color {
	colors := make([]drawing.Color, len(hexes))
	for i, h := range hexes {
		colors[i] = drawing.ColorFromHex(h)
	}
	return colors
}

// palette は go-chart の ColorPalette を固定色で実装する
type palette struct {
	series []drawing.Color
}

var _ chart.ColorPalette = palette{}

func (p palette) BackgroundColor() drawing.Color       { return drawing.ColorWhite }
func (p palette) BackgroundStrokeColor() drawing.Color { return drawing.ColorWhite }
func (p palette) CanvasColor() drawing.Color           { return drawing.ColorWhite }
func (p palette) CanvasStrokeColor() drawing.Color     { return drawing.ColorWhite }
func (p palette) AxisStrokeColor() drawing.Color       { return axisColor }
func (p palette) TextColor() drawing.Color             { return textColor }

func (p palette) GetSeriesColor(index int) drawing.Color {
	if len(p.series) == 0 {
		return noDataColor
	}
	return p.series[index%len(p.series)]
}

// BucketColor は時間帯の色を返す
func BucketColor(index int) drawing.Color {
	return palette{series: bucketColors}.GetSeriesColor(index)
}
