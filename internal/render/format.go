package render

import (
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"

	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
)

// Format は出力画像の形式
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat は形式名を解釈する。空文字列は SVG
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	}
	return "", apperrors.InvalidFormat(s)
}

// ContentType はHTTPレスポンス用のMIMEタイプ
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Extension はファイル拡張子 (ドット付き)
func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

// Chart はグラフの種類
type Chart string

const (
	ChartPie       Chart = "pie"
	ChartAccidents Chart = "accidents"
)

// Charts は描画できるグラフの一覧
var Charts = []Chart{ChartPie, ChartAccidents}

// ParseChart はグラフ名を解釈する
func ParseChart(s string) (Chart, error) {
	switch Chart(strings.ToLower(strings.TrimSpace(s))) {
	case ChartPie:
		return ChartPie, nil
	case ChartAccidents, "bar", "stack":
		return ChartAccidents, nil
	}
	return "", apperrors.UnknownChart(s)
}
