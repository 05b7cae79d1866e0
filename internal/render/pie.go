package render

import (
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/y-hirakaw/accident-charts/internal/aggregate"
	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/metrics"
)

const (
	DefaultPieWidth  = 450
	DefaultPieHeight = 400
)

// Pie は円グラフを描画する。扇形は入力順に並び、ラベルは「カテゴリ 構成比%」。
// 合計が0の場合は灰色の「データなし」を1つだけ描く
func Pie(rc Context, w io.Writer, series aggregate.PieSeries) error {
	err := metrics.ObserveRender(string(ChartPie), string(rc.Format), func() error {
		return renderPie(rc, w, series)
	})
	if err != nil {
		return apperrors.RenderFailed(string(ChartPie), err)
	}
	return nil
}

func renderPie(rc Context, w io.Writer, series aggregate.PieSeries) error {
	font, err := rc.font()
	if err != nil {
		return err
	}
	width, height := rc.size(DefaultPieWidth, DefaultPieHeight)

	pc := chart.PieChart{
		Title: rc.text(rc.title("pie_chart_title")),
		TitleStyle: chart.Style{
			FontSize: 14,
		},
		Width:  width,
		Height: height,
		Font:   font,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 10, Right: 10, Bottom: 10},
		},
		ColorPalette: palette{series: categoryColors},
		Values:       pieValues(rc, series),
	}

	if series.Empty() {
		pc.ColorPalette = palette{}
	}
	return pc.Render(rc.Format.provider(), w)
}

func pieValues(rc Context, series aggregate.PieSeries) []chart.Value {
	if series.Empty() {
		return []chart.Value{{Label: rc.text(rc.T("no_data")), Value: 1}}
	}

	values := make([]chart.Value, 0, len(series.Slices))
	for i, s := range series.Slices {
		values = append(values, chart.Value{
			Label: rc.text(strings.TrimSpace(fmt.Sprintf("%s %.1f%%", s.Label, s.Percentage))),
			Value: s.Value,
			Style: chart.Style{
				FillColor:   categoryColors[i%len(categoryColors)],
				StrokeColor: chart.ColorWhite,
				StrokeWidth: 2,
			},
		})
	}
	return values
}
