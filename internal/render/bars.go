package render

import (
	"io"
	"strconv"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/y-hirakaw/accident-charts/internal/aggregate"
	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/metrics"
)

const (
	DefaultBarsWidth  = 600
	DefaultBarsHeight = 450

	marginTop    = 60
	marginRight  = 100
	marginBottom = 50
	marginLeft   = 50

	bandPadding  = 0.1
	legendSwatch = 18
	legendStep   = 20
	tickSize     = 6
)

// plot は積み上げ棒グラフの描画領域と縦軸
type plot struct {
	left, top, width, height int
	yMax                     float64
}

func (p plot) y(v float64) int {
	return p.top + p.height - int(v/p.yMax*float64(p.height)+0.5)
}

func (p plot) bottom() int { return p.top + p.height }
func (p plot) right() int  { return p.left + p.width }

// StackedBars は曜日ごとの積み上げ棒グラフを描画する。
// 時間帯は早朝を一番下にして積み上げ、凡例は右側に置く
func StackedBars(rc Context, w io.Writer, series aggregate.StackedSeries) error {
	err := metrics.ObserveRender(string(ChartAccidents), string(rc.Format), func() error {
		return renderStackedBars(rc, w, series)
	})
	if err != nil {
		return apperrors.RenderFailed(string(ChartAccidents), err)
	}
	return nil
}

func renderStackedBars(rc Context, w io.Writer, series aggregate.StackedSeries) error {
	font, err := rc.font()
	if err != nil {
		return err
	}
	width, height := rc.size(DefaultBarsWidth, DefaultBarsHeight)

	r, err := rc.Format.provider()(width, height)
	if err != nil {
		return err
	}
	r.SetDPI(chart.DefaultDPI)

	yMax := NiceMax(float64(series.Max()))
	if yMax == 0 {
		yMax = 1
	}
	p := plot{
		left:   marginLeft,
		top:    marginTop,
		width:  max(width-marginLeft-marginRight, 1),
		height: max(height-marginTop-marginBottom, 1),
		yMax:   yMax,
	}

	chart.Draw.Box(r, chart.Box{Right: width, Bottom: height}, chart.Style{FillColor: chart.ColorWhite})

	x := newBand(len(series.Days), float64(p.width), bandPadding)
	drawBars(r, p, x, series)
	drawYAxis(rc, r, p, font)
	drawXAxis(rc, r, p, x, series, font)
	drawCaptions(rc, r, p, width, font)
	drawLegend(rc, r, p, series.Buckets, font)

	return r.Save(w)
}

func drawBars(r chart.Renderer, p plot, x band, series aggregate.StackedSeries) {
	for i, layer := range series.Layers() {
		style := chart.Style{FillColor: BucketColor(i)}
		for j, seg := range layer.Segments {
			// 高さ0の区間も系列上は存在するが、描く面積はない
			if seg.Height() == 0 {
				continue
			}
			left := p.left + int(x.at(j)+0.5)
			chart.Draw.Box(r, chart.Box{
				Top:    p.y(float64(seg.End)),
				Left:   left,
				Right:  left + int(x.bandwidth+0.5),
				Bottom: p.y(float64(seg.Start)),
			}, style)
		}
	}
}

func axisStyle() chart.Style {
	return chart.Style{StrokeColor: axisColor, StrokeWidth: 1}
}

func line(r chart.Renderer, x1, y1, x2, y2 int) {
	axisStyle().WriteDrawingOptionsToRenderer(r)
	defer r.ResetStyle()
	r.MoveTo(x1, y1)
	r.LineTo(x2, y2)
	r.Stroke()
}

func labelStyle(font *truetype.Font, size float64) chart.Style {
	return chart.Style{Font: font, FontSize: size, FontColor: textColor}
}

func drawYAxis(rc Context, r chart.Renderer, p plot, font *truetype.Font) {
	line(r, p.left, p.top, p.left, p.bottom())

	style := labelStyle(font, 8)
	for _, t := range Ticks(p.yMax, defaultTickCount) {
		y := p.y(t)
		line(r, p.left-tickSize, y, p.left, y)

		label := strconv.FormatFloat(t, 'f', -1, 64)
		box := chart.Draw.MeasureText(r, label, style)
		chart.Draw.Text(r, rc.text(label), p.left-tickSize-3-box.Width(), y+box.Height()/2, style)
	}
}

func drawXAxis(rc Context, r chart.Renderer, p plot, x band, series aggregate.StackedSeries, font *truetype.Font) {
	line(r, p.left, p.bottom(), p.right(), p.bottom())

	style := labelStyle(font, 9)
	for i, d := range series.Days {
		center := p.left + int(x.at(i)+x.bandwidth/2+0.5)
		line(r, center, p.bottom(), center, p.bottom()+tickSize)

		label := WeekdayLabel(rc, d.Day)
		box := chart.Draw.MeasureText(r, label, style)
		chart.Draw.Text(r, rc.text(label), center-box.Width()/2, p.bottom()+tickSize+3+box.Height(), style)
	}
}

func drawCaptions(rc Context, r chart.Renderer, p plot, width int, font *truetype.Font) {
	title := rc.title("accident_chart_title")
	titleStyle := labelStyle(font, 12)
	box := chart.Draw.MeasureText(r, title, titleStyle)
	chart.Draw.Text(r, rc.text(title), p.left+p.width/2-box.Width()/2, p.top-marginTop/2, titleStyle)

	captionStyle := labelStyle(font, 10)
	xCaption := rc.T("axis_day")
	box = chart.Draw.MeasureText(r, xCaption, captionStyle)
	chart.Draw.Text(r, rc.text(xCaption), p.left+p.width/2-box.Width()/2, p.bottom()+marginBottom-6, captionStyle)

	yCaption := rc.T("axis_count")
	box = chart.Draw.MeasureText(r, yCaption, captionStyle)
	rotated := captionStyle
	rotated.TextRotationDegrees = -90
	chart.Draw.Text(r, rc.text(yCaption), 14, p.top+p.height/2+box.Width()/2, rotated)
}

func drawLegend(rc Context, r chart.Renderer, p plot, buckets []string, font *truetype.Font) {
	style := labelStyle(font, 9)
	left := p.right() + 20
	for i, b := range buckets {
		top := p.top + i*legendStep
		chart.Draw.Box(r, chart.Box{
			Top:    top,
			Left:   left,
			Right:  left + legendSwatch,
			Bottom: top + legendSwatch,
		}, chart.Style{FillColor: BucketColor(i)})

		label := BucketLabel(rc, b)
		box := chart.Draw.MeasureText(r, label, style)
		chart.Draw.Text(r, rc.text(label), left+legendSwatch+6, top+legendSwatch/2+box.Height()/2, style)
	}
}

// WeekdayLabel は曜日番号 (1=日曜) の表示名を返す
func WeekdayLabel(rc Context, day int) string {
	if day < 1 || day > 7 {
		return strconv.Itoa(day)
	}
	return rc.T("weekday_" + strconv.Itoa(day))
}

// BucketLabel は時間帯の表示名を返す
func BucketLabel(rc Context, bucket string) string {
	return rc.T("bucket_" + bucket)
}
