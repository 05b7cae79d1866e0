package aggregate

import (
	"github.com/samber/lo"

	"github.com/y-hirakaw/accident-charts/internal/dataset"
)

// Segment は積み上げ棒の1区間
type Segment struct {
	Day    int    `json:"day"`
	Bucket string `json:"bucket"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Height は区間の高さ (件数)
func (s Segment) Height() int {
	return s.End - s.Start
}

// DayStack は1曜日分の積み上げ
type DayStack struct {
	Day      int            `json:"day"`
	Counts   map[string]int `json:"counts"`
	Segments []Segment      `json:"segments"`
	Total    int            `json:"total"`
}

// Layer は1時間帯分の区間を曜日順に並べたもの
type Layer struct {
	Bucket   string    `json:"bucket"`
	Segments []Segment `json:"segments"`
}

// StackedSeries は積み上げ棒グラフの集計結果
type StackedSeries struct {
	Buckets []string   `json:"buckets"`
	Days    []DayStack `json:"days"`
}

// BuildStack は曜日ごとに時間帯別件数をまとめ、固定順に積み上げる。
// 曜日は入力に初めて現れた順に並ぶ。同じ曜日・時間帯のレコードは後のものが
// 前のものを上書きし、未知の時間帯は無視する
func BuildStack(records []dataset.AccidentRecord) StackedSeries {
	days := lo.Uniq(lo.Map(records, func(r dataset.AccidentRecord, _ int) int { return r.Day }))
	byDay := lo.GroupBy(records, func(r dataset.AccidentRecord) int { return r.Day })

	series := StackedSeries{
		Buckets: append([]string(nil), dataset.Buckets...),
		Days:    make([]DayStack, 0, len(days)),
	}
	for _, day := range days {
		series.Days = append(series.Days, stackDay(day, byDay[day]))
	}
	return series
}

func stackDay(day int, records []dataset.AccidentRecord) DayStack {
	counts := make(map[string]int, len(dataset.Buckets))
	for _, b := range dataset.Buckets {
		counts[b] = 0
	}
	for _, r := range records {
		if _, ok := counts[r.Time]; ok {
			counts[r.Time] = r.Count
		}
	}

	stack := DayStack{Day: day, Counts: counts, Segments: make([]Segment, 0, len(dataset.Buckets))}
	for _, b := range dataset.Buckets {
		start := stack.Total
		stack.Total += counts[b]
		stack.Segments = append(stack.Segments, Segment{Day: day, Bucket: b, Start: start, End: stack.Total})
	}
	return stack
}

// Layers は時間帯ごとの系列に並べ替えたビューを返す
func (s StackedSeries) Layers() []Layer {
	layers := make([]Layer, len(s.Buckets))
	for i, b := range s.Buckets {
		layers[i] = Layer{Bucket: b, Segments: make([]Segment, 0, len(s.Days))}
	}
	for _, d := range s.Days {
		for i, seg := range d.Segments {
			layers[i].Segments = append(layers[i].Segments, seg)
		}
	}
	return layers
}

// Max は積み上げの最大値 (縦軸の上限) を返す
func (s StackedSeries) Max() int {
	return lo.Reduce(s.Days, func(acc int, d DayStack, _ int) int {
		return max(acc, d.Total)
	}, 0)
}

// Day は指定した曜日の積み上げを返す
func (s StackedSeries) Day(day int) (DayStack, bool) {
	return lo.Find(s.Days, func(d DayStack) bool { return d.Day == day })
}

// Segment は曜日・時間帯の区間を返す
func (d DayStack) Segment(bucket string) (Segment, bool) {
	return lo.Find(d.Segments, func(s Segment) bool { return s.Bucket == bucket })
}
