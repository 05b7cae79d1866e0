package aggregate

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y-hirakaw/accident-charts/internal/dataset"
)

func TestBuildPie(t *testing.T) {
	series := BuildPie([]dataset.PieRecord{
		{Key: "A", Value: 1},
		{Key: "B", Value: 2},
		{Key: "C", Value: 1},
	})

	assert.Equal(t, 4.0, series.Total)
	require.Len(t, series.Slices, 3)

	labels := []string{series.Slices[0].Label, series.Slices[1].Label, series.Slices[2].Label}
	assert.Equal(t, []string{"A", "B", "C"}, labels, "入力順が保たれること")

	assert.Equal(t, 25.0, series.Slices[0].Percentage)
	assert.Equal(t, 50.0, series.Slices[1].Percentage)
	assert.InDelta(t, 0, series.Slices[0].StartAngle, 1e-9)
	assert.InDelta(t, math.Pi/2, series.Slices[0].EndAngle, 1e-9)
	assert.InDelta(t, 2*math.Pi, series.Slices[2].EndAngle, 1e-9)
}

func TestBuildPie_PercentagesSumTo100(t *testing.T) {
	inputs := [][]float64{
		{1, 1, 1},
		{3, 7, 11, 13},
		{0.5, 99.5},
		{1, 0, 2},
		{123, 456, 789, 1011, 1213},
	}
	for _, values := range inputs {
		records := make([]dataset.PieRecord, len(values))
		for i, v := range values {
			records[i] = dataset.PieRecord{Key: string(rune('A' + i)), Value: v}
		}

		series := BuildPie(records)
		var sum float64
		for _, s := range series.Slices {
			sum += s.Percentage
		}
		// 小数第1位の丸め誤差は扇形1つあたり最大0.05
		assert.InDelta(t, 100, sum, 0.05*float64(len(values)), "values=%v", values)
	}
}

func TestBuildPie_ZeroTotal(t *testing.T) {
	series := BuildPie([]dataset.PieRecord{{Key: "A", Value: 0}})

	assert.True(t, series.Empty())
	require.Len(t, series.Slices, 1)
	assert.Equal(t, 0.0, series.Slices[0].Percentage)
	assert.False(t, math.IsNaN(series.Slices[0].Percentage))
	assert.Equal(t, 0.0, series.Slices[0].EndAngle)
}

func TestBuildPie_NoRecords(t *testing.T) {
	series := BuildPie(nil)
	assert.True(t, series.Empty())
	assert.Empty(t, series.Slices)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 33.3, Percentage(1, 3))
	assert.Equal(t, 66.7, Percentage(2, 3))
	assert.Equal(t, 0.0, Percentage(5, 0))
}

func TestBuildStack_Example(t *testing.T) {
	series := BuildStack([]dataset.AccidentRecord{
		{Day: 1, Time: "朝", Count: 5},
		{Day: 1, Time: "昼", Count: 3},
	})

	day, ok := series.Day(1)
	require.True(t, ok)

	wantCounts := map[string]int{"早朝": 0, "朝": 5, "昼前": 0, "昼": 3, "夕方": 0, "夜": 0, "深夜": 0}
	if diff := cmp.Diff(wantCounts, day.Counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}

	wantSegments := []Segment{
		{Day: 1, Bucket: "早朝", Start: 0, End: 0},
		{Day: 1, Bucket: "朝", Start: 0, End: 5},
		{Day: 1, Bucket: "昼前", Start: 5, End: 5},
		{Day: 1, Bucket: "昼", Start: 5, End: 8},
		{Day: 1, Bucket: "夕方", Start: 8, End: 8},
		{Day: 1, Bucket: "夜", Start: 8, End: 8},
		{Day: 1, Bucket: "深夜", Start: 8, End: 8},
	}
	if diff := cmp.Diff(wantSegments, day.Segments); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 8, day.Total)
	assert.Equal(t, 8, series.Max())
}

func TestBuildStack_TopEqualsSum(t *testing.T) {
	records := []dataset.AccidentRecord{
		{Day: 3, Time: "深夜", Count: 2},
		{Day: 1, Time: "早朝", Count: 4},
		{Day: 3, Time: "早朝", Count: 1},
		{Day: 1, Time: "夕方", Count: 6},
		{Day: 3, Time: "昼前", Count: 9},
	}
	series := BuildStack(records)

	for _, d := range series.Days {
		sum := 0
		for _, c := range d.Counts {
			sum += c
		}
		top := d.Segments[len(d.Segments)-1].End
		assert.Equal(t, sum, top, "day %d", d.Day)
		assert.Len(t, d.Segments, len(dataset.Buckets), "欠けた時間帯も区間を持つこと")
	}
	assert.Equal(t, 12, series.Max())
}

func TestBuildStack_DayOrderIsFirstAppearance(t *testing.T) {
	series := BuildStack([]dataset.AccidentRecord{
		{Day: 5, Time: "朝", Count: 1},
		{Day: 2, Time: "朝", Count: 1},
		{Day: 5, Time: "夜", Count: 1},
		{Day: 7, Time: "朝", Count: 1},
	})

	days := make([]int, len(series.Days))
	for i, d := range series.Days {
		days[i] = d.Day
	}
	assert.Equal(t, []int{5, 2, 7}, days)
}

func TestBuildStack_LaterDuplicateWins(t *testing.T) {
	series := BuildStack([]dataset.AccidentRecord{
		{Day: 1, Time: "朝", Count: 2},
		{Day: 1, Time: "昼", Count: 4},
		{Day: 1, Time: "朝", Count: 3},
		{Day: 1, Time: "不明", Count: 100},
	})

	day, ok := series.Day(1)
	require.True(t, ok)
	assert.Equal(t, 3, day.Counts["朝"], "同じ時間帯は後のレコードで上書きされること")
	assert.Equal(t, 7, day.Total)

	seg, ok := day.Segment("昼")
	require.True(t, ok)
	assert.Equal(t, Segment{Day: 1, Bucket: "昼", Start: 3, End: 7}, seg)

	_, known := day.Counts["不明"]
	assert.False(t, known)
}

func TestStackedSeries_Layers(t *testing.T) {
	series := BuildStack([]dataset.AccidentRecord{
		{Day: 1, Time: "朝", Count: 5},
		{Day: 2, Time: "早朝", Count: 2},
		{Day: 2, Time: "朝", Count: 1},
	})

	layers := series.Layers()
	require.Len(t, layers, len(dataset.Buckets))
	assert.Equal(t, "早朝", layers[0].Bucket)

	morning := layers[1]
	assert.Equal(t, "朝", morning.Bucket)
	want := []Segment{
		{Day: 1, Bucket: "朝", Start: 0, End: 5},
		{Day: 2, Bucket: "朝", Start: 2, End: 3},
	}
	if diff := cmp.Diff(want, morning.Segments); diff != "" {
		t.Errorf("layer mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildStack_Empty(t *testing.T) {
	series := BuildStack(nil)
	assert.Empty(t, series.Days)
	assert.Equal(t, 0, series.Max())
	assert.Len(t, series.Layers(), len(dataset.Buckets))

	_, ok := series.Day(1)
	assert.False(t, ok)
}
