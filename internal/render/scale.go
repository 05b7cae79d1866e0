package render

import "math"

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// defaultTickCount は縦軸の目盛り数の目安
const defaultTickCount = 10

// tickIncrement は [start, stop] を count 程度に分割する切りの良い刻み幅。
// 負の値は 1/刻み幅 を表す
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}

	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

// NiceMax は 0 から max までの軸の上限を切りの良い値に広げる。
// max が0以下なら0を返す
func NiceMax(max float64) float64 {
	if max <= 0 || math.IsNaN(max) || math.IsInf(max, 0) {
		return 0
	}

	start, stop := 0.0, max
	var prev float64
	for i := 0; i < 10; i++ {
		step := tickIncrement(start, stop, defaultTickCount)
		if step == prev {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			return stop
		}
		prev = step
	}
	return stop
}

// Ticks は 0 から max までの目盛り値を返す
func Ticks(max float64, count int) []float64 {
	if max <= 0 || count <= 0 {
		return []float64{0}
	}

	step := tickIncrement(0, max, count)
	var ticks []float64
	if step > 0 {
		n := int(math.Floor(max / step))
		for i := 0; i <= n; i++ {
			ticks = append(ticks, float64(i)*step)
		}
		return ticks
	}

	inv := -step
	n := int(math.Floor(max * inv))
	for i := 0; i <= n; i++ {
		ticks = append(ticks, float64(i)/inv)
	}
	return ticks
}

// band は等間隔の帯を並べる横軸。内側・外側とも padding の余白を取る
type band struct {
	start     float64
	step      float64
	bandwidth float64
}

func newBand(n int, length, padding float64) band {
	if n <= 0 {
		return band{}
	}
	step := length / (float64(n) - padding + 2*padding)
	return band{
		start:     step * padding,
		step:      step,
		bandwidth: step * (1 - padding),
	}
}

// at は i 番目の帯の左端
func (b band) at(i int) float64 {
	return b.start + b.step*float64(i)
}
