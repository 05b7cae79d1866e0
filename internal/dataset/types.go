// Package dataset はグラフの元データ (円グラフ用CSVと事故件数JSON) を読み込む。
package dataset

import (
	"context"
)

// Buckets は時間帯ラベル。積み上げはこの順序で行う
var Buckets = []string{"早朝", "朝", "昼前", "昼", "夕方", "夜", "深夜"}

// IsBucket は label が既知の時間帯かどうかを返す
func IsBucket(label string) bool {
	for _, b := range Buckets {
		if b == label {
			return true
		}
	}
	return false
}

// Row は動的型付けされたCSVの1行。値は float64, bool, string, nil のいずれか
type Row map[string]any

// Table はヘッダー付きCSVの解析結果
type Table struct {
	Header []string
	Rows   []Row
}

// HasColumn は列が存在するかを返す
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}

// PieRecord は円グラフの1カテゴリ。Key は空でもよい (ラベルなしの扇形になる)
type PieRecord struct {
	Key   string  `json:"key"`
	Value float64 `json:"val" validate:"gte=0"`
}

// AccidentRecord は曜日・時間帯ごとの事故件数。Day は 1 (日曜) から 7 (土曜)
type AccidentRecord struct {
	Day   int    `json:"day" validate:"min=1,max=7"`
	Time  string `json:"time" validate:"required,bucket"`
	Count int    `json:"count" validate:"gte=0"`
}

// PieSource は円グラフ用レコードの供給元
type PieSource interface {
	LoadPie(ctx context.Context) ([]PieRecord, error)
}

// AccidentSource は事故件数レコードの供給元
type AccidentSource interface {
	LoadAccidents(ctx context.Context) ([]AccidentRecord, error)
}
