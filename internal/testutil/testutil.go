// Package testutil はテスト用のデータファイルとデータ供給元を提供する。
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/y-hirakaw/accident-charts/internal/dataset"
)

// SampleCSV は円グラフ用CSVの最小例
const SampleCSV = "key,val\nA,1\nB,3\n"

// SampleJSON は事故件数JSONの最小例。月曜 (2) の朝と昼、火曜 (3) の深夜
const SampleJSON = `[
  {"day": 2, "time": "朝", "count": 5},
  {"day": 2, "time": "昼", "count": 3},
  {"day": 3, "time": "深夜", "count": 2}
]`

// SamplePieRecords は SampleCSV を解析した結果
func SamplePieRecords() []dataset.PieRecord {
	return []dataset.PieRecord{{Key: "A", Value: 1}, {Key: "B", Value: 3}}
}

// SampleAccidentRecords は SampleJSON を解析した結果
func SampleAccidentRecords() []dataset.AccidentRecord {
	return []dataset.AccidentRecord{
		{Day: 2, Time: "朝", Count: 5},
		{Day: 2, Time: "昼", Count: 3},
		{Day: 3, Time: "深夜", Count: 2},
	}
}

// CreateTestFile creates a file with specified content in the directory
func CreateTestFile(t testing.TB, dir, filename, content string) string {
	t.Helper()
	filePath := filepath.Join(dir, filename)

	// Create parent directories if needed
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		t.Fatalf("Failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file %s: %v", filename, err)
	}
	return filePath
}

// DataFiles は一時ディレクトリに置いたデータファイルの場所
type DataFiles struct {
	Dir       string
	Pie       string
	Accidents string
}

// WriteDataFiles は SampleCSV と SampleJSON を一時ディレクトリに書き出す
func WriteDataFiles(t testing.TB) DataFiles {
	t.Helper()
	dir := t.TempDir()
	return DataFiles{
		Dir:       dir,
		Pie:       CreateTestFile(t, dir, "data.csv", SampleCSV),
		Accidents: CreateTestFile(t, dir, "accident_data_d3.json", SampleJSON),
	}
}

// SourceStub は固定のレコード (またはエラー) を返すデータ供給元
type SourceStub struct {
	Pie          []dataset.PieRecord
	Accidents    []dataset.AccidentRecord
	PieErr       error
	AccidentsErr error
}

// NewSourceStub はサンプルレコードを返す SourceStub を作成する
func NewSourceStub() *SourceStub {
	return &SourceStub{Pie: SamplePieRecords(), Accidents: SampleAccidentRecords()}
}

func (s *SourceStub) LoadPie(ctx context.Context) ([]dataset.PieRecord, error) {
	return s.Pie, s.PieErr
}

func (s *SourceStub) LoadAccidents(ctx context.Context) ([]dataset.AccidentRecord, error) {
	return s.Accidents, s.AccidentsErr
}
