package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/y-hirakaw/accident-charts/internal/aggregate"
	"github.com/y-hirakaw/accident-charts/internal/dataset"
)

// setupTestDuckDB はテスト用のDuckDBストレージを作成
func setupTestDuckDB(t *testing.T) *DuckDBStorage {
	t.Helper()

	storage, err := NewDuckDBStorage(filepath.Join(t.TempDir(), "data", "achart.duckdb"))
	if err != nil {
		t.Fatalf("DuckDBストレージの作成に失敗: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestDuckDBStorage_InMemory(t *testing.T) {
	storage, err := NewDuckDBStorage("")
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	defer storage.Close()

	if err := storage.TestConnection(context.Background()); err != nil {
		t.Errorf("接続テストに失敗: %v", err)
	}
}

func TestDuckDBStorage_PieRoundTrip(t *testing.T) {
	storage := setupTestDuckDB(t)
	ctx := context.Background()

	records := []dataset.PieRecord{
		{Key: "C", Value: 3},
		{Key: "A", Value: 1.5},
		{Key: "B", Value: 0},
	}
	if err := storage.ImportPie(ctx, "data.csv", records); err != nil {
		t.Fatalf("ImportPie に失敗: %v", err)
	}

	got, err := storage.LoadPie(ctx)
	if err != nil {
		t.Fatalf("LoadPie に失敗: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("取り込み順が保たれていない: got %v, want %v", got, records)
	}
}

func TestDuckDBStorage_ImportReplaces(t *testing.T) {
	storage := setupTestDuckDB(t)
	ctx := context.Background()

	if err := storage.ImportPie(ctx, "old.csv", []dataset.PieRecord{{Key: "old", Value: 1}}); err != nil {
		t.Fatalf("ImportPie に失敗: %v", err)
	}
	if err := storage.ImportPie(ctx, "new.csv", []dataset.PieRecord{{Key: "new", Value: 2}}); err != nil {
		t.Fatalf("ImportPie に失敗: %v", err)
	}

	got, err := storage.LoadPie(ctx)
	if err != nil {
		t.Fatalf("LoadPie に失敗: %v", err)
	}
	if len(got) != 1 || got[0].Key != "new" {
		t.Errorf("古いレコードが残っている: %v", got)
	}

	info, err := storage.Info(ctx)
	if err != nil {
		t.Fatalf("Info に失敗: %v", err)
	}
	if len(info.Imports) != 1 || info.Imports[0].Source != "new.csv" {
		t.Errorf("取り込み履歴が更新されていない: %+v", info.Imports)
	}
}

func TestDuckDBStorage_ReimportSameRows(t *testing.T) {
	storage := setupTestDuckDB(t)
	ctx := context.Background()

	records := []dataset.AccidentRecord{
		{Day: 1, Time: "朝", Count: 5},
		{Day: 2, Time: "昼", Count: 3},
	}
	// 同じ seq の行を同一トランザクションで消して入れ直す
	for i := 0; i < 3; i++ {
		if err := storage.ImportAccidents(ctx, "accidents.json", records); err != nil {
			t.Fatalf("%d 回目の ImportAccidents に失敗: %v", i+1, err)
		}
		if err := storage.ImportPie(ctx, "data.csv", []dataset.PieRecord{{Key: "A", Value: float64(i)}}); err != nil {
			t.Fatalf("%d 回目の ImportPie に失敗: %v", i+1, err)
		}
	}

	got, err := storage.LoadAccidents(ctx)
	if err != nil {
		t.Fatalf("LoadAccidents に失敗: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("LoadAccidents: got %v, want %v", got, records)
	}

	info, err := storage.Info(ctx)
	if err != nil {
		t.Fatalf("Info に失敗: %v", err)
	}
	if len(info.Imports) != 2 {
		t.Errorf("取り込み履歴はデータセットごとに1件: %+v", info.Imports)
	}
}

func TestDuckDBStorage_AccidentsAndDayTotals(t *testing.T) {
	storage := setupTestDuckDB(t)
	ctx := context.Background()

	records := []dataset.AccidentRecord{
		{Day: 3, Time: "朝", Count: 2},
		{Day: 1, Time: "朝", Count: 5},
		{Day: 1, Time: "昼", Count: 3},
		{Day: 3, Time: "深夜", Count: 4},
	}
	if err := storage.ImportAccidents(ctx, "accidents.json", records); err != nil {
		t.Fatalf("ImportAccidents に失敗: %v", err)
	}

	got, err := storage.LoadAccidents(ctx)
	if err != nil {
		t.Fatalf("LoadAccidents に失敗: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("LoadAccidents: got %v, want %v", got, records)
	}

	totals, err := storage.DayTotals(ctx)
	if err != nil {
		t.Fatalf("DayTotals に失敗: %v", err)
	}
	want := []DayTotal{{Day: 3, Total: 6}, {Day: 1, Total: 8}}
	if !reflect.DeepEqual(totals, want) {
		t.Errorf("DayTotals: got %v, want %v", totals, want)
	}

	// SQLの集計と積み上げの頂点が一致すること
	series := aggregate.BuildStack(got)
	for i, total := range totals {
		if series.Days[i].Day != total.Day || series.Days[i].Total != total.Total {
			t.Errorf("集計結果が一致しない: stack=%+v, sql=%+v", series.Days[i], total)
		}
	}
}

func TestDuckDBStorage_RejectsInvalidRows(t *testing.T) {
	storage := setupTestDuckDB(t)
	ctx := context.Background()

	if err := storage.ImportAccidents(ctx, "ok.json", []dataset.AccidentRecord{{Day: 1, Time: "朝", Count: 1}}); err != nil {
		t.Fatalf("ImportAccidents に失敗: %v", err)
	}

	err := storage.ImportAccidents(ctx, "bad.json", []dataset.AccidentRecord{{Day: 9, Time: "朝", Count: 1}})
	if err == nil {
		t.Fatal("不正な曜日がエラーにならない")
	}

	// 失敗した取り込みはロールバックされる
	got, err := storage.LoadAccidents(ctx)
	if err != nil {
		t.Fatalf("LoadAccidents に失敗: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ロールバックされていない: %v", got)
	}
}

func TestDuckDBStorage_Info(t *testing.T) {
	storage := setupTestDuckDB(t)
	ctx := context.Background()

	if err := storage.ImportPie(ctx, "data.csv", []dataset.PieRecord{{Key: "A", Value: 1}, {Key: "B", Value: 2}}); err != nil {
		t.Fatalf("ImportPie に失敗: %v", err)
	}

	info, err := storage.Info(ctx)
	if err != nil {
		t.Fatalf("Info に失敗: %v", err)
	}
	if info.Path != storage.Path() {
		t.Errorf("Path: got %s, want %s", info.Path, storage.Path())
	}
	if info.PieCount != 2 || info.AccidentCount != 0 {
		t.Errorf("件数が不正: %+v", info)
	}
}
