// Package storage は読み込んだレコードを DuckDB に保存し、SQLで参照できるようにする。
package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/y-hirakaw/accident-charts/internal/dataset"
	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/logger"
)

const queryTimeout = 30 * time.Second

// DuckDBStorage は DuckDB を使用したスナップショットストレージ。
// dataset.PieSource と dataset.AccidentSource を実装する
type DuckDBStorage struct {
	db     *sql.DB
	dbPath string
	log    *zap.Logger
}

var (
	_ dataset.PieSource      = (*DuckDBStorage)(nil)
	_ dataset.AccidentSource = (*DuckDBStorage)(nil)
)

// NewDuckDBStorage は新しい DuckDB ストレージインスタンスを作成する。
// dbPath が空ならインメモリデータベースを使う
func NewDuckDBStorage(dbPath string) (*DuckDBStorage, error) {
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, apperrors.StoreFailed("open", errors.Wrap(err, "create data directory"))
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, apperrors.StoreFailed("open", errors.Wrap(err, "open duckdb"))
	}

	s := &DuckDBStorage{
		db:     db,
		dbPath: dbPath,
		log:    logger.Named("storage"),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, apperrors.StoreFailed("open", err)
	}

	s.log.Debug("duckdb storage initialized", zap.String("path", dbPath))
	return s, nil
}

// initSchema はデータベーススキーマを初期化する
func (s *DuckDBStorage) initSchema() error {
	schema := `
	-- seq は取り込み時の並び順 (円グラフの扇形順・曜日の出現順)。
	-- 置き換えは同一トランザクションで DELETE と INSERT を行うため、
	-- DuckDB の制約では主キーやインデックスを付けられない
	CREATE TABLE IF NOT EXISTS pie_records (
		seq INTEGER NOT NULL,
		category VARCHAR NOT NULL,
		value DOUBLE NOT NULL CHECK (value >= 0)
	);

	CREATE TABLE IF NOT EXISTS accident_records (
		seq INTEGER NOT NULL,
		weekday INTEGER NOT NULL CHECK (weekday BETWEEN 1 AND 7),
		bucket VARCHAR NOT NULL,
		accidents INTEGER NOT NULL CHECK (accidents >= 0)
	);

	CREATE TABLE IF NOT EXISTS imports (
		dataset VARCHAR NOT NULL,
		source VARCHAR NOT NULL,
		record_count INTEGER NOT NULL,
		imported_at TIMESTAMP NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Wrap(err, "create schema")
	}
	return nil
}

// ImportPie は円グラフ用レコードを置き換える。行の並びは入力順を保つ
func (s *DuckDBStorage) ImportPie(ctx context.Context, source string, records []dataset.PieRecord) error {
	err := s.replace(ctx, "pie", source, len(records), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM pie_records"); err != nil {
			return errors.Wrap(err, "clear pie_records")
		}
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO pie_records (seq, category, value) VALUES (?, ?, ?)")
		if err != nil {
			return errors.Wrap(err, "prepare insert")
		}
		defer stmt.Close()

		for i, r := range records {
			if _, err := stmt.ExecContext(ctx, i, r.Key, r.Value); err != nil {
				return errors.Wrapf(err, "insert pie record %d", i)
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.StoreFailed("import pie", err)
	}
	return nil
}

// ImportAccidents は事故件数レコードを置き換える
func (s *DuckDBStorage) ImportAccidents(ctx context.Context, source string, records []dataset.AccidentRecord) error {
	err := s.replace(ctx, "accidents", source, len(records), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM accident_records"); err != nil {
			return errors.Wrap(err, "clear accident_records")
		}
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO accident_records (seq, weekday, bucket, accidents) VALUES (?, ?, ?, ?)")
		if err != nil {
			return errors.Wrap(err, "prepare insert")
		}
		defer stmt.Close()

		for i, r := range records {
			if _, err := stmt.ExecContext(ctx, i, r.Day, r.Time, r.Count); err != nil {
				return errors.Wrapf(err, "insert accident record %d", i)
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.StoreFailed("import accidents", err)
	}
	return nil
}

// replace はトランザクション内で fill を実行し、取り込み履歴を更新する
func (s *DuckDBStorage) replace(ctx context.Context, name, source string, count int, fill func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	if err := fill(tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM imports WHERE dataset = ?", name); err != nil {
		return errors.Wrap(err, "clear import history")
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO imports (dataset, source, record_count, imported_at)
		VALUES (?, ?, ?, ?)
	`, name, source, count, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "record import")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}

	s.log.Info("dataset imported",
		zap.String("dataset", name),
		zap.String("source", source),
		zap.Int("records", count))
	return nil
}

// LoadPie は保存済みの円グラフ用レコードを取り込み順に返す
func (s *DuckDBStorage) LoadPie(ctx context.Context) ([]dataset.PieRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT category, value FROM pie_records ORDER BY seq")
	if err != nil {
		return nil, apperrors.StoreFailed("load pie", errors.Wrap(err, "query pie_records"))
	}
	defer rows.Close()

	var records []dataset.PieRecord
	for rows.Next() {
		var r dataset.PieRecord
		if err := rows.Scan(&r.Key, &r.Value); err != nil {
			return nil, apperrors.StoreFailed("load pie", errors.Wrap(err, "scan"))
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreFailed("load pie", err)
	}
	return records, nil
}

// LoadAccidents は保存済みの事故件数レコードを取り込み順に返す
func (s *DuckDBStorage) LoadAccidents(ctx context.Context) ([]dataset.AccidentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT weekday, bucket, accidents FROM accident_records ORDER BY seq")
	if err != nil {
		return nil, apperrors.StoreFailed("load accidents", errors.Wrap(err, "query accident_records"))
	}
	defer rows.Close()

	var records []dataset.AccidentRecord
	for rows.Next() {
		var r dataset.AccidentRecord
		if err := rows.Scan(&r.Day, &r.Time, &r.Count); err != nil {
			return nil, apperrors.StoreFailed("load accidents", errors.Wrap(err, "scan"))
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreFailed("load accidents", err)
	}
	return records, nil
}

// DayTotal は曜日ごとの合計件数
type DayTotal struct {
	Day   int `json:"day"`
	Total int `json:"total"`
}

// DayTotals は曜日ごとの合計をSQLで集計する。曜日は最初に現れた順
func (s *DuckDBStorage) DayTotals(ctx context.Context) ([]DayTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
	SELECT weekday, CAST(SUM(accidents) AS INTEGER) AS total
	FROM accident_records
	GROUP BY weekday
	ORDER BY MIN(seq)
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.StoreFailed("day totals", errors.Wrap(err, "query"))
	}
	defer rows.Close()

	var totals []DayTotal
	for rows.Next() {
		var t DayTotal
		if err := rows.Scan(&t.Day, &t.Total); err != nil {
			return nil, apperrors.StoreFailed("day totals", errors.Wrap(err, "scan"))
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreFailed("day totals", err)
	}
	return totals, nil
}

// ImportInfo は1データセット分の取り込み履歴
type ImportInfo struct {
	Dataset     string    `json:"dataset"`
	Source      string    `json:"source"`
	RecordCount int       `json:"record_count"`
	ImportedAt  time.Time `json:"imported_at"`
}

// DatabaseInfo はデータベースの情報
type DatabaseInfo struct {
	Path          string       `json:"path"`
	Size          int64        `json:"size"`
	ModTime       time.Time    `json:"mod_time"`
	PieCount      int          `json:"pie_count"`
	AccidentCount int          `json:"accident_count"`
	Imports       []ImportInfo `json:"imports"`
}

// Info はデータベースの情報を取得する
func (s *DuckDBStorage) Info(ctx context.Context) (*DatabaseInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	info := &DatabaseInfo{Path: s.dbPath}

	// ファイルサイズ
	if s.dbPath != "" {
		if stat, err := os.Stat(s.dbPath); err == nil {
			info.Size = stat.Size()
			info.ModTime = stat.ModTime()
		}
	}

	countQuery := `
	SELECT
		(SELECT COUNT(*) FROM pie_records) AS pie_count,
		(SELECT COUNT(*) FROM accident_records) AS accident_count
	`
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&info.PieCount, &info.AccidentCount); err != nil {
		return nil, apperrors.StoreFailed("info", errors.Wrap(err, "count records"))
	}

	rows, err := s.db.QueryContext(ctx, "SELECT dataset, source, record_count, imported_at FROM imports ORDER BY dataset")
	if err != nil {
		return nil, apperrors.StoreFailed("info", errors.Wrap(err, "query imports"))
	}
	defer rows.Close()

	for rows.Next() {
		var imp ImportInfo
		if err := rows.Scan(&imp.Dataset, &imp.Source, &imp.RecordCount, &imp.ImportedAt); err != nil {
			return nil, apperrors.StoreFailed("info", errors.Wrap(err, "scan import"))
		}
		info.Imports = append(info.Imports, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.StoreFailed("info", err)
	}
	return info, nil
}

// TestConnection はデータベース接続をテストする
func (s *DuckDBStorage) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return apperrors.StoreFailed("ping", err)
	}
	return nil
}

// Path はデータベースファイルのパスを返す
func (s *DuckDBStorage) Path() string {
	return s.dbPath
}

// Close はデータベース接続を閉じる
func (s *DuckDBStorage) Close() error {
	return s.db.Close()
}
