package dataset

import (
	"bytes"
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/logger"
	"github.com/y-hirakaw/accident-charts/internal/metrics"
)

const (
	DefaultKeyColumn   = "key"
	DefaultValueColumn = "val"
)

// LoaderOptions はデータの置き場所と列名
type LoaderOptions struct {
	PieLocation      string
	AccidentLocation string
	KeyColumn        string
	ValueColumn      string
}

// Loader は Fetcher で取得したデータを解析してレコードにする。
// 取得や解析の失敗はログに残した上で型付きエラーとして返す
type Loader struct {
	fetcher Fetcher
	opts    LoaderOptions
	log     *zap.Logger
}

// NewLoader は新しい Loader を作成する
func NewLoader(fetcher Fetcher, opts LoaderOptions) *Loader {
	if opts.KeyColumn == "" {
		opts.KeyColumn = DefaultKeyColumn
	}
	if opts.ValueColumn == "" {
		opts.ValueColumn = DefaultValueColumn
	}
	return &Loader{
		fetcher: fetcher,
		opts:    opts,
		log:     logger.Named("loader"),
	}
}

// Sources は監視対象になりうるデータの置き場所を返す
func (l *Loader) Sources() []string {
	return []string{l.opts.PieLocation, l.opts.AccidentLocation}
}

// LoadPie は円グラフ用CSVを読み込む
func (l *Loader) LoadPie(ctx context.Context) ([]PieRecord, error) {
	var records []PieRecord
	err := metrics.ObserveLoad("pie", func() error {
		data, err := l.fetcher.Fetch(ctx, l.opts.PieLocation)
		if err != nil {
			return err
		}
		table, err := ParseCSV(bytes.NewReader(data))
		if err != nil {
			return apperrors.ParseFailed(l.opts.PieLocation, err).
				WithSuggestions("suggestion_check_csv_header")
		}
		records, err = PieRecords(table, l.opts.KeyColumn, l.opts.ValueColumn)
		return err
	})
	if err != nil {
		l.fail("pie", l.opts.PieLocation, err)
		return nil, err
	}

	l.log.Debug("pie data loaded",
		zap.String("location", l.opts.PieLocation),
		zap.Int("records", len(records)))
	return records, nil
}

// LoadAccidents は事故件数JSONを読み込む
func (l *Loader) LoadAccidents(ctx context.Context) ([]AccidentRecord, error) {
	var records []AccidentRecord
	err := metrics.ObserveLoad("accidents", func() error {
		data, err := l.fetcher.Fetch(ctx, l.opts.AccidentLocation)
		if err != nil {
			return err
		}
		records, err = ParseAccidents(bytes.NewReader(data))
		if err != nil {
			if _, ok := apperrors.As(err); ok {
				return err
			}
			return apperrors.ParseFailed(l.opts.AccidentLocation, err).
				WithSuggestions("suggestion_check_json_schema")
		}
		return nil
	})
	if err != nil {
		l.fail("accidents", l.opts.AccidentLocation, err)
		return nil, err
	}

	l.log.Debug("accident data loaded",
		zap.String("location", l.opts.AccidentLocation),
		zap.Int("records", len(records)))
	return records, nil
}

// fail は失敗を記録する。置き場所の修正や再試行で直るものは Warn、データ自体の不正は Error
func (l *Loader) fail(dataset, location string, err error) {
	kind := apperrors.TypeOf(err)
	metrics.LoadFailures.WithLabelValues(dataset, kind.String()).Inc()

	level := zap.ErrorLevel
	if apperrors.IsRecoverable(err) {
		level = zap.WarnLevel
	}
	l.log.Log(level, "failed to load dataset",
		zap.String("dataset", dataset),
		zap.String("location", location),
		zap.Stringer("kind", kind),
		zap.Error(err))
}

// Bundle は両方のグラフの元データ
type Bundle struct {
	Pie       []PieRecord
	Accidents []AccidentRecord
}

// LoadAll は2つのデータを並行して読み込む。どちらかが失敗すればそのエラーを返す
func LoadAll(ctx context.Context, pie PieSource, accidents AccidentSource) (*Bundle, error) {
	var bundle Bundle
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := pie.LoadPie(ctx)
		if err != nil {
			return err
		}
		bundle.Pie = records
		return nil
	})
	g.Go(func() error {
		records, err := accidents.LoadAccidents(ctx)
		if err != nil {
			return err
		}
		bundle.Accidents = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &bundle, nil
}
