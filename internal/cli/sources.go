package cli

import (
	"github.com/golang/freetype/truetype"

	"github.com/y-hirakaw/accident-charts/internal/config"
	"github.com/y-hirakaw/accident-charts/internal/dataset"
	"github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/render"
	"github.com/y-hirakaw/accident-charts/internal/storage"
)

// sources はグラフの元データの供給元
type sources struct {
	pie       dataset.PieSource
	accidents dataset.AccidentSource
	// watch はファイル監視の対象 (ローカルファイルのみ)
	watch []string
	close func() error
}

// newLoader は設定から Loader を作成する
func newLoader(cfg *config.Config) *dataset.Loader {
	fetcher := dataset.NewFetcher(dataset.FetchOptions{
		Timeout:  cfg.FetchTimeout,
		Attempts: cfg.FetchAttempts,
	})
	return dataset.NewLoader(fetcher, dataset.LoaderOptions{
		PieLocation:      cfg.PieSource,
		AccidentLocation: cfg.AccidentSource,
		KeyColumn:        cfg.PieKeyColumn,
		ValueColumn:      cfg.PieValueColumn,
	})
}

// openSources は UseStore に応じてファイル (またはURL) か DuckDB を供給元にする
func openSources(cfg *config.Config) (*sources, error) {
	if cfg.UseStore {
		store, err := storage.NewDuckDBStorage(cfg.DuckDBPath)
		if err != nil {
			return nil, err
		}
		return &sources{pie: store, accidents: store, close: store.Close}, nil
	}

	loader := newLoader(cfg)
	src := &sources{pie: loader, accidents: loader, close: func() error { return nil }}
	for _, location := range loader.Sources() {
		if path, ok := dataset.LocalPath(location); ok {
			src.watch = append(src.watch, path)
		}
	}
	return src, nil
}

// loadProfile は charts.yaml を読み込む。なければ既定値
func loadProfile(cfg *config.Config) (*config.Profile, error) {
	return config.NewProfileManager(cfg.ProfilePath).Load()
}

// loadFont は FontPath が指定されていればフォントを読み込む
func loadFont(cfg *config.Config) (*truetype.Font, error) {
	if cfg.FontPath == "" {
		return nil, nil
	}
	font, err := render.LoadFont(cfg.FontPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeFile, "file_not_found", cfg.FontPath)
	}
	return font, nil
}
