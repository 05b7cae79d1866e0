// Package config はアプリケーション設定を読み込む。
//
// 優先順位は (低い順) envconfig のデフォルト値 < .env ファイル < 環境変数 <
// コマンドラインフラグ。グラフの見た目は charts.yaml (Profile) で指定する。
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/i18n"
)

// EnvPrefix は環境変数のプレフィックス
const EnvPrefix = "ACHART"

// Config はアプリケーション設定
type Config struct {
	// Env は "development" または "production"。ロガーの出力形式を切り替える
	Env string `default:"development"`

	// Address はWebダッシュボードの待ち受けアドレス
	Address string `default:":8080"`

	// Lang はデフォルトの表示言語 (ja | en)
	Lang string `default:"ja"`

	Debug bool

	// PieSource は円グラフ用CSVの場所。ファイルパス、http(s):// または s3:// を指定できる
	PieSource string `split_words:"true" default:"./data/data.csv"`

	// AccidentSource は積み上げ棒グラフ用JSONの場所
	AccidentSource string `split_words:"true" default:"./data/accident_data_d3.json"`

	// PieKeyColumn / PieValueColumn はCSVヘッダーの列名
	PieKeyColumn   string `split_words:"true" default:"key"`
	PieValueColumn string `split_words:"true" default:"val"`

	// FetchTimeout はリモート取得1回あたりのタイムアウト
	FetchTimeout time.Duration `split_words:"true" default:"10s"`

	// FetchAttempts はリモート取得の試行回数。1 ならリトライしない
	FetchAttempts uint `split_words:"true" default:"1"`

	// CacheTTL は集計結果のキャッシュ期間
	CacheTTL time.Duration `split_words:"true" default:"1m"`

	// Watch が true のとき、ローカルのデータファイルの変更を監視する
	Watch bool `default:"true"`

	// FontPath はPNG出力で日本語を描画するためのTrueTypeフォント
	FontPath string `split_words:"true"`

	// ProfilePath はグラフ設定 (charts.yaml) の場所
	ProfilePath string `split_words:"true" default:"charts.yaml"`

	// DuckDBPath はスナップショットストアのデータベースファイル
	DuckDBPath string `envconfig:"DUCKDB_PATH" default:"achart.duckdb"`

	// MessagesDir は表示文言を上書きする messages.<lang>.json の置き場所
	MessagesDir string `split_words:"true"`

	// UseStore が true のとき、データをファイルではなくDuckDBから読み込む
	UseStore bool `split_words:"true"`
}

// Load は .env と環境変数から設定を読み込む。envFile が空なら ".env" を試す。
// 値の検証はフラグでの上書き後に Validate で行う
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, apperrors.ConfigInvalid(fmt.Errorf("load %s: %w", envFile, err))
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apperrors.ConfigInvalid(err)
	}
	return &cfg, nil
}

// Validate は設定値を検証する
func (c *Config) Validate() error {
	if _, ok := i18n.ParseLocale(c.Lang); !ok {
		return apperrors.NewError(apperrors.ErrorTypeConfig, "invalid_language", c.Lang).
			WithSuggestions("suggestion_valid_languages")
	}
	if strings.TrimSpace(c.PieSource) == "" || strings.TrimSpace(c.AccidentSource) == "" {
		return apperrors.ConfigInvalid(fmt.Errorf("data sources must not be empty"))
	}
	if c.FetchAttempts == 0 {
		c.FetchAttempts = 1
	}
	if c.CacheTTL < 0 {
		return apperrors.ConfigInvalid(fmt.Errorf("cache ttl must not be negative: %s", c.CacheTTL))
	}
	return nil
}

// Locale は設定された表示言語を返す
func (c *Config) Locale() i18n.Locale {
	locale, _ := i18n.ParseLocale(c.Lang)
	return locale
}
