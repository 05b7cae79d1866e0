// Package render はグラフを go-chart で SVG または PNG に描画する。
//
// 描画関数はグローバルな状態を持たず、必要な設定はすべて Context で受け取る。
package render

import (
	"html"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/y-hirakaw/accident-charts/internal/config"
	"github.com/y-hirakaw/accident-charts/internal/i18n"
)

// Context は1回の描画に必要な設定
type Context struct {
	Width  int
	Height int
	// Title が空ならロケールの既定タイトルを使う
	Title  string
	Format Format
	Locale i18n.Locale
	// Font が nil なら go-chart 既定の Roboto を使う。PNG で日本語を描くには CJK フォントが必要
	Font *truetype.Font
}

// NewContext はプロファイルの設定からグラフ用の Context を作る
func NewContext(c Chart, profile *config.Profile, format Format, locale i18n.Locale, font *truetype.Font) Context {
	if profile == nil {
		profile = config.DefaultProfile()
	}
	cp := profile.Pie
	if c == ChartAccidents {
		cp = profile.Accidents
	}
	return Context{
		Width:  cp.Width,
		Height: cp.Height,
		Title:  cp.Title,
		Format: format,
		Locale: locale,
		Font:   font,
	}
}

// T はロケールに応じた文言を返す
func (rc Context) T(key string, args ...interface{}) string {
	return i18n.TL(rc.Locale, key, args...)
}

func (rc Context) title(defaultKey string) string {
	if rc.Title != "" {
		return rc.Title
	}
	return rc.T(defaultKey)
}

func (rc Context) font() (*truetype.Font, error) {
	if rc.Font != nil {
		return rc.Font, nil
	}
	return chart.GetDefaultFont()
}

// text は SVG に埋め込めるよう文字列をエスケープする
func (rc Context) text(s string) string {
	if rc.Format == FormatPNG {
		return s
	}
	return html.EscapeString(s)
}

func (rc Context) size(defaultWidth, defaultHeight int) (int, int) {
	w, h := rc.Width, rc.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// LoadFont は TrueType フォントファイルを読み込む
func LoadFont(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read font")
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse font %s", path)
	}
	return font, nil
}
