package handlers

import (
	"bytes"
	"encoding/hex"
	"net/http"
	"path"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/y-hirakaw/accident-charts/internal/i18n"
	"github.com/y-hirakaw/accident-charts/internal/render"
	"github.com/y-hirakaw/accident-charts/internal/web"
	"github.com/y-hirakaw/accident-charts/internal/web/middleware"
)

// image は描画済みのグラフ
type image struct {
	body []byte
	etag string
}

// ChartHandler はグラフ画像を配信する
type ChartHandler struct {
	server *web.Server
}

// NewChartHandler は新しいグラフ画像ハンドラーを作成する
func NewChartHandler(server *web.Server) *ChartHandler {
	return &ChartHandler{server: server}
}

// ParseChartFile は "pie.svg" のようなファイル名をグラフ種別と形式に分解する
func ParseChartFile(name string) (render.Chart, render.Format, error) {
	ext := path.Ext(name)
	c, err := render.ParseChart(strings.TrimSuffix(name, ext))
	if err != nil {
		return "", "", err
	}
	f, err := render.ParseFormat(strings.TrimPrefix(ext, "."))
	if err != nil {
		return "", "", err
	}
	return c, f, nil
}

// HandleChart は /charts/{file} を処理する。ETag が一致すれば 304 を返す
func (h *ChartHandler) HandleChart() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, format, err := ParseChartFile(r.PathValue("file"))
		if err != nil {
			middleware.WriteJSONErrorBody(w, middleware.ErrorBody{
				Error:  err.Error(),
				Status: http.StatusNotFound,
			})
			return
		}

		locale := middleware.GetLocaleFromContext(r.Context())
		img, err := h.image(r, c, format, locale)
		if err != nil {
			writeError(w, r, err)
			return
		}

		w.Header().Set("ETag", img.etag)
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Vary", "Accept-Language, X-Language")
		if match := r.Header.Get("If-None-Match"); match != "" && match == img.etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img.body)
	})
}

// image は描画結果をキャッシュ経由で返す。キーは種別・形式・言語
func (h *ChartHandler) image(r *http.Request, c render.Chart, format render.Format, locale i18n.Locale) (*image, error) {
	key := "image:" + string(c) + ":" + string(format) + ":" + string(locale)
	v, err := h.server.Cached(key, func() (interface{}, error) {
		cfg := h.server.Config()
		rc := render.NewContext(c, cfg.Profile, format, locale, cfg.Font)

		var buf bytes.Buffer
		switch c {
		case render.ChartPie:
			series, err := h.server.PieSeries(r.Context())
			if err != nil {
				return nil, err
			}
			if err := render.Pie(rc, &buf, series); err != nil {
				return nil, err
			}
		default:
			series, err := h.server.StackedSeries(r.Context())
			if err != nil {
				return nil, err
			}
			if err := render.StackedBars(rc, &buf, series); err != nil {
				return nil, err
			}
		}
		return &image{body: buf.Bytes(), etag: etag(buf.Bytes())}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*image), nil
}

// etag は内容の BLAKE2b ダイジェストから強いETagを作る
func etag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
