package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/y-hirakaw/accident-charts/internal/aggregate"
	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/i18n"
	"github.com/y-hirakaw/accident-charts/internal/logger"
	"github.com/y-hirakaw/accident-charts/internal/render"
	"github.com/y-hirakaw/accident-charts/internal/templates"
	"github.com/y-hirakaw/accident-charts/internal/utils"
	"github.com/y-hirakaw/accident-charts/internal/web"
	"github.com/y-hirakaw/accident-charts/internal/web/middleware"
)

var dashboardTemplate = template.Must(template.New("dashboard").Parse(templates.Dashboard))

// DashboardHandler はダッシュボードページを処理する
type DashboardHandler struct {
	server *web.Server
	log    *zap.Logger
}

// NewDashboardHandler は新しいダッシュボードハンドラーを作成する
func NewDashboardHandler(server *web.Server) *DashboardHandler {
	return &DashboardHandler{
		server: server,
		log:    logger.Named("dashboard"),
	}
}

// loadError は読み込み失敗をパネルに表示する内容
type loadError struct {
	Message     string
	Suggestions []string
}

// dayRow は集計表の1行
type dayRow struct {
	Label  string
	Counts []int
	Total  int
}

// dashboardData はテンプレートに渡す値
type dashboardData struct {
	Lang           i18n.Locale
	GeneratedAt    string
	PieWidth       int
	PieHeight      int
	AccidentWidth  int
	AccidentHeight int

	Pie      aggregate.PieSeries
	PieError *loadError

	BucketLabels  []string
	Rows          []dayRow
	AccidentError *loadError
}

// T はテンプレートから翻訳を引く
func (d dashboardData) T(key string) string {
	return i18n.TL(d.Lang, key)
}

func newLoadError(err error, locale i18n.Locale) *loadError {
	le := &loadError{Message: err.Error()}
	if fe, ok := apperrors.As(err); ok {
		le.Message = fe.Message(locale)
		if fe.Cause != nil {
			le.Message += " (" + fe.Cause.Error() + ")"
		}
		for _, key := range fe.Suggestions {
			le.Suggestions = append(le.Suggestions, i18n.TL(locale, key))
		}
	}
	return le
}

// HandleIndex はインデックスページを処理する
func (h *DashboardHandler) HandleIndex() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		// ダッシュボードにリダイレクト
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
}

// HandleDashboard はダッシュボードページを処理する。
// 読み込みに失敗したグラフはエラーパネルとして表示する
func (h *DashboardHandler) HandleDashboard() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := middleware.GetLocaleFromContext(r.Context())
		profile := h.server.Config().Profile

		data := dashboardData{
			Lang:           locale,
			GeneratedAt:    utils.FormatTimestamp(time.Now()),
			PieWidth:       profile.Pie.Width,
			PieHeight:      profile.Pie.Height,
			AccidentWidth:  profile.Accidents.Width,
			AccidentHeight: profile.Accidents.Height,
		}

		if pie, err := h.server.PieSeries(r.Context()); err != nil {
			data.PieError = newLoadError(err, locale)
		} else {
			data.Pie = pie
		}

		if stack, err := h.server.StackedSeries(r.Context()); err != nil {
			data.AccidentError = newLoadError(err, locale)
		} else {
			data.BucketLabels, data.Rows = tableRows(stack, render.Context{Locale: locale})
		}

		var buf bytes.Buffer
		if err := dashboardTemplate.Execute(&buf, data); err != nil {
			h.log.Error("failed to render dashboard", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	})
}

func tableRows(stack aggregate.StackedSeries, rc render.Context) ([]string, []dayRow) {
	labels := make([]string, len(stack.Buckets))
	for i, b := range stack.Buckets {
		labels[i] = render.BucketLabel(rc, b)
	}

	rows := make([]dayRow, 0, len(stack.Days))
	for _, d := range stack.Days {
		row := dayRow{Label: render.WeekdayLabel(rc, d.Day), Total: d.Total}
		for _, b := range stack.Buckets {
			row.Counts = append(row.Counts, d.Counts[b])
		}
		rows = append(rows, row)
	}
	return labels, rows
}
