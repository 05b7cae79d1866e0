package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/y-hirakaw/accident-charts/internal/web"
	"github.com/y-hirakaw/accident-charts/internal/web/middleware"
)

// NewRouter はHTTPルーターを設定する
func NewRouter(server *web.Server) http.Handler {
	mux := http.NewServeMux()

	// ミドルウェアを適用
	handler := middleware.Chain(
		mux,
		middleware.Recover,
		middleware.Logger,
		middleware.CORS,
		middleware.Security,
		middleware.I18n(server.Config().Lang),
	)

	// API エンドポイント
	apiHandler := NewAPIHandler(server)
	mux.Handle("GET /api/pie", apiHandler.HandlePie())
	mux.Handle("GET /api/accidents", apiHandler.HandleAccidents())
	mux.Handle("GET /api/health", apiHandler.HandleHealth())

	// WebSocket エンドポイント（データ更新の通知用）
	mux.Handle("GET /ws", apiHandler.HandleWebSocket())

	// グラフ画像
	chartHandler := NewChartHandler(server)
	mux.Handle("GET /charts/{file}", chartHandler.HandleChart())

	mux.Handle("GET /metrics", promhttp.Handler())

	// ダッシュボードページ
	dashboardHandler := NewDashboardHandler(server)
	mux.Handle("GET /{$}", dashboardHandler.HandleIndex())
	mux.Handle("GET /dashboard", dashboardHandler.HandleDashboard())

	return handler
}
