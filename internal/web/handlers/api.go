package handlers

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/y-hirakaw/accident-charts/internal/logger"
	"github.com/y-hirakaw/accident-charts/internal/render"
	"github.com/y-hirakaw/accident-charts/internal/web"
	"github.com/y-hirakaw/accident-charts/internal/web/middleware"
)

// Version はAPIが返すバージョン
var Version = "dev"

// APIHandler はJSON APIとWebSocketを処理する
type APIHandler struct {
	server   *web.Server
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewAPIHandler は新しいAPIハンドラーを作成する
func NewAPIHandler(server *web.Server) *APIHandler {
	return &APIHandler{
		server: server,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// ダッシュボードは同一オリジン以外からも参照される
				return true
			},
		},
		log: logger.Named("api"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HandlePie は円グラフの集計結果を返すAPIエンドポイント
func (h *APIHandler) HandlePie() http.Handler {
	return middleware.JSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		series, err := h.server.PieSeries(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"pie":       series,
			"timestamp": time.Now(),
		})
	}))
}

// HandleAccidents は積み上げ棒グラフの集計結果を返すAPIエンドポイント。
// layers は時間帯ごと、days は曜日ごとの並び
func (h *APIHandler) HandleAccidents() http.Handler {
	return middleware.JSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		series, err := h.server.StackedSeries(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}

		max := series.Max()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"accidents": series,
			"layers":    series.Layers(),
			"max":       max,
			"nice_max":  render.NiceMax(float64(max)),
			"timestamp": time.Now(),
		})
	}))
}

// HandleHealth はヘルスチェックエンドポイント
func (h *APIHandler) HandleHealth() http.Handler {
	return middleware.JSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		health := h.server.Health(r.Context())

		status := "ok"
		statusCode := http.StatusOK
		if !health.Healthy {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		writeJSON(w, statusCode, map[string]interface{}{
			"status":      status,
			"datasets":    health.Datasets,
			"uptime":      health.Uptime,
			"subscribers": h.server.SubscriberCount(),
			"timestamp":   time.Now(),
			"version":     Version,
		})
	}))
}

// HandleWebSocket はWebSocket接続を処理する。
// 接続直後に initial を送り、以降はデータ更新のたびに data_updated を送る
func (h *APIHandler) HandleWebSocket() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		clientID := uuid.NewString()
		updates := h.server.Subscribe(clientID)
		defer h.server.Unsubscribe(clientID)

		if err := h.sendInitialData(conn, r); err != nil {
			return
		}

		// 読み込みループは切断検知のためだけに回す
		closed := make(chan struct{})
		go h.handleWebSocketMessages(conn, clientID, closed)

		for {
			select {
			case <-closed:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if err := conn.WriteJSON(update); err != nil {
					return
				}
			}
		}
	})
}

// sendInitialData は接続時の状態をWebSocketで送信する
func (h *APIHandler) sendInitialData(conn *websocket.Conn, r *http.Request) error {
	data := map[string]interface{}{}
	if _, err := h.server.PieSeries(r.Context()); err != nil {
		data["pie_error"] = err.Error()
	}
	if _, err := h.server.StackedSeries(r.Context()); err != nil {
		data["accidents_error"] = err.Error()
	}

	return conn.WriteJSON(&web.UpdateEvent{
		Type:      web.EventInitial,
		Timestamp: time.Now(),
		Data:      data,
	})
}

// handleWebSocketMessages はクライアントからのメッセージを読み捨て、切断されたら closed を閉じる
func (h *APIHandler) handleWebSocketMessages(conn *websocket.Conn, clientID string, closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket closed", zap.String("client", clientID), zap.Error(err))
			}
			return
		}
	}
}
