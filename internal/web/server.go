// Package web はグラフを配信するダッシュボードサーバーを提供する。
package web

import (
	"context"
	"sync"
	"time"

	"github.com/golang/freetype/truetype"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/y-hirakaw/accident-charts/internal/aggregate"
	"github.com/y-hirakaw/accident-charts/internal/config"
	"github.com/y-hirakaw/accident-charts/internal/dataset"
	"github.com/y-hirakaw/accident-charts/internal/i18n"
	"github.com/y-hirakaw/accident-charts/internal/logger"
	"github.com/y-hirakaw/accident-charts/internal/metrics"
)

// イベント種別
const (
	EventInitial     = "initial"
	EventDataUpdated = "data_updated"
)

const (
	cacheKeyPie       = "series:pie"
	cacheKeyAccidents = "series:accidents"
)

// Config はWebサーバーの設定
type Config struct {
	Address string
	Debug   bool
	Lang    i18n.Locale
	// CacheTTL が0なら集計結果をキャッシュしない
	CacheTTL time.Duration
	Profile  *config.Profile
	Font     *truetype.Font
}

// UpdateEvent はリアルタイム更新イベント
type UpdateEvent struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Server はデータソースと集計結果のキャッシュ、購読者を管理する
type Server struct {
	config    *Config
	pie       dataset.PieSource
	accidents dataset.AccidentSource
	cache     *gocache.Cache
	log       *zap.Logger
	started   time.Time

	// リアルタイム更新用
	subscribers map[string]chan *UpdateEvent
	subsMutex   sync.RWMutex
}

// NewServer は新しいサーバーを作成する
func NewServer(cfg *Config, pie dataset.PieSource, accidents dataset.AccidentSource) *Server {
	if cfg.Profile == nil {
		cfg.Profile = config.DefaultProfile()
	}
	if cfg.Lang == "" {
		cfg.Lang = i18n.LocaleJA
	}

	s := &Server{
		config:      cfg,
		pie:         pie,
		accidents:   accidents,
		log:         logger.Named("web"),
		started:     time.Now(),
		subscribers: make(map[string]chan *UpdateEvent),
	}
	if cfg.CacheTTL > 0 {
		s.cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return s
}

// Config は設定を返す
func (s *Server) Config() *Config {
	return s.config
}

// cached はキャッシュを引き、なければ load の結果を保存する。失敗はキャッシュしない
func (s *Server) cached(key string, load func() (interface{}, error)) (interface{}, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return v, nil
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	v, err := load()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetDefault(key, v)
	}
	return v, nil
}

// PieSeries は円グラフの集計結果を返す
func (s *Server) PieSeries(ctx context.Context) (aggregate.PieSeries, error) {
	v, err := s.cached(cacheKeyPie, func() (interface{}, error) {
		records, err := s.pie.LoadPie(ctx)
		if err != nil {
			return nil, err
		}
		return aggregate.BuildPie(records), nil
	})
	if err != nil {
		return aggregate.PieSeries{}, err
	}
	return v.(aggregate.PieSeries), nil
}

// StackedSeries は積み上げ棒グラフの集計結果を返す
func (s *Server) StackedSeries(ctx context.Context) (aggregate.StackedSeries, error) {
	v, err := s.cached(cacheKeyAccidents, func() (interface{}, error) {
		records, err := s.accidents.LoadAccidents(ctx)
		if err != nil {
			return nil, err
		}
		return aggregate.BuildStack(records), nil
	})
	if err != nil {
		return aggregate.StackedSeries{}, err
	}
	return v.(aggregate.StackedSeries), nil
}

// Cached は任意の値をキャッシュ経由で取得する。描画済み画像の再利用に使う
func (s *Server) Cached(key string, load func() (interface{}, error)) (interface{}, error) {
	return s.cached(key, load)
}

// Invalidate はキャッシュを破棄し、購読者に更新を通知する
func (s *Server) Invalidate(reason string) {
	if s.cache != nil {
		s.cache.Flush()
	}
	s.log.Info("cache invalidated", zap.String("reason", reason))
	s.Broadcast(&UpdateEvent{
		Type:      EventDataUpdated,
		Timestamp: time.Now(),
		Data:      map[string]string{"reason": reason},
	})
}

// Pinger は接続確認ができるデータソース (DuckDBストアなど)
type Pinger interface {
	TestConnection(ctx context.Context) error
}

// HealthStatus はデータソースごとの状態
type HealthStatus struct {
	Healthy  bool              `json:"healthy"`
	Datasets map[string]string `json:"datasets"`
	Uptime   string            `json:"uptime"`
}

// Health は両方のデータソースを読み込めるかを確認する
func (s *Server) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Healthy:  true,
		Datasets: map[string]string{"pie": "ok", "accidents": "ok"},
		Uptime:   time.Since(s.started).Truncate(time.Second).String(),
	}
	if p, ok := s.pie.(Pinger); ok {
		status.Datasets["store"] = "ok"
		if err := p.TestConnection(ctx); err != nil {
			status.Healthy = false
			status.Datasets["store"] = err.Error()
		}
	}
	if _, err := s.PieSeries(ctx); err != nil {
		status.Healthy = false
		status.Datasets["pie"] = err.Error()
	}
	if _, err := s.StackedSeries(ctx); err != nil {
		status.Healthy = false
		status.Datasets["accidents"] = err.Error()
	}
	return status
}

// Subscribe はリアルタイム更新を購読する
func (s *Server) Subscribe(clientID string) <-chan *UpdateEvent {
	s.subsMutex.Lock()
	defer s.subsMutex.Unlock()

	ch := make(chan *UpdateEvent, 16)
	s.subscribers[clientID] = ch
	metrics.Subscribers.Set(float64(len(s.subscribers)))
	return ch
}

// Unsubscribe はリアルタイム更新を停止する
func (s *Server) Unsubscribe(clientID string) {
	s.subsMutex.Lock()
	defer s.subsMutex.Unlock()

	if ch, exists := s.subscribers[clientID]; exists {
		close(ch)
		delete(s.subscribers, clientID)
	}
	metrics.Subscribers.Set(float64(len(s.subscribers)))
}

// SubscriberCount は購読者数を返す
func (s *Server) SubscriberCount() int {
	s.subsMutex.RLock()
	defer s.subsMutex.RUnlock()
	return len(s.subscribers)
}

// Broadcast は全購読者にイベントを送信する
func (s *Server) Broadcast(event *UpdateEvent) {
	s.subsMutex.RLock()
	defer s.subsMutex.RUnlock()

	for id, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// バッファが満杯の場合はスキップ
			s.log.Warn("subscriber buffer full, event dropped", zap.String("client", id))
		}
	}
}

// Close は全購読者を切断する
func (s *Server) Close() {
	s.subsMutex.Lock()
	defer s.subsMutex.Unlock()

	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	metrics.Subscribers.Set(0)
}
