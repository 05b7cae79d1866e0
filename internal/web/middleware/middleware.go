package middleware

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/y-hirakaw/accident-charts/internal/i18n"
	"github.com/y-hirakaw/accident-charts/internal/logger"
)

// Middleware はHTTPミドルウェアの型
type Middleware func(http.Handler) http.Handler

type contextKey string

const localeKey contextKey = "locale"

// Chain は複数のミドルウェアを連鎖させる。先頭のミドルウェアが最も外側になる
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// Logger はリクエストログを出力するミドルウェア
func Logger(next http.Handler) http.Handler {
	log := logger.Named("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// カスタムResponseWriterでステータスコードをキャプチャ
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.statusCode),
			zap.Duration("duration", time.Since(start)),
			zap.String("user_agent", r.UserAgent()),
		)
	})
}

// responseWriter はステータスコードをキャプチャするためのラッパー
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack はWebSocketのアップグレードのために接続を引き渡す
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Unwrap は http.ResponseController が元の ResponseWriter に届くようにする
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// CORS はCORSヘッダーを設定するミドルウェア
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Language, If-None-Match")
		w.Header().Set("Access-Control-Expose-Headers", "ETag")

		// プリフライトリクエストの処理
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Security はセキュリティヘッダーを設定するミドルウェア
func Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"connect-src 'self' ws: wss:")

		next.ServeHTTP(w, r)
	})
}

// I18n はリクエストの言語をコンテキストに設定するミドルウェア。
// 優先順位は X-Language ヘッダー、lang クエリ、Accept-Language ヘッダー、既定言語
func I18n(defaultLocale i18n.Locale) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := defaultLocale

			candidates := []string{
				r.Header.Get("X-Language"),
				r.URL.Query().Get("lang"),
				r.Header.Get("Accept-Language"),
			}
			for _, c := range candidates {
				if c == "" {
					continue
				}
				if l, ok := i18n.ParseLocale(c); ok {
					locale = l
					break
				}
			}

			w.Header().Set("Content-Language", string(locale))
			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
		})
	}
}

// WithLocale はコンテキストに言語を設定する
func WithLocale(ctx context.Context, locale i18n.Locale) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

// GetLocaleFromContext はコンテキストから言語情報を取得する
func GetLocaleFromContext(ctx context.Context) i18n.Locale {
	if locale, ok := ctx.Value(localeKey).(i18n.Locale); ok {
		return locale
	}
	return i18n.LocaleJA // デフォルト
}

// JSON はJSONレスポンス用のヘッダーを設定するミドルウェア
func JSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// Recover はパニックを捕捉するミドルウェア
func Recover(next http.Handler) http.Handler {
	log := logger.Named("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered",
					zap.Any("panic", err),
					zap.String("path", r.URL.Path),
					zap.Stack("stack"))
				WriteJSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// ErrorBody はJSONエラーレスポンスの本文
type ErrorBody struct {
	Error       string   `json:"error"`
	Status      int      `json:"status"`
	Type        string   `json:"type,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// WriteJSONError はJSON形式のエラーレスポンスを書き込む
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSONErrorBody(w, ErrorBody{Error: message, Status: statusCode})
}

// WriteJSONErrorBody は詳細付きのJSONエラーレスポンスを書き込む
func WriteJSONErrorBody(w http.ResponseWriter, body ErrorBody) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(body.Status)
	_ = json.NewEncoder(w).Encode(body)
}
