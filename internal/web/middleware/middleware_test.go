package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/y-hirakaw/accident-charts/internal/i18n"
)

func localeEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetLocaleFromContext(r.Context())))
	})
}

func TestI18nPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		headers map[string]string
		want    string
	}{
		{"既定言語", "/", nil, "en"},
		{"Accept-Language", "/", map[string]string{"Accept-Language": "ja-JP,ja;q=0.9"}, "ja"},
		{"クエリがAccept-Languageより優先", "/?lang=en", map[string]string{"Accept-Language": "ja"}, "en"},
		{"X-Languageが最優先", "/?lang=en", map[string]string{"X-Language": "ja"}, "ja"},
		{"未知の言語は無視", "/?lang=fr", map[string]string{"Accept-Language": "ja"}, "ja"},
	}

	h := I18n(i18n.LocaleEN)(localeEcho())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Body.String())
			assert.Equal(t, tt.want, rec.Header().Get("Content-Language"))
		})
	}
}

func TestGetLocaleFromContextDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, i18n.LocaleJA, GetLocaleFromContext(req.Context()))
	assert.Equal(t, i18n.LocaleEN, GetLocaleFromContext(WithLocale(req.Context(), i18n.LocaleEN)))
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/pie", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pie", nil))
	assert.True(t, called)
	assert.Equal(t, "ETag", rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), Recover, Logger)

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Internal Server Error","status":500}`, rec.Body.String())
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestWriteJSONErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONErrorBody(rec, ErrorBody{Error: "bad", Status: http.StatusUnprocessableEntity, Type: "data"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"bad","status":422,"type":"data"}`, rec.Body.String())
}
