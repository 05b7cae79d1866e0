package handlers

import (
	"net/http"

	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/i18n"
	"github.com/y-hirakaw/accident-charts/internal/web/middleware"
)

// statusFor はエラー種別をHTTPステータスに対応付ける
func statusFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNetwork, apperrors.ErrorTypeFile:
		return http.StatusBadGateway
	case apperrors.ErrorTypeData:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorTypeCommand:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorBody はエラーを利用者の言語で表した本文を作る
func errorBody(err error, locale i18n.Locale) middleware.ErrorBody {
	body := middleware.ErrorBody{
		Error:  err.Error(),
		Status: statusFor(err),
	}
	if fe, ok := apperrors.As(err); ok {
		body.Error = fe.Message(locale)
		body.Type = fe.Type.String()
		for _, key := range fe.Suggestions {
			body.Suggestions = append(body.Suggestions, i18n.TL(locale, key))
		}
	}
	return body
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	middleware.WriteJSONErrorBody(w, errorBody(err, middleware.GetLocaleFromContext(r.Context())))
}
