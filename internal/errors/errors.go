package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/y-hirakaw/accident-charts/internal/i18n"
)

// ErrorType はエラーの種類を定義する
type ErrorType int

const (
	// ErrorTypeGeneral は一般的なエラー
	ErrorTypeGeneral ErrorType = iota
	// ErrorTypeFile はファイル関連のエラー
	ErrorTypeFile
	// ErrorTypeCommand はコマンド関連のエラー
	ErrorTypeCommand
	// ErrorTypeData はデータ関連のエラー
	ErrorTypeData
	// ErrorTypeConfig は設定関連のエラー
	ErrorTypeConfig
	// ErrorTypeNetwork はネットワーク関連のエラー
	ErrorTypeNetwork
	// ErrorTypeRender は描画関連のエラー
	ErrorTypeRender
	// ErrorTypeStorage はストレージ関連のエラー
	ErrorTypeStorage
)

// String はエラー種別名を返す
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeFile:
		return "file"
	case ErrorTypeCommand:
		return "command"
	case ErrorTypeData:
		return "data"
	case ErrorTypeConfig:
		return "config"
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeRender:
		return "render"
	case ErrorTypeStorage:
		return "storage"
	default:
		return "general"
	}
}

// FriendlyError はユーザーフレンドリーなエラー
type FriendlyError struct {
	Type        ErrorType
	Key         string
	Args        []interface{}
	Cause       error
	Suggestions []string
	recoverable bool
}

// Error は error インターフェースを実装する
func (e *FriendlyError) Error() string {
	msg := i18n.T(e.Key, e.Args...)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap は内部エラーを返す
func (e *FriendlyError) Unwrap() error {
	return e.Cause
}

// Is は同じ種別・キーのエラーであれば一致とみなす
func (e *FriendlyError) Is(target error) bool {
	t, ok := target.(*FriendlyError)
	if !ok || t == nil {
		return false
	}
	return e.Type == t.Type && (t.Key == "" || e.Key == t.Key)
}

// Message は指定ロケールで翻訳されたメッセージを取得する (原因は含まない)
func (e *FriendlyError) Message(locale i18n.Locale) string {
	return i18n.TL(locale, e.Key, e.Args...)
}

// IsRecoverable はエラーが回復可能かどうかを返す
func (e *FriendlyError) IsRecoverable() bool {
	return e.recoverable
}

// IsRecoverable は err が利用者の操作 (パスの修正や再試行) で解消できるかを返す。
// FriendlyError でなければ false
func IsRecoverable(err error) bool {
	fe, ok := As(err)
	return ok && fe.IsRecoverable()
}

// NewError は新しいフレンドリーエラーを作成する
func NewError(errorType ErrorType, key string, args ...interface{}) *FriendlyError {
	return &FriendlyError{
		Type: errorType,
		Key:  key,
		Args: args,
	}
}

// WrapError は既存のエラーをラップする
func WrapError(cause error, errorType ErrorType, key string, args ...interface{}) *FriendlyError {
	return &FriendlyError{
		Type:  errorType,
		Key:   key,
		Args:  args,
		Cause: cause,
	}
}

// WithSuggestions は提案キーを追加する
func (e *FriendlyError) WithSuggestions(keys ...string) *FriendlyError {
	e.Suggestions = append(e.Suggestions, keys...)
	return e
}

// WithRecoverable は回復可能フラグを設定する
func (e *FriendlyError) WithRecoverable(recoverable bool) *FriendlyError {
	e.recoverable = recoverable
	return e
}

// TypeOf はエラーチェーン中の FriendlyError の種別を返す
func TypeOf(err error) ErrorType {
	var fe *FriendlyError
	if stderrors.As(err, &fe) {
		return fe.Type
	}
	return ErrorTypeGeneral
}

// As はエラーチェーンから FriendlyError を取り出す
func As(err error) (*FriendlyError, bool) {
	var fe *FriendlyError
	ok := stderrors.As(err, &fe)
	return fe, ok
}

// ErrorFormatter はエラーのフォーマッター
type ErrorFormatter struct {
	colorEnabled    bool
	showCause       bool
	showSuggestions bool
	locale          i18n.Locale
}

// NewErrorFormatter は新しいエラーフォーマッターを作成する
func NewErrorFormatter(locale i18n.Locale) *ErrorFormatter {
	return &ErrorFormatter{
		colorEnabled:    true,
		showCause:       true,
		showSuggestions: true,
		locale:          locale,
	}
}

// SetColorEnabled はカラー表示を設定する
func (f *ErrorFormatter) SetColorEnabled(enabled bool) {
	f.colorEnabled = enabled
}

// Format はエラーをフォーマットする
func (f *ErrorFormatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var result strings.Builder
	if fe, ok := As(err); ok {
		f.formatFriendlyError(&result, fe)
	} else {
		f.writeHeadline(&result, f.getErrorIcon(ErrorTypeGeneral), err.Error())
	}
	return result.String()
}

// formatFriendlyError はフレンドリーエラーをフォーマットする
func (f *ErrorFormatter) formatFriendlyError(result *strings.Builder, err *FriendlyError) {
	f.writeHeadline(result, f.getErrorIcon(err.Type), err.Message(f.locale))

	if f.showCause && err.Cause != nil {
		result.WriteString(fmt.Sprintf("\n  %s: %s", i18n.TL(f.locale, "caused_by"), err.Cause.Error()))
	}

	if f.showSuggestions && len(err.Suggestions) > 0 {
		result.WriteString(fmt.Sprintf("\n\n💡 %s:", i18n.TL(f.locale, "suggestions")))
		bullet := "•"
		if f.colorEnabled {
			bullet = f.colorYellow(bullet)
		}
		for _, key := range err.Suggestions {
			result.WriteString(fmt.Sprintf("\n  %s %s", bullet, i18n.TL(f.locale, key)))
		}
	}
}

func (f *ErrorFormatter) writeHeadline(result *strings.Builder, icon, message string) {
	line := fmt.Sprintf("%s %s: %s", icon, i18n.TL(f.locale, "error"), message)
	if f.colorEnabled {
		line = f.colorRed(line)
	}
	result.WriteString(line)
}

// getErrorIcon はエラータイプに応じたアイコンを返す
func (f *ErrorFormatter) getErrorIcon(errorType ErrorType) string {
	switch errorType {
	case ErrorTypeFile:
		return "📁"
	case ErrorTypeCommand:
		return "⚙️"
	case ErrorTypeData:
		return "📊"
	case ErrorTypeConfig:
		return "🛠️"
	case ErrorTypeNetwork:
		return "🌐"
	case ErrorTypeRender:
		return "🎨"
	case ErrorTypeStorage:
		return "🦆"
	default:
		return "❌"
	}
}

func (f *ErrorFormatter) colorRed(text string) string {
	return fmt.Sprintf("\033[31m%s\033[0m", text)
}

func (f *ErrorFormatter) colorYellow(text string) string {
	return fmt.Sprintf("\033[33m%s\033[0m", text)
}

// 便利な関数群

// FileNotFound はファイルが見つからないエラーを作成する
func FileNotFound(path string) *FriendlyError {
	return NewError(ErrorTypeFile, "file_not_found", path).
		WithSuggestions("suggestion_check_file_path").
		WithRecoverable(true)
}

// FetchFailed はデータ取得失敗エラーを作成する
func FetchFailed(source string, cause error) *FriendlyError {
	return WrapError(cause, ErrorTypeNetwork, "fetch_failed", source).
		WithSuggestions("suggestion_check_url", "suggestion_check_network").
		WithRecoverable(true)
}

// ParseFailed はデータ解析失敗エラーを作成する
func ParseFailed(source string, cause error) *FriendlyError {
	return WrapError(cause, ErrorTypeData, "parse_failed", source)
}

// InvalidRecord は不正レコードエラーを作成する
func InvalidRecord(location, reason string) *FriendlyError {
	return NewError(ErrorTypeData, "invalid_record", location, reason)
}

// UnsupportedSource はサポート外のデータソースエラーを作成する
func UnsupportedSource(source string) *FriendlyError {
	return NewError(ErrorTypeConfig, "unsupported_source", source).
		WithSuggestions("suggestion_check_file_path", "suggestion_check_url")
}

// ConfigInvalid は設定不正エラーを作成する
func ConfigInvalid(cause error) *FriendlyError {
	return WrapError(cause, ErrorTypeConfig, "config_invalid", cause.Error())
}

// RenderFailed は描画失敗エラーを作成する
func RenderFailed(chart string, cause error) *FriendlyError {
	return WrapError(cause, ErrorTypeRender, "render_failed", chart)
}

// UnknownChart は不明なグラフ名エラーを作成する
func UnknownChart(name string) *FriendlyError {
	return NewError(ErrorTypeCommand, "unknown_chart", name).
		WithSuggestions("suggestion_valid_charts").
		WithRecoverable(true)
}

// InvalidFormat は不明な出力形式エラーを作成する
func InvalidFormat(format string) *FriendlyError {
	return NewError(ErrorTypeCommand, "invalid_format", format).
		WithSuggestions("suggestion_valid_formats").
		WithRecoverable(true)
}

// StoreFailed はストレージ操作失敗エラーを作成する
func StoreFailed(op string, cause error) *FriendlyError {
	return WrapError(cause, ErrorTypeStorage, "store_failed", op)
}
