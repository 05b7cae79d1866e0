package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

// Locale は言語ロケール
type Locale string

const (
	// LocaleJA は日本語
	LocaleJA Locale = "ja"
	// LocaleEN は英語
	LocaleEN Locale = "en"
)

// ParseLocale は文字列をロケールに変換する。未知の値は ok=false
func ParseLocale(s string) (Locale, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "ja"):
		return LocaleJA, true
	case strings.HasPrefix(s, "en"):
		return LocaleEN, true
	}
	return LocaleJA, false
}

// Messages は翻訳メッセージのマップ
type Messages map[string]string

// I18n は国際化システム
type I18n struct {
	mu            sync.RWMutex
	currentLocale Locale
	messages      map[Locale]Messages
	fallback      Locale
}

// NewI18n は新しい国際化システムを作成する
func NewI18n() *I18n {
	i := &I18n{
		currentLocale: LocaleJA,
		messages:      make(map[Locale]Messages),
		fallback:      LocaleJA,
	}

	i.loadDefaultMessages()

	// 環境変数から言語設定を読み込み
	if lang := os.Getenv("ACHART_LANG"); lang != "" {
		if locale, ok := ParseLocale(lang); ok {
			i.SetLocale(locale)
		}
	}

	return i
}

// SetLocale は現在のロケールを設定する
func (i *I18n) SetLocale(locale Locale) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.currentLocale = locale
}

// GetLocale は現在のロケールを取得する
func (i *I18n) GetLocale() Locale {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.currentLocale
}

// T は現在のロケールで翻訳を取得する
func (i *I18n) T(key string, args ...interface{}) string {
	return i.TL(i.GetLocale(), key, args...)
}

// TL は指定ロケールで翻訳を取得する
func (i *I18n) TL(locale Locale, key string, args ...interface{}) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if message, found := i.messages[locale][key]; found {
		return format(message, args)
	}

	// フォールバック言語で検索
	if locale != i.fallback {
		if message, found := i.messages[i.fallback][key]; found {
			return format(message, args)
		}
	}

	// メッセージが見つからない場合はキーをそのまま返す
	if len(args) > 0 {
		return fmt.Sprintf("%s: %v", key, args)
	}
	return key
}

func format(message string, args []interface{}) string {
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

// LoadMessagesFromFile はファイルから翻訳メッセージを読み込む
func (i *I18n) LoadMessagesFromFile(locale Locale, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("メッセージファイルの読み込みに失敗: %w", err)
	}

	var messages Messages
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("メッセージファイルの解析に失敗: %w", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.messages[locale] == nil {
		i.messages[locale] = Messages{}
	}
	for k, v := range messages {
		i.messages[locale][k] = v
	}
	return nil
}

// LoadMessagesFromDir はディレクトリから翻訳メッセージを読み込む (例: messages.ja.json)
func (i *I18n) LoadMessagesFromDir(dirPath string) error {
	return filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !strings.HasSuffix(path, ".json") {
			return nil
		}

		fileName := strings.TrimSuffix(filepath.Base(path), ".json")
		parts := strings.Split(fileName, ".")
		if len(parts) >= 2 {
			return i.LoadMessagesFromFile(Locale(parts[len(parts)-1]), path)
		}
		return nil
	})
}

// Global instance
var (
	globalI18n *I18n
	globalOnce sync.Once
)

// Initialize はグローバルなi18nシステムを初期化する
func Initialize() {
	globalOnce.Do(func() {
		globalI18n = NewI18n()
	})
}

// Global はグローバルインスタンスを返す
func Global() *I18n {
	Initialize()
	return globalI18n
}

// T はグローバルな翻訳関数
func T(key string, args ...interface{}) string {
	return Global().T(key, args...)
}

// TL は指定ロケールでのグローバルな翻訳関数
func TL(locale Locale, key string, args ...interface{}) string {
	return Global().TL(locale, key, args...)
}

// SetLocale はグローバルなロケールを設定する
func SetLocale(locale Locale) {
	Global().SetLocale(locale)
}
