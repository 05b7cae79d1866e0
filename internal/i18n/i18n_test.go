package i18n

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in   string
		want Locale
		ok   bool
	}{
		{"ja", LocaleJA, true},
		{"ja_JP.UTF-8", LocaleJA, true},
		{"EN", LocaleEN, true},
		{"en-US", LocaleEN, true},
		{"fr", LocaleJA, false},
		{"", LocaleJA, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLocale(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseLocale(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTL(t *testing.T) {
	i := NewI18n()

	if got := i.TL(LocaleJA, "weekday_1"); got != "日" {
		t.Errorf("weekday_1 (ja) = %q, want 日", got)
	}
	if got := i.TL(LocaleEN, "weekday_7"); got != "Sat" {
		t.Errorf("weekday_7 (en) = %q, want Sat", got)
	}
	if got := i.TL(LocaleEN, "file_not_found", "data.csv"); got != "File not found: data.csv" {
		t.Errorf("file_not_found (en) = %q", got)
	}
}

func TestTL_Fallback(t *testing.T) {
	i := NewI18n()
	i.messages[LocaleJA]["only_ja"] = "日本語のみ"

	if got := i.TL(LocaleEN, "only_ja"); got != "日本語のみ" {
		t.Errorf("フォールバックが機能していません: %q", got)
	}
	if got := i.TL(LocaleEN, "missing_key"); got != "missing_key" {
		t.Errorf("未定義キーはキーを返すべき: %q", got)
	}
}

func TestEveryKeyIsTranslated(t *testing.T) {
	i := NewI18n()
	for key := range i.messages[LocaleJA] {
		if _, ok := i.messages[LocaleEN][key]; !ok {
			t.Errorf("英語メッセージが不足しています: %s", key)
		}
	}
}

func TestLoadMessagesFromDir(t *testing.T) {
	dir := t.TempDir()
	content := `{"axis_day": "Weekday"}`
	if err := os.WriteFile(filepath.Join(dir, "messages.en.json"), []byte(content), 0644); err != nil {
		t.Fatalf("メッセージファイルの作成に失敗: %v", err)
	}

	i := NewI18n()
	if err := i.LoadMessagesFromDir(dir); err != nil {
		t.Fatalf("LoadMessagesFromDir() error = %v", err)
	}

	if got := i.TL(LocaleEN, "axis_day"); got != "Weekday" {
		t.Errorf("上書きされていません: %q", got)
	}
	// 既存のキーは保持される
	if got := i.TL(LocaleEN, "axis_count"); got != "Accidents" {
		t.Errorf("既存キーが失われました: %q", got)
	}
}
