// Package utils は表示用の書式ヘルパーを提供する。
package utils

import (
	"fmt"
	"strconv"
	"time"
)

// FormatValue は値を表示用にフォーマットする。整数値なら小数点以下を省く
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return FormatNumber(int(v))
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatPercentage はパーセンテージを小数第1位までフォーマットする
func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatFileSize はファイルサイズを人間が読みやすい形式でフォーマットする
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), units[exp])
}

// FormatNumber は数値を3桁区切りでフォーマットする
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	str := strconv.Itoa(n)
	if len(str) <= 3 {
		return str
	}

	result := make([]byte, 0, len(str)+len(str)/3)
	for i := range len(str) {
		if i > 0 && (len(str)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, str[i])
	}
	return string(result)
}

// FormatTimestamp はタイムスタンプを標準形式でフォーマットする
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
