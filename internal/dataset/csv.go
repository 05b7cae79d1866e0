package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
)

// numericPattern は動的型付けで数値とみなす表記
var numericPattern = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

const utf8BOM = "\ufeff"

// ParseCSV はヘッダー行付きCSVを解析する。
// 1行目を列名とし、2行目以降の値は InferValue で型付けする。
func ParseCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && string(bom) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	// 全行がヘッダーと同じ列数であること
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("csv is empty: header row is required")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read row")
		}

		row := make(Row, len(header))
		for i, name := range header {
			row[name] = InferValue(record[i])
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// InferValue は文字列を素朴に型推論する。
// true/TRUE/false/FALSE は bool、数値表記は float64、空文字列は nil、それ以外は string
func InferValue(s string) any {
	switch s {
	case "":
		return nil
	case "true", "TRUE":
		return true
	case "false", "FALSE":
		return false
	}
	if numericPattern.MatchString(s) {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return s
}

// PieRecords は表から円グラフ用レコードを取り出す。
// 値が空 (nil) の行は 0 として扱い、数値でない値や負の値はエラーとする
func PieRecords(table *Table, keyColumn, valueColumn string) ([]PieRecord, error) {
	for _, col := range []string{keyColumn, valueColumn} {
		if !table.HasColumn(col) {
			return nil, apperrors.InvalidRecord("header", fmt.Sprintf("column %q not found in %v", col, table.Header)).
				WithSuggestions("suggestion_check_csv_header")
		}
	}

	records := make([]PieRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		// ヘッダーが1行目なので、データ行は2行目から
		location := fmt.Sprintf("line %d", i+2)

		value, err := numericValue(row[valueColumn])
		if err != nil {
			return nil, apperrors.InvalidRecord(location, err.Error())
		}

		record := PieRecord{Key: labelValue(row[keyColumn]), Value: value}
		if err := validateRecord(record); err != nil {
			return nil, apperrors.InvalidRecord(location, err.Error())
		}
		records = append(records, record)
	}
	return records, nil
}

func numericValue(v any) (float64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return val, nil
	default:
		return 0, fmt.Errorf("value %v is not numeric", val)
	}
}

// labelValue は型推論されたセルをラベル文字列に戻す
func labelValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
