package dataset

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	apperrors "github.com/y-hirakaw/accident-charts/internal/errors"
)

// rawAccident は欠落フィールドを検出するための中間表現
type rawAccident struct {
	Day   *int    `json:"day"`
	Time  *string `json:"time"`
	Count *int    `json:"count"`
}

// ParseAccidents は事故件数JSON ({day, time, count} の配列) を解析・検証する
func ParseAccidents(r io.Reader) ([]AccidentRecord, error) {
	var raws []rawAccident
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, errors.Wrap(err, "decode accident json")
	}

	records := make([]AccidentRecord, 0, len(raws))
	for i, raw := range raws {
		location := fmt.Sprintf("record %d", i)

		if raw.Day == nil || raw.Time == nil || raw.Count == nil {
			return nil, apperrors.InvalidRecord(location, "day, time and count are required").
				WithSuggestions("suggestion_check_json_schema")
		}

		record := AccidentRecord{Day: *raw.Day, Time: *raw.Time, Count: *raw.Count}
		if err := validateRecord(record); err != nil {
			return nil, apperrors.InvalidRecord(location, err.Error()).
				WithSuggestions("suggestion_check_json_schema")
		}
		records = append(records, record)
	}
	return records, nil
}
