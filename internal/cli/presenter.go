package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/y-hirakaw/accident-charts/internal/aggregate"
	"github.com/y-hirakaw/accident-charts/internal/i18n"
	"github.com/y-hirakaw/accident-charts/internal/render"
	"github.com/y-hirakaw/accident-charts/internal/storage"
	"github.com/y-hirakaw/accident-charts/internal/utils"
)

// Presenter は集計結果の表示を担当する
type Presenter struct {
	w      io.Writer
	locale i18n.Locale
}

// NewPresenter は新しいPresenterを作成する
func NewPresenter(w io.Writer, locale i18n.Locale) *Presenter {
	return &Presenter{w: w, locale: locale}
}

func (p *Presenter) t(key string, args ...interface{}) string {
	return i18n.TL(p.locale, key, args...)
}

// ShowJSON は値をインデント付きJSONで表示する
func (p *Presenter) ShowJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, string(data))
	return err
}

// ShowPieTable は円グラフの集計をテーブル形式で表示する
func (p *Presenter) ShowPieTable(series aggregate.PieSeries) {
	fmt.Fprintf(p.w, "=== %s ===\n", p.t("pie_chart"))
	if series.Empty() {
		fmt.Fprintln(p.w, p.t("no_data"))
	}

	fmt.Fprintf(p.w, "%-20s %12s %8s\n", p.t("category"), p.t("value"), p.t("percentage"))
	for _, s := range series.Slices {
		fmt.Fprintf(p.w, "%-20s %12s %8s\n", s.Label, utils.FormatValue(s.Value), utils.FormatPercentage(s.Percentage))
	}
	fmt.Fprintf(p.w, "%-20s %12s\n", p.t("total"), utils.FormatValue(series.Total))
}

// ShowAccidentTable は曜日ごとの時間帯別件数をテーブル形式で表示する
func (p *Presenter) ShowAccidentTable(series aggregate.StackedSeries) {
	rc := render.Context{Locale: p.locale}

	fmt.Fprintf(p.w, "=== %s ===\n", p.t("accident_chart"))
	if len(series.Days) == 0 {
		fmt.Fprintln(p.w, p.t("no_data"))
		return
	}

	header := []string{fmt.Sprintf("%-6s", p.t("day"))}
	for _, b := range series.Buckets {
		header = append(header, fmt.Sprintf("%6s", render.BucketLabel(rc, b)))
	}
	header = append(header, fmt.Sprintf("%6s", p.t("total")))
	fmt.Fprintln(p.w, strings.Join(header, " "))

	for _, d := range series.Days {
		row := []string{fmt.Sprintf("%-6s", render.WeekdayLabel(rc, d.Day))}
		for _, b := range series.Buckets {
			row = append(row, fmt.Sprintf("%6d", d.Counts[b]))
		}
		row = append(row, fmt.Sprintf("%6d", d.Total))
		fmt.Fprintln(p.w, strings.Join(row, " "))
	}
}

// ShowDatabaseInfo はスナップショットストアの状態を表示する
func (p *Presenter) ShowDatabaseInfo(info *storage.DatabaseInfo) {
	fmt.Fprintln(p.w, p.t("database_info", info.Path, utils.FormatFileSize(info.Size)))
	fmt.Fprintf(p.w, "  %-12s %d\n", "pie", info.PieCount)
	fmt.Fprintf(p.w, "  %-12s %d\n", "accidents", info.AccidentCount)
	for _, imp := range info.Imports {
		fmt.Fprintf(p.w, "  %s (%s): %s %s\n", p.t("last_import"), imp.Dataset, imp.Source, utils.FormatTimestamp(imp.ImportedAt))
	}
}

// ShowDayTotals はSQLで集計した曜日別合計をグラフの積み上げの頂点と並べて表示する
func (p *Presenter) ShowDayTotals(totals []storage.DayTotal, series aggregate.StackedSeries) {
	rc := render.Context{Locale: p.locale}

	fmt.Fprintln(p.w, p.t("day_totals"))
	for _, t := range totals {
		label := render.WeekdayLabel(rc, t.Day)
		charted := 0
		if d, ok := series.Day(t.Day); ok {
			charted = d.Total
		}
		fmt.Fprintf(p.w, "  %-6s %6d / %d\n", label, t.Total, charted)
		if charted != t.Total {
			fmt.Fprintln(p.w, "  ⚠️  "+p.t("day_total_mismatch", label, t.Total, charted))
		}
	}
}
