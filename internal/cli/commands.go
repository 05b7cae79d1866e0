package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/y-hirakaw/accident-charts/internal/aggregate"
	"github.com/y-hirakaw/accident-charts/internal/config"
	"github.com/y-hirakaw/accident-charts/internal/dataset"
	"github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/render"
	"github.com/y-hirakaw/accident-charts/internal/storage"
	"github.com/y-hirakaw/accident-charts/internal/templates"
)

func (a *App) pieCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "pie",
		Short: "Show category totals and percentages from the pie CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSources(a.cfg)
			if err != nil {
				return err
			}
			defer src.close()

			records, err := src.pie.LoadPie(cmd.Context())
			if err != nil {
				return err
			}
			series := aggregate.BuildPie(records)

			p := NewPresenter(cmd.OutOrStdout(), a.locale)
			if asJSON {
				return p.ShowJSON(series)
			}
			p.ShowPieTable(series)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (a *App) accidentsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "accidents",
		Short: "Show accident counts per weekday and time-of-day bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSources(a.cfg)
			if err != nil {
				return err
			}
			defer src.close()

			records, err := src.accidents.LoadAccidents(cmd.Context())
			if err != nil {
				return err
			}
			series := aggregate.BuildStack(records)

			p := NewPresenter(cmd.OutOrStdout(), a.locale)
			if asJSON {
				return p.ShowJSON(map[string]interface{}{
					"accidents": series,
					"max":       series.Max(),
					"nice_max":  render.NiceMax(float64(series.Max())),
				})
			}
			p.ShowAccidentTable(series)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (a *App) renderCommand() *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "render <pie|accidents>",
		Short: "Render a chart to an SVG or PNG file",
		Long:  "グラフを描画してファイルに書き出します。-o - で標準出力に書き出します。",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := render.ParseChart(args[0])
			if err != nil {
				return err
			}

			// 形式の指定がなければ出力ファイルの拡張子から決める
			if format == "" && output != "" && output != "-" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			if output == "" {
				output = string(c) + f.Extension()
			}

			body, err := a.renderChart(cmd, c, f)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0644); err != nil {
				return errors.WrapError(err, errors.ErrorTypeFile, "render_failed", output)
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.t("rendered", output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <chart>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format (svg|png)")
	return cmd
}

func (a *App) renderChart(cmd *cobra.Command, c render.Chart, f render.Format) ([]byte, error) {
	profile, err := loadProfile(a.cfg)
	if err != nil {
		return nil, err
	}
	font, err := loadFont(a.cfg)
	if err != nil {
		return nil, err
	}
	src, err := openSources(a.cfg)
	if err != nil {
		return nil, err
	}
	defer src.close()

	rc := render.NewContext(c, profile, f, a.locale, font)
	var buf bytes.Buffer
	switch c {
	case render.ChartPie:
		records, err := src.pie.LoadPie(cmd.Context())
		if err != nil {
			return nil, err
		}
		err = render.Pie(rc, &buf, aggregate.BuildPie(records))
		if err != nil {
			return nil, err
		}
	default:
		records, err := src.accidents.LoadAccidents(cmd.Context())
		if err != nil {
			return nil, err
		}
		err = render.StackedBars(rc, &buf, aggregate.BuildStack(records))
		if err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (a *App) importCommand() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load both datasets and store a snapshot in DuckDB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = a.cfg.DuckDBPath
			}

			loader := newLoader(a.cfg)
			bundle, err := dataset.LoadAll(cmd.Context(), loader, loader)
			if err != nil {
				return err
			}

			store, err := storage.NewDuckDBStorage(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ImportPie(cmd.Context(), a.cfg.PieSource, bundle.Pie); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.t("imported", a.cfg.PieSource, len(bundle.Pie)))

			if err := store.ImportAccidents(cmd.Context(), a.cfg.AccidentSource, bundle.Accidents); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.t("imported", a.cfg.AccidentSource, len(bundle.Accidents)))

			presenter := NewPresenter(cmd.OutOrStdout(), a.locale)
			totals, err := store.DayTotals(cmd.Context())
			if err != nil {
				return err
			}
			presenter.ShowDayTotals(totals, aggregate.BuildStack(bundle.Accidents))

			info, err := store.Info(cmd.Context())
			if err != nil {
				return err
			}
			presenter.ShowDatabaseInfo(info)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database file (default ACHART_DUCKDB_PATH)")
	return cmd
}

func (a *App) initCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default charts.yaml and .env",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			pm := config.NewProfileManager(a.cfg.ProfilePath)
			if pm.Exists() && !force {
				fmt.Fprintln(out, a.t("file_exists", pm.Path()))
			} else {
				if err := pm.Save(config.DefaultProfile()); err != nil {
					return err
				}
				fmt.Fprintln(out, a.t("file_created", pm.Path()))
			}

			envPath := a.flags.envFile
			if envPath == "" {
				envPath = ".env"
			}
			if _, err := os.Stat(envPath); err == nil && !force {
				fmt.Fprintln(out, a.t("file_exists", envPath))
				return nil
			}
			if err := os.WriteFile(envPath, []byte(templates.DefaultEnv), 0644); err != nil {
				return errors.WrapError(err, errors.ErrorTypeFile, "config_invalid", envPath)
			}
			fmt.Fprintln(out, a.t("file_created", envPath))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", AppName, Version)
			return nil
		},
	}
}
