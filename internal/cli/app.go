// Package cli は achart コマンドを実装する。
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/y-hirakaw/accident-charts/internal/config"
	"github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/i18n"
	"github.com/y-hirakaw/accident-charts/internal/logger"
)

const (
	// Version はアプリケーションのバージョン
	Version = "0.1.0"
	// AppName はアプリケーション名
	AppName = "achart"
)

// globalFlags は全コマンド共通のフラグ
type globalFlags struct {
	envFile        string
	lang           string
	debug          bool
	pieSource      string
	accidentSource string
}

// App はCLIアプリケーションを表す
type App struct {
	out    io.Writer
	errOut io.Writer
	flags  globalFlags

	cfg    *config.Config
	locale i18n.Locale
}

// NewApp は新しいCLIアプリケーションを作成する
func NewApp() *App {
	return newApp(os.Stdout, os.Stderr)
}

func newApp(out, errOut io.Writer) *App {
	// i18nシステムを初期化
	i18n.Initialize()
	return &App{out: out, errOut: errOut, locale: i18n.LocaleJA}
}

// Run はCLIアプリケーションを実行し、終了コードを返す
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		formatter := errors.NewErrorFormatter(a.locale)
		formatter.SetColorEnabled(isTerminal(a.errOut))
		fmt.Fprintln(a.errOut, formatter.Format(err))
		return 1
	}
	return 0
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           AppName,
		Short:         "Pie and stacked bar charts for accident statistics",
		Long:          "achart は円グラフ用CSVと曜日別・時間帯別の事故件数JSONを集計し、SVG/PNGのグラフやWebダッシュボードとして出力します。",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.envFile, "env-file", "", "path to the .env file (default .env)")
	pf.StringVar(&a.flags.lang, "lang", "", "display language (ja|en)")
	pf.BoolVar(&a.flags.debug, "debug", false, "enable debug logging")
	pf.StringVar(&a.flags.pieSource, "pie", "", "pie chart CSV (path, http(s):// or s3://)")
	pf.StringVar(&a.flags.accidentSource, "accidents", "", "accident JSON (path, http(s):// or s3://)")

	root.AddCommand(
		a.pieCommand(),
		a.accidentsCommand(),
		a.renderCommand(),
		a.importCommand(),
		a.serveCommand(),
		a.initCommand(),
		a.versionCommand(),
	)
	return root
}

// setup は設定を読み込み、フラグで上書きしてロガーを初期化する
func (a *App) setup(cmd *cobra.Command) error {
	if a.flags.lang != "" {
		if locale, ok := i18n.ParseLocale(a.flags.lang); ok {
			a.locale = locale
		}
	}

	cfg, err := config.Load(a.flags.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("lang") {
		cfg.Lang = a.flags.lang
	}
	if flags.Changed("debug") {
		cfg.Debug = a.flags.debug
	}
	if flags.Changed("pie") {
		cfg.PieSource = a.flags.pieSource
	}
	if flags.Changed("accidents") {
		cfg.AccidentSource = a.flags.accidentSource
	}
	if err := Prepare(cfg); err != nil {
		return err
	}

	a.cfg = cfg
	a.locale = cfg.Locale()
	return nil
}

// Prepare は上書き済みの設定を検証し、ロガーと表示言語を初期化する
func Prepare(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.InitLogger(cfg.Env, cfg.Debug); err != nil {
		return errors.WrapError(err, errors.ErrorTypeConfig, "config_invalid", "logger")
	}

	i18n.SetLocale(cfg.Locale())
	if cfg.MessagesDir != "" {
		if err := i18n.Global().LoadMessagesFromDir(cfg.MessagesDir); err != nil {
			return errors.WrapError(err, errors.ErrorTypeConfig, "config_invalid", cfg.MessagesDir)
		}
	}
	return nil
}

// t は現在の言語でメッセージを引く
func (a *App) t(key string, args ...interface{}) string {
	return i18n.TL(a.locale, key, args...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
