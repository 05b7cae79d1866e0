package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/y-hirakaw/accident-charts/internal/cli"
	"github.com/y-hirakaw/accident-charts/internal/config"
	"github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/i18n"
	"github.com/y-hirakaw/accident-charts/internal/logger"
)

// DefaultPort はデフォルトのサーバーポート
const DefaultPort = "8080"

func main() {
	var (
		port      = flag.String("port", DefaultPort, "Server port")
		envFile   = flag.String("env-file", "", "Path to the .env file (default .env)")
		pie       = flag.String("pie", "", "Pie chart CSV (path, http(s):// or s3://)")
		accidents = flag.String("accidents", "", "Accident JSON (path, http(s):// or s3://)")
		lang      = flag.String("lang", "", "Default language (ja|en)")
		debug     = flag.Bool("debug", false, "Enable debug mode")
		noWatch   = flag.Bool("no-watch", false, "Do not watch local data files")
	)
	flag.Parse()

	// 国際化システムを初期化
	i18n.Initialize()

	cfg, err := config.Load(*envFile)
	if err != nil {
		exit(err, i18n.LocaleJA)
	}

	// フラグで上書き
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Address = ":" + *port
		case "pie":
			cfg.PieSource = *pie
		case "accidents":
			cfg.AccidentSource = *accidents
		case "lang":
			cfg.Lang = *lang
		case "debug":
			cfg.Debug = *debug
		case "no-watch":
			cfg.Watch = !*noWatch
		}
	})
	if err := cli.Prepare(cfg); err != nil {
		exit(err, i18n.LocaleJA)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Serve(ctx, cfg, os.Stdout); err != nil {
		stop()
		exit(err, cfg.Locale())
	}
}

func exit(err error, locale i18n.Locale) {
	fmt.Fprintln(os.Stderr, errors.NewErrorFormatter(locale).Format(err))
	os.Exit(1)
}
