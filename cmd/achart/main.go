package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/y-hirakaw/accident-charts/internal/cli"
)

// main はアプリケーションのエントリーポイント
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app := cli.NewApp()
	exitCode := app.Run(ctx, os.Args[1:])
	stop()
	os.Exit(exitCode)
}
