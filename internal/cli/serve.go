package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/y-hirakaw/accident-charts/internal/config"
	"github.com/y-hirakaw/accident-charts/internal/errors"
	"github.com/y-hirakaw/accident-charts/internal/i18n"
	"github.com/y-hirakaw/accident-charts/internal/logger"
	"github.com/y-hirakaw/accident-charts/internal/web"
	"github.com/y-hirakaw/accident-charts/internal/web/handlers"
)

func (a *App) serveCommand() *cobra.Command {
	var (
		addr    string
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Address = addr
			}
			if noWatch {
				a.cfg.Watch = false
			}
			return Serve(cmd.Context(), a.cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default ACHART_ADDRESS)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not watch local data files")
	return cmd
}

// ValidateAddress は host:port 形式とポート番号を検証する
func ValidateAddress(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return errors.NewError(errors.ErrorTypeCommand, "invalid_port", addr).
			WithSuggestions("suggestion_valid_port")
	}
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return errors.NewError(errors.ErrorTypeCommand, "invalid_port", port).
			WithSuggestions("suggestion_valid_port")
	}
	return nil
}

// Serve はダッシュボードを起動し、ctx がキャンセルされるまで待つ
func Serve(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if err := ValidateAddress(cfg.Address); err != nil {
		return err
	}
	log := logger.Named("serve")
	locale := cfg.Locale()
	handlers.Version = Version

	profile, err := loadProfile(cfg)
	if err != nil {
		return err
	}
	font, err := loadFont(cfg)
	if err != nil {
		return err
	}
	src, err := openSources(cfg)
	if err != nil {
		return err
	}
	defer src.close()

	server := web.NewServer(&web.Config{
		Address:  cfg.Address,
		Debug:    cfg.Debug,
		Lang:     locale,
		CacheTTL: cfg.CacheTTL,
		Profile:  profile,
		Font:     font,
	}, src.pie, src.accidents)

	if cfg.Watch && len(src.watch) > 0 {
		watcher, err := web.NewWatcher(src.watch, func(path string) {
			server.Invalidate(path)
		})
		if err != nil {
			// 監視できなくても配信は続ける
			log.Warn("file watcher disabled", zap.Error(err))
		} else {
			watcher.Start(ctx)
			defer watcher.Stop()
			for _, path := range src.watch {
				fmt.Fprintln(out, i18n.TL(locale, "watching", path))
			}
		}
	}

	fmt.Fprintf(out, "🌐 %s: http://%s/dashboard\n", i18n.TL(locale, "server_starting"), displayAddress(cfg.Address))
	return server.ListenAndServe(ctx, handlers.NewRouter(server))
}

func displayAddress(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
