package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kepatuhan/internal/daemon"
)

var (
	flagServeAddr      string
	flagServeInterval  time.Duration
	flagServeRateLimit int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports over HTTP and reload the workbook periodically",
	Long: "Serve the report as JSON under /v1 with Prometheus metrics on /metrics.\n" +
		"The workbook is reloaded every --interval; a failed reload keeps the\n" +
		"last good snapshot.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().DurationVar(&flagServeInterval, "interval", 0, "Reload interval (default from config)")
	serveCmd.Flags().IntVar(&flagServeRateLimit, "rate-limit", -1, "Requests per minute per client IP, 0 disables (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	sel, err := resolveSelection()
	if err != nil {
		return err
	}

	cfg := daemon.Config{
		Path:         sel.Path,
		Sheet:        sel.Sheet,
		Category:     sel.Category,
		Year:         sel.Year,
		UseCache:     !flagNoCache,
		Interval:     appConfig.Serve.ReloadInterval.Duration,
		Addr:         appConfig.Serve.Addr,
		RateLimit:    appConfig.Serve.RateLimit,
		TopN:         appConfig.Report.TopN,
		RecordsLimit: appConfig.Report.RecordsLimit,
	}
	if flagServeAddr != "" {
		cfg.Addr = flagServeAddr
	}
	if flagServeInterval > 0 {
		cfg.Interval = flagServeInterval
	}
	if flagServeRateLimit >= 0 {
		cfg.RateLimit = flagServeRateLimit
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return daemon.New(cfg, slog.Default()).Run(ctx)
}
