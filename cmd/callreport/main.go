// Command callreport extracts and reconciles a directory of call-center
// report PDFs and prints the resulting series.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pyhub-apps/callreport-golang/internal/config"
	"github.com/pyhub-apps/callreport-golang/pkg/extract"
	"github.com/pyhub-apps/callreport-golang/pkg/formatter"
	"github.com/pyhub-apps/callreport-golang/pkg/metrics"
	"github.com/pyhub-apps/callreport-golang/pkg/pdf"
	"github.com/pyhub-apps/callreport-golang/pkg/pipeline"
	"github.com/pyhub-apps/callreport-golang/pkg/reconcile"
	"github.com/pyhub-apps/callreport-golang/pkg/source"
	"github.com/pyhub-apps/callreport-golang/pkg/stats"
	"github.com/pyhub-apps/callreport-golang/pkg/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	base, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	cfg, opts, err := parseFlags(flag.CommandLine, os.Args[1:], base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(2)
	}
	if err := validateOptions(cfg, opts); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				log.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	if err := run(ctx, cfg, opts); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}

	if cfg.PushURL != "" {
		if err := push.New(cfg.PushURL, "callreport").Gatherer(metrics.Registry).Push(); err != nil {
			log.Error().Err(err).Str("url", cfg.PushURL).Msg("failed to push metrics")
		} else {
			log.Info().Str("url", cfg.PushURL).Msg("metrics pushed")
		}
	}

	if opts.wait && cfg.MetricsAddr != "" {
		log.Info().Msg("kept alive for metric scraping, press Ctrl+C to exit")
		<-ctx.Done()
	}
}

func run(ctx context.Context, cfg config.Config, opts options) error {
	logger := log.Logger

	st, err := store.New(ctx, cfg.Store(), logger)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	if opts.day != "" {
		return readBack(ctx, st, cfg.OutputFormat, opts.day, os.Stdout)
	}

	p := pipeline.New(
		pipeline.WithOpener(pipeline.DefaultOpener(pdf.WithValidation(cfg.ValidatePDF))),
		pipeline.WithExtractor(extract.New(
			extract.WithRowTolerance(cfg.RowTolerance),
			extract.WithLogger(logger),
		)),
		pipeline.WithReconciler(reconcile.New(reconcile.WithLogger(logger))),
		pipeline.WithStore(st),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithLogger(logger),
	)

	res, err := p.Run(ctx, source.NewDirSource(cfg.ReportDir, logger))
	if err != nil {
		return err
	}

	out, err := formatter.Format(cfg.OutputFormat, res.Series())
	if err != nil {
		return err
	}
	fmt.Print(out)

	if opts.heatmap && cfg.OutputFormat == formatter.FormatNameText {
		fmt.Println()
		fmt.Print(formatter.FormatHeatmap(stats.Heatmap(res.Series())))
	}
	return nil
}

// readBack prints the stored records of one day
func readBack(ctx context.Context, st store.Store, format, day string, w io.Writer) error {
	series, err := st.LoadDay(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", day, err)
	}
	log.Info().Str("day", day).Int("records", len(series)).Msg("loaded stored records")

	out, err := formatter.Format(format, series)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
