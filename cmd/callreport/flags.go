package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pyhub-apps/callreport-golang/internal/config"
	"github.com/pyhub-apps/callreport-golang/pkg/report"
	"github.com/pyhub-apps/callreport-golang/pkg/store"
)

// options are the settings that only make sense on the command line
type options struct {
	heatmap bool
	wait    bool
	day     string // read this DD-MM-YYYY day back from the store instead of extracting
}

// parseFlags applies command-line overrides on top of base
func parseFlags(fs *flag.FlagSet, args []string, base config.Config) (config.Config, options, error) {
	cfg := base
	var opts options
	storeMode := string(cfg.StoreMode)

	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.ReportDir, "dir", cfg.ReportDir, "Directory containing callCenterReport_*.pdf files")
	fs.StringVar(&cfg.OutputFormat, "format", cfg.OutputFormat, "Output format: text|json|csv")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of reports extracted at once")
	fs.Float64Var(&cfg.RowTolerance, "row-tolerance", cfg.RowTolerance, "Vertical distance within which text shares a table row")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	fs.BoolVar(&cfg.ValidatePDF, "validate", cfg.ValidatePDF, "Validate PDF structure with pdfcpu before extracting")
	fs.StringVar(&storeMode, "store", storeMode, "Persist the series: none|file|dynamodb")
	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "JSON file used by -store=file")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Address to expose Prometheus metrics (e.g., :9090)")
	fs.StringVar(&cfg.PushURL, "push-url", cfg.PushURL, "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	fs.BoolVar(&opts.heatmap, "heatmap", false, "Print the weekday by hour heatmap of presented calls (text format)")
	fs.BoolVar(&opts.wait, "wait", false, "Keep running after completion so metrics can be scraped")
	fs.StringVar(&opts.day, "day", "", "Print the stored records of one day (DD-MM-YYYY) instead of extracting")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, options{}, err
	}
	cfg.StoreMode = store.Mode(storeMode)

	if fs.NArg() > 0 {
		cfg.ReportDir = fs.Arg(0)
	}
	return cfg, opts, nil
}

// validateOptions checks the command-line only settings against cfg
func validateOptions(cfg config.Config, opts options) error {
	if opts.day == "" {
		return nil
	}
	if _, err := time.Parse(report.DateLayout, opts.day); err != nil {
		return fmt.Errorf("-day must be DD-MM-YYYY, got %q", opts.day)
	}
	if cfg.StoreMode == store.ModeNone || cfg.StoreMode == "" {
		return errors.New("-day needs a store (-store=file or -store=dynamodb)")
	}
	return nil
}
