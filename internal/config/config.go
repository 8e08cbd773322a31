// Package config loads the callreport settings.
//
// Sources, highest priority first:
//  1. Command-line flags (applied by the caller)
//  2. Environment variables
//  3. A .env file in the working directory
//  4. Defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pyhub-apps/callreport-golang/pkg/formatter"
	"github.com/pyhub-apps/callreport-golang/pkg/pdf"
	"github.com/pyhub-apps/callreport-golang/pkg/pipeline"
	"github.com/pyhub-apps/callreport-golang/pkg/store"
)

// Config holds all application configuration
type Config struct {
	ReportDir    string  // directory of callCenterReport_*.pdf files
	OutputFormat string  // text, json or csv
	Workers      int     // files extracted at once
	RowTolerance float64 // vertical distance that still counts as one row
	LogLevel     string
	ValidatePDF  bool // run the pdfcpu structural check before extracting

	StoreMode      store.Mode
	StorePath      string
	DynamoRegion   string
	DynamoEndpoint string // DynamoDB Local; empty means AWS
	DynamoTable    string

	MetricsAddr string // expose /metrics on this address
	PushURL     string // push metrics to this Pushgateway
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		ReportDir:    ".",
		OutputFormat: formatter.FormatNameText,
		Workers:      pipeline.DefaultWorkers,
		RowTolerance: pdf.DefaultRowTolerance,
		LogLevel:     "info",
		ValidatePDF:  true,
		StoreMode:    store.ModeNone,
		StorePath:    "callreport-series.json",
		DynamoRegion: "eu-central-1",
		DynamoTable:  "callreport-activity",
	}
}

// Load reads .env (if present) and the environment on top of the defaults
func Load() (Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	d := Default()
	cfg := Config{
		ReportDir:    getEnvOrDefault("REPORT_DIR", d.ReportDir),
		OutputFormat: getEnvOrDefault("OUTPUT_FORMAT", d.OutputFormat),
		Workers:      getEnvInt("WORKERS", d.Workers),
		RowTolerance: getEnvFloat("ROW_TOLERANCE", d.RowTolerance),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", d.LogLevel),
		ValidatePDF:  getEnvBool("VALIDATE_PDF", d.ValidatePDF),

		StoreMode:      store.Mode(strings.ToLower(getEnvOrDefault("STORE_MODE", string(d.StoreMode)))),
		StorePath:      getEnvOrDefault("STORE_PATH", d.StorePath),
		DynamoRegion:   getEnvOrDefault("DYNAMO_REGION", d.DynamoRegion),
		DynamoEndpoint: os.Getenv("DYNAMO_ENDPOINT"),
		DynamoTable:    getEnvOrDefault("DYNAMO_TABLE", d.DynamoTable),

		MetricsAddr: os.Getenv("METRICS_ADDR"),
		PushURL:     os.Getenv("PUSH_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that values are in range
func (c Config) Validate() error {
	if c.ReportDir == "" {
		return fmt.Errorf("report directory is required")
	}
	if !formatter.ValidFormat(c.OutputFormat) {
		return fmt.Errorf("output format must be one of: text, json, csv (got: %s)", c.OutputFormat)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got: %d)", c.Workers)
	}
	if c.RowTolerance <= 0 {
		return fmt.Errorf("row tolerance must be positive (got: %g)", c.RowTolerance)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	switch c.StoreMode {
	case store.ModeNone:
	case store.ModeFile:
		if c.StorePath == "" {
			return fmt.Errorf("STORE_PATH is required when STORE_MODE=file")
		}
	case store.ModeDynamoDB:
		if c.DynamoTable == "" || c.DynamoRegion == "" {
			return fmt.Errorf("DYNAMO_TABLE and DYNAMO_REGION are required when STORE_MODE=dynamodb")
		}
	default:
		return fmt.Errorf("store mode must be one of: none, file, dynamodb (got: %s)", c.StoreMode)
	}
	return nil
}

// Level returns the configured log level, info when unreadable
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}

// Store returns the store settings
func (c Config) Store() store.Config {
	return store.Config{
		Mode: c.StoreMode,
		Path: c.StorePath,
		Dynamo: store.DynamoConfig{
			Endpoint: c.DynamoEndpoint,
			Region:   c.DynamoRegion,
			Table:    c.DynamoTable,
		},
	}
}

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an integer or a default if not set/invalid
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
