// Package store persists reconciled series
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

// Store defines the storage interface
type Store interface {
	// SaveSeries upserts every record of series, keyed by (date, time)
	SaveSeries(ctx context.Context, series report.Series) error
	// LoadDay returns the stored records of one DD-MM-YYYY date, ascending by time
	LoadDay(ctx context.Context, date string) (report.Series, error)
}

// Mode selects the store implementation
type Mode string

const (
	ModeNone     Mode = "none"
	ModeFile     Mode = "file"
	ModeDynamoDB Mode = "dynamodb"
)

// Config holds store configuration
type Config struct {
	Mode   Mode
	Path   string // file mode
	Dynamo DynamoConfig
}

// New creates the store selected by cfg.Mode
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (Store, error) {
	switch cfg.Mode {
	case ModeFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file store needs a path")
		}
		logger.Info().Str("path", cfg.Path).Msg("file store initialized")
		return NewFileStore(cfg.Path), nil
	case ModeDynamoDB:
		return NewDynamoDBStore(ctx, cfg.Dynamo, logger)
	case ModeNone, "":
		logger.Debug().Msg("store disabled")
		return NewNoopStore(), nil
	}
	return nil, fmt.Errorf("unknown store mode %q", cfg.Mode)
}

// NoopStore is a no-op implementation when persistence is disabled
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) SaveSeries(_ context.Context, _ report.Series) error { return nil }
func (s *NoopStore) LoadDay(_ context.Context, _ string) (report.Series, error) {
	return nil, nil
}
