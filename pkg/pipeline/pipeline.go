// Package pipeline runs a batch of report attachments through extraction and
// reconciliation.
//
// Files are opened and extracted concurrently. Reconciliation only starts once
// every file of the batch has been read; any failure or cancellation discards
// the partial results and is returned to the caller.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pyhub-apps/callreport-golang/pkg/extract"
	"github.com/pyhub-apps/callreport-golang/pkg/metrics"
	"github.com/pyhub-apps/callreport-golang/pkg/pdf"
	"github.com/pyhub-apps/callreport-golang/pkg/reconcile"
	"github.com/pyhub-apps/callreport-golang/pkg/report"
	"github.com/pyhub-apps/callreport-golang/pkg/source"
	"github.com/pyhub-apps/callreport-golang/pkg/store"
)

// DefaultWorkers is the number of files extracted at once
const DefaultWorkers = 4

// Opener turns the bytes of a report into a document
type Opener func(data []byte) (pdf.Document, error)

// DefaultOpener opens reports with the PDF backends
func DefaultOpener(opts ...pdf.OpenOption) Opener {
	return func(data []byte) (pdf.Document, error) {
		return pdf.Open(data, opts...)
	}
}

// FileResult describes how one report was read
type FileResult struct {
	FileName string        `json:"fileName"`
	Backend  string        `json:"backend"`
	Records  int           `json:"records"`
	Stats    extract.Stats `json:"stats"`
	Duration time.Duration `json:"duration"`
}

// Result is the outcome of one run
type Result struct {
	RunID     string
	Files     []FileResult
	Ignored   int
	Stats     extract.Stats
	Reconcile reconcile.Result
}

// Series returns the reconciled series of the run
func (r *Result) Series() report.Series {
	return r.Reconcile.Series
}

// Pipeline holds the components of a run
type Pipeline struct {
	opener     Opener
	extractor  *extract.Extractor
	reconciler *reconcile.Reconciler
	store      store.Store
	workers    int
	logger     zerolog.Logger
}

// Option is a function that modifies a Pipeline
type Option func(*Pipeline)

// WithOpener sets how report bytes are opened
func WithOpener(opener Opener) Option {
	return func(p *Pipeline) {
		if opener != nil {
			p.opener = opener
		}
	}
}

// WithExtractor sets the table extractor
func WithExtractor(e *extract.Extractor) Option {
	return func(p *Pipeline) {
		if e != nil {
			p.extractor = e
		}
	}
}

// WithReconciler sets the reconciler
func WithReconciler(r *reconcile.Reconciler) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.reconciler = r
		}
	}
}

// WithStore persists every reconciled series
func WithStore(s store.Store) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.store = s
		}
	}
}

// WithWorkers bounds how many files are extracted at once
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the run logger
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline with default components
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		opener:     DefaultOpener(),
		extractor:  extract.New(),
		reconciler: reconcile.New(),
		store:      store.NewNoopStore(),
		workers:    DefaultWorkers,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches a batch from src and processes it
func (p *Pipeline) Run(ctx context.Context, src source.Source) (*Result, error) {
	attachments, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attachments: %w", err)
	}
	return p.Process(ctx, attachments)
}

// Process extracts every report among attachments and reconciles them
func (p *Pipeline) Process(ctx context.Context, attachments []source.Attachment) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With().Str("run_id", runID).Logger()

	kept, ignored := source.Filter(attachments)
	metrics.AttachmentsIgnoredTotal.Add(float64(ignored))
	logger.Info().
		Int("attachments", len(attachments)).
		Int("reports", len(kept)).
		Int("ignored", ignored).
		Msg("processing reports")

	files := make([]report.ReportFile, len(kept))
	fileResults := make([]FileResult, len(kept))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, a := range kept {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, fr, err := p.extractOne(a, logger)
			if err != nil {
				return err
			}
			files[i] = file
			fileResults[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("run aborted")
		return nil, err
	}
	// a cancellation that raced the last file still aborts the run
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:   runID,
		Files:   fileResults,
		Ignored: ignored,
	}
	for _, fr := range fileResults {
		res.Stats.Add(fr.Stats)
	}

	rec := p.reconciler.Run(files)
	res.Reconcile = rec

	metrics.FilesDiscardedTotal.Add(float64(len(rec.DiscardedFiles)))
	metrics.CollisionsTotal.Add(float64(rec.Collisions))
	metrics.UnsortableTotal.Add(float64(rec.Unsortable))
	metrics.SeriesRecords.Set(float64(len(rec.Series)))

	if err := p.store.SaveSeries(ctx, rec.Series); err != nil {
		return nil, fmt.Errorf("failed to store series: %w", err)
	}

	elapsed := time.Since(start)
	metrics.RunDurationSeconds.Observe(elapsed.Seconds())
	logger.Info().
		Int("files", len(files)).
		Int("discarded", len(rec.DiscardedFiles)).
		Int("records", len(rec.Series)).
		Int("collisions", rec.Collisions).
		Int("skipped_rows", res.Stats.SkippedRows).
		Dur("elapsed", elapsed).
		Msg("run complete")

	return res, nil
}

// extractOne opens and extracts a single report
func (p *Pipeline) extractOne(a source.Attachment, logger zerolog.Logger) (report.ReportFile, FileResult, error) {
	start := time.Now()

	doc, err := p.opener(a.Data)
	if err != nil {
		metrics.FilesFailedTotal.WithLabelValues(failureReason(err)).Inc()
		logger.Error().Err(err).Str("file", a.FileName).Msg("failed to open report")
		return report.ReportFile{}, FileResult{}, &report.FileError{FileName: a.FileName, Err: err}
	}
	defer doc.Close()

	extracted := p.extractor.ExtractFrom(doc)
	file := report.NewReportFile(a.FileName, extracted.Records)
	elapsed := time.Since(start)

	metrics.FilesProcessedTotal.Inc()
	metrics.RowsExtractedTotal.WithLabelValues("activity").Add(float64(extracted.Stats.ActivityRows))
	metrics.RowsExtractedTotal.WithLabelValues("watermark").Add(float64(extracted.Stats.WatermarkRows))
	metrics.RowsSkippedTotal.Add(float64(extracted.Stats.SkippedRows))
	metrics.WatermarksUnmatchedTotal.Add(float64(extracted.Stats.UnmatchedWatermarks))
	metrics.ExtractDurationSeconds.Observe(elapsed.Seconds())

	event := logger.Debug()
	if len(extracted.Records) == 0 {
		event = logger.Warn()
	}
	event.
		Str("file", a.FileName).
		Str("backend", doc.Backend()).
		Str("precision", file.Precision.String()).
		Int("pages", extracted.Stats.Pages).
		Int("records", len(extracted.Records)).
		Int("skipped_rows", extracted.Stats.SkippedRows).
		Msg("report extracted")

	return file, FileResult{
		FileName: a.FileName,
		Backend:  doc.Backend(),
		Records:  len(extracted.Records),
		Stats:    extracted.Stats,
		Duration: elapsed,
	}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, report.ErrEmptyDocument):
		return "empty"
	case errors.Is(err, report.ErrNoBackend):
		return "unreadable"
	}
	return "invalid"
}
