// Package extract turns the positioned text of a call-center report into
// activity records. It reads two tables, "Call Center Activity" for the
// counters and "High Water Marks" for the longest-duration columns, and joins
// them on (date, time).
package extract

import (
	"github.com/rs/zerolog"

	"github.com/pyhub-apps/callreport-golang/pkg/pdf"
	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

// Stats counts what an extraction saw and dropped
type Stats struct {
	Pages               int `json:"pages"`
	ActivityRows        int `json:"activityRows"`
	WatermarkRows       int `json:"watermarkRows"`
	SkippedRows         int `json:"skippedRows"`
	UnmatchedWatermarks int `json:"unmatchedWatermarks"`
}

// Add accumulates other into s
func (s *Stats) Add(other Stats) {
	s.Pages += other.Pages
	s.ActivityRows += other.ActivityRows
	s.WatermarkRows += other.WatermarkRows
	s.SkippedRows += other.SkippedRows
	s.UnmatchedWatermarks += other.UnmatchedWatermarks
}

// Result is the outcome of extracting one document
type Result struct {
	Records []report.ActivityRecord
	Stats   Stats
}

// Extractor holds extraction settings. It keeps no scan state between calls
// and is safe for concurrent use.
type Extractor struct {
	rowTolerance float64
	logger       zerolog.Logger
}

// Option is a function that modifies an Extractor
type Option func(*Extractor)

// WithRowTolerance sets how far apart (vertically) two fragments may be and still share a row
func WithRowTolerance(tolerance float64) Option {
	return func(e *Extractor) {
		if tolerance > 0 {
			e.rowTolerance = tolerance
		}
	}
}

// WithLogger sets the logger used for per-row diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor with default settings
func New(opts ...Option) *Extractor {
	e := &Extractor{
		rowTolerance: pdf.DefaultRowTolerance,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract scans every page of a document in order. The table state carries
// over page breaks, so a table continued on the next page keeps being read.
// Watermark rows only join activity records read on the same page.
func (e *Extractor) Extract(pages [][]pdf.Fragment) Result {
	s := newScanner(e.rowTolerance, e.logger)
	for _, fragments := range pages {
		s.scanPage(fragments)
	}
	return s.finish()
}

// ExtractDocument returns the records of every page of a document
func (e *Extractor) ExtractDocument(pages [][]pdf.Fragment) []report.ActivityRecord {
	return e.Extract(pages).Records
}

// ExtractPage returns the records of a single page, starting outside any table
func (e *Extractor) ExtractPage(fragments []pdf.Fragment) []report.ActivityRecord {
	return e.Extract([][]pdf.Fragment{fragments}).Records
}

// ExtractPage extracts one page with default settings
func ExtractPage(fragments []pdf.Fragment) []report.ActivityRecord {
	return New().ExtractPage(fragments)
}

// ExtractDocument extracts all pages of a document with default settings
func ExtractDocument(pages [][]pdf.Fragment) []report.ActivityRecord {
	return New().ExtractDocument(pages)
}

// ExtractFrom reads the fragments of every page of doc and extracts them
func (e *Extractor) ExtractFrom(doc pdf.Document) Result {
	return e.Extract(pdf.PageFragments(doc))
}
