// Package metrics provides Prometheus metrics for report extraction and
// reconciliation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory registers metrics to Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// FILES
// =============================================================================

// FilesProcessedTotal counts report files that were opened and extracted
var FilesProcessedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "callreport",
	Name:      "files_processed_total",
	Help:      "Total report files successfully opened and extracted",
})

// FilesFailedTotal counts report files that could not be read, by backend error kind
var FilesFailedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "callreport",
	Name:      "files_failed_total",
	Help:      "Total report files that could not be read",
}, []string{"reason"})

// FilesDiscardedTotal counts reports superseded by a newer report of the same day
var FilesDiscardedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "callreport",
	Name:      "files_discarded_total",
	Help:      "Total report files discarded in favour of a newer report of the same day",
})

// AttachmentsIgnoredTotal counts attachments that did not look like reports
var AttachmentsIgnoredTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "callreport",
	Name:      "attachments_ignored_total",
	Help:      "Total attachments skipped because of their name or content type",
})

// =============================================================================
// ROWS
// =============================================================================

// RowsExtractedTotal counts table rows read, by table
var RowsExtractedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "extract",
	Name:      "rows_total",
	Help:      "Total table rows extracted by table",
}, []string{"table"})

// RowsSkippedTotal counts rows that were too short or had an unreadable date
var RowsSkippedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "extract",
	Name:      "rows_skipped_total",
	Help:      "Total table rows skipped as malformed",
})

// WatermarksUnmatchedTotal counts High Water Marks rows with no activity row to join
var WatermarksUnmatchedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "extract",
	Name:      "watermarks_unmatched_total",
	Help:      "Total high water mark rows without a matching activity row",
})

// ExtractDurationSeconds tracks time to open and extract one report
var ExtractDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "extract",
	Name:      "duration_seconds",
	Help:      "Time taken to open and extract one report file",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5},
})

// =============================================================================
// RECONCILIATION
// =============================================================================

// CollisionsTotal counts records that shared a key with an already merged record
var CollisionsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "reconcile",
	Name:      "collisions_total",
	Help:      "Total records colliding on (date, time) during reconciliation",
})

// UnsortableTotal counts records dropped for an unreadable timestamp
var UnsortableTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "reconcile",
	Name:      "unsortable_total",
	Help:      "Total records dropped because their date or time could not be parsed",
})

// SeriesRecords is the size of the last reconciled series
var SeriesRecords = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "reconcile",
	Name:      "series_records",
	Help:      "Number of records in the most recent reconciled series",
})

// RunDurationSeconds tracks a full pipeline run
var RunDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "callreport",
	Name:      "run_duration_seconds",
	Help:      "Time taken by a full extract and reconcile run",
	Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
})
