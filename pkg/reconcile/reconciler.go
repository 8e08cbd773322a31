// Package reconcile merges the records of overlapping report exports into
// one ordered series.
//
// It runs in two phases. First, of all files generated on the same calendar
// day only the newest survives. Then the records of the surviving files are
// merged by key, the newer file winning any collision. The result is sorted
// by timestamp.
package reconcile

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

// Result describes a reconciliation
type Result struct {
	Series report.Series

	// KeptFiles and DiscardedFiles name the files that survived or lost the
	// per-day selection, in input order
	KeptFiles      []string
	DiscardedFiles []string

	// Collisions counts records that shared a key with a record already merged
	Collisions int
	// Unsortable counts records dropped because their date or time could not be parsed
	Unsortable int
}

// Reconciler holds the recency rule used to rank report files
type Reconciler struct {
	recency report.RecencyFunc
	logger  zerolog.Logger
}

// Option is a function that modifies a Reconciler
type Option func(*Reconciler)

// WithRecency sets how report files are ranked against each other
func WithRecency(fn report.RecencyFunc) Option {
	return func(r *Reconciler) {
		if fn != nil {
			r.recency = fn
		}
	}
}

// WithLogger sets the logger for discarded files and collisions
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// New creates a Reconciler ranking files by name
func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		recency: report.CompareByFileName,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile merges files with the default settings
func Reconcile(files []report.ReportFile) report.Series {
	return New().Reconcile(files)
}

// Reconcile returns the merged series of files
func (r *Reconciler) Reconcile(files []report.ReportFile) report.Series {
	return r.Run(files).Series
}

// Run reconciles files and reports what was kept and dropped. files and the
// records they hold are not modified.
func (r *Reconciler) Run(files []report.ReportFile) Result {
	var res Result

	kept := r.newestPerDay(files, &res)
	merged := r.merge(files, kept, &res)
	res.Series = r.order(merged, &res)

	r.logger.Debug().
		Int("files", len(files)).
		Int("kept", len(res.KeptFiles)).
		Int("records", len(res.Series)).
		Int("collisions", res.Collisions).
		Int("unsortable", res.Unsortable).
		Msg("reconciled reports")

	return res
}

// newestPerDay returns the indexes of the files that are the newest of their
// day, in input order. Files without a readable day are always kept.
func (r *Reconciler) newestPerDay(files []report.ReportFile, res *Result) []int {
	newest := make(map[string]int)
	for i, f := range files {
		day, ok := f.Day()
		if !ok {
			continue
		}
		best, seen := newest[day]
		if !seen || r.recency(f, files[best]) > 0 {
			newest[day] = i
		}
	}

	kept := make([]int, 0, len(files))
	for i, f := range files {
		day, ok := f.Day()
		if ok && newest[day] != i {
			res.DiscardedFiles = append(res.DiscardedFiles, f.FileName)
			r.logger.Debug().
				Str("file", f.FileName).
				Str("day", day).
				Str("kept", files[newest[day]].FileName).
				Msg("discarding older report of the same day")
			continue
		}
		kept = append(kept, i)
		res.KeptFiles = append(res.KeptFiles, f.FileName)
	}
	return kept
}

type mergedRecord struct {
	record report.ActivityRecord
	file   int
}

// merge keys the records of the kept files, the newer file winning a
// collision and the first record winning a tie
func (r *Reconciler) merge(files []report.ReportFile, kept []int, res *Result) map[string]mergedRecord {
	merged := make(map[string]mergedRecord)
	for _, i := range kept {
		for _, rec := range files[i].Records {
			key := rec.Key()
			existing, ok := merged[key]
			if !ok {
				merged[key] = mergedRecord{record: rec, file: i}
				continue
			}

			res.Collisions++
			if r.recency(files[i], files[existing.file]) > 0 {
				merged[key] = mergedRecord{record: rec, file: i}
				r.logger.Debug().
					Str("key", key).
					Str("winner", files[i].FileName).
					Str("loser", files[existing.file].FileName).
					Msg("record replaced by newer report")
			}
		}
	}
	return merged
}

// order sorts merged records by timestamp, then key
func (r *Reconciler) order(merged map[string]mergedRecord, res *Result) report.Series {
	type timed struct {
		at  time.Time
		rec report.ActivityRecord
	}

	rows := make([]timed, 0, len(merged))
	for key, m := range merged {
		at, err := m.record.Timestamp()
		if err != nil {
			res.Unsortable++
			r.logger.Warn().Err(err).Str("key", key).Msg("dropping record with unreadable timestamp")
			continue
		}
		rows = append(rows, timed{at: at, rec: m.record})
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].at.Equal(rows[j].at) {
			return rows[i].at.Before(rows[j].at)
		}
		return rows[i].rec.Key() < rows[j].rec.Key()
	})

	series := make(report.Series, len(rows))
	for i, t := range rows {
		series[i] = t.rec
	}
	return series
}
