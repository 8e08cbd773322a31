package extract

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pyhub-apps/callreport-golang/pkg/pdf"
	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

const (
	headerActivity  = "Call Center Activity"
	headerWatermark = "High Water Marks"
	headerDateTime  = "Date and Time"
	footerSummary   = "Report Summary"

	minActivityCells  = 11
	minWatermarkCells = 4
)

// Activity table column offsets, after sorting a row left to right
const (
	colDateTime         = 0
	colQueued           = 2
	colAbandoned        = 4
	colPresented        = 5
	colAnswered         = 6
	colAnsweredIn60Secs = 7
	colBounced          = 11
)

// High Water Marks table column offsets
const (
	colLongestWait      = 2
	colLongestAnswer    = 3
	colLongestAbandoned = 4
)

var (
	activityRowStart  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}`)
	watermarkRowStart = regexp.MustCompile(`^\d{2}-\d{2}-\d{2}`)
)

type tableState int

const (
	stateIdle tableState = iota
	stateActivity
	stateWatermark
)

func (s tableState) String() string {
	switch s {
	case stateActivity:
		return "activity"
	case stateWatermark:
		return "watermark"
	default:
		return "idle"
	}
}

// next returns the state after reading text, given the fragment that follows it
func (s tableState) next(text, following string) tableState {
	opensTable := func(header string) bool {
		if !strings.Contains(text, header) {
			return false
		}
		return strings.Contains(following, headerDateTime) || strings.Contains(text, headerDateTime)
	}

	switch {
	case opensTable(headerActivity):
		return stateActivity
	case opensTable(headerWatermark):
		return stateWatermark
	case strings.Contains(text, footerSummary):
		return stateIdle
	}
	return s
}

type watermark struct {
	date, time              string
	wait, answer, abandoned string
}

// scanner walks fragments in document order and collects table rows
type scanner struct {
	state        tableState
	rowTolerance float64
	logger       zerolog.Logger

	records    []report.ActivityRecord
	watermarks []watermark
	stats      Stats
}

func newScanner(rowTolerance float64, logger zerolog.Logger) *scanner {
	return &scanner{
		state:        stateIdle,
		rowTolerance: rowTolerance,
		logger:       logger,
	}
}

func (s *scanner) scanPage(fragments []pdf.Fragment) {
	s.stats.Pages++
	if len(fragments) == 0 {
		return
	}

	decoded := make([]pdf.Fragment, len(fragments))
	for i, f := range fragments {
		f.Text = strings.TrimSpace(pdf.DecodeText(f.Text))
		decoded[i] = f
	}

	pageStart := len(s.records)
	s.watermarks = s.watermarks[:0]
	consumed := make([]bool, len(decoded))

	for i, f := range decoded {
		following := ""
		if i+1 < len(decoded) {
			following = decoded[i+1].Text
		}

		if next := s.state.next(f.Text, following); next != s.state {
			s.logger.Debug().
				Str("from", s.state.String()).
				Str("to", next.String()).
				Str("text", f.Text).
				Msg("table state changed")
			s.state = next
			continue
		}

		var start *regexp.Regexp
		switch s.state {
		case stateActivity:
			start = activityRowStart
		case stateWatermark:
			start = watermarkRowStart
		default:
			continue
		}

		if consumed[i] || !start.MatchString(f.Text) {
			continue
		}
		row := pdf.RowAround(decoded, i, s.rowTolerance)
		for _, idx := range row.Indexes {
			consumed[idx] = true
		}

		if s.state == stateActivity {
			s.readActivityRow(row.Texts())
		} else {
			s.readWatermarkRow(row.Texts())
		}
	}

	s.join(s.records[pageStart:])
}

func (s *scanner) readActivityRow(cells []string) {
	if len(cells) < minActivityCells {
		s.skip("activity", cells, "too few cells")
		return
	}

	date, tm, ok := splitDateTime(cells[colDateTime])
	if !ok {
		s.skip("activity", cells, "unreadable date and time")
		return
	}

	rec := report.NewActivityRecord(date, tm)
	rec.Queued = cellInt(cells, colQueued)
	rec.Abandoned = cellInt(cells, colAbandoned)
	rec.Presented = cellInt(cells, colPresented)
	rec.Answered = cellInt(cells, colAnswered)
	rec.AnsweredIn60Secs = cellInt(cells, colAnsweredIn60Secs)
	rec.Bounced = cellInt(cells, colBounced)
	rec.ComputePercentAnswered()

	s.records = append(s.records, rec)
	s.stats.ActivityRows++
}

func (s *scanner) readWatermarkRow(cells []string) {
	if len(cells) < minWatermarkCells {
		s.skip("watermark", cells, "too few cells")
		return
	}

	date, tm, ok := splitDateTime(cells[colDateTime])
	if !ok {
		s.skip("watermark", cells, "unreadable date and time")
		return
	}

	s.watermarks = append(s.watermarks, watermark{
		date:      expandYear(date),
		time:      tm,
		wait:      cellDuration(cells, colLongestWait),
		answer:    cellDuration(cells, colLongestAnswer),
		abandoned: cellDuration(cells, colLongestAbandoned),
	})
	s.stats.WatermarkRows++
}

func (s *scanner) skip(table string, cells []string, reason string) {
	s.stats.SkippedRows++
	s.logger.Debug().
		Str("table", table).
		Strs("cells", cells).
		Str("reason", reason).
		Msg("skipping row")
}

// join fills the durations of the first record in records matching each
// watermark row read on the current page
func (s *scanner) join(records []report.ActivityRecord) {
	first := make(map[string]int, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		first[records[i].Key()] = i
	}

	for _, w := range s.watermarks {
		i, ok := first[w.date+"_"+w.time]
		if !ok {
			s.stats.UnmatchedWatermarks++
			continue
		}
		records[i].LongestWait = w.wait
		records[i].LongestAnswer = w.answer
		records[i].LongestAbandoned = w.abandoned
	}
}

func (s *scanner) finish() Result {
	return Result{Records: s.records, Stats: s.stats}
}
