package extract

import (
	"reflect"
	"testing"

	"github.com/pyhub-apps/callreport-golang/pkg/pdf"
	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

// row lays cells out left to right, 20 units apart, on one baseline
func row(y float64, cells ...string) []pdf.Fragment {
	out := make([]pdf.Fragment, len(cells))
	for i, c := range cells {
		out[i] = pdf.Fragment{Text: c, X: float64(i * 20), Y: y}
	}
	return out
}

func reversed(fragments []pdf.Fragment) []pdf.Fragment {
	out := make([]pdf.Fragment, len(fragments))
	for i, f := range fragments {
		out[len(fragments)-1-i] = f
	}
	return out
}

func activityHeader(y float64) []pdf.Fragment {
	return []pdf.Fragment{
		{Text: "Call Center Activity", X: 0, Y: y},
		{Text: "Date and Time", X: 0, Y: y + 5},
	}
}

func watermarkHeader(y float64) []pdf.Fragment {
	return []pdf.Fragment{
		{Text: "High Water Marks", X: 0, Y: y},
		{Text: "Date and Time", X: 0, Y: y + 5},
	}
}

func page(parts ...[]pdf.Fragment) []pdf.Fragment {
	var out []pdf.Fragment
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// activityCells is a full twelve-column activity row:
// date/time, ?, queued, ?, abandoned, presented, answered, in60, ?, ?, ?, bounced
func activityCells(dateTime string) []string {
	return []string{dateTime, "1", "40", "0", "2", "40", "38", "35", "0", "0", "0", "2"}
}

func TestScenarioActivityRow(t *testing.T) {
	fragments := page(activityHeader(0), row(10, activityCells("09-05-2025, 09:00")...))

	got := ExtractPage(fragments)
	if len(got) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(got))
	}

	want := report.ActivityRecord{
		Date:             "09-05-2025",
		Time:             "09:00",
		Queued:           40,
		Presented:        40,
		Answered:         38,
		AnsweredIn60Secs: 35,
		Abandoned:        2,
		Bounced:          2,
		LongestWait:      "00:00:00",
		LongestAnswer:    "00:00:00",
		LongestAbandoned: "00:00:00",
		PercentAnswered:  95,
	}
	if got[0] != want {
		t.Errorf("Record mismatch\n got: %+v\nwant: %+v", got[0], want)
	}
}

func TestRowOrderingIsPositional(t *testing.T) {
	cells := row(10, activityCells("09-05-2025, 09:00")...)

	forward := ExtractPage(page(activityHeader(0), cells))
	backward := ExtractPage(page(activityHeader(0), reversed(cells)))

	if len(forward) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(forward))
	}
	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("Reversed cells changed the result\nforward:  %+v\nbackward: %+v", forward, backward)
	}
}

func TestRowLengthFloor(t *testing.T) {
	tests := []struct {
		name     string
		cells    []string
		expected int
	}{
		{name: "Ten cells", cells: activityCells("09-05-2025, 09:00")[:10], expected: 0},
		{name: "Eleven cells", cells: activityCells("09-05-2025, 09:00")[:11], expected: 1},
		{name: "Twelve cells", cells: activityCells("09-05-2025, 09:00"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().Extract([][]pdf.Fragment{page(activityHeader(0), row(10, tt.cells...))})
			if len(result.Records) != tt.expected {
				t.Fatalf("Expected %d records, got %d", tt.expected, len(result.Records))
			}
			if tt.expected == 0 && result.Stats.SkippedRows != 1 {
				t.Errorf("Expected the short row to be counted as skipped, got %+v", result.Stats)
			}
		})
	}

	// eleven cells leave bounced at its default
	recs := ExtractPage(page(activityHeader(0), row(10, activityCells("09-05-2025, 09:00")[:11]...)))
	if recs[0].Bounced != 0 {
		t.Errorf("Expected bounced 0, got %d", recs[0].Bounced)
	}
}

func TestShortWatermarkRowLeavesDefaults(t *testing.T) {
	fragments := page(
		activityHeader(0),
		row(10, activityCells("09-05-2025, 09:00")...),
		watermarkHeader(100),
		row(110, "09-05-25, 09:00", "x", "00:01:00"),
	)

	result := New().Extract([][]pdf.Fragment{fragments})
	if len(result.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(result.Records))
	}
	if result.Records[0].LongestWait != report.DefaultDuration {
		t.Errorf("Expected default wait, got %s", result.Records[0].LongestWait)
	}
	if result.Stats.SkippedRows != 1 {
		t.Errorf("Expected 1 skipped row, got %d", result.Stats.SkippedRows)
	}
}

func TestZeroQueuedMeansZeroPercent(t *testing.T) {
	for _, answered := range []string{"0", "1", "38", "999"} {
		cells := activityCells("09-05-2025, 09:00")
		cells[colQueued] = "0"
		cells[colAnswered] = answered

		recs := ExtractPage(page(activityHeader(0), row(10, cells...)))
		if len(recs) != 1 {
			t.Fatalf("Expected 1 record, got %d", len(recs))
		}
		if recs[0].PercentAnswered != 0 {
			t.Errorf("answered=%s: expected 0%%, got %d%%", answered, recs[0].PercentAnswered)
		}
	}
}

func TestUnparseableNumbersDefaultToZero(t *testing.T) {
	cells := activityCells("09-05-2025, 09:00")
	cells[colQueued] = "n/a"
	cells[colPresented] = ""
	cells[colAnswered] = "-4"
	cells[colAbandoned] = "7 calls"

	recs := ExtractPage(page(activityHeader(0), row(10, cells...)))
	if len(recs) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Queued != 0 || r.Presented != 0 || r.Answered != 0 || r.Abandoned != 7 {
		t.Errorf("Unexpected counters: %+v", r)
	}
}

func TestWatermarkJoin(t *testing.T) {
	fragments := page(
		activityHeader(0),
		row(10, activityCells("09-05-2025, 09:00")...),
		row(20, activityCells("09-05-2025, 09:15")...),
		watermarkHeader(100),
		row(110, "09-05-25, 09:15", "x", "0:02:05", "00:00:30", "00:04:10"),
		row(120, "10-05-25, 09:15", "x", "00:09:00", "00:09:00", "00:09:00"),
		[]pdf.Fragment{{Text: "Report Summary", X: 0, Y: 200}},
		row(210, activityCells("11-05-2025, 09:00")...),
	)

	result := New().Extract([][]pdf.Fragment{fragments})
	if len(result.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(result.Records))
	}

	first, second := result.Records[0], result.Records[1]
	if first.LongestWait != report.DefaultDuration {
		t.Errorf("Unjoined record should keep defaults, got %s", first.LongestWait)
	}
	if second.LongestWait != "00:02:05" || second.LongestAnswer != "00:00:30" || second.LongestAbandoned != "00:04:10" {
		t.Errorf("Unexpected durations: %+v", second)
	}
	if result.Stats.UnmatchedWatermarks != 1 {
		t.Errorf("Expected 1 unmatched watermark, got %d", result.Stats.UnmatchedWatermarks)
	}
}

func TestWatermarkJoinsFirstMatchingRecord(t *testing.T) {
	fragments := page(
		activityHeader(0),
		row(10, activityCells("09-05-2025, 09:00")...),
		row(20, activityCells("09-05-2025, 09:00")...),
		watermarkHeader(100),
		row(110, "09-05-2025, 09:00", "x", "00:01:00", "00:01:00", "00:01:00"),
	)

	recs := ExtractPage(fragments)
	if len(recs) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recs))
	}
	if recs[0].LongestWait != "00:01:00" || recs[1].LongestWait != report.DefaultDuration {
		t.Errorf("Expected only the first record to be joined: %+v", recs)
	}
}

func TestHeaderNeedsDateAndTime(t *testing.T) {
	fragments := page(
		[]pdf.Fragment{
			{Text: "Call Center Activity", X: 0, Y: 0},
			{Text: "Summary of the period", X: 0, Y: 5},
		},
		row(10, activityCells("09-05-2025, 09:00")...),
	)
	if recs := ExtractPage(fragments); len(recs) != 0 {
		t.Errorf("Expected no records without a Date and Time header, got %d", len(recs))
	}
}

func TestPercentEncodedText(t *testing.T) {
	fragments := page(
		[]pdf.Fragment{
			{Text: "Call%20Center%20Activity", X: 0, Y: 0},
			{Text: "Date%20and%20Time", X: 0, Y: 5},
		},
		row(10, activityCells("09-05-2025%2C%2009%3A00")...),
	)
	recs := ExtractPage(fragments)
	if len(recs) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recs))
	}
	if recs[0].Date != "09-05-2025" || recs[0].Time != "09:00" {
		t.Errorf("Unexpected key %s %s", recs[0].Date, recs[0].Time)
	}
}

func TestTableContinuesAcrossPages(t *testing.T) {
	pages := [][]pdf.Fragment{
		page(activityHeader(0), row(10, activityCells("09-05-2025, 09:00")...)),
		page(row(10, activityCells("09-05-2025, 09:15")...)),
	}

	if recs := ExtractDocument(pages); len(recs) != 2 {
		t.Errorf("Expected 2 records across pages, got %d", len(recs))
	}

	// a single page starts outside any table
	if recs := ExtractPage(pages[1]); len(recs) != 0 {
		t.Errorf("Expected no records from a page without a header, got %d", len(recs))
	}
}

func TestWatermarkJoinStaysOnPage(t *testing.T) {
	pages := [][]pdf.Fragment{
		page(activityHeader(0), row(10, activityCells("09-05-2025, 09:00")...)),
		page(
			watermarkHeader(0),
			row(10, "09-05-25, 09:00", "x", "00:01:00", "00:01:00", "00:01:00"),
		),
	}

	result := New().Extract(pages)
	if len(result.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(result.Records))
	}
	if result.Records[0].LongestWait != report.DefaultDuration {
		t.Errorf("A watermark on a later page should not join, got %s", result.Records[0].LongestWait)
	}
	if result.Stats.UnmatchedWatermarks != 1 {
		t.Errorf("Expected 1 unmatched watermark, got %d", result.Stats.UnmatchedWatermarks)
	}
}

func TestWatermarkTableContinuedOnNextPage(t *testing.T) {
	pages := [][]pdf.Fragment{
		page(
			activityHeader(0),
			row(10, activityCells("09-05-2025, 09:00")...),
			watermarkHeader(100),
		),
		page(
			activityHeader(0),
			row(10, activityCells("09-05-2025, 09:15")...),
			watermarkHeader(100),
			row(110, "09-05-25, 09:15", "x", "00:02:00", "00:00:10", "00:00:20"),
		),
	}

	recs := ExtractDocument(pages)
	if len(recs) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recs))
	}
	if recs[0].LongestWait != report.DefaultDuration || recs[1].LongestWait != "00:02:00" {
		t.Errorf("Expected only the page-two record to be joined: %+v", recs)
	}
}

func TestRowAnchoredOnDateCell(t *testing.T) {
	cells := row(10, activityCells("09-05-2025, 09:00")...)
	cells[1].Y = 9.6
	cells[colBounced].Y = 10.4

	recs := ExtractPage(page(activityHeader(0), cells))
	if len(recs) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recs))
	}
	if recs[0].Bounced != 2 || recs[0].Queued != 40 {
		t.Errorf("Expected every cell within tolerance of the date cell, got %+v", recs[0])
	}
}

func TestRowReadOnce(t *testing.T) {
	// the date cell printed twice on one baseline must not yield two records
	cells := row(10, activityCells("09-05-2025, 09:00")...)
	cells[1].Text = "09-05-2025, 09:00"

	result := New().Extract([][]pdf.Fragment{page(activityHeader(0), cells)})
	if len(result.Records) != 1 {
		t.Errorf("Expected the row to be read once, got %d records", len(result.Records))
	}
}

func TestMissingData(t *testing.T) {
	tests := []struct {
		name  string
		pages [][]pdf.Fragment
	}{
		{name: "No pages", pages: nil},
		{name: "Empty page", pages: [][]pdf.Fragment{{}}},
		{name: "No header", pages: [][]pdf.Fragment{row(10, activityCells("09-05-2025, 09:00")...)}},
		{name: "Header without rows", pages: [][]pdf.Fragment{activityHeader(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if recs := ExtractDocument(tt.pages); len(recs) != 0 {
				t.Errorf("Expected no records, got %d", len(recs))
			}
		})
	}
}

func TestRowToleranceOption(t *testing.T) {
	cells := row(10, activityCells("09-05-2025, 09:00")[:minActivityCells]...)
	cells[colPresented].Y = 11.5 // printed slightly lower

	if recs := ExtractPage(page(activityHeader(0), cells)); len(recs) != 0 {
		t.Fatalf("Default tolerance should split the row, got %d records", len(recs))
	}

	recs := New(WithRowTolerance(2)).ExtractPage(page(activityHeader(0), cells))
	if len(recs) != 1 || recs[0].Presented != 40 {
		t.Errorf("Expected the wider band to recover the row, got %+v", recs)
	}
}

func BenchmarkExtractPage(b *testing.B) {
	fragments := activityHeader(0)
	for i := 0; i < 96; i++ {
		fragments = append(fragments, row(float64(10+i*10), activityCells("09-05-2025, 09:00")...)...)
	}
	e := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.ExtractPage(fragments)
	}
}
