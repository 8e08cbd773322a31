package callreport

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pyhub-apps/callreport-golang/pkg/pdf"
	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

func activityRow(y float64, dateTime, queued, answered string) []textCell {
	return row(y, dateTime, "1", queued, "0", "2", queued, answered, "35", "0", "0", "0", "2")
}

// sampleReport is one page with both tables
func sampleReport(queued, answered string) []byte {
	return buildPDF(cells(
		row(760, "Call Center Activity"),
		row(745, "Date and Time"),
		activityRow(730, "09-05-2025, 09:00", queued, answered),
		activityRow(718, "09-05-2025, 09:15", "10", "10"),
		row(600, "High Water Marks"),
		row(585, "Date and Time"),
		row(570, "09-05-25, 09:00", "x", "0:02:05", "00:00:30", "00:04:10"),
		row(400, "Report Summary"),
	))
}

func TestOpenPDF(t *testing.T) {
	doc, err := Open(buildPDF(row(700, "page one"), row(700, "page two")))
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Errorf("Expected 2 pages, got %d", doc.PageCount())
	}
	if doc.Backend() != pdf.BackendLedongthuc {
		t.Errorf("Expected the ledongthuc backend, got %s", doc.Backend())
	}
}

func TestPageProperties(t *testing.T) {
	doc, err := Open(buildPDF(row(700, "Call Center Activity", "42")))
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	page, err := doc.GetPage(0)
	if err != nil {
		t.Fatalf("Failed to get page: %v", err)
	}

	if page.GetPageNumber() != 1 {
		t.Errorf("Expected page number 1, got %d", page.GetPageNumber())
	}
	if page.GetWidth() != 612 || page.GetHeight() != 792 {
		t.Errorf("Unexpected page size: %.2f x %.2f", page.GetWidth(), page.GetHeight())
	}

	fragments := page.Fragments()
	if len(fragments) != 2 {
		t.Fatalf("Expected 2 fragments, got %d: %+v", len(fragments), fragments)
	}
	if fragments[0].Text != "Call Center Activity" {
		t.Errorf("Expected the header as one fragment, got %q", fragments[0].Text)
	}
	// y grows downward from the top of the page
	if fragments[0].Y != 92 || fragments[1].X != 160 {
		t.Errorf("Unexpected positions: %+v", fragments)
	}
}

func TestInspect(t *testing.T) {
	info, err := pdf.Inspect(sampleReport("40", "38"))
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if info.PageCount != 1 {
		t.Errorf("Expected 1 page, got %d", info.PageCount)
	}
}

func TestExtractFile(t *testing.T) {
	file, err := ExtractFile("callCenterReport_250509_170000.pdf", sampleReport("40", "38"), WithValidation(true))
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}

	if file.Precision != report.PrecisionSecond {
		t.Errorf("Expected second precision, got %s", file.Precision)
	}
	if len(file.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(file.Records))
	}

	want := ActivityRecord{
		Date:             "09-05-2025",
		Time:             "09:00",
		Queued:           40,
		Presented:        40,
		Answered:         38,
		AnsweredIn60Secs: 35,
		Abandoned:        2,
		Bounced:          2,
		LongestWait:      "00:02:05",
		LongestAnswer:    "00:00:30",
		LongestAbandoned: "00:04:10",
		PercentAnswered:  95,
	}
	if file.Records[0] != want {
		t.Errorf("Record mismatch\n got: %+v\nwant: %+v", file.Records[0], want)
	}
	if file.Records[1].LongestWait != report.DefaultDuration {
		t.Errorf("Expected the second record to keep default durations, got %s", file.Records[1].LongestWait)
	}
}

func TestExtractFileRejectsGarbage(t *testing.T) {
	_, err := ExtractFile("callCenterReport_250509_170000.pdf", []byte("not a pdf"))

	var fileErr *FileError
	if !errors.As(err, &fileErr) {
		t.Fatalf("Expected a FileError, got %v", err)
	}
	if fileErr.FileName != "callCenterReport_250509_170000.pdf" {
		t.Errorf("Unexpected file name %q", fileErr.FileName)
	}
	if !errors.Is(err, report.ErrNoBackend) {
		t.Errorf("Expected ErrNoBackend, got %v", err)
	}
}

func TestExtractPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "callCenterReport_250509_0900.pdf")
	if err := os.WriteFile(path, sampleReport("40", "38"), 0o644); err != nil {
		t.Fatal(err)
	}

	file, err := ExtractPath(path)
	if err != nil {
		t.Fatalf("ExtractPath failed: %v", err)
	}
	if file.FileName != "callCenterReport_250509_0900.pdf" {
		t.Errorf("Expected the base name, got %q", file.FileName)
	}
	if file.Precision != report.PrecisionDay {
		t.Errorf("Expected day precision for a short time segment, got %s", file.Precision)
	}

	if _, err := ExtractPath(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestReconcileReports(t *testing.T) {
	morning, err := ExtractFile("callCenterReport_250509_090000.pdf", sampleReport("20", "10"))
	if err != nil {
		t.Fatal(err)
	}
	evening, err := ExtractFile("callCenterReport_250509_170000.pdf", sampleReport("40", "38"))
	if err != nil {
		t.Fatal(err)
	}

	series := Reconcile([]ReportFile{evening, morning})
	if len(series) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(series))
	}
	if series[0].Queued != 40 {
		t.Errorf("Expected the evening report to win, got queued=%d", series[0].Queued)
	}
	if series[0].Time != "09:00" || series[1].Time != "09:15" {
		t.Errorf("Unexpected order: %s, %s", series[0].Key(), series[1].Key())
	}
}
