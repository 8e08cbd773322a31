package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// callCenterReport_YYMMDD_HHMMSS.pdf, the only shape that yields a full timestamp
	fileNamePattern = regexp.MustCompile(`(?i)^callCenterReport_(\d{6})_([^.]+)\.pdf$`)

	// Loose attachment filter; the suffix segment is not guaranteed to be numeric
	attachmentPattern = regexp.MustCompile(`^callCenterReport_\d{6}_[\w-]+\.(?i:pdf)$`)
)

// MatchesReportName reports whether name looks like a call-center report export
func MatchesReportName(name string) bool {
	return attachmentPattern.MatchString(name)
}

// ParseFileName reads the generation time embedded in a report file name.
// A readable date with an unreadable time segment degrades to PrecisionDay.
// A name without a readable date returns ErrUnparseableFileName.
func ParseFileName(name string) (time.Time, Precision, error) {
	m := fileNamePattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return time.Time{}, PrecisionUnknown, fmt.Errorf("%w: %q", ErrUnparseableFileName, name)
	}

	day, err := time.Parse("060102", m[1])
	if err != nil {
		return time.Time{}, PrecisionUnknown, fmt.Errorf("%w: %q: %v", ErrUnparseableFileName, name, err)
	}
	// two-digit years are always 20YY for these exports
	day = time.Date(2000+day.Year()%100, day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	if len(m[2]) != 6 {
		return day, PrecisionDay, nil
	}
	clock, err := time.Parse("150405", m[2])
	if err != nil {
		return day, PrecisionDay, nil
	}

	ts := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
	return ts, PrecisionSecond, nil
}
