package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	durationCell = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})$`)
	shortYear    = regexp.MustCompile(`^(\d{2}-\d{2}-)(\d{2})$`)
)

// splitDateTime splits a "DD-MM-YYYY, HH:MM" cell. The time must be a clock
// time; it is returned zero-padded.
func splitDateTime(cell string) (string, string, bool) {
	date, tm, found := strings.Cut(cell, ",")
	if !found {
		// some exports drop the comma and keep only the space
		fields := strings.Fields(cell)
		if len(fields) != 2 {
			return "", "", false
		}
		date, tm = fields[0], fields[1]
	}
	date = strings.TrimSpace(date)
	tm = strings.TrimSpace(tm)

	clock, err := time.Parse(report.TimeLayout, tm)
	if err != nil || date == "" {
		return "", "", false
	}
	return date, clock.Format(report.TimeLayout), true
}

// cellInt reads the integer at the start of cells[i]. Anything unreadable,
// missing or negative is 0.
func cellInt(cells []string, i int) int {
	if i >= len(cells) {
		return 0
	}
	digits := leadingInt.FindString(strings.TrimSpace(cells[i]))
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// cellDuration reads an H:MM:SS cell as HH:MM:SS, defaulting to 00:00:00
func cellDuration(cells []string, i int) string {
	if i >= len(cells) {
		return report.DefaultDuration
	}
	m := durationCell.FindStringSubmatch(strings.TrimSpace(cells[i]))
	if m == nil {
		return report.DefaultDuration
	}
	hours, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s:%s", hours, m[2], m[3])
}

// expandYear turns a DD-MM-YY watermark date into DD-MM-20YY so it can be
// matched against activity dates
func expandYear(date string) string {
	if m := shortYear.FindStringSubmatch(date); m != nil {
		return m[1] + "20" + m[2]
	}
	return date
}
