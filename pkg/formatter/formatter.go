// Package formatter renders a reconciled series as text, JSON or CSV
package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pyhub-apps/callreport-golang/pkg/report"
	"github.com/pyhub-apps/callreport-golang/pkg/stats"
)

// Output formats
const (
	FormatNameText = "text"
	FormatNameJSON = "json"
	FormatNameCSV  = "csv"
)

// ValidFormat reports whether name is a supported output format
func ValidFormat(name string) bool {
	switch name {
	case FormatNameText, FormatNameJSON, FormatNameCSV:
		return true
	}
	return false
}

// Format renders series in the named format
func Format(name string, series report.Series) (string, error) {
	switch name {
	case FormatNameText:
		return FormatText(series), nil
	case FormatNameJSON:
		return FormatJSON(series), nil
	case FormatNameCSV:
		return FormatCSV(series), nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or csv)", name)
}

// document is the JSON shape of a rendered series
type document struct {
	Summary stats.Summary           `json:"summary"`
	Daily   []stats.DailyTotals     `json:"daily"`
	Weekday []stats.WeekdayActivity `json:"weekdays"`
	Records report.Series           `json:"records"`
}

// FormatText returns a fixed-width table of the series followed by its summary
func FormatText(series report.Series) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-10s %-5s %6s %9s %8s %6s %9s %7s %4s %8s %8s %8s\n",
		"Date", "Time", "Queued", "Presented", "Answered", "In60", "Abandoned", "Bounced", "%Ans",
		"Wait", "Answer", "Abandon"))
	for _, r := range series {
		sb.WriteString(fmt.Sprintf("%-10s %-5s %6d %9d %8d %6d %9d %7d %4d %8s %8s %8s\n",
			r.Date, r.Time, r.Queued, r.Presented, r.Answered, r.AnsweredIn60Secs,
			r.Abandoned, r.Bounced, r.PercentAnswered,
			r.LongestWait, r.LongestAnswer, r.LongestAbandoned))
	}

	s := stats.Summarize(series)
	sb.WriteString("\n")
	if s.Records == 0 {
		sb.WriteString("No activity records\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Records: %d over %d day(s), %s to %s\n", s.Records, s.Days, s.First, s.Last))
	sb.WriteString(fmt.Sprintf("Queued=%d, Presented=%d, Answered=%d (%d%%), Within 60s=%d (%d%%)\n",
		s.Queued, s.Presented, s.Answered, s.PercentAnswered, s.AnsweredIn60Secs, s.PercentAnsweredIn60))
	sb.WriteString(fmt.Sprintf("Abandoned=%d (%d%%), Bounced=%d\n", s.Abandoned, s.AbandonRate, s.Bounced))
	sb.WriteString(fmt.Sprintf("Longest wait %s, answer %s, abandon %s\n",
		s.LongestWait, s.LongestAnswer, s.LongestAbandoned))

	return sb.String()
}

// FormatJSON returns the series with its summary, daily and weekday totals as indented JSON
func FormatJSON(series report.Series) string {
	if series == nil {
		series = report.Series{}
	}
	doc := document{
		Summary: stats.Summarize(series),
		Daily:   stats.Daily(series),
		Weekday: stats.ByWeekday(series),
		Records: series,
	}
	if doc.Daily == nil {
		doc.Daily = []stats.DailyTotals{}
	}
	jsonBytes, _ := json.MarshalIndent(doc, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns one CSV row per record
func FormatCSV(series report.Series) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write([]string{
		"date", "time", "queued", "presented", "answered", "answeredIn60Secs",
		"abandoned", "bounced", "percentAnswered",
		"longestWait", "longestAnswer", "longestAbandoned",
	})

	for _, r := range series {
		writer.Write([]string{
			r.Date, r.Time,
			strconv.Itoa(r.Queued), strconv.Itoa(r.Presented), strconv.Itoa(r.Answered),
			strconv.Itoa(r.AnsweredIn60Secs), strconv.Itoa(r.Abandoned), strconv.Itoa(r.Bounced),
			strconv.Itoa(r.PercentAnswered),
			r.LongestWait, r.LongestAnswer, r.LongestAbandoned,
		})
	}

	writer.Flush()
	return sb.String()
}

// FormatHeatmap renders the weekday by hour grid of presented calls
func FormatHeatmap(grid stats.HourlyGrid) string {
	var sb strings.Builder
	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	sb.WriteString("   ")
	for h := range 24 {
		sb.WriteString(fmt.Sprintf(" %4s", fmt.Sprintf("%02dh", h)))
	}
	sb.WriteString("\n")

	for d, row := range grid {
		sb.WriteString(days[d])
		for _, n := range row {
			sb.WriteString(fmt.Sprintf(" %4d", n))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
