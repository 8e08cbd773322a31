// Package report defines the call-center activity model shared by the extractor,
// the reconciler and everything downstream of them.
package report

import (
	"fmt"
	"time"
)

// DefaultDuration is used for any watermark duration that is missing or unreadable
const DefaultDuration = "00:00:00"

// Date and time layouts as they appear in the activity table
const (
	DateLayout = "02-01-2006"
	TimeLayout = "15:04"
)

// ActivityRecord is one interval of call activity taken from a report.
// The JSON names match what the dashboard consumers already read.
type ActivityRecord struct {
	Date string `json:"date" dynamodbav:"date"`
	Time string `json:"time" dynamodbav:"time"`

	Queued           int `json:"queued" dynamodbav:"queued"`
	Presented        int `json:"presented" dynamodbav:"presented"`
	Answered         int `json:"answered" dynamodbav:"answered"`
	AnsweredIn60Secs int `json:"answeredIn60Secs" dynamodbav:"answered_in_60_secs"`
	Abandoned        int `json:"abandoned" dynamodbav:"abandoned"`
	Bounced          int `json:"bounced" dynamodbav:"bounced"`

	LongestWait      string `json:"longestWait" dynamodbav:"longest_wait"`
	LongestAnswer    string `json:"longestAnswer" dynamodbav:"longest_answer"`
	LongestAbandoned string `json:"longestAbandoned" dynamodbav:"longest_abandoned"`

	PercentAnswered int `json:"percentAnswered" dynamodbav:"percent_answered"`
}

// NewActivityRecord returns a record for the given key with every duration defaulted
func NewActivityRecord(date, tm string) ActivityRecord {
	return ActivityRecord{
		Date:             date,
		Time:             tm,
		LongestWait:      DefaultDuration,
		LongestAnswer:    DefaultDuration,
		LongestAbandoned: DefaultDuration,
	}
}

// Key returns the natural key of the record, "date_time"
func (r ActivityRecord) Key() string {
	return r.Date + "_" + r.Time
}

// Timestamp parses the record's date and time as a naive local timestamp.
// Both parts are required.
func (r ActivityRecord) Timestamp() (time.Time, error) {
	ts, err := time.Parse(DateLayout+" "+TimeLayout, r.Date+" "+r.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid record timestamp %q %q: %w", r.Date, r.Time, err)
	}
	return ts, nil
}

// ComputePercentAnswered sets PercentAnswered from Answered and Queued
func (r *ActivityRecord) ComputePercentAnswered() {
	r.PercentAnswered = PercentOf(r.Answered, r.Queued)
}

// PercentOf returns part/whole as a rounded integer percentage, 0 when whole is 0
func PercentOf(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	// integer form of round-half-up for non-negative operands
	return (part*200 + whole) / (whole * 2)
}

// Precision describes how much of a report's generation time could be read from its name
type Precision int

const (
	// PrecisionUnknown means the file name carried no usable timestamp
	PrecisionUnknown Precision = iota
	// PrecisionDay means only the YYMMDD segment was readable
	PrecisionDay
	// PrecisionSecond means both YYMMDD and HHMMSS were readable
	PrecisionSecond
)

func (p Precision) String() string {
	switch p {
	case PrecisionDay:
		return "day"
	case PrecisionSecond:
		return "second"
	default:
		return "unknown"
	}
}

// ReportFile is one PDF export and the records extracted from it
type ReportFile struct {
	FileName    string
	GeneratedAt time.Time
	Precision   Precision
	Records     []ActivityRecord
}

// NewReportFile builds a ReportFile, reading the generation time from the file name
func NewReportFile(fileName string, records []ActivityRecord) ReportFile {
	generatedAt, precision, _ := ParseFileName(fileName)
	return ReportFile{
		FileName:    fileName,
		GeneratedAt: generatedAt,
		Precision:   precision,
		Records:     records,
	}
}

// Day returns the calendar day the report was generated on, if known
func (f ReportFile) Day() (string, bool) {
	if f.Precision == PrecisionUnknown {
		return "", false
	}
	return f.GeneratedAt.Format("2006-01-02"), true
}

// Series is a reconciled run of records: ascending by (date, time) with unique keys
type Series []ActivityRecord
