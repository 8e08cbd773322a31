// Package stats aggregates a reconciled series into the totals, weekday
// profiles and hourly heatmap shown on the call-center dashboard.
package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

// Summary holds the totals of a series
type Summary struct {
	Records int    `json:"records"`
	Days    int    `json:"days"`
	First   string `json:"first,omitempty"`
	Last    string `json:"last,omitempty"`

	Queued           int `json:"queued"`
	Presented        int `json:"presented"`
	Answered         int `json:"answered"`
	AnsweredIn60Secs int `json:"answeredIn60Secs"`
	Abandoned        int `json:"abandoned"`
	Bounced          int `json:"bounced"`

	PercentAnswered     int `json:"percentAnswered"`
	PercentAnsweredIn60 int `json:"percentAnsweredIn60"`
	AbandonRate         int `json:"abandonRate"`

	LongestWait      string `json:"longestWait"`
	LongestAnswer    string `json:"longestAnswer"`
	LongestAbandoned string `json:"longestAbandoned"`
}

// Summarize totals every counter of series and keeps the longest durations.
// First and Last are the keys of the first and last record.
func Summarize(series report.Series) Summary {
	s := Summary{
		Records:          len(series),
		LongestWait:      report.DefaultDuration,
		LongestAnswer:    report.DefaultDuration,
		LongestAbandoned: report.DefaultDuration,
	}
	if len(series) == 0 {
		return s
	}

	s.First = series[0].Key()
	s.Last = series[len(series)-1].Key()

	days := make(map[string]struct{})
	for _, r := range series {
		days[r.Date] = struct{}{}

		s.Queued += r.Queued
		s.Presented += r.Presented
		s.Answered += r.Answered
		s.AnsweredIn60Secs += r.AnsweredIn60Secs
		s.Abandoned += r.Abandoned
		s.Bounced += r.Bounced

		s.LongestWait = longer(s.LongestWait, r.LongestWait)
		s.LongestAnswer = longer(s.LongestAnswer, r.LongestAnswer)
		s.LongestAbandoned = longer(s.LongestAbandoned, r.LongestAbandoned)
	}
	s.Days = len(days)

	s.PercentAnswered = report.PercentOf(s.Answered, s.Queued)
	s.PercentAnsweredIn60 = report.PercentOf(s.AnsweredIn60Secs, s.Answered)
	s.AbandonRate = report.PercentOf(s.Abandoned, s.Queued)
	return s
}

// WeekdayActivity is the activity of one weekday across a series
type WeekdayActivity struct {
	Weekday   string `json:"weekday"`
	Days      int    `json:"days"`
	Presented int    `json:"presented"`
	Answered  int    `json:"answered"`
	Abandoned int    `json:"abandoned"`

	// AvgPresented is Presented divided by the number of days observed
	AvgPresented    float64 `json:"avgPresented"`
	PercentAnswered int     `json:"percentAnswered"`
}

// ByWeekday groups series by day of week, Monday first. All seven days are
// returned; days never observed are zero.
func ByWeekday(series report.Series) []WeekdayActivity {
	out := make([]WeekdayActivity, 7)
	seen := make([]map[string]struct{}, 7)
	queued := make([]int, 7)
	for i := range out {
		out[i].Weekday = time.Weekday((i + 1) % 7).String()
		seen[i] = make(map[string]struct{})
	}

	for _, r := range series {
		ts, err := r.Timestamp()
		if err != nil {
			continue
		}
		i := mondayFirst(ts.Weekday())
		seen[i][r.Date] = struct{}{}
		out[i].Presented += r.Presented
		out[i].Answered += r.Answered
		out[i].Abandoned += r.Abandoned
		queued[i] += r.Queued
	}

	for i := range out {
		out[i].Days = len(seen[i])
		if out[i].Days > 0 {
			out[i].AvgPresented = float64(out[i].Presented) / float64(out[i].Days)
		}
		out[i].PercentAnswered = report.PercentOf(out[i].Answered, queued[i])
	}
	return out
}

// HourlyGrid counts presented calls by weekday (Monday first) and hour of day
type HourlyGrid [7][24]int

// Max returns the largest cell of the grid
func (g HourlyGrid) Max() int {
	top := 0
	for _, day := range g {
		for _, n := range day {
			if n > top {
				top = n
			}
		}
	}
	return top
}

// Heatmap buckets the presented calls of series by weekday and hour
func Heatmap(series report.Series) HourlyGrid {
	var g HourlyGrid
	for _, r := range series {
		ts, err := r.Timestamp()
		if err != nil {
			continue
		}
		g[mondayFirst(ts.Weekday())][ts.Hour()] += r.Presented
	}
	return g
}

// DailyTotals is the activity of one calendar day
type DailyTotals struct {
	Date            string `json:"date"`
	Records         int    `json:"records"`
	Queued          int    `json:"queued"`
	Presented       int    `json:"presented"`
	Answered        int    `json:"answered"`
	Abandoned       int    `json:"abandoned"`
	PercentAnswered int    `json:"percentAnswered"`
}

// Daily totals series per date, in the order dates first appear. A
// reconciled series is sorted, so that is ascending date order.
func Daily(series report.Series) []DailyTotals {
	var out []DailyTotals
	index := make(map[string]int)
	for _, r := range series {
		i, ok := index[r.Date]
		if !ok {
			i = len(out)
			index[r.Date] = i
			out = append(out, DailyTotals{Date: r.Date})
		}
		d := &out[i]
		d.Records++
		d.Queued += r.Queued
		d.Presented += r.Presented
		d.Answered += r.Answered
		d.Abandoned += r.Abandoned
	}
	for i := range out {
		out[i].PercentAnswered = report.PercentOf(out[i].Answered, out[i].Queued)
	}
	return out
}

func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// longer returns whichever HH:MM:SS duration is longer, keeping a when b is unreadable
func longer(a, b string) string {
	da, errA := parseDuration(a)
	db, errB := parseDuration(b)
	switch {
	case errB != nil:
		return a
	case errA != nil || db > da:
		return b
	}
	return a
}

func parseDuration(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total += time.Duration(n) * units[i]
	}
	return total, nil
}
