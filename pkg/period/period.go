// Package period derives the calendar keys the rollups are bucketed by:
// ISO week ("YYYY-W##"), month ("YYYY-MM"), quarter ("YYYY-Q#") and year
// ("YYYY"), plus the to-date ranges the weekly summaries compare against.
package period

import (
	"errors"
	"fmt"
	"time"
)

// Level names a rollup granularity.
type Level string

const (
	LevelWeek    Level = "week"
	LevelMonth   Level = "month"
	LevelQuarter Level = "quarter"
	LevelYear    Level = "year"
)

// Levels returns all rollup granularities, coarsest last.
func Levels() []Level {
	return []Level{LevelWeek, LevelMonth, LevelQuarter, LevelYear}
}

// ErrBadWeekKey is returned when a week key does not parse as YYYY-W##.
var ErrBadWeekKey = errors.New("invalid week key")

// WeekKey returns the ISO week key for t, zero-padded ("2025-W07").
func WeekKey(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// MonthKey returns "YYYY-MM" for t.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// QuarterKey returns "YYYY-Q#" for t.
func QuarterKey(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%04d-Q%d", t.Year(), q)
}

// YearKey returns "YYYY" for t.
func YearKey(t time.Time) string {
	return fmt.Sprintf("%04d", t.Year())
}

// Key returns the key for t at the given level.
func Key(level Level, t time.Time) string {
	switch level {
	case LevelWeek:
		return WeekKey(t)
	case LevelMonth:
		return MonthKey(t)
	case LevelQuarter:
		return QuarterKey(t)
	default:
		return YearKey(t)
	}
}

// ParseWeekKey returns the ISO year and week number encoded in key.
func ParseWeekKey(key string) (year, week int, err error) {
	if _, err := fmt.Sscanf(key, "%4d-W%2d", &year, &week); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadWeekKey, key)
	}
	if week < 1 || week > 53 || len(key) != 8 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadWeekKey, key)
	}
	return year, week, nil
}

// WeekStart returns the Monday (UTC midnight) of the ISO week named by key.
func WeekStart(key string) (time.Time, error) {
	year, week, err := ParseWeekKey(key)
	if err != nil {
		return time.Time{}, err
	}
	// Jan 4 is always in ISO week 1 of its year.
	t := time.Date(year, 1, 4, 0, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, -1)
	}
	return t.AddDate(0, 0, (week-1)*7), nil
}

// WeekEnd returns the Sunday (UTC midnight) of the ISO week named by key.
func WeekEnd(key string) (time.Time, error) {
	start, err := WeekStart(key)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, 6), nil
}

// LastCompleteWeek returns the key of the most recent ISO week that ended
// strictly before asOf's week (i.e. the previous week).
func LastCompleteWeek(asOf time.Time) string {
	return WeekKey(asOf.AddDate(0, 0, -7))
}

// Range is a closed date interval [From, To] at day granularity.
type Range struct {
	Label string
	From  time.Time
	To    time.Time
}

// Contains reports whether day d falls inside the range.
func (r Range) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(r.From) && !day.After(r.To)
}

// SummaryRanges builds the comparison windows the weekly report uses, all
// anchored at the end of the report week: the week itself, month-to-date,
// quarter-to-date and year-to-date, each paired with the matching previous
// period so deltas compare like with like.
func SummaryRanges(weekKey string) (current, previous []Range, err error) {
	start, err := WeekStart(weekKey)
	if err != nil {
		return nil, nil, err
	}
	end := start.AddDate(0, 0, 6)

	monthStart := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	qm := time.Month((int(end.Month())-1)/3*3 + 1)
	quarterStart := time.Date(end.Year(), qm, 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(end.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	current = []Range{
		{Label: "week", From: start, To: end},
		{Label: "mtd", From: monthStart, To: end},
		{Label: "qtd", From: quarterStart, To: end},
		{Label: "ytd", From: yearStart, To: end},
	}

	prevWeekStart := start.AddDate(0, 0, -7)
	prevMonthEnd := monthStart.AddDate(0, 0, -1)
	prevMonthStart := time.Date(prevMonthEnd.Year(), prevMonthEnd.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevQuarterEnd := quarterStart.AddDate(0, 0, -1)
	pqm := time.Month((int(prevQuarterEnd.Month())-1)/3*3 + 1)
	prevQuarterStart := time.Date(prevQuarterEnd.Year(), pqm, 1, 0, 0, 0, 0, time.UTC)
	prevYearStart := yearStart.AddDate(-1, 0, 0)

	// Previous to-date windows cover the same number of elapsed days so a
	// mid-month week compares against the same slice of the prior month.
	previous = []Range{
		{Label: "week", From: prevWeekStart, To: prevWeekStart.AddDate(0, 0, 6)},
		{Label: "mtd", From: prevMonthStart, To: minTime(prevMonthStart.AddDate(0, 0, daysIn(monthStart, end)), prevMonthEnd)},
		{Label: "qtd", From: prevQuarterStart, To: minTime(prevQuarterStart.AddDate(0, 0, daysIn(quarterStart, end)), prevQuarterEnd)},
		{Label: "ytd", From: prevYearStart, To: prevYearStart.AddDate(0, 0, daysIn(yearStart, end))},
	}
	return current, previous, nil
}

func daysIn(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
