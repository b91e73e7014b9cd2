package payroll

import (
	"time"
)

// =============================================================================
// DATE - UTC calendar date (day granularity)
// =============================================================================

// Date is a calendar date normalized to UTC midnight. All holiday and
// weekend comparisons use UTC to avoid off-by-one errors across the
// local-timezone date boundary.
type Date struct {
	t time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date. Callers in degradable paths
// (dailies date-range mode) fall back to manual day counts on error.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string { return d.t.Format(dateLayout) }

// DaysInclusive counts calendar days in [from, to], both ends included.
// A single-day range counts as 1.
func DaysInclusive(from, to Date) int {
	if to.Before(from) {
		from, to = to, from
	}
	return int(to.t.Sub(from.t).Hours()/24) + 1
}

// =============================================================================
// HOLIDAY SET - Configured holiday date list
// =============================================================================

// HolidaySet answers "is this date a holiday" in O(1). Built from the
// organization's configured holiday date list; an absent list simply
// yields no holidays (degraded, not an error).
type HolidaySet map[string]bool

func NewHolidaySet(dates []Date) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d.String()] = true
	}
	return set
}

func (h HolidaySet) Contains(d Date) bool {
	if h == nil {
		return false
	}
	return h[d.String()]
}

// IsBusinessDay reports whether the date is neither a weekend day nor a
// configured holiday.
func (h HolidaySet) IsBusinessDay(d Date) bool {
	return !d.IsWeekend() && !h.Contains(d)
}

// CountBusinessDays counts the days in [from, to] that are business days.
func (h HolidaySet) CountBusinessDays(from, to Date) int {
	if to.Before(from) {
		from, to = to, from
	}
	count := 0
	for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
		if h.IsBusinessDay(d) {
			count++
		}
	}
	return count
}
