// Package valueobject contains domain value objects for the Rendiconti system.
package valueobject

import (
	"fmt"
	"time"
)

// DateLayout is the wire format used for calendar dates.
const DateLayout = "2006-01-02"

// ItalianDateLayout is the format used in exports and printable documents.
const ItalianDateLayout = "02/01/2006"

// DateRange is a closed calendar interval: both Start and End are included.
// Both bounds are normalized to midnight UTC so that ranges compare by calendar day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DateOf truncates t to its calendar day, keeping the year/month/day observed in t's location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDateRange builds a normalized range. It does not validate ordering; use IsValid.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{
		Start: DateOf(start),
		End:   DateOf(end),
	}
}

// ParseDateRange parses two dates in DateLayout.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return NewDateRange(s, e), nil
}

// IsValid reports whether Start <= End and neither bound is zero.
func (r DateRange) IsValid() bool {
	if r.Start.IsZero() || r.End.IsZero() {
		return false
	}
	return !r.Start.After(r.End)
}

// Contains reports whether the calendar day of t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports whether two ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Days returns the number of calendar days covered, bounds included.
func (r DateRange) Days() int {
	if !r.IsValid() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// String renders the range as "2025-01-01..2025-03-31".
func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}
