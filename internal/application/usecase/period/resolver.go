// Package period contains the reporting period use cases.
package period

import (
	"time"

	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// Resolver turns a period token into a concrete, inclusive date range.
// It is pure: the same token and today always yield the same range.
type Resolver struct {
	weekStart time.Weekday
}

// NewResolver creates a Resolver whose weeks begin on weekStart.
func NewResolver(weekStart time.Weekday) *Resolver {
	return &Resolver{weekStart: weekStart}
}

// Resolve computes the range for token relative to today.
// custom is consulted only for PeriodCustom and must satisfy start <= end.
func (r *Resolver) Resolve(token valueobject.PeriodToken, today time.Time, custom *valueobject.DateRange) (valueobject.DateRange, error) {
	day := valueobject.DateOf(today)

	switch token {
	case valueobject.PeriodMonthCurrent:
		start := monthStart(day)
		return valueobject.NewDateRange(start, start.AddDate(0, 1, -1)), nil
	case valueobject.PeriodMonthPrevious:
		start := monthStart(day).AddDate(0, -1, 0)
		return valueobject.NewDateRange(start, start.AddDate(0, 1, -1)), nil
	case valueobject.PeriodMonthToDate:
		return valueobject.NewDateRange(monthStart(day), day), nil

	case valueobject.PeriodWeekCurrent:
		start := r.weekStartOf(day)
		return valueobject.NewDateRange(start, start.AddDate(0, 0, 6)), nil
	case valueobject.PeriodWeekPrevious:
		start := r.weekStartOf(day).AddDate(0, 0, -7)
		return valueobject.NewDateRange(start, start.AddDate(0, 0, 6)), nil

	case valueobject.PeriodLast30Days:
		return valueobject.NewDateRange(day.AddDate(0, 0, -30), day), nil
	case valueobject.PeriodLast12Months:
		return valueobject.NewDateRange(day.AddDate(-1, 0, 0), day), nil

	case valueobject.PeriodQuarterCurrent:
		start := quarterStart(day)
		return valueobject.NewDateRange(start, start.AddDate(0, 3, -1)), nil
	case valueobject.PeriodQuarterPrevious:
		start := quarterStart(day).AddDate(0, -3, 0)
		return valueobject.NewDateRange(start, start.AddDate(0, 3, -1)), nil
	case valueobject.PeriodQuarterToDate:
		return valueobject.NewDateRange(quarterStart(day), day), nil

	case valueobject.PeriodYearCurrent:
		return yearRange(day.Year()), nil
	case valueobject.PeriodYearPrevious:
		return yearRange(day.Year() - 1), nil
	case valueobject.PeriodYearToDate:
		return valueobject.NewDateRange(time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), day), nil

	case valueobject.PeriodCustom:
		if custom == nil || !custom.IsValid() {
			return valueobject.DateRange{}, domainerror.NewPeriodError(
				domainerror.ErrCodeInvalidRange,
				"custom period requires start and end with start not after end",
				domainerror.ErrInvalidRange,
			)
		}
		return valueobject.NewDateRange(custom.Start, custom.End), nil
	}

	return valueobject.DateRange{}, domainerror.NewPeriodError(
		domainerror.ErrCodeUnknownPeriodToken,
		"unknown period token '"+string(token)+"'",
		domainerror.ErrUnknownPeriodToken,
	)
}

// weekStartOf returns the first day of the week containing day.
func (r *Resolver) weekStartOf(day time.Time) time.Time {
	offset := (int(day.Weekday()) - int(r.weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

func monthStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// quarterStart returns Jan 1, Apr 1, Jul 1 or Oct 1 of day's year.
func quarterStart(day time.Time) time.Time {
	quarter := (int(day.Month()) - 1) / 3
	return time.Date(day.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
}

func yearRange(year int) valueobject.DateRange {
	return valueobject.NewDateRange(
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	)
}
