// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

// PeriodRequest selects a period either by token or by explicit dates.
type PeriodRequest struct {
	Token     string `json:"period" form:"period"`
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
}

// PeriodResponse is a closed calendar interval.
type PeriodResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ToPeriodResponse converts a DateRange.
func ToPeriodResponse(r valueobject.DateRange) PeriodResponse {
	return PeriodResponse{
		StartDate: r.Start.Format(valueobject.DateLayout),
		EndDate:   r.End.Format(valueobject.DateLayout),
	}
}

// ParseUUIDs parses every id or reports the first malformed one.
func ParseUUIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseOptionalUUID parses a nullable id.
func ParseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", *raw)
	}
	return &id, nil
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func optionalTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
