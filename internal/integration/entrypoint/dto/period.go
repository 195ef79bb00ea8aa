package dto

import (
	"github.com/rendiconti/backend/internal/application/usecase/period"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// PeriodTokenResponse describes one entry of the period vocabulary.
type PeriodTokenResponse struct {
	Token string `json:"token"`
	Label string `json:"label"`
}

// PeriodListResponse represents the period vocabulary.
type PeriodListResponse struct {
	Periods []PeriodTokenResponse `json:"periods"`
}

// ResolvedPeriodResponse is a resolved token.
type ResolvedPeriodResponse struct {
	Token string `json:"period"`
	PeriodResponse
	Days  int    `json:"days"`
	Today string `json:"today"`
}

// ToPeriodListResponse converts the vocabulary.
func ToPeriodListResponse(output *period.ListPeriodsOutput) PeriodListResponse {
	out := PeriodListResponse{Periods: make([]PeriodTokenResponse, 0, len(output.Periods))}
	for _, p := range output.Periods {
		out.Periods = append(out.Periods, PeriodTokenResponse{Token: string(p.Token), Label: p.Label})
	}
	return out
}

// ToResolvedPeriodResponse converts a resolution.
func ToResolvedPeriodResponse(output *period.ResolvePeriodOutput) ResolvedPeriodResponse {
	return ResolvedPeriodResponse{
		Token:          string(output.Token),
		PeriodResponse: ToPeriodResponse(output.Period),
		Days:           output.Period.Days(),
		Today:          output.Today.Format(valueobject.DateLayout),
	}
}
