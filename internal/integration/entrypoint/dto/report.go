package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/usecase/report"
	"github.com/rendiconti/backend/internal/domain/entity"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// ReportRequest represents the request body for report generation and export.
type ReportRequest struct {
	PeriodRequest
	AccountIDs  []string `json:"account_ids" form:"account_id"`
	CategoryIDs []string `json:"category_ids" form:"category_id"`
	Types       []string `json:"types" form:"type"`
}

// ReportFiltersResponse echoes the applied filters.
type ReportFiltersResponse struct {
	AccountIDs          []string `json:"account_ids"`
	CategoryIDs         []string `json:"category_ids"`
	ExpandedCategoryIDs []string `json:"expanded_category_ids"`
	Types               []string `json:"types"`
}

// ReportRowResponse is one movement of a report.
type ReportRowResponse struct {
	MovementID   string  `json:"movement_id"`
	Date         string  `json:"date"`
	AccountID    string  `json:"account_id"`
	AccountName  string  `json:"account_name"`
	CategoryID   *string `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Level        int     `json:"level"`
	RootID       *string `json:"root_id"`
	RootName     string  `json:"root_name"`
	Path         string  `json:"path"`
	Type         string  `json:"type"`
	Amount       string  `json:"amount"`
	Note         string  `json:"note"`
}

// RootTotalResponse aggregates one level-1 category.
type RootTotalResponse struct {
	CategoryID *string `json:"category_id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Total      string  `json:"total"`
	Count      int     `json:"count"`
}

// ReportResponse represents a generated report.
type ReportResponse struct {
	Period       PeriodResponse        `json:"period"`
	Filters      ReportFiltersResponse `json:"filters"`
	AccountLabel string                `json:"account_label"`
	Movements    []ReportRowResponse   `json:"movements"`
	TotalIncome  string                `json:"total_income"`
	TotalExpense string                `json:"total_expense"`
	Saldo        string                `json:"saldo"`
	Count        int                   `json:"count"`
	Breakdown    []RootTotalResponse   `json:"breakdown"`
	GeneratedAt  time.Time             `json:"generated_at"`
}

// ToReportResponse converts a report.
func ToReportResponse(r *report.Report) ReportResponse {
	out := ReportResponse{
		Period: ToPeriodResponse(r.Period),
		Filters: ReportFiltersResponse{
			AccountIDs:          idStrings(r.Filters.AccountIDs),
			CategoryIDs:         idStrings(r.Filters.CategoryIDs),
			ExpandedCategoryIDs: idStrings(r.Filters.ExpandedCategoryIDs),
			Types:               typeStrings(r.Filters.Types),
		},
		AccountLabel: r.AccountLabel,
		Movements:    make([]ReportRowResponse, 0, len(r.Movements)),
		TotalIncome:  amount(r.TotalIncome),
		TotalExpense: amount(r.TotalExpense),
		Saldo:        amount(r.Saldo()),
		Count:        r.Count,
		Breakdown:    make([]RootTotalResponse, 0, len(r.Breakdown)),
		GeneratedAt:  r.GeneratedAt,
	}
	for _, row := range r.Movements {
		out.Movements = append(out.Movements, ReportRowResponse{
			MovementID:   row.MovementID.String(),
			Date:         row.Date.Format(valueobject.DateLayout),
			AccountID:    row.AccountID.String(),
			AccountName:  row.AccountName,
			CategoryID:   optionalID(row.CategoryID),
			CategoryName: row.CategoryName,
			Level:        int(row.Level),
			RootID:       optionalID(row.RootID),
			RootName:     row.RootName,
			Path:         row.Path,
			Type:         string(row.Type),
			Amount:       amount(row.Amount),
			Note:         row.Note,
		})
	}
	for _, t := range r.Breakdown {
		out.Breakdown = append(out.Breakdown, RootTotalResponse{
			CategoryID: optionalID(t.CategoryID),
			Name:       t.Name,
			Type:       string(t.Type),
			Total:      amount(t.Total),
			Count:      t.Count,
		})
	}
	return out
}

// ParseMovementTypes converts raw type names; validation is left to the aggregator.
func ParseMovementTypes(raw []string) []entity.MovementType {
	if len(raw) == 0 {
		return nil
	}
	types := make([]entity.MovementType, 0, len(raw))
	for _, t := range raw {
		types = append(types, entity.MovementType(t))
	}
	return types
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func typeStrings(types []entity.MovementType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
