// Package report contains the movement report use cases.
package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rendiconti/backend/internal/domain/entity"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// AllAccountsLabel is shown when no account filter is applied.
const AllAccountsLabel = "TUTTI I CONTI"

// Filters echoes the filters a report was generated with.
// ExpandedCategoryIDs holds the selection after descendant expansion.
type Filters struct {
	AccountIDs          []uuid.UUID
	CategoryIDs         []uuid.UUID
	ExpandedCategoryIDs []uuid.UUID
	Types               []entity.MovementType
}

// Row is one movement as it appears in a report.
type Row struct {
	MovementID   uuid.UUID
	Date         time.Time
	AccountID    uuid.UUID
	AccountName  string
	CategoryID   *uuid.UUID
	CategoryName string
	Level        entity.CategoryLevel
	RootID       *uuid.UUID
	RootName     string
	Path         string
	Type         entity.MovementType
	Amount       decimal.Decimal
	Note         string
}

// RootTotal aggregates the rows below one level-1 category.
// CategoryID is nil for uncategorised movements.
type RootTotal struct {
	CategoryID *uuid.UUID
	Name       string
	Type       entity.MovementType
	Total      decimal.Decimal
	Count      int
}

// Report is the result of an aggregation.
type Report struct {
	Period       valueobject.DateRange
	Filters      Filters
	AccountLabel string
	Movements    []Row
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Count        int
	Breakdown    []RootTotal
	GeneratedAt  time.Time
}

// Saldo returns TotalIncome - TotalExpense.
func (r *Report) Saldo() decimal.Decimal {
	return r.TotalIncome.Sub(r.TotalExpense)
}
