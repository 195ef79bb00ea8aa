package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// Request selects the movements of one entity to aggregate.
// Empty AccountIDs or CategoryIDs mean no restriction; empty Types means both types.
type Request struct {
	EntityID    uuid.UUID
	Period      valueobject.DateRange
	AccountIDs  []uuid.UUID
	CategoryIDs []uuid.UUID
	Types       []entity.MovementType
}

// Aggregator turns ledger movements into reports. It never writes.
type Aggregator struct {
	ledger        adapter.MovementLedger
	categoryRepo  adapter.CategoryRepository
	accountRepo   adapter.AccountRepository
	clock         adapter.Clock
	ledgerTimeout time.Duration
}

// NewAggregator creates an Aggregator. A zero ledgerTimeout disables the deadline.
func NewAggregator(
	ledger adapter.MovementLedger,
	categoryRepo adapter.CategoryRepository,
	accountRepo adapter.AccountRepository,
	clock adapter.Clock,
	ledgerTimeout time.Duration,
) *Aggregator {
	return &Aggregator{
		ledger:        ledger,
		categoryRepo:  categoryRepo,
		accountRepo:   accountRepo,
		clock:         clock,
		ledgerTimeout: ledgerTimeout,
	}
}

// Generate builds the report for req. Any failure reading movements, a timeout
// included, is reported as LedgerUnavailable and no partial report is returned.
func (a *Aggregator) Generate(ctx context.Context, req Request) (*Report, error) {
	if !req.Period.IsValid() {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidReportPeriod,
			"report period start must not be after end",
			domainerror.ErrInvalidRange,
		)
	}

	types, err := normalizeTypes(req.Types)
	if err != nil {
		return nil, err
	}

	categories, err := a.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, ledgerUnavailable(fmt.Errorf("failed to load categories: %w", err))
	}
	tree := entity.NewCategoryTree(categories)

	var expanded []uuid.UUID
	if len(req.CategoryIDs) > 0 {
		var unknown []uuid.UUID
		expanded, unknown = tree.ExpandSelection(req.CategoryIDs)
		if len(unknown) > 0 {
			return nil, domainerror.NewReportError(
				domainerror.ErrCodeUnknownReportCategory,
				fmt.Sprintf("%d selected categories do not exist", len(unknown)),
				domainerror.ErrUnknownReportCategory,
			)
		}
	}

	accounts, err := a.accountRepo.FindByEntity(ctx, req.EntityID)
	if err != nil {
		return nil, ledgerUnavailable(fmt.Errorf("failed to load accounts: %w", err))
	}
	accountNames := make(map[uuid.UUID]string, len(accounts))
	for _, acc := range accounts {
		accountNames[acc.ID] = acc.Name
	}

	movements, err := a.query(ctx, adapter.LedgerQuery{
		EntityID:    req.EntityID,
		Period:      req.Period,
		AccountIDs:  req.AccountIDs,
		CategoryIDs: expanded,
		Types:       types,
	})
	if err != nil {
		return nil, ledgerUnavailable(err)
	}

	selection := newSelection(req.Period, req.AccountIDs, expanded, types)
	report := &Report{
		Period: req.Period,
		Filters: Filters{
			AccountIDs:          req.AccountIDs,
			CategoryIDs:         req.CategoryIDs,
			ExpandedCategoryIDs: expanded,
			Types:               types,
		},
		AccountLabel: accountLabel(req.AccountIDs),
		Movements:    make([]Row, 0, len(movements)),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		GeneratedAt:  a.clock.Now().UTC(),
	}

	breakdown := newBreakdown()
	for _, m := range movements {
		if !selection.matches(m) {
			continue
		}
		row := buildRow(tree, accountNames, m)
		report.Movements = append(report.Movements, row)
		breakdown.add(row)

		switch m.Type {
		case entity.MovementTypeIncome:
			report.TotalIncome = report.TotalIncome.Add(m.Amount)
		case entity.MovementTypeExpense:
			report.TotalExpense = report.TotalExpense.Add(m.Amount)
		}
	}

	// The ledger already orders by date then insertion; a stable sort keeps
	// that tie order while guaranteeing the date order.
	sort.SliceStable(report.Movements, func(i, j int) bool {
		return report.Movements[i].Date.Before(report.Movements[j].Date)
	})

	report.Count = len(report.Movements)
	report.Breakdown = breakdown.sorted(tree)

	return report, nil
}

// Totals returns only income and expense for the whole ledger of an entity in period.
func (a *Aggregator) Totals(ctx context.Context, entityID uuid.UUID, period valueobject.DateRange) (income, expense decimal.Decimal, err error) {
	report, err := a.Generate(ctx, Request{EntityID: entityID, Period: period})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return report.TotalIncome, report.TotalExpense, nil
}

func (a *Aggregator) query(ctx context.Context, q adapter.LedgerQuery) ([]*entity.Movement, error) {
	if a.ledgerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.ledgerTimeout)
		defer cancel()
	}

	movements, err := a.ledger.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return movements, nil
}

func normalizeTypes(types []entity.MovementType) ([]entity.MovementType, error) {
	if len(types) == 0 {
		return []entity.MovementType{entity.MovementTypeIncome, entity.MovementTypeExpense}, nil
	}
	seen := make(map[entity.MovementType]struct{}, len(types))
	out := make([]entity.MovementType, 0, len(types))
	for _, t := range types {
		if !t.IsValid() {
			return nil, domainerror.NewReportError(
				domainerror.ErrCodeInvalidMovementTypes,
				fmt.Sprintf("unknown movement type '%s'", t),
				domainerror.ErrInvalidMovementTypes,
			)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func ledgerUnavailable(err error) error {
	return domainerror.NewReportError(
		domainerror.ErrCodeLedgerUnavailable,
		"movement data is unavailable, retry later",
		fmt.Errorf("%w: %w", domainerror.ErrLedgerUnavailable, err),
	)
}

// accountLabel names the account selection the way the printed report heads it.
func accountLabel(selected []uuid.UUID) string {
	if len(selected) == 0 {
		return AllAccountsLabel
	}
	return fmt.Sprintf("%d conti selezionati", len(selected))
}

func buildRow(tree *entity.CategoryTree, accountNames map[uuid.UUID]string, m *entity.Movement) Row {
	row := Row{
		MovementID:  m.ID,
		Date:        m.Date,
		AccountID:   m.AccountID,
		AccountName: accountNames[m.AccountID],
		CategoryID:  m.CategoryID,
		Path:        entity.UncategorizedPath,
		Type:        m.Type,
		Amount:      m.Amount,
		Note:        m.Note,
	}
	if m.CategoryID == nil {
		return row
	}
	if c, ok := tree.Get(*m.CategoryID); ok {
		row.CategoryName = c.Name
		row.Level = c.Level
		row.Path = tree.Path(c.ID)
	}
	if root, ok := tree.RootOf(*m.CategoryID); ok {
		rootID := root.ID
		row.RootID = &rootID
		row.RootName = root.Name
	}
	return row
}

// selection re-applies the filters to what the ledger returned.
type selection struct {
	period     valueobject.DateRange
	accounts   map[uuid.UUID]struct{}
	categories map[uuid.UUID]struct{}
	types      map[entity.MovementType]struct{}
}

func newSelection(period valueobject.DateRange, accounts, categories []uuid.UUID, types []entity.MovementType) *selection {
	s := &selection{
		period: period,
		types:  make(map[entity.MovementType]struct{}, len(types)),
	}
	if len(accounts) > 0 {
		s.accounts = make(map[uuid.UUID]struct{}, len(accounts))
		for _, id := range accounts {
			s.accounts[id] = struct{}{}
		}
	}
	if len(categories) > 0 {
		s.categories = make(map[uuid.UUID]struct{}, len(categories))
		for _, id := range categories {
			s.categories[id] = struct{}{}
		}
	}
	for _, t := range types {
		s.types[t] = struct{}{}
	}
	return s
}

func (s *selection) matches(m *entity.Movement) bool {
	if !s.period.Contains(m.Date) {
		return false
	}
	if _, ok := s.types[m.Type]; !ok {
		return false
	}
	if s.accounts != nil {
		if _, ok := s.accounts[m.AccountID]; !ok {
			return false
		}
	}
	if s.categories != nil {
		if m.CategoryID == nil {
			return false
		}
		if _, ok := s.categories[*m.CategoryID]; !ok {
			return false
		}
	}
	return true
}

type breakdownKey struct {
	root uuid.UUID // uuid.Nil for uncategorised
	typ  entity.MovementType
}

type breakdown struct {
	order  []breakdownKey
	totals map[breakdownKey]*RootTotal
}

func newBreakdown() *breakdown {
	return &breakdown{totals: make(map[breakdownKey]*RootTotal)}
}

func (b *breakdown) add(row Row) {
	key := breakdownKey{typ: row.Type}
	if row.RootID != nil {
		key.root = *row.RootID
	}
	total, ok := b.totals[key]
	if !ok {
		total = &RootTotal{Type: row.Type, Total: decimal.Zero, Name: entity.UncategorizedPath}
		if row.RootID != nil {
			id := *row.RootID
			total.CategoryID = &id
			total.Name = row.RootName
		}
		b.totals[key] = total
		b.order = append(b.order, key)
	}
	total.Total = total.Total.Add(row.Amount)
	total.Count++
}

// sorted orders entries by type (entrata first), then root code, uncategorised last.
func (b *breakdown) sorted(tree *entity.CategoryTree) []RootTotal {
	code := func(k breakdownKey) string {
		if k.root == uuid.Nil {
			return "~"
		}
		if c, ok := tree.Get(k.root); ok {
			return c.Code
		}
		return "~"
	}
	keys := make([]breakdownKey, len(b.order))
	copy(keys, b.order)
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].typ != keys[j].typ {
			return keys[i].typ == entity.MovementTypeIncome
		}
		return code(keys[i]) < code(keys[j])
	})

	out := make([]RootTotal, len(keys))
	for i, k := range keys {
		out[i] = *b.totals[k]
	}
	return out
}
