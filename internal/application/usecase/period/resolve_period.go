package period

import (
	"context"
	"time"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// ResolvePeriodInput represents the input for period resolution.
type ResolvePeriodInput struct {
	Token  valueobject.PeriodToken
	Custom *valueobject.DateRange
	// Today overrides the clock; zero means "now" in the configured location.
	Today time.Time
}

// ResolvePeriodOutput represents the output of period resolution.
type ResolvePeriodOutput struct {
	Token  valueobject.PeriodToken
	Period valueobject.DateRange
	Today  time.Time
}

// ResolvePeriodUseCase resolves a period token against the current date.
type ResolvePeriodUseCase struct {
	resolver *Resolver
	clock    adapter.Clock
	location *time.Location
}

// NewResolvePeriodUseCase creates a new ResolvePeriodUseCase instance.
func NewResolvePeriodUseCase(resolver *Resolver, clock adapter.Clock, location *time.Location) *ResolvePeriodUseCase {
	if location == nil {
		location = time.UTC
	}
	return &ResolvePeriodUseCase{
		resolver: resolver,
		clock:    clock,
		location: location,
	}
}

// Execute resolves the token.
func (uc *ResolvePeriodUseCase) Execute(_ context.Context, input ResolvePeriodInput) (*ResolvePeriodOutput, error) {
	today := input.Today
	if today.IsZero() {
		today = uc.clock.Now().In(uc.location)
	}
	today = valueobject.DateOf(today)

	period, err := uc.resolver.Resolve(input.Token, today, input.Custom)
	if err != nil {
		return nil, err
	}

	return &ResolvePeriodOutput{
		Token:  input.Token,
		Period: period,
		Today:  today,
	}, nil
}

// ListPeriodsOutput represents the token vocabulary.
type ListPeriodsOutput struct {
	Periods []valueobject.PeriodTokenInfo
}

// ListPeriodsUseCase returns the period vocabulary in display order.
type ListPeriodsUseCase struct{}

// NewListPeriodsUseCase creates a new ListPeriodsUseCase instance.
func NewListPeriodsUseCase() *ListPeriodsUseCase {
	return &ListPeriodsUseCase{}
}

// Execute returns every token with its label.
func (uc *ListPeriodsUseCase) Execute(_ context.Context) *ListPeriodsOutput {
	return &ListPeriodsOutput{Periods: valueobject.PeriodTokens()}
}
