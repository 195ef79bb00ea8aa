package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// StatementState is a state of the Rendiconto lifecycle.
type StatementState string

const (
	StatementStateDraft     StatementState = "draft"
	StatementStateSubmitted StatementState = "submitted"
	// StatementStateInReview is a display sub-state of submitted: a reviewer has opened it
	// but no disposition exists yet. Transition rules are the same as submitted.
	StatementStateInReview StatementState = "in_review"
	StatementStateApproved StatementState = "approved"
	StatementStateRejected StatementState = "rejected"
)

// IsValid reports whether s is a known state.
func (s StatementState) IsValid() bool {
	switch s {
	case StatementStateDraft, StatementStateSubmitted, StatementStateInReview,
		StatementStateApproved, StatementStateRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s StatementState) IsTerminal() bool {
	return s == StatementStateApproved || s == StatementStateRejected
}

// AwaitingDisposition reports whether a reviewer can still approve or reject.
func (s StatementState) AwaitingDisposition() bool {
	return s == StatementStateSubmitted || s == StatementStateInReview
}

// LocksLedger reports whether movements inside the statement period are frozen.
func (s StatementState) LocksLedger() bool {
	return s == StatementStateSubmitted || s == StatementStateInReview || s == StatementStateApproved
}

var statementTransitions = map[StatementState][]StatementState{
	StatementStateDraft:     {StatementStateSubmitted},
	StatementStateSubmitted: {StatementStateInReview, StatementStateApproved, StatementStateRejected},
	StatementStateInReview:  {StatementStateApproved, StatementStateRejected},
}

// CanTransition reports whether from -> to is an edge of the lifecycle.
func CanTransition(from, to StatementState) bool {
	for _, allowed := range statementTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// SourceStates returns every state from which to can be reached.
func SourceStates(to StatementState) []StatementState {
	var sources []StatementState
	for _, from := range []StatementState{StatementStateDraft, StatementStateSubmitted, StatementStateInReview} {
		if CanTransition(from, to) {
			sources = append(sources, from)
		}
	}
	return sources
}

// DeletableStates are the states in which a statement may be removed.
var DeletableStates = []StatementState{StatementStateDraft, StatementStateRejected}

// Statement is the periodic financial statement (Rendiconto) of an entity.
type Statement struct {
	ID                    uuid.UUID
	EntityID              uuid.UUID
	Period                valueobject.DateRange
	State                 StatementState
	TotalIncome           decimal.Decimal
	TotalExpense          decimal.Decimal
	Exonerated            bool
	Note                  string
	Observations          *string
	OwnerID               uuid.UUID
	OwnerEmail            string
	SubmittedAt           *time.Time
	ReviewStartedAt       *time.Time
	ApprovedAt            *time.Time
	RejectedAt            *time.Time
	RejectionReason       *string
	RejectionAttachmentID *uuid.UUID
	ReviewedBy            *uuid.UUID
	DocumentCount         int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewStatement creates a draft statement for the given period.
// note is the operator's free text shown alongside the statement.
func NewStatement(entityID uuid.UUID, owner Actor, period valueobject.DateRange, note string) *Statement {
	now := time.Now().UTC()

	return &Statement{
		ID:           uuid.New(),
		EntityID:     entityID,
		Period:       period,
		State:        StatementStateDraft,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Note:         note,
		OwnerID:      owner.UserID,
		OwnerEmail:   owner.Email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Saldo returns TotalIncome - TotalExpense.
func (s *Statement) Saldo() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpense)
}

// CanTransitionTo reports whether the current state allows moving to to.
func (s *Statement) CanTransitionTo(to StatementState) bool {
	return CanTransition(s.State, to)
}

// CanBeDeleted reports whether the statement is in a deletable state.
func (s *Statement) CanBeDeleted() bool {
	for _, st := range DeletableStates {
		if s.State == st {
			return true
		}
	}
	return false
}

// IsEditable reports whether documents and flags may still change.
func (s *Statement) IsEditable() bool {
	return s.State == StatementStateDraft
}

// SetTotals replaces the computed totals.
func (s *Statement) SetTotals(income, expense decimal.Decimal) {
	s.TotalIncome = income
	s.TotalExpense = expense
	s.UpdatedAt = time.Now().UTC()
}

// MarkSubmitted moves the statement to submitted with frozen totals.
func (s *Statement) MarkSubmitted(income, expense decimal.Decimal, at time.Time) {
	s.TotalIncome = income
	s.TotalExpense = expense
	s.State = StatementStateSubmitted
	s.SubmittedAt = &at
	s.UpdatedAt = at
}

// MarkInReview records that a reviewer opened the statement.
func (s *Statement) MarkInReview(reviewer uuid.UUID, at time.Time) {
	s.State = StatementStateInReview
	s.ReviewStartedAt = &at
	s.ReviewedBy = &reviewer
	s.UpdatedAt = at
}

// RecordObservations stores the reviewer's observations. Blank text clears them.
func (s *Statement) RecordObservations(text string) {
	if text == "" {
		s.Observations = nil
		return
	}
	s.Observations = &text
}

// MarkApproved records a positive disposition.
func (s *Statement) MarkApproved(reviewer uuid.UUID, at time.Time) {
	s.State = StatementStateApproved
	s.ApprovedAt = &at
	s.ReviewedBy = &reviewer
	s.UpdatedAt = at
}

// MarkRejected records a negative disposition with its reason.
func (s *Statement) MarkRejected(reviewer uuid.UUID, reason string, attachmentID *uuid.UUID, at time.Time) {
	s.State = StatementStateRejected
	s.RejectedAt = &at
	s.RejectionReason = &reason
	s.RejectionAttachmentID = attachmentID
	s.ReviewedBy = &reviewer
	s.UpdatedAt = at
}

// StatementTransition is one entry of a statement's state history.
// From is empty for the creation entry.
type StatementTransition struct {
	ID          uuid.UUID
	StatementID uuid.UUID
	From        StatementState
	To          StatementState
	ActorID     uuid.UUID
	Note        string
	OccurredAt  time.Time
}

// NewStatementTransition creates a history entry.
func NewStatementTransition(statementID uuid.UUID, from, to StatementState, actorID uuid.UUID, note string, at time.Time) *StatementTransition {
	return &StatementTransition{
		ID:          uuid.New(),
		StatementID: statementID,
		From:        from,
		To:          to,
		ActorID:     actorID,
		Note:        note,
		OccurredAt:  at,
	}
}

// DispositionEvent is emitted after a statement was approved or rejected.
type DispositionEvent struct {
	StatementID uuid.UUID
	EntityID    uuid.UUID
	State       StatementState
	Period      valueobject.DateRange
	OccurredAt  time.Time
	Reason      string
	OwnerEmail  string
}

// NewDispositionEvent builds the event from a statement that just reached a terminal state.
func NewDispositionEvent(s *Statement) DispositionEvent {
	event := DispositionEvent{
		StatementID: s.ID,
		EntityID:    s.EntityID,
		State:       s.State,
		Period:      s.Period,
		OccurredAt:  s.UpdatedAt,
		OwnerEmail:  s.OwnerEmail,
	}
	if s.RejectionReason != nil {
		event.Reason = *s.RejectionReason
	}
	return event
}
