// Package notification delivers statement disposition events to owners and subscribers.
package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/domain/entity"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// DispositionMessage is the JSON body published for an approve or reject.
type DispositionMessage struct {
	StatementID uuid.UUID `json:"statement_id"`
	EntityID    uuid.UUID `json:"entity_id"`
	State       string    `json:"state"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	OccurredAt  time.Time `json:"occurred_at"`
	Reason      string    `json:"reason,omitempty"`
}

// NewDispositionMessage converts a domain event into its wire form.
func NewDispositionMessage(event entity.DispositionEvent) DispositionMessage {
	return DispositionMessage{
		StatementID: event.StatementID,
		EntityID:    event.EntityID,
		State:       string(event.State),
		PeriodStart: event.Period.Start.Format(valueobject.DateLayout),
		PeriodEnd:   event.Period.End.Format(valueobject.DateLayout),
		OccurredAt:  event.OccurredAt.UTC(),
		Reason:      event.Reason,
	}
}

// ToJSON encodes the message.
func (m DispositionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RoutingKey returns statement.approved or statement.rejected.
func RoutingKey(state entity.StatementState) (string, error) {
	switch state {
	case entity.StatementStateApproved, entity.StatementStateRejected:
		return "statement." + string(state), nil
	default:
		return "", fmt.Errorf("no disposition routing key for state %q", state)
	}
}
