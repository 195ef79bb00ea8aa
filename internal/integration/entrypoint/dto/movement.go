package dto

import (
	"time"

	"github.com/rendiconti/backend/internal/domain/entity"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// CreateAccountRequest represents the request body for account creation.
type CreateAccountRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountListResponse represents the response for listing accounts.
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// CreateMovementRequest represents the request body for movement creation.
// Amount is a non-negative decimal string such as "125.50".
type CreateMovementRequest struct {
	AccountID  string  `json:"account_id" binding:"required"`
	CategoryID *string `json:"category_id,omitempty"`
	Date       string  `json:"date" binding:"required"`
	Type       string  `json:"type" binding:"required"`
	Amount     string  `json:"amount" binding:"required"`
	Note       string  `json:"note" binding:"max=500"`
}

// MovementResponse represents a movement in API responses.
type MovementResponse struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"account_id"`
	CategoryID *string   `json:"category_id"`
	Date       string    `json:"date"`
	Type       string    `json:"type"`
	Amount     string    `json:"amount"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

// MovementListResponse represents the response for listing movements.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
}

// ToAccountResponse converts an Account.
func ToAccountResponse(a *entity.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID.String(),
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}

// ToAccountListResponse converts a list of accounts.
func ToAccountListResponse(accounts []*entity.Account) AccountListResponse {
	out := AccountListResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
	for _, a := range accounts {
		out.Accounts = append(out.Accounts, ToAccountResponse(a))
	}
	return out
}

// ToMovementResponse converts a Movement.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:         m.ID.String(),
		AccountID:  m.AccountID.String(),
		CategoryID: optionalID(m.CategoryID),
		Date:       m.Date.Format(valueobject.DateLayout),
		Type:       string(m.Type),
		Amount:     amount(m.Amount),
		Note:       m.Note,
		CreatedAt:  m.CreatedAt,
	}
}

// ToMovementListResponse converts a list of movements.
func ToMovementListResponse(movements []*entity.Movement) MovementListResponse {
	out := MovementListResponse{Movements: make([]MovementResponse, 0, len(movements))}
	for _, m := range movements {
		out.Movements = append(out.Movements, ToMovementResponse(m))
	}
	return out
}
