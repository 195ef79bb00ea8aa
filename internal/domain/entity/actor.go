// Package entity defines the core business entities for the domain layer.
package entity

import "github.com/google/uuid"

// Role is the capability set of an authenticated caller.
type Role string

const (
	// RoleOperator prepares statements and records movements for its own entity.
	RoleOperator Role = "operator"
	// RoleReviewer is the diocesan treasurer who records dispositions.
	RoleReviewer Role = "reviewer"
	// RoleAdmin manages the chart of categories and can review.
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleOperator || r == RoleReviewer || r == RoleAdmin
}

// Actor is the explicit request context passed into every use case.
type Actor struct {
	UserID   uuid.UUID
	EntityID uuid.UUID
	Email    string
	Role     Role
}

// IsReviewer reports whether the actor may record dispositions.
func (a Actor) IsReviewer() bool {
	return a.Role == RoleReviewer || a.Role == RoleAdmin
}

// IsAdmin reports whether the actor may change the category chart.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccessEntity reports whether the actor may read data owned by entityID.
func (a Actor) CanAccessEntity(entityID uuid.UUID) bool {
	return a.IsReviewer() || a.EntityID == entityID
}
