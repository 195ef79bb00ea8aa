package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rendiconti/backend/internal/domain/entity"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// StatementModel represents the statements table in the database.
type StatementModel struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EntityID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	PeriodStart           time.Time       `gorm:"type:date;not null"`
	PeriodEnd             time.Time       `gorm:"type:date;not null"`
	State                 string          `gorm:"type:varchar(20);not null;index"`
	TotalIncome           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalExpense          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Exonerated            bool            `gorm:"not null;default:false"`
	Note                  string          `gorm:"type:text"`
	Observations          *string         `gorm:"type:text"`
	OwnerID               uuid.UUID       `gorm:"type:uuid;not null"`
	OwnerEmail            string          `gorm:"type:varchar(255)"`
	SubmittedAt           *time.Time
	ReviewStartedAt       *time.Time
	ApprovedAt            *time.Time
	RejectedAt            *time.Time
	RejectionReason       *string    `gorm:"type:text"`
	RejectionAttachmentID *uuid.UUID `gorm:"type:uuid"`
	ReviewedBy            *uuid.UUID `gorm:"type:uuid"`
	CreatedAt             time.Time  `gorm:"not null"`
	UpdatedAt             time.Time  `gorm:"not null"`
}

// TableName returns the table name for the StatementModel.
func (StatementModel) TableName() string {
	return "statements"
}

// ToEntity converts a StatementModel to a domain Statement entity.
func (m *StatementModel) ToEntity() *entity.Statement {
	return &entity.Statement{
		ID:                    m.ID,
		EntityID:              m.EntityID,
		Period:                valueobject.NewDateRange(m.PeriodStart, m.PeriodEnd),
		State:                 entity.StatementState(m.State),
		TotalIncome:           m.TotalIncome,
		TotalExpense:          m.TotalExpense,
		Exonerated:            m.Exonerated,
		Note:                  m.Note,
		Observations:          m.Observations,
		OwnerID:               m.OwnerID,
		OwnerEmail:            m.OwnerEmail,
		SubmittedAt:           m.SubmittedAt,
		ReviewStartedAt:       m.ReviewStartedAt,
		ApprovedAt:            m.ApprovedAt,
		RejectedAt:            m.RejectedAt,
		RejectionReason:       m.RejectionReason,
		RejectionAttachmentID: m.RejectionAttachmentID,
		ReviewedBy:            m.ReviewedBy,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// StatementFromEntity creates a StatementModel from a domain Statement entity.
func StatementFromEntity(s *entity.Statement) *StatementModel {
	return &StatementModel{
		ID:                    s.ID,
		EntityID:              s.EntityID,
		PeriodStart:           s.Period.Start,
		PeriodEnd:             s.Period.End,
		State:                 string(s.State),
		TotalIncome:           s.TotalIncome,
		TotalExpense:          s.TotalExpense,
		Exonerated:            s.Exonerated,
		Note:                  s.Note,
		Observations:          s.Observations,
		OwnerID:               s.OwnerID,
		OwnerEmail:            s.OwnerEmail,
		SubmittedAt:           s.SubmittedAt,
		ReviewStartedAt:       s.ReviewStartedAt,
		ApprovedAt:            s.ApprovedAt,
		RejectedAt:            s.RejectedAt,
		RejectionReason:       s.RejectionReason,
		RejectionAttachmentID: s.RejectionAttachmentID,
		ReviewedBy:            s.ReviewedBy,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

// StatementDocumentModel represents the statement_documents table in the database.
// At most one row exists per (statement, type).
type StatementDocumentModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	StatementID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_statement_documents_type,priority:1"`
	Type        string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_statement_documents_type,priority:2"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	Size        int64     `gorm:"not null"`
	StorageKey  string    `gorm:"type:varchar(500);not null"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null"`
	UploadedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the StatementDocumentModel.
func (StatementDocumentModel) TableName() string {
	return "statement_documents"
}

// ToEntity converts a StatementDocumentModel to a domain StatementDocument entity.
func (m *StatementDocumentModel) ToEntity() *entity.StatementDocument {
	return &entity.StatementDocument{
		ID:          m.ID,
		StatementID: m.StatementID,
		Type:        entity.DocumentType(m.Type),
		StoredFile: entity.StoredFile{
			FileName:    m.FileName,
			ContentType: m.ContentType,
			Size:        m.Size,
			StorageKey:  m.StorageKey,
		},
		UploadedBy: m.UploadedBy,
		UploadedAt: m.UploadedAt,
	}
}

// StatementDocumentFromEntity creates a StatementDocumentModel from a domain StatementDocument entity.
func StatementDocumentFromEntity(d *entity.StatementDocument) *StatementDocumentModel {
	return &StatementDocumentModel{
		ID:          d.ID,
		StatementID: d.StatementID,
		Type:        string(d.Type),
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Size:        d.Size,
		StorageKey:  d.StorageKey,
		UploadedBy:  d.UploadedBy,
		UploadedAt:  d.UploadedAt,
	}
}

// StatementAttachmentModel represents the statement_attachments table in the database.
type StatementAttachmentModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	StatementID uuid.UUID `gorm:"type:uuid;not null;index"`
	Purpose     string    `gorm:"type:varchar(20);not null"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	Size        int64     `gorm:"not null"`
	StorageKey  string    `gorm:"type:varchar(500);not null"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null"`
	UploadedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the StatementAttachmentModel.
func (StatementAttachmentModel) TableName() string {
	return "statement_attachments"
}

// ToEntity converts a StatementAttachmentModel to a domain StatementAttachment entity.
func (m *StatementAttachmentModel) ToEntity() *entity.StatementAttachment {
	return &entity.StatementAttachment{
		ID:          m.ID,
		StatementID: m.StatementID,
		Purpose:     m.Purpose,
		StoredFile: entity.StoredFile{
			FileName:    m.FileName,
			ContentType: m.ContentType,
			Size:        m.Size,
			StorageKey:  m.StorageKey,
		},
		UploadedBy: m.UploadedBy,
		UploadedAt: m.UploadedAt,
	}
}

// StatementAttachmentFromEntity creates a StatementAttachmentModel from a domain StatementAttachment entity.
func StatementAttachmentFromEntity(a *entity.StatementAttachment) *StatementAttachmentModel {
	return &StatementAttachmentModel{
		ID:          a.ID,
		StatementID: a.StatementID,
		Purpose:     a.Purpose,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		StorageKey:  a.StorageKey,
		UploadedBy:  a.UploadedBy,
		UploadedAt:  a.UploadedAt,
	}
}

// StatementTransitionModel represents the statement_transitions table in the database.
// Position orders entries of one statement independently of clock resolution.
type StatementTransitionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	StatementID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_statement_transitions_position,priority:1"`
	Position    int       `gorm:"not null;uniqueIndex:idx_statement_transitions_position,priority:2"`
	FromState   string    `gorm:"type:varchar(20)"`
	ToState     string    `gorm:"type:varchar(20);not null"`
	ActorID     uuid.UUID `gorm:"type:uuid;not null"`
	Note        string    `gorm:"type:text"`
	OccurredAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the StatementTransitionModel.
func (StatementTransitionModel) TableName() string {
	return "statement_transitions"
}

// ToEntity converts a StatementTransitionModel to a domain StatementTransition entity.
func (m *StatementTransitionModel) ToEntity() *entity.StatementTransition {
	return &entity.StatementTransition{
		ID:          m.ID,
		StatementID: m.StatementID,
		From:        entity.StatementState(m.FromState),
		To:          entity.StatementState(m.ToState),
		ActorID:     m.ActorID,
		Note:        m.Note,
		OccurredAt:  m.OccurredAt,
	}
}

// StatementTransitionFromEntity creates a StatementTransitionModel at the given position.
func StatementTransitionFromEntity(t *entity.StatementTransition, position int) *StatementTransitionModel {
	return &StatementTransitionModel{
		ID:          t.ID,
		StatementID: t.StatementID,
		Position:    position,
		FromState:   string(t.From),
		ToState:     string(t.To),
		ActorID:     t.ActorID,
		Note:        t.Note,
		OccurredAt:  t.OccurredAt,
	}
}
