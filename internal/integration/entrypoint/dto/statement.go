package dto

import (
	"time"

	"github.com/rendiconti/backend/internal/application/usecase/statement"
	"github.com/rendiconti/backend/internal/domain/entity"
)

// CreateStatementRequest represents the request body for statement creation.
type CreateStatementRequest struct {
	PeriodRequest
	Note string `json:"note"`
}

// ReviewRequest represents the optional request body of an approval.
type ReviewRequest struct {
	Observations string `json:"observations"`
}

// ExonerationRequest represents the request body for the exoneration flag.
type ExonerationRequest struct {
	Exonerated *bool `json:"exonerated" binding:"required"`
}

// StatementResponse represents a statement in API responses.
type StatementResponse struct {
	ID                     string         `json:"id"`
	EntityID               string         `json:"entity_id"`
	Period                 PeriodResponse `json:"period"`
	State                  string         `json:"state"`
	TotalIncome            string         `json:"total_income"`
	TotalExpense           string         `json:"total_expense"`
	Saldo                  string         `json:"saldo"`
	Exonerated             bool           `json:"exonerated"`
	Note                   string         `json:"note"`
	Observations           *string        `json:"observations"`
	OwnerID                string         `json:"owner_id"`
	OwnerEmail             string         `json:"owner_email"`
	SubmittedAt            *time.Time     `json:"submitted_at"`
	ReviewStartedAt        *time.Time     `json:"review_started_at"`
	ApprovedAt             *time.Time     `json:"approved_at"`
	RejectedAt             *time.Time     `json:"rejected_at"`
	RejectionReason        *string        `json:"rejection_reason"`
	HasRejectionAttachment bool           `json:"has_rejection_attachment"`
	ReviewedBy             *string        `json:"reviewed_by"`
	DocumentCount          int            `json:"document_count"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
}

// StatementListResponse represents the response for listing statements.
type StatementListResponse struct {
	Statements []StatementResponse `json:"statements"`
}

// DocumentResponse represents a supporting document.
type DocumentResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Label       string    `json:"label"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// DocumentListResponse represents the documents of a statement.
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// StatementDetailResponse is a statement with its documents.
type StatementDetailResponse struct {
	StatementResponse
	Documents        []DocumentResponse `json:"documents"`
	MissingDocuments []string           `json:"missing_documents"`
}

// AttachDocumentResponse reports an upload.
type AttachDocumentResponse struct {
	Document         DocumentResponse `json:"document"`
	Replaced         bool             `json:"replaced"`
	MissingDocuments []string         `json:"missing_documents"`
}

// DocumentTypeResponse is one entry of the document catalog.
type DocumentTypeResponse struct {
	Type      string `json:"type"`
	Label     string `json:"label"`
	Mandatory bool   `json:"mandatory"`
}

// DocumentTypeListResponse is the document catalog.
type DocumentTypeListResponse struct {
	DocumentTypes []DocumentTypeResponse `json:"document_types"`
}

// TransitionResponse is one entry of the state history.
type TransitionResponse struct {
	From       string    `json:"from,omitempty"`
	To         string    `json:"to"`
	ActorID    string    `json:"actor_id"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TransitionListResponse is the history of a statement.
type TransitionListResponse struct {
	Transitions []TransitionResponse `json:"transitions"`
}

// ToStatementResponse converts a Statement.
func ToStatementResponse(s *entity.Statement) StatementResponse {
	return StatementResponse{
		ID:                     s.ID.String(),
		EntityID:               s.EntityID.String(),
		Period:                 ToPeriodResponse(s.Period),
		State:                  string(s.State),
		TotalIncome:            amount(s.TotalIncome),
		TotalExpense:           amount(s.TotalExpense),
		Saldo:                  amount(s.Saldo()),
		Exonerated:             s.Exonerated,
		Note:                   s.Note,
		Observations:           s.Observations,
		OwnerID:                s.OwnerID.String(),
		OwnerEmail:             s.OwnerEmail,
		SubmittedAt:            optionalTime(s.SubmittedAt),
		ReviewStartedAt:        optionalTime(s.ReviewStartedAt),
		ApprovedAt:             optionalTime(s.ApprovedAt),
		RejectedAt:             optionalTime(s.RejectedAt),
		RejectionReason:        s.RejectionReason,
		HasRejectionAttachment: s.RejectionAttachmentID != nil,
		ReviewedBy:             optionalID(s.ReviewedBy),
		DocumentCount:          s.DocumentCount,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

// ToStatementListResponse converts a list of statements.
func ToStatementListResponse(statements []*entity.Statement) StatementListResponse {
	out := StatementListResponse{Statements: make([]StatementResponse, 0, len(statements))}
	for _, s := range statements {
		out.Statements = append(out.Statements, ToStatementResponse(s))
	}
	return out
}

// ToStatementDetailResponse converts a statement with its documents.
func ToStatementDetailResponse(output *statement.GetStatementOutput) StatementDetailResponse {
	return StatementDetailResponse{
		StatementResponse: ToStatementResponse(output.Statement),
		Documents:         ToDocumentListResponse(output.Documents).Documents,
		MissingDocuments:  documentTypeStrings(output.MissingDocuments),
	}
}

// ToDocumentResponse converts a document.
func ToDocumentResponse(d *entity.StatementDocument) DocumentResponse {
	entry, _ := d.Type.Entry()
	return DocumentResponse{
		ID:          d.ID.String(),
		Type:        string(d.Type),
		Label:       entry.Label,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Size:        d.Size,
		UploadedBy:  d.UploadedBy.String(),
		UploadedAt:  d.UploadedAt,
	}
}

// ToDocumentListResponse converts a list of documents.
func ToDocumentListResponse(documents []*entity.StatementDocument) DocumentListResponse {
	out := DocumentListResponse{Documents: make([]DocumentResponse, 0, len(documents))}
	for _, d := range documents {
		out.Documents = append(out.Documents, ToDocumentResponse(d))
	}
	return out
}

// ToAttachDocumentResponse converts an upload result.
func ToAttachDocumentResponse(output *statement.AttachDocumentOutput) AttachDocumentResponse {
	return AttachDocumentResponse{
		Document:         ToDocumentResponse(output.Document),
		Replaced:         output.Replaced,
		MissingDocuments: documentTypeStrings(output.MissingDocuments),
	}
}

// ToDocumentTypeListResponse converts the catalog.
func ToDocumentTypeListResponse(catalog []entity.DocumentCatalogEntry) DocumentTypeListResponse {
	out := DocumentTypeListResponse{DocumentTypes: make([]DocumentTypeResponse, 0, len(catalog))}
	for _, e := range catalog {
		out.DocumentTypes = append(out.DocumentTypes, DocumentTypeResponse{
			Type:      string(e.Type),
			Label:     e.Label,
			Mandatory: e.Mandatory,
		})
	}
	return out
}

// ToTransitionListResponse converts the history.
func ToTransitionListResponse(transitions []*entity.StatementTransition) TransitionListResponse {
	out := TransitionListResponse{Transitions: make([]TransitionResponse, 0, len(transitions))}
	for _, t := range transitions {
		out.Transitions = append(out.Transitions, TransitionResponse{
			From:       string(t.From),
			To:         string(t.To),
			ActorID:    t.ActorID.String(),
			Note:       t.Note,
			OccurredAt: t.OccurredAt,
		})
	}
	return out
}

func documentTypeStrings(types []entity.DocumentType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
