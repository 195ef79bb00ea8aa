package statement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
)

// GetStatementInput represents the input for reading one statement.
type GetStatementInput struct {
	Actor       entity.Actor
	StatementID uuid.UUID
}

// GetStatementOutput carries the statement, its current documents and what is still missing.
type GetStatementOutput struct {
	Statement        *entity.Statement
	Documents        []*entity.StatementDocument
	MissingDocuments []entity.DocumentType
}

// GetStatementUseCase reads a statement with its documents.
type GetStatementUseCase struct {
	statementRepo adapter.StatementRepository
	documentRepo  adapter.StatementDocumentRepository
}

// NewGetStatementUseCase creates a new GetStatementUseCase instance.
func NewGetStatementUseCase(statementRepo adapter.StatementRepository, documentRepo adapter.StatementDocumentRepository) *GetStatementUseCase {
	return &GetStatementUseCase{
		statementRepo: statementRepo,
		documentRepo:  documentRepo,
	}
}

// Execute performs the lookup.
func (uc *GetStatementUseCase) Execute(ctx context.Context, input GetStatementInput) (*GetStatementOutput, error) {
	statement, err := findStatement(ctx, uc.statementRepo, input.Actor, input.StatementID)
	if err != nil {
		return nil, err
	}

	documents, err := uc.documentRepo.FindByStatement(ctx, statement.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return &GetStatementOutput{
		Statement:        statement,
		Documents:        documents,
		MissingDocuments: entity.MissingMandatoryDocuments(documentTypes(documents)),
	}, nil
}

// ListStatementsInput represents the input for listing statements.
// EntityID is honoured only for reviewers; operators always see their own entity.
type ListStatementsInput struct {
	Actor    entity.Actor
	State    *entity.StatementState
	EntityID *uuid.UUID
}

// ListStatementsOutput represents the output of listing statements.
type ListStatementsOutput struct {
	Statements []*entity.Statement
}

// ListStatementsUseCase lists statements newest period first.
type ListStatementsUseCase struct {
	statementRepo adapter.StatementRepository
}

// NewListStatementsUseCase creates a new ListStatementsUseCase instance.
func NewListStatementsUseCase(statementRepo adapter.StatementRepository) *ListStatementsUseCase {
	return &ListStatementsUseCase{
		statementRepo: statementRepo,
	}
}

// Execute performs the listing.
func (uc *ListStatementsUseCase) Execute(ctx context.Context, input ListStatementsInput) (*ListStatementsOutput, error) {
	filter := adapter.StatementFilter{State: input.State}
	if input.Actor.IsReviewer() {
		filter.EntityID = input.EntityID
	} else {
		entityID := input.Actor.EntityID
		filter.EntityID = &entityID
	}

	statements, err := uc.statementRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}

	return &ListStatementsOutput{
		Statements: statements,
	}, nil
}

// GetHistoryUseCase returns the transition log of a statement.
type GetHistoryUseCase struct {
	statementRepo adapter.StatementRepository
}

// NewGetHistoryUseCase creates a new GetHistoryUseCase instance.
func NewGetHistoryUseCase(statementRepo adapter.StatementRepository) *GetHistoryUseCase {
	return &GetHistoryUseCase{
		statementRepo: statementRepo,
	}
}

// Execute performs the lookup.
func (uc *GetHistoryUseCase) Execute(ctx context.Context, input GetStatementInput) ([]*entity.StatementTransition, error) {
	statement, err := findStatement(ctx, uc.statementRepo, input.Actor, input.StatementID)
	if err != nil {
		return nil, err
	}
	history, err := uc.statementRepo.History(ctx, statement.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return history, nil
}

func documentTypes(documents []*entity.StatementDocument) []entity.DocumentType {
	types := make([]entity.DocumentType, len(documents))
	for i, d := range documents {
		types[i] = d.Type
	}
	return types
}
