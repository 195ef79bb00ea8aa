package statement

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

const maxUpload = 1024

type harness struct {
	data      *backing
	statement fakeStatementRepo
	documents fakeDocumentRepo
	storage   *fakeStorage
	locker    *keyedLocker
	notifier  *recordingNotifier
	clock     fixedClock
	totals    *fakeTotals

	operator entity.Actor
	reviewer entity.Actor
}

func newHarness() *harness {
	data := newBacking()
	return &harness{
		data:      data,
		statement: fakeStatementRepo{data},
		documents: fakeDocumentRepo{data},
		storage:   newFakeStorage(),
		locker:    newKeyedLocker(),
		notifier:  &recordingNotifier{},
		clock:     fixedClock{now: time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)},
		totals:    &fakeTotals{income: decimal.NewFromInt(1500), expense: decimal.NewFromInt(400)},
		operator: entity.Actor{
			UserID:   uuid.New(),
			EntityID: uuid.New(),
			Email:    "parrocchia@example.org",
			Role:     entity.RoleOperator,
		},
		reviewer: entity.Actor{
			UserID: uuid.New(),
			Email:  "economo@example.org",
			Role:   entity.RoleReviewer,
		},
	}
}

func year2024() valueobject.DateRange {
	return valueobject.NewDateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	)
}

func (h *harness) create(t *testing.T, period valueobject.DateRange) *entity.Statement {
	t.Helper()
	uc := NewCreateStatementUseCase(h.statement, h.totals, h.locker, h.clock)
	out, err := uc.Execute(context.Background(), CreateStatementInput{Actor: h.operator, Period: period})
	if err != nil {
		t.Fatalf("expected no error creating statement, got %v", err)
	}
	return out.Statement
}

func (h *harness) attach(statementID uuid.UUID, docType entity.DocumentType, content string) (*AttachDocumentOutput, error) {
	uc := NewAttachDocumentUseCase(h.statement, h.documents, h.storage, h.locker, h.clock, maxUpload)
	return uc.Execute(context.Background(), AttachDocumentInput{
		Actor:       h.operator,
		StatementID: statementID,
		Type:        docType,
		File:        newUpload(string(docType)+".pdf", content),
	})
}

func (h *harness) attachMandatory(t *testing.T, statementID uuid.UUID) {
	t.Helper()
	for _, e := range entity.DocumentCatalog() {
		if !e.Mandatory {
			continue
		}
		if _, err := h.attach(statementID, e.Type, "content of "+string(e.Type)); err != nil {
			t.Fatalf("expected no error attaching %s, got %v", e.Type, err)
		}
	}
}

func (h *harness) submit(statementID uuid.UUID) (*SubmitStatementOutput, error) {
	uc := NewSubmitStatementUseCase(h.statement, h.documents, h.totals, h.locker, h.clock)
	return uc.Execute(context.Background(), SubmitStatementInput{Actor: h.operator, StatementID: statementID})
}

func (h *harness) approve(statementID uuid.UUID) (*ReviewOutput, error) {
	uc := NewApproveStatementUseCase(h.statement, h.locker, h.notifier, h.clock)
	return uc.Execute(context.Background(), ReviewInput{Actor: h.reviewer, StatementID: statementID})
}

func (h *harness) reject(statementID uuid.UUID, reason string, attachment *Upload) (*ReviewOutput, error) {
	uc := NewRejectStatementUseCase(h.statement, h.storage, h.locker, h.notifier, h.clock, maxUpload)
	return uc.Execute(context.Background(), RejectStatementInput{
		Actor:       h.reviewer,
		StatementID: statementID,
		Reason:      reason,
		Attachment:  attachment,
	})
}

func (h *harness) remove(statementID uuid.UUID) error {
	uc := NewDeleteStatementUseCase(h.statement, h.storage, h.locker)
	return uc.Execute(context.Background(), GetStatementInput{Actor: h.operator, StatementID: statementID})
}

func (h *harness) stored(t *testing.T, id uuid.UUID) *entity.Statement {
	t.Helper()
	s, err := h.statement.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("expected statement %s to exist, got %v", id, err)
	}
	return s
}

func newUpload(name, content string) *Upload {
	return &Upload{
		FileName:    name,
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Content:     strings.NewReader(content),
	}
}

func statementCode(err error) domainerror.StatementErrorCode {
	var stmtErr *domainerror.StatementError
	if errors.As(err, &stmtErr) {
		return stmtErr.Code
	}
	return ""
}

func TestStatementLifecycle(t *testing.T) {
	h := newHarness()

	s := h.create(t, year2024())
	if s.State != entity.StatementStateDraft {
		t.Fatalf("expected draft, got %s", s.State)
	}
	if !s.TotalIncome.Equal(decimal.NewFromInt(1500)) || !s.TotalExpense.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected totals 1500/400, got %s/%s", s.TotalIncome, s.TotalExpense)
	}
	if s.OwnerEmail != h.operator.Email {
		t.Errorf("expected owner email %s, got %s", h.operator.Email, s.OwnerEmail)
	}

	h.attachMandatory(t, s.ID)

	h.totals.income = decimal.NewFromInt(1600)
	submitted, err := h.submit(s.ID)
	if err != nil {
		t.Fatalf("expected no error on submit, got %v", err)
	}
	if submitted.Statement.State != entity.StatementStateSubmitted {
		t.Errorf("expected submitted, got %s", submitted.Statement.State)
	}
	if !submitted.Statement.TotalIncome.Equal(decimal.NewFromInt(1600)) {
		t.Errorf("expected totals recomputed at submission, got %s", submitted.Statement.TotalIncome)
	}
	if submitted.Statement.SubmittedAt == nil || !submitted.Statement.SubmittedAt.Equal(h.clock.now) {
		t.Errorf("expected submitted_at %v, got %v", h.clock.now, submitted.Statement.SubmittedAt)
	}

	approved, err := h.approve(s.ID)
	if err != nil {
		t.Fatalf("expected no error on approve, got %v", err)
	}
	if approved.Statement.State != entity.StatementStateApproved {
		t.Errorf("expected approved, got %s", approved.Statement.State)
	}

	if h.notifier.count() != 1 {
		t.Fatalf("expected 1 notification, got %d", h.notifier.count())
	}
	event := h.notifier.events[0]
	if event.StatementID != s.ID || event.State != entity.StatementStateApproved {
		t.Errorf("expected approved event for %s, got %+v", s.ID, event)
	}

	history, err := NewGetHistoryUseCase(h.statement).Execute(context.Background(), GetStatementInput{Actor: h.operator, StatementID: s.ID})
	if err != nil {
		t.Fatalf("expected no error reading history, got %v", err)
	}
	want := []entity.StatementState{entity.StatementStateDraft, entity.StatementStateSubmitted, entity.StatementStateApproved}
	if len(history) != len(want) {
		t.Fatalf("expected %d history entries, got %d", len(want), len(history))
	}
	for i, st := range want {
		if history[i].To != st {
			t.Errorf("expected history[%d] to %s, got %s", i, st, history[i].To)
		}
	}
}

func TestCreateStatement(t *testing.T) {
	t.Run("rejects inverted period", func(t *testing.T) {
		h := newHarness()
		uc := NewCreateStatementUseCase(h.statement, h.totals, h.locker, h.clock)
		period := valueobject.DateRange{
			Start: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		_, err := uc.Execute(context.Background(), CreateStatementInput{Actor: h.operator, Period: period})
		if !errors.Is(err, domainerror.ErrInvalidPeriod) {
			t.Errorf("expected ErrInvalidPeriod, got %v", err)
		}
		if statementCode(err) != domainerror.ErrCodeInvalidPeriod {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeInvalidPeriod, statementCode(err))
		}
		if len(h.data.statements) != 0 {
			t.Errorf("expected nothing stored, got %d statements", len(h.data.statements))
		}
	})

	t.Run("single-day period is valid", func(t *testing.T) {
		h := newHarness()
		day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		s := h.create(t, valueobject.NewDateRange(day, day))
		if s.Period.Days() != 1 {
			t.Errorf("expected 1 day, got %d", s.Period.Days())
		}
	})

	t.Run("second draft is refused", func(t *testing.T) {
		h := newHarness()
		first := h.create(t, year2024())
		uc := NewCreateStatementUseCase(h.statement, h.totals, h.locker, h.clock)
		_, err := uc.Execute(context.Background(), CreateStatementInput{Actor: h.operator, Period: year2024()})
		if !errors.Is(err, domainerror.ErrDraftAlreadyExists) {
			t.Fatalf("expected ErrDraftAlreadyExists, got %v", err)
		}
		var stmtErr *domainerror.StatementError
		if errors.As(err, &stmtErr) && (len(stmtErr.Details) != 1 || stmtErr.Details[0] != first.ID.String()) {
			t.Errorf("expected details to name draft %s, got %v", first.ID, stmtErr.Details)
		}
	})

	t.Run("overlapping submitted period is refused but rejected is not", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.attachMandatory(t, s.ID)
		if _, err := h.submit(s.ID); err != nil {
			t.Fatalf("expected no error on submit, got %v", err)
		}

		uc := NewCreateStatementUseCase(h.statement, h.totals, h.locker, h.clock)
		second := valueobject.NewDateRange(
			time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		)
		_, err := uc.Execute(context.Background(), CreateStatementInput{Actor: h.operator, Period: second})
		if statementCode(err) != domainerror.ErrCodeOverlappingPeriod {
			t.Fatalf("expected code %s, got %v", domainerror.ErrCodeOverlappingPeriod, err)
		}

		if _, err := h.reject(s.ID, "manca la firma", nil); err != nil {
			t.Fatalf("expected no error on reject, got %v", err)
		}
		if _, err := uc.Execute(context.Background(), CreateStatementInput{Actor: h.operator, Period: year2024()}); err != nil {
			t.Errorf("expected corrected statement to be accepted, got %v", err)
		}
	})

	t.Run("note is trimmed and bounded", func(t *testing.T) {
		h := newHarness()
		uc := NewCreateStatementUseCase(h.statement, h.totals, h.locker, h.clock)
		_, err := uc.Execute(context.Background(), CreateStatementInput{
			Actor:  h.operator,
			Period: year2024(),
			Note:   strings.Repeat("x", MaxNoteLength+1),
		})
		if statementCode(err) != domainerror.ErrCodeNoteTooLong {
			t.Fatalf("expected code %s, got %v", domainerror.ErrCodeNoteTooLong, err)
		}

		out, err := uc.Execute(context.Background(), CreateStatementInput{
			Actor:  h.operator,
			Period: year2024(),
			Note:   "  festa patronale inclusa ",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := h.stored(t, out.Statement.ID).Note; got != "festa patronale inclusa" {
			t.Errorf("expected trimmed note, got %q", got)
		}
	})

	t.Run("lock failure reports busy", func(t *testing.T) {
		h := newHarness()
		uc := NewCreateStatementUseCase(h.statement, h.totals, failingLocker{}, h.clock)
		_, err := uc.Execute(context.Background(), CreateStatementInput{Actor: h.operator, Period: year2024()})
		if !errors.Is(err, domainerror.ErrStatementBusy) {
			t.Errorf("expected ErrStatementBusy, got %v", err)
		}
	})
}

func TestAttachDocument(t *testing.T) {
	t.Run("unknown type", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		_, err := h.attach(s.ID, entity.DocumentType("fattura"), "x")
		if statementCode(err) != domainerror.ErrCodeInvalidDocumentType {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeInvalidDocumentType, err)
		}
	})

	t.Run("same type replaces the former document", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		first, err := h.attach(s.ID, entity.DocumentVerbaleCAEP, "v1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if first.Replaced {
			t.Errorf("expected first upload not to replace anything")
		}
		if len(first.MissingDocuments) != 4 {
			t.Errorf("expected 4 missing documents, got %v", first.MissingDocuments)
		}

		second, err := h.attach(s.ID, entity.DocumentVerbaleCAEP, "v2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !second.Replaced {
			t.Errorf("expected second upload to replace the first")
		}
		docs, _ := h.documents.FindByStatement(context.Background(), s.ID)
		if len(docs) != 1 {
			t.Errorf("expected 1 document, got %d", len(docs))
		}
		if h.storage.count() != 1 {
			t.Errorf("expected superseded object to be removed, got %d objects", h.storage.count())
		}
	})

	t.Run("empty and oversized files", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		uc := NewAttachDocumentUseCase(h.statement, h.documents, h.storage, h.locker, h.clock, maxUpload)

		_, err := uc.Execute(context.Background(), AttachDocumentInput{
			Actor: h.operator, StatementID: s.ID, Type: entity.DocumentAltro, File: newUpload("a.pdf", ""),
		})
		if !errors.Is(err, domainerror.ErrEmptyFile) {
			t.Errorf("expected ErrEmptyFile, got %v", err)
		}

		big := strings.Repeat("x", maxUpload+1)
		_, err = uc.Execute(context.Background(), AttachDocumentInput{
			Actor: h.operator, StatementID: s.ID, Type: entity.DocumentAltro, File: newUpload("b.pdf", big),
		})
		if !errors.Is(err, domainerror.ErrFileTooLarge) {
			t.Errorf("expected ErrFileTooLarge, got %v", err)
		}

		lying := newUpload("c.pdf", big)
		lying.Size = 10
		_, err = uc.Execute(context.Background(), AttachDocumentInput{
			Actor: h.operator, StatementID: s.ID, Type: entity.DocumentAltro, File: lying,
		})
		if !errors.Is(err, domainerror.ErrFileTooLarge) {
			t.Errorf("expected ErrFileTooLarge for understated size, got %v", err)
		}
		if h.storage.count() != 0 {
			t.Errorf("expected no stored objects, got %d", h.storage.count())
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.storage.failOn = errors.New("bucket unreachable")
		_, err := h.attach(s.ID, entity.DocumentAltro, "x")
		if !errors.Is(err, domainerror.ErrStorageFailure) {
			t.Errorf("expected ErrStorageFailure, got %v", err)
		}
	})

	t.Run("not allowed after submission", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.attachMandatory(t, s.ID)
		if _, err := h.submit(s.ID); err != nil {
			t.Fatalf("expected no error on submit, got %v", err)
		}
		_, err := h.attach(s.ID, entity.DocumentAltro, "late")
		if !errors.Is(err, domainerror.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("other entity sees not found", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.operator.EntityID = uuid.New()
		_, err := h.attach(s.ID, entity.DocumentAltro, "x")
		if !errors.Is(err, domainerror.ErrStatementNotFound) {
			t.Errorf("expected ErrStatementNotFound, got %v", err)
		}
	})
}

func TestSubmitStatement(t *testing.T) {
	t.Run("missing documents are listed", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		if _, err := h.attach(s.ID, entity.DocumentVerbaleCAEP, "ok"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, err := h.submit(s.ID)
		if !errors.Is(err, domainerror.ErrDocumentsIncomplete) {
			t.Fatalf("expected ErrDocumentsIncomplete, got %v", err)
		}
		var stmtErr *domainerror.StatementError
		if !errors.As(err, &stmtErr) {
			t.Fatalf("expected StatementError, got %T", err)
		}
		want := []string{"estratto_bancario", "imu_tari", "fornitura_idrica", "agenzia_entrate"}
		if len(stmtErr.Details) != len(want) {
			t.Fatalf("expected details %v, got %v", want, stmtErr.Details)
		}
		for i := range want {
			if stmtErr.Details[i] != want[i] {
				t.Errorf("expected details[%d] %s, got %s", i, want[i], stmtErr.Details[i])
			}
			if !strings.Contains(stmtErr.Message, want[i]) {
				t.Errorf("expected message to mention %s, got %q", want[i], stmtErr.Message)
			}
		}
		if h.stored(t, s.ID).State != entity.StatementStateDraft {
			t.Errorf("expected statement to remain draft")
		}
	})

	t.Run("exonerated draft needs no documents", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		exonerate := NewSetExonerationUseCase(h.statement, h.locker, h.clock)
		if _, err := exonerate.Execute(context.Background(), SetExonerationInput{Actor: h.reviewer, StatementID: s.ID, Exonerated: true}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out, err := h.submit(s.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Statement.State != entity.StatementStateSubmitted {
			t.Errorf("expected submitted, got %s", out.Statement.State)
		}
	})

	t.Run("ledger failure leaves draft untouched", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.attachMandatory(t, s.ID)
		h.totals.err = domainerror.NewReportError(domainerror.ErrCodeLedgerUnavailable, "ledger down", domainerror.ErrLedgerUnavailable)
		_, err := h.submit(s.ID)
		if !errors.Is(err, domainerror.ErrLedgerUnavailable) {
			t.Errorf("expected ErrLedgerUnavailable, got %v", err)
		}
		if h.stored(t, s.ID).State != entity.StatementStateDraft {
			t.Errorf("expected statement to remain draft")
		}
	})

	t.Run("second submit is an invalid transition", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.attachMandatory(t, s.ID)
		if _, err := h.submit(s.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		_, err := h.submit(s.ID)
		if statementCode(err) != domainerror.ErrCodeInvalidTransition {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeInvalidTransition, err)
		}
	})
}

func TestDispositionRules(t *testing.T) {
	t.Run("approve a draft fails", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		_, err := h.approve(s.ID)
		if !errors.Is(err, domainerror.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
		if h.notifier.count() != 0 {
			t.Errorf("expected no notification, got %d", h.notifier.count())
		}
	})

	t.Run("operators cannot approve", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		uc := NewApproveStatementUseCase(h.statement, h.locker, h.notifier, h.clock)
		_, err := uc.Execute(context.Background(), ReviewInput{Actor: h.operator, StatementID: s.ID})
		if !errors.Is(err, domainerror.ErrNotReviewer) {
			t.Errorf("expected ErrNotReviewer, got %v", err)
		}
	})

	t.Run("empty rejection reason", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.attachMandatory(t, s.ID)
		if _, err := h.submit(s.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		_, err := h.reject(s.ID, "   ", nil)
		if statementCode(err) != domainerror.ErrCodeEmptyRejectionReason {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeEmptyRejectionReason, err)
		}
		if h.stored(t, s.ID).State != entity.StatementStateSubmitted {
			t.Errorf("expected statement to remain submitted")
		}
	})

	t.Run("review then reject with attachment", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.attachMandatory(t, s.ID)
		if _, err := h.submit(s.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		review := NewStartReviewUseCase(h.statement, h.locker, h.clock)
		reviewed, err := review.Execute(context.Background(), ReviewInput{Actor: h.reviewer, StatementID: s.ID})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if reviewed.Statement.State != entity.StatementStateInReview {
			t.Errorf("expected in_review, got %s", reviewed.Statement.State)
		}

		out, err := h.reject(s.ID, "  estratto illeggibile ", newUpload("note.pdf", "see remarks"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Statement.State != entity.StatementStateRejected {
			t.Errorf("expected rejected, got %s", out.Statement.State)
		}
		if out.Statement.RejectionReason == nil || *out.Statement.RejectionReason != "estratto illeggibile" {
			t.Errorf("expected trimmed reason, got %v", out.Statement.RejectionReason)
		}
		if h.notifier.count() != 1 || h.notifier.events[0].Reason != "estratto illeggibile" {
			t.Errorf("expected one rejected event with reason, got %+v", h.notifier.events)
		}

		docs := NewDocumentsUseCase(h.statement, h.documents, h.storage, h.locker)
		file, err := docs.OpenRejectionAttachment(context.Background(), h.operator, s.ID)
		if err != nil {
			t.Fatalf("expected no error opening attachment, got %v", err)
		}
		defer file.Content.Close()
		body, _ := io.ReadAll(file.Content)
		if string(body) != "see remarks" {
			t.Errorf("expected attachment content, got %q", body)
		}
	})

	t.Run("approval records reviewer observations", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.attachMandatory(t, s.ID)
		if _, err := h.submit(s.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		uc := NewApproveStatementUseCase(h.statement, h.locker, h.notifier, h.clock)
		_, err := uc.Execute(context.Background(), ReviewInput{
			Actor:        h.reviewer,
			StatementID:  s.ID,
			Observations: strings.Repeat("x", MaxNoteLength+1),
		})
		if statementCode(err) != domainerror.ErrCodeNoteTooLong {
			t.Fatalf("expected code %s, got %v", domainerror.ErrCodeNoteTooLong, err)
		}
		if h.stored(t, s.ID).State != entity.StatementStateSubmitted {
			t.Fatalf("expected statement still submitted after a refused approval")
		}

		out, err := uc.Execute(context.Background(), ReviewInput{
			Actor:        h.reviewer,
			StatementID:  s.ID,
			Observations: " spese di culto ben documentate ",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		stored := h.stored(t, s.ID)
		if stored.Observations == nil || *stored.Observations != "spese di culto ben documentate" {
			t.Errorf("expected trimmed observations, got %v", stored.Observations)
		}
		if out.Statement.State != entity.StatementStateApproved {
			t.Errorf("expected approved, got %s", out.Statement.State)
		}
	})

	t.Run("rejection records reviewer observations", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.attachMandatory(t, s.ID)
		if _, err := h.submit(s.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		uc := NewRejectStatementUseCase(h.statement, h.storage, h.locker, h.notifier, h.clock, maxUpload)
		_, err := uc.Execute(context.Background(), RejectStatementInput{
			Actor:        h.reviewer,
			StatementID:  s.ID,
			Reason:       "saldo non corrispondente",
			Observations: "verificare il conto cassa",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		stored := h.stored(t, s.ID)
		if stored.Observations == nil || *stored.Observations != "verificare il conto cassa" {
			t.Errorf("expected observations, got %v", stored.Observations)
		}
	})

	t.Run("notifier failure does not undo approval", func(t *testing.T) {
		h := newHarness()
		h.notifier.err = errors.New("smtp down")
		s := h.create(t, year2024())
		h.attachMandatory(t, s.ID)
		if _, err := h.submit(s.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := h.approve(s.ID); err != nil {
			t.Fatalf("expected approval to succeed, got %v", err)
		}
		if h.stored(t, s.ID).State != entity.StatementStateApproved {
			t.Errorf("expected approved")
		}
	})
}

func TestTerminalStatesAreImmutable(t *testing.T) {
	h := newHarness()
	s := h.create(t, year2024())
	h.attachMandatory(t, s.ID)
	if _, err := h.submit(s.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := h.approve(s.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	attempts := map[string]func() error{
		"approve": func() error { _, err := h.approve(s.ID); return err },
		"reject":  func() error { _, err := h.reject(s.ID, "late", nil); return err },
		"submit":  func() error { _, err := h.submit(s.ID); return err },
		"attach":  func() error { _, err := h.attach(s.ID, entity.DocumentAltro, "x"); return err },
		"delete":  func() error { return h.remove(s.ID) },
	}
	for name, attempt := range attempts {
		t.Run(name, func(t *testing.T) {
			err := attempt()
			if !errors.Is(err, domainerror.ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
			if got := h.stored(t, s.ID).State; got != entity.StatementStateApproved {
				t.Errorf("expected approved, got %s", got)
			}
		})
	}
}

func TestDeleteStatement(t *testing.T) {
	t.Run("draft removes documents and files", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.attachMandatory(t, s.ID)
		if err := h.remove(s.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := h.statement.FindByID(context.Background(), s.ID); !errors.Is(err, domainerror.ErrStatementNotFound) {
			t.Errorf("expected statement gone, got %v", err)
		}
		if h.storage.count() != 0 {
			t.Errorf("expected storage empty, got %d objects", h.storage.count())
		}
	})

	t.Run("rejected can be deleted", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.attachMandatory(t, s.ID)
		if _, err := h.submit(s.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := h.reject(s.ID, "incompleto", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := h.remove(s.ID); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("submitted cannot be deleted", func(t *testing.T) {
		h := newHarness()
		s := h.create(t, year2024())
		h.attachMandatory(t, s.ID)
		if _, err := h.submit(s.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := h.remove(s.ID); !errors.Is(err, domainerror.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		h := newHarness()
		if err := h.remove(uuid.New()); !errors.Is(err, domainerror.ErrStatementNotFound) {
			t.Errorf("expected ErrStatementNotFound, got %v", err)
		}
	})
}

func TestDocumentsUseCase(t *testing.T) {
	h := newHarness()
	s := h.create(t, year2024())
	out, err := h.attach(s.ID, entity.DocumentAltro, "hello")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	docs := NewDocumentsUseCase(h.statement, h.documents, h.storage, h.locker)

	listed, err := docs.List(context.Background(), h.reviewer, s.ID)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected 1 document for reviewer, got %d (%v)", len(listed), err)
	}

	file, err := docs.Open(context.Background(), DocumentInput{Actor: h.operator, StatementID: s.ID, DocumentID: out.Document.ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	body, _ := io.ReadAll(file.Content)
	file.Content.Close()
	if string(body) != "hello" || file.File.Size != 5 {
		t.Errorf("expected 5 bytes 'hello', got %d %q", file.File.Size, body)
	}

	_, err = docs.Open(context.Background(), DocumentInput{Actor: h.operator, StatementID: s.ID, DocumentID: uuid.New()})
	if statementCode(err) != domainerror.ErrCodeDocumentNotFound {
		t.Errorf("expected code %s, got %v", domainerror.ErrCodeDocumentNotFound, err)
	}

	if err := docs.Delete(context.Background(), DocumentInput{Actor: h.operator, StatementID: s.ID, DocumentID: out.Document.ID}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if h.storage.count() != 0 {
		t.Errorf("expected object removed, got %d", h.storage.count())
	}
}

func TestListStatements(t *testing.T) {
	h := newHarness()
	h.create(t, year2024())

	other := newHarness()
	other.statement = h.statement
	otherStmt := other.create(t, year2024())

	list := NewListStatementsUseCase(h.statement)

	own, err := list.Execute(context.Background(), ListStatementsInput{Actor: h.operator})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(own.Statements) != 1 {
		t.Errorf("expected operator to see 1 statement, got %d", len(own.Statements))
	}

	all, err := list.Execute(context.Background(), ListStatementsInput{Actor: h.reviewer})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(all.Statements) != 2 {
		t.Errorf("expected reviewer to see 2 statements, got %d", len(all.Statements))
	}

	get := NewGetStatementUseCase(h.statement, h.documents)
	_, err = get.Execute(context.Background(), GetStatementInput{Actor: h.operator, StatementID: otherStmt.ID})
	if !errors.Is(err, domainerror.ErrStatementNotFound) {
		t.Errorf("expected ErrStatementNotFound across entities, got %v", err)
	}
}

func TestConcurrentDispositionsHaveOneWinner(t *testing.T) {
	tests := []struct {
		name      string
		withLocks bool
	}{
		{name: "keyed lock", withLocks: true},
		{name: "repository guard only", withLocks: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			s := h.create(t, year2024())
			h.attachMandatory(t, s.ID)
			if _, err := h.submit(s.ID); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			approve := NewApproveStatementUseCase(h.statement, h.locker, h.notifier, h.clock)
			reject := NewRejectStatementUseCase(h.statement, h.storage, h.locker, h.notifier, h.clock, maxUpload)
			if !tt.withLocks {
				approve = NewApproveStatementUseCase(h.statement, noLocker{}, h.notifier, h.clock)
				reject = NewRejectStatementUseCase(h.statement, h.storage, noLocker{}, h.notifier, h.clock, maxUpload)
			}

			const attempts = 8
			var wg sync.WaitGroup
			errs := make([]error, attempts)
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					in := ReviewInput{Actor: h.reviewer, StatementID: s.ID}
					if i%2 == 0 {
						_, errs[i] = approve.Execute(context.Background(), in)
						return
					}
					_, errs[i] = reject.Execute(context.Background(), RejectStatementInput{
						Actor: h.reviewer, StatementID: s.ID, Reason: "no",
					})
				}(i)
			}
			wg.Wait()

			winners := 0
			for _, err := range errs {
				switch {
				case err == nil:
					winners++
				case !errors.Is(err, domainerror.ErrInvalidTransition):
					t.Errorf("expected ErrInvalidTransition for losers, got %v", err)
				}
			}
			if winners != 1 {
				t.Errorf("expected exactly 1 winner, got %d", winners)
			}
			if h.notifier.count() != 1 {
				t.Errorf("expected exactly 1 notification, got %d", h.notifier.count())
			}
			if !h.stored(t, s.ID).State.IsTerminal() {
				t.Errorf("expected a terminal state")
			}
		})
	}
}
