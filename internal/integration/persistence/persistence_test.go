package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
	"github.com/rendiconti/backend/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	movements := NewMovementRepository(db)

	root := entity.NewRootCategory("Offerte", "001", entity.MovementTypeIncome)
	child := entity.NewChildCategory("Messe", "001", root)
	leaf := entity.NewChildCategory("Domenicali", "001", child)
	other := entity.NewRootCategory("Utenze", "001", entity.MovementTypeExpense)
	for _, c := range []*entity.Category{root, child, leaf, other} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("expected no error creating %s, got %v", c.Name, err)
		}
	}

	t.Run("find all is ordered by level", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(all) != 4 {
			t.Fatalf("expected 4 categories, got %d", len(all))
		}
		if all[3].ID != leaf.ID || all[3].Level != entity.LevelMicrocategory {
			t.Errorf("expected leaf last at level 3, got %s level %d", all[3].Name, all[3].Level)
		}
		if all[3].ParentID == nil || *all[3].ParentID != child.ID {
			t.Errorf("expected leaf parent %s, got %v", child.ID, all[3].ParentID)
		}
	})

	t.Run("rename", func(t *testing.T) {
		child.Rename("Sante Messe")
		if err := repo.Update(ctx, child); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		found, err := repo.FindByID(ctx, child.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found.Name != "Sante Messe" || found.Level != entity.LevelSubcategory {
			t.Errorf("expected renamed level-2 category, got %s level %d", found.Name, found.Level)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, domainerror.ErrCategoryNotFound) {
			t.Errorf("expected ErrCategoryNotFound, got %v", err)
		}
	})

	t.Run("cascade removes categories and movements", func(t *testing.T) {
		entityID := uuid.New()
		accountID := uuid.New()
		tagged := entity.NewMovement(entityID, accountID, &leaf.ID, day(2024, 3, 1), entity.MovementTypeIncome, decimal.NewFromInt(10), "")
		kept := entity.NewMovement(entityID, accountID, &other.ID, day(2024, 3, 1), entity.MovementTypeExpense, decimal.NewFromInt(5), "")
		for _, m := range []*entity.Movement{tagged, kept} {
			if err := movements.Create(ctx, m); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}

		subtree := []uuid.UUID{root.ID, child.ID, leaf.ID}
		count, err := repo.CountMovements(ctx, subtree)
		if err != nil || count != 1 {
			t.Fatalf("expected 1 movement in subtree, got %d (%v)", count, err)
		}

		result, err := repo.DeleteCascade(ctx, subtree)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.CategoriesDeleted != 3 || result.MovementsDeleted != 1 {
			t.Errorf("expected 3 categories and 1 movement deleted, got %+v", result)
		}
		if _, err := movements.FindByID(ctx, tagged.ID); !errors.Is(err, domainerror.ErrMovementNotFound) {
			t.Errorf("expected tagged movement gone, got %v", err)
		}
		if _, err := movements.FindByID(ctx, kept.ID); err != nil {
			t.Errorf("expected other movement kept, got %v", err)
		}
		all, _ := repo.FindAll(ctx)
		if len(all) != 1 || all[0].ID != other.ID {
			t.Errorf("expected only %s left, got %d categories", other.Name, len(all))
		}
	})
}

func TestMovementLedgerQuery(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewMovementRepository(db)

	entityID := uuid.New()
	cash := uuid.New()
	bank := uuid.New()
	cat := uuid.New()

	seed := []*entity.Movement{
		entity.NewMovement(entityID, cash, &cat, day(2024, 1, 31), entity.MovementTypeIncome, decimal.NewFromInt(1), "outside"),
		entity.NewMovement(entityID, cash, &cat, day(2024, 2, 10), entity.MovementTypeIncome, decimal.NewFromInt(2), "b"),
		entity.NewMovement(entityID, bank, nil, day(2024, 2, 1), entity.MovementTypeExpense, decimal.NewFromInt(3), "a"),
		entity.NewMovement(entityID, cash, &cat, day(2024, 2, 29), entity.MovementTypeExpense, decimal.NewFromInt(4), "c"),
		entity.NewMovement(uuid.New(), cash, &cat, day(2024, 2, 15), entity.MovementTypeIncome, decimal.NewFromInt(5), "other entity"),
	}
	for i, m := range seed {
		m.CreatedAt = m.CreatedAt.Add(time.Duration(i) * time.Millisecond)
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	february := valueobject.NewDateRange(day(2024, 2, 1), day(2024, 2, 29))
	both := []entity.MovementType{entity.MovementTypeIncome, entity.MovementTypeExpense}

	tests := []struct {
		name  string
		query adapter.LedgerQuery
		notes []string
	}{
		{
			name:  "inclusive bounds ordered by date",
			query: adapter.LedgerQuery{EntityID: entityID, Period: february, Types: both},
			notes: []string{"a", "b", "c"},
		},
		{
			name:  "account filter",
			query: adapter.LedgerQuery{EntityID: entityID, Period: february, Types: both, AccountIDs: []uuid.UUID{cash}},
			notes: []string{"b", "c"},
		},
		{
			name:  "category filter excludes uncategorised",
			query: adapter.LedgerQuery{EntityID: entityID, Period: february, Types: both, CategoryIDs: []uuid.UUID{cat}},
			notes: []string{"b", "c"},
		},
		{
			name:  "type filter",
			query: adapter.LedgerQuery{EntityID: entityID, Period: february, Types: []entity.MovementType{entity.MovementTypeExpense}},
			notes: []string{"a", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Query(ctx, tt.query)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != len(tt.notes) {
				t.Fatalf("expected %d movements, got %d", len(tt.notes), len(got))
			}
			for i, note := range tt.notes {
				if got[i].Note != note {
					t.Errorf("expected movement %d to be %q, got %q", i, note, got[i].Note)
				}
			}
		})
	}

	t.Run("equal timestamps keep insertion order", func(t *testing.T) {
		stamp := time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)
		var want []string
		for i := 0; i < 20; i++ {
			m := entity.NewMovement(entityID, cash, &cat, day(2024, 3, 3), entity.MovementTypeIncome, decimal.NewFromInt(1), fmt.Sprintf("m%02d", i))
			m.CreatedAt = stamp
			if err := repo.Create(ctx, m); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			want = append(want, m.Note)
		}

		got, err := repo.Query(ctx, adapter.LedgerQuery{
			EntityID: entityID,
			Period:   valueobject.NewDateRange(day(2024, 3, 3), day(2024, 3, 3)),
			Types:    both,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d movements, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i].Note != want[i] {
				t.Errorf("expected movement %d to be %q, got %q", i, want[i], got[i].Note)
			}
		}
	})

	t.Run("amount survives the round trip", func(t *testing.T) {
		m := entity.NewMovement(entityID, cash, nil, day(2024, 5, 5), entity.MovementTypeIncome, decimal.RequireFromString("1234.56"), "")
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		found, err := repo.FindByID(ctx, m.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !found.Amount.Equal(m.Amount) {
			t.Errorf("expected amount %s, got %s", m.Amount, found.Amount)
		}
	})

	t.Run("delete unknown movement", func(t *testing.T) {
		if err := repo.Delete(ctx, uuid.New()); !errors.Is(err, domainerror.ErrMovementNotFound) {
			t.Errorf("expected ErrMovementNotFound, got %v", err)
		}
	})
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))
	entityID := uuid.New()

	for _, name := range []string{"Cassa", "Banca"} {
		if err := repo.Create(ctx, entity.NewAccount(entityID, name)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if err := repo.Create(ctx, entity.NewAccount(uuid.New(), "Altro")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	accounts, err := repo.FindByEntity(ctx, entityID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(accounts) != 2 || accounts[0].Name != "Banca" {
		t.Errorf("expected [Banca Cassa], got %d accounts", len(accounts))
	}
	if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, domainerror.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func newDraft(entityID uuid.UUID, period valueobject.DateRange) (*entity.Statement, *entity.StatementTransition) {
	owner := entity.Actor{UserID: uuid.New(), EntityID: entityID, Email: "owner@example.org", Role: entity.RoleOperator}
	s := entity.NewStatement(entityID, owner, period, "primo trimestre")
	entry := entity.NewStatementTransition(s.ID, "", entity.StatementStateDraft, owner.UserID, "", s.CreatedAt)
	return s, entry
}

func TestStatementRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewStatementRepository(db)
	documents := NewStatementDocumentRepository(db)
	entityID := uuid.New()
	year := valueobject.NewDateRange(day(2024, 1, 1), day(2024, 12, 31))

	s, entry := newDraft(entityID, year)
	if err := repo.CreateDraft(ctx, s, entry); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	t.Run("second draft refused", func(t *testing.T) {
		other, otherEntry := newDraft(entityID, year)
		if err := repo.CreateDraft(ctx, other, otherEntry); !errors.Is(err, domainerror.ErrDraftAlreadyExists) {
			t.Errorf("expected ErrDraftAlreadyExists, got %v", err)
		}
	})

	t.Run("find draft and round trip", func(t *testing.T) {
		draft, err := repo.FindDraft(ctx, entityID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if draft.ID != s.ID || !draft.Period.Start.Equal(year.Start) || !draft.Period.End.Equal(year.End) {
			t.Errorf("expected draft %s over %s, got %s over %s", s.ID, year, draft.ID, draft.Period)
		}
		if draft.OwnerEmail != "owner@example.org" {
			t.Errorf("expected owner email, got %q", draft.OwnerEmail)
		}
		if draft.Note != "primo trimestre" || draft.Observations != nil {
			t.Errorf("expected note and no observations, got %q %v", draft.Note, draft.Observations)
		}
	})

	doc := entity.NewStatementDocument(s.ID, entity.DocumentVerbaleCAEP, entity.StoredFile{
		FileName: "verbale.pdf", ContentType: "application/pdf", Size: 3, StorageKey: "k1",
	}, uuid.New())

	t.Run("documents replace by type", func(t *testing.T) {
		previous, err := documents.Replace(ctx, doc)
		if err != nil || previous != nil {
			t.Fatalf("expected first document stored without predecessor, got %v %v", previous, err)
		}
		replacement := entity.NewStatementDocument(s.ID, entity.DocumentVerbaleCAEP, entity.StoredFile{
			FileName: "verbale2.pdf", ContentType: "application/pdf", Size: 4, StorageKey: "k2",
		}, uuid.New())
		previous, err = documents.Replace(ctx, replacement)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if previous == nil || previous.StorageKey != "k1" {
			t.Errorf("expected k1 superseded, got %v", previous)
		}
		doc = replacement

		found, err := repo.FindByID(ctx, s.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found.DocumentCount != 1 {
			t.Errorf("expected document count 1, got %d", found.DocumentCount)
		}
	})

	t.Run("exoneration only while draft", func(t *testing.T) {
		s.Exonerated = true
		if err := repo.UpdateDraft(ctx, s); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		found, _ := repo.FindByID(ctx, s.ID)
		if !found.Exonerated {
			t.Errorf("expected exonerated flag saved")
		}
	})

	submittedAt := day(2025, 1, 15)
	t.Run("guarded transition", func(t *testing.T) {
		s.MarkSubmitted(decimal.NewFromInt(100), decimal.NewFromInt(40), submittedAt)
		err := repo.ApplyTransition(ctx, adapter.StatementTransitionCommand{
			Statement: s,
			From:      entity.SourceStates(entity.StatementStateSubmitted),
			Entry:     entity.NewStatementTransition(s.ID, entity.StatementStateDraft, entity.StatementStateSubmitted, s.OwnerID, "", submittedAt),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		again := repo.ApplyTransition(ctx, adapter.StatementTransitionCommand{
			Statement: s,
			From:      entity.SourceStates(entity.StatementStateSubmitted),
		})
		if !errors.Is(again, domainerror.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", again)
		}

		found, err := repo.FindByID(ctx, s.ID)
		if err != nil {
			t.Fatalf("expected submitted statement to load, got %v", err)
		}
		if found.SubmittedAt == nil || !found.SubmittedAt.Equal(submittedAt) {
			t.Errorf("expected submitted_at %s to round trip, got %v", submittedAt, found.SubmittedAt)
		}
		if found.State != entity.StatementStateSubmitted || !found.TotalIncome.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected submitted with income 100, got %s %s", found.State, found.TotalIncome)
		}
		if err := repo.UpdateDraft(ctx, s); !errors.Is(err, domainerror.ErrInvalidTransition) {
			t.Errorf("expected UpdateDraft to refuse a submitted statement, got %v", err)
		}
	})

	t.Run("documents frozen after submission", func(t *testing.T) {
		late := entity.NewStatementDocument(s.ID, entity.DocumentAltro, entity.StoredFile{FileName: "x", ContentType: "x", Size: 1, StorageKey: "k3"}, uuid.New())
		if _, err := documents.Replace(ctx, late); !errors.Is(err, domainerror.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
		if err := documents.Delete(ctx, s.ID, doc.ID); !errors.Is(err, domainerror.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition on delete, got %v", err)
		}
	})

	t.Run("locking and overlap", func(t *testing.T) {
		locked, err := repo.HasLockingStatement(ctx, entityID, time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC))
		if err != nil || !locked {
			t.Errorf("expected June 2024 locked, got %v (%v)", locked, err)
		}
		locked, _ = repo.HasLockingStatement(ctx, entityID, day(2025, 1, 1))
		if locked {
			t.Errorf("expected 2025 unlocked")
		}

		overlap, overlapEntry := newDraft(entityID, valueobject.NewDateRange(day(2024, 12, 1), day(2025, 1, 31)))
		if err := repo.CreateDraft(ctx, overlap, overlapEntry); !errors.Is(err, domainerror.ErrOverlappingPeriod) {
			t.Errorf("expected ErrOverlappingPeriod, got %v", err)
		}
	})

	t.Run("reject with attachment and history", func(t *testing.T) {
		rejectedAt := day(2025, 2, 1)
		attachment := entity.NewRejectionAttachment(s.ID, entity.StoredFile{FileName: "note.pdf", ContentType: "application/pdf", Size: 2, StorageKey: "k4"}, uuid.New())
		s.MarkRejected(uuid.New(), "manca firma", &attachment.ID, rejectedAt)
		s.RecordObservations("allegare il verbale firmato")
		err := repo.ApplyTransition(ctx, adapter.StatementTransitionCommand{
			Statement:  s,
			From:       entity.SourceStates(entity.StatementStateRejected),
			Entry:      entity.NewStatementTransition(s.ID, entity.StatementStateSubmitted, entity.StatementStateRejected, *s.ReviewedBy, "manca firma", rejectedAt),
			Attachment: attachment,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		found, err := documents.FindAttachment(ctx, s.ID, attachment.ID)
		if err != nil || found.StorageKey != "k4" {
			t.Errorf("expected attachment k4, got %v (%v)", found, err)
		}

		rejected, err := repo.FindByID(ctx, s.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rejected.Observations == nil || *rejected.Observations != "allegare il verbale firmato" {
			t.Errorf("expected reviewer observations to persist, got %v", rejected.Observations)
		}
		if rejected.Note != "primo trimestre" {
			t.Errorf("expected note to survive the transition, got %q", rejected.Note)
		}

		history, err := repo.History(ctx, s.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []entity.StatementState{entity.StatementStateDraft, entity.StatementStateSubmitted, entity.StatementStateRejected}
		if len(history) != len(want) {
			t.Fatalf("expected %d entries, got %d", len(want), len(history))
		}
		for i := range want {
			if history[i].To != want[i] {
				t.Errorf("expected entry %d to %s, got %s", i, want[i], history[i].To)
			}
		}
		if history[2].Note != "manca firma" {
			t.Errorf("expected rejection note, got %q", history[2].Note)
		}
	})

	t.Run("list by state", func(t *testing.T) {
		state := entity.StatementStateRejected
		list, err := repo.List(ctx, adapter.StatementFilter{EntityID: &entityID, State: &state})
		if err != nil || len(list) != 1 {
			t.Fatalf("expected 1 rejected statement, got %d (%v)", len(list), err)
		}
		if list[0].DocumentCount != 1 {
			t.Errorf("expected document count 1, got %d", list[0].DocumentCount)
		}
	})

	t.Run("delete returns storage keys", func(t *testing.T) {
		keys, err := repo.Delete(ctx, s.ID, entity.DeletableStates)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(keys) != 2 {
			t.Errorf("expected document and attachment keys, got %v", keys)
		}
		if _, err := repo.FindByID(ctx, s.ID); !errors.Is(err, domainerror.ErrStatementNotFound) {
			t.Errorf("expected statement gone, got %v", err)
		}
		history, _ := repo.History(ctx, s.ID)
		if len(history) != 0 {
			t.Errorf("expected history removed, got %d entries", len(history))
		}
	})
}

func TestStatementDeleteRefusesLockedStates(t *testing.T) {
	ctx := context.Background()
	repo := NewStatementRepository(newTestDB(t))
	s, entry := newDraft(uuid.New(), valueobject.NewDateRange(day(2024, 1, 1), day(2024, 3, 31)))
	if err := repo.CreateDraft(ctx, s, entry); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	s.MarkSubmitted(decimal.Zero, decimal.Zero, day(2024, 4, 2))
	if err := repo.ApplyTransition(ctx, adapter.StatementTransitionCommand{Statement: s, From: []entity.StatementState{entity.StatementStateDraft}}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := repo.Delete(ctx, s.ID, entity.DeletableStates); !errors.Is(err, domainerror.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := repo.FindByID(ctx, s.ID); err != nil {
		t.Errorf("expected statement kept, got %v", err)
	}
	if _, err := repo.Delete(ctx, uuid.New(), entity.DeletableStates); !errors.Is(err, domainerror.ErrStatementNotFound) {
		t.Errorf("expected ErrStatementNotFound, got %v", err)
	}
}

func TestEmailQueueRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEmailQueueRepository(newTestDB(t))
	statementID := uuid.New()
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	ready := entity.NewEmailJob(entity.TemplateStatementApproved, &statementID, "owner@example.org", "Rendiconto approvato", map[string]interface{}{"period": "2024"}, now.Add(-time.Minute))
	later := entity.NewEmailJob(entity.TemplateStatementRejected, &statementID, "owner@example.org", "Rendiconto respinto", nil, now.Add(time.Hour))

	for _, job := range []*entity.EmailJob{ready, later} {
		if err := repo.Enqueue(ctx, job); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	claimed, err := repo.ClaimDue(ctx, now, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(claimed) != 1 || claimed[0].ID != ready.ID {
		t.Fatalf("expected only the due job, got %d jobs", len(claimed))
	}
	if claimed[0].Status != entity.EmailStatusProcessing {
		t.Errorf("expected claimed job to be processing, got %s", claimed[0].Status)
	}
	if claimed[0].TemplateData["period"] != "2024" {
		t.Errorf("expected template data to round trip, got %v", claimed[0].TemplateData)
	}

	again, err := repo.ClaimDue(ctx, now, 10)
	if err != nil || len(again) != 0 {
		t.Errorf("expected a claimed job not to be handed out twice, got %d (%v)", len(again), err)
	}

	job := claimed[0]
	job.MarkSent("re_123", now)
	if err := repo.Save(ctx, job); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	jobs, err := repo.ListForStatement(ctx, statementID)
	if err != nil || len(jobs) != 2 {
		t.Fatalf("expected 2 jobs for statement, got %d (%v)", len(jobs), err)
	}
	if jobs[0].Status != entity.EmailStatusSent || jobs[0].ProviderID != "re_123" || jobs[0].ProcessedAt == nil {
		t.Errorf("expected sent job with provider id, got %+v", jobs[0])
	}

	removed, err := repo.PurgeDelivered(ctx, now.Add(time.Second))
	if err != nil || removed != 1 {
		t.Errorf("expected 1 purged job, got %d (%v)", removed, err)
	}
	if jobs, _ := repo.ListForStatement(ctx, statementID); len(jobs) != 1 || jobs[0].ID != later.ID {
		t.Errorf("expected only the pending job to remain, got %d", len(jobs))
	}
}
