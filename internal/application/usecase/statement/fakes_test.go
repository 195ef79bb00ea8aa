package statement

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rendiconti/backend/internal/application/adapter"
	"github.com/rendiconti/backend/internal/domain/entity"
	domainerror "github.com/rendiconti/backend/internal/domain/error"
	"github.com/rendiconti/backend/internal/domain/valueobject"
)

// backing is the shared in-memory state of the statement and document fakes.
type backing struct {
	mu          sync.Mutex
	statements  map[uuid.UUID]entity.Statement
	documents   map[uuid.UUID]*entity.StatementDocument
	attachments map[uuid.UUID]*entity.StatementAttachment
	history     []*entity.StatementTransition
}

func newBacking() *backing {
	return &backing{
		statements:  make(map[uuid.UUID]entity.Statement),
		documents:   make(map[uuid.UUID]*entity.StatementDocument),
		attachments: make(map[uuid.UUID]*entity.StatementAttachment),
	}
}

type fakeStatementRepo struct{ *backing }

func (r fakeStatementRepo) CreateDraft(_ context.Context, s *entity.Statement, entry *entity.StatementTransition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.statements {
		if other.EntityID != s.EntityID {
			continue
		}
		if other.State == entity.StatementStateDraft {
			return domainerror.ErrDraftAlreadyExists
		}
		if other.State.LocksLedger() && other.Period.Overlaps(s.Period) {
			return domainerror.ErrOverlappingPeriod
		}
	}
	r.statements[s.ID] = *s
	r.history = append(r.history, entry)
	return nil
}

func (r fakeStatementRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Statement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.statements[id]
	if !ok {
		return nil, domainerror.ErrStatementNotFound
	}
	s.DocumentCount = 0
	for _, d := range r.documents {
		if d.StatementID == id {
			s.DocumentCount++
		}
	}
	return &s, nil
}

func (r fakeStatementRepo) List(_ context.Context, filter adapter.StatementFilter) ([]*entity.Statement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Statement
	for _, s := range r.statements {
		if filter.EntityID != nil && s.EntityID != *filter.EntityID {
			continue
		}
		if filter.State != nil && s.State != *filter.State {
			continue
		}
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Start.After(out[j].Period.Start) })
	return out, nil
}

func (r fakeStatementRepo) FindDraft(_ context.Context, entityID uuid.UUID) (*entity.Statement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.statements {
		if s.EntityID == entityID && s.State == entity.StatementStateDraft {
			s := s
			return &s, nil
		}
	}
	return nil, domainerror.ErrStatementNotFound
}

func (r fakeStatementRepo) HasLockingStatement(_ context.Context, entityID uuid.UUID, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.statements {
		if s.EntityID == entityID && s.State.LocksLedger() && s.Period.Contains(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeStatementRepo) ApplyTransition(_ context.Context, cmd adapter.StatementTransitionCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.statements[cmd.Statement.ID]
	if !ok {
		return domainerror.ErrInvalidTransition
	}
	allowed := false
	for _, st := range cmd.From {
		if stored.State == st {
			allowed = true
		}
	}
	if !allowed {
		return domainerror.ErrInvalidTransition
	}
	r.statements[cmd.Statement.ID] = *cmd.Statement
	if cmd.Entry != nil {
		r.history = append(r.history, cmd.Entry)
	}
	if cmd.Attachment != nil {
		r.attachments[cmd.Attachment.ID] = cmd.Attachment
	}
	return nil
}

func (r fakeStatementRepo) UpdateDraft(_ context.Context, s *entity.Statement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.statements[s.ID]
	if !ok || stored.State != entity.StatementStateDraft {
		return domainerror.ErrInvalidTransition
	}
	r.statements[s.ID] = *s
	return nil
}

func (r fakeStatementRepo) Delete(_ context.Context, id uuid.UUID, states []entity.StatementState) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.statements[id]
	if !ok {
		return nil, domainerror.ErrStatementNotFound
	}
	allowed := false
	for _, st := range states {
		if stored.State == st {
			allowed = true
		}
	}
	if !allowed {
		return nil, domainerror.ErrInvalidTransition
	}
	var keys []string
	for docID, d := range r.documents {
		if d.StatementID == id {
			keys = append(keys, d.StorageKey)
			delete(r.documents, docID)
		}
	}
	for attID, a := range r.attachments {
		if a.StatementID == id {
			keys = append(keys, a.StorageKey)
			delete(r.attachments, attID)
		}
	}
	delete(r.statements, id)
	return keys, nil
}

func (r fakeStatementRepo) History(_ context.Context, statementID uuid.UUID) ([]*entity.StatementTransition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StatementTransition
	for _, h := range r.history {
		if h.StatementID == statementID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeDocumentRepo struct{ *backing }

func (r fakeDocumentRepo) Replace(_ context.Context, doc *entity.StatementDocument) (*entity.StatementDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statements[doc.StatementID].State != entity.StatementStateDraft {
		return nil, domainerror.ErrInvalidTransition
	}
	var previous *entity.StatementDocument
	for id, d := range r.documents {
		if d.StatementID == doc.StatementID && d.Type == doc.Type {
			previous = d
			delete(r.documents, id)
		}
	}
	r.documents[doc.ID] = doc
	return previous, nil
}

func (r fakeDocumentRepo) FindByStatement(_ context.Context, statementID uuid.UUID) ([]*entity.StatementDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StatementDocument
	for _, d := range r.documents {
		if d.StatementID == statementID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r fakeDocumentRepo) FindByID(_ context.Context, statementID, documentID uuid.UUID) (*entity.StatementDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.documents[documentID]
	if !ok || d.StatementID != statementID {
		return nil, domainerror.ErrDocumentNotFound
	}
	return d, nil
}

func (r fakeDocumentRepo) Delete(_ context.Context, statementID, documentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statements[statementID].State != entity.StatementStateDraft {
		return domainerror.ErrInvalidTransition
	}
	delete(r.documents, documentID)
	return nil
}

func (r fakeDocumentRepo) FindAttachment(_ context.Context, statementID, attachmentID uuid.UUID) (*entity.StatementAttachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attachments[attachmentID]
	if !ok || a.StatementID != statementID {
		return nil, domainerror.ErrDocumentNotFound
	}
	return a, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Save(_ context.Context, key string, content io.Reader, _ string) (int64, error) {
	if s.failOn != nil {
		return 0, s.failOn
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return int64(len(data)), nil
}

func (s *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// keyedLocker is an in-process locker with one mutex per key.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *keyedLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

// noLocker grants every lock immediately.
type noLocker struct{}

func (noLocker) Acquire(context.Context, string) (func(), error) { return func() {}, nil }

type failingLocker struct{}

func (failingLocker) Acquire(context.Context, string) (func(), error) {
	return nil, errors.New("lock wait exceeded")
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []entity.DispositionEvent
	err    error
}

func (n *recordingNotifier) NotifyDisposition(_ context.Context, event entity.DispositionEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeTotals struct {
	income  decimal.Decimal
	expense decimal.Decimal
	err     error
	calls   int
}

func (f *fakeTotals) Totals(context.Context, uuid.UUID, valueobject.DateRange) (decimal.Decimal, decimal.Decimal, error) {
	f.calls++
	return f.income, f.expense, f.err
}
