package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"legalaid-intake-be/internal/entity"
	"legalaid-intake-be/internal/pkg/mailer"
	"legalaid-intake-be/internal/repository/contract"
	"legalaid-intake-be/internal/repository/specification"
	"legalaid-intake-be/internal/repository/unitofwork"
	"legalaid-intake-be/pkg/events"
	pktNats "legalaid-intake-be/pkg/nats"
	"legalaid-intake-be/pkg/wizard"

	"github.com/google/uuid"
)

// fakeStore backs the fake repositories. Specifications are gorm scopes, so
// the fakes only understand the ones the services use.
type fakeStore struct {
	mu          sync.Mutex
	submissions []*entity.Submission
	cases       map[string]*entity.DashboardCase
	receipts    []uuid.UUID
	createErr   error
	upsertErr   error
	findAllErr  error
	findAllHits int
}

func newFakeStore() *fakeStore {
	return &fakeStore{cases: map[string]*entity.DashboardCase{}}
}

func (s *fakeStore) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: s}
}

type fakeUow struct{ store *fakeStore }

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }
func (u *fakeUow) SubmissionRepository() contract.SubmissionRepository {
	return &fakeSubmissionRepo{store: u.store}
}
func (u *fakeUow) DashboardCaseRepository() contract.DashboardCaseRepository {
	return &fakeCaseRepo{store: u.store}
}

type fakeSubmissionRepo struct{ store *fakeStore }

func (r *fakeSubmissionRepo) Create(_ context.Context, s *entity.Submission) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.createErr != nil {
		return r.store.createErr
	}
	cp := *s
	r.store.submissions = append(r.store.submissions, &cp)
	return nil
}

func (r *fakeSubmissionRepo) MarkReceiptSent(_ context.Context, id uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.receipts = append(r.store.receipts, id)
	for _, s := range r.store.submissions {
		if s.Id == id {
			s.ReceiptSentAt = &at
		}
	}
	return nil
}

func (r *fakeSubmissionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Submission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.submissions {
		if matchesSubmission(s, specs) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSubmissionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Submission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Submission
	for _, s := range r.store.submissions {
		if matchesSubmission(s, specs) {
			out = append(out, s)
		}
	}
	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok {
			if p.Offset >= len(out) {
				return nil, nil
			}
			out = out[p.Offset:min(len(out), p.Offset+p.Limit)]
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func matchesSubmission(s *entity.Submission, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByServerID:
			if s.ServerId != sp.ServerID {
				return false
			}
		case specification.OwnedBy:
			if s.UserId != sp.UserID {
				return false
			}
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.ByDocumentType:
			if s.DocumentType != sp.DocumentType {
				return false
			}
		case specification.ReceiptPending:
			if s.ReceiptEmail == "" || s.ReceiptSentAt != nil {
				return false
			}
		case specification.CreatedAfter:
			if !s.CreatedAt.After(sp.Time) {
				return false
			}
		}
	}
	return true
}

type fakeCaseRepo struct{ store *fakeStore }

func (r *fakeCaseRepo) Upsert(_ context.Context, c *entity.DashboardCase) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.upsertErr != nil {
		return r.store.upsertErr
	}
	if cur, ok := r.store.cases[c.CaseId]; ok && !c.UpdatedAt.After(cur.UpdatedAt) {
		return nil
	}
	cp := *c
	r.store.cases[c.CaseId] = &cp
	return nil
}

func (r *fakeCaseRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.DashboardCase, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.findAllHits++
	if r.store.findAllErr != nil {
		return nil, r.store.findAllErr
	}
	var out []*entity.DashboardCase
	for _, c := range r.store.cases {
		keep := true
		for _, spec := range specs {
			if sp, ok := spec.(specification.OwnedBy); ok && c.UserId != sp.UserID {
				keep = false
			}
		}
		if keep {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *fakeMailer) SendReceipt(to string, _ mailer.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

type fakeEvents struct {
	mu        sync.Mutex
	published []events.Event
	err       error
}

func (e *fakeEvents) Publish(_ context.Context, ev events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.published = append(e.published, ev)
	return nil
}

type fakeSubscriber struct {
	subject, durable string
	handler          pktNats.EventHandler
}

func (s *fakeSubscriber) Subscribe(_ context.Context, subject, durable string, h pktNats.EventHandler) error {
	s.subject, s.durable, s.handler = subject, durable, h
	return nil
}

type push struct {
	userID  uuid.UUID
	msgType string
	data    interface{}
}

type fakeDelivery struct {
	mu     sync.Mutex
	pushes []push
}

func (d *fakeDelivery) Push(userID uuid.UUID, msgType string, data interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pushes = append(d.pushes, push{userID, msgType, data})
}

type fakeLegalAPI struct {
	mu          sync.Mutex
	createCalls int
	submitErr   error
	saved       []wizard.PersistenceRecord
	saveErr     error
}

func (a *fakeLegalAPI) FetchTemplates(context.Context) ([]wizard.TemplateDescriptor, error) {
	return nil, nil
}

func (a *fakeLegalAPI) GenerateDocument(context.Context, wizard.DocumentType, map[string]string) (wizard.DocumentHandle, error) {
	return wizard.DocumentHandle{ID: "doc-1"}, a.submitErr
}

func (a *fakeLegalAPI) CreateCase(context.Context, wizard.DocumentType, map[string]string) (wizard.DocumentHandle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.createCalls++
	if a.submitErr != nil {
		return wizard.DocumentHandle{}, a.submitErr
	}
	return wizard.DocumentHandle{ID: "case-42"}, nil
}

func (a *fakeLegalAPI) CheckEligibility(context.Context, map[string]string) (wizard.EligibilityResult, error) {
	return wizard.EligibilityResult{Eligible: true}, nil
}

func (a *fakeLegalAPI) SaveProgress(_ context.Context, rec wizard.PersistenceRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.saveErr != nil {
		return a.saveErr
	}
	a.saved = append(a.saved, rec)
	return nil
}

var errBoom = errors.New("boom")
