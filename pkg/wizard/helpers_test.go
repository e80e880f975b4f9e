package wizard

import (
	"context"
	"errors"
	"sync"
)

type mapKV struct {
	mu      sync.Mutex
	data    map[string]string
	failGet bool
	failSet bool
}

func newMapKV() *mapKV {
	return &mapKV{data: make(map[string]string)}
}

func (m *mapKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", false, errors.New("storage unavailable")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("quota exceeded")
	}
	m.data[key] = value
	return nil
}

func (m *mapKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mapKV) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

type fakeAPI struct {
	mu sync.Mutex

	templates    []TemplateDescriptor
	templatesErr error
	eligibility  EligibilityResult
	eligErr      error
	submitErr    error
	submitID     string
	saveErr      error

	generateCalls int
	createCalls   int
	eligCalls     int
	invalidations int
	saved         []PersistenceRecord
	lastValues    map[string]string

	// block, when set, holds submissions and gates until it is closed.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeAPI) wait(ctx context.Context) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
		}
	}
}

func (f *fakeAPI) InvalidateTemplates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
}

func (f *fakeAPI) FetchTemplates(ctx context.Context) ([]TemplateDescriptor, error) {
	f.wait(ctx)
	return f.templates, f.templatesErr
}

func (f *fakeAPI) GenerateDocument(ctx context.Context, _ DocumentType, values map[string]string) (DocumentHandle, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateCalls++
	f.lastValues = values
	if f.submitErr != nil {
		return DocumentHandle{}, f.submitErr
	}
	return DocumentHandle{ID: f.submitID}, nil
}

func (f *fakeAPI) CreateCase(ctx context.Context, _ DocumentType, values map[string]string) (DocumentHandle, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastValues = values
	if f.submitErr != nil {
		return DocumentHandle{}, f.submitErr
	}
	return DocumentHandle{ID: f.submitID}, nil
}

func (f *fakeAPI) CheckEligibility(ctx context.Context, _ map[string]string) (EligibilityResult, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.eligCalls++
	return f.eligibility, f.eligErr
}

func (f *fakeAPI) SaveProgress(_ context.Context, record PersistenceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, record)
	return f.saveErr
}

func validExpungement() map[string]string {
	return map[string]string{
		"fullName":          "Jane Doe",
		"dateOfBirth":       "1985-04-12",
		"caseNumber":        "CR-2011-00421",
		"county":            "Alameda",
		"convictionType":    "misdemeanor",
		"dispositionDate":   "2012-01-30",
		"address":           "12 Oak St, Oakland CA",
		"phoneNumber":       "555-0100",
		"courtName":         "Alameda Superior Court",
		"sentenceCompleted": "yes",
	}
}

func mustSchema(d DocumentType) *Schema {
	s, err := MustLoadRegistry().Schema(d)
	if err != nil {
		panic(err)
	}
	return s
}
