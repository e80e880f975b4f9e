package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Options wires a Wizard to its collaborators. Drafts may be nil to disable
// persistence.
type Options struct {
	Drafts      *DraftStore
	DraftKey    string
	Coordinator *Coordinator
	Clock       func() time.Time
}

// NextOutcome describes what a Next call did.
type NextOutcome struct {
	Advanced   bool              `json:"advanced"`
	Gate       *GateResult       `json:"gate,omitempty"`
	Submission *SubmissionResult `json:"submission,omitempty"`

	// Submitted holds the values that were sent when a submission succeeded.
	Submitted map[string]string `json:"-"`
}

// Wizard is one in-progress form. It is safe for concurrent use; remote calls
// run without holding the lock so edits stay possible while a gate or a
// submission is pending, but navigation is rejected until it settles.
type Wizard struct {
	mu     sync.Mutex
	schema *Schema
	nav    *Navigator
	state  FormState
	busy   bool

	drafts *DraftStore
	key    string
	coord  *Coordinator
	now    func() time.Time
}

// Open creates a wizard for schema and rehydrates it from the stored draft,
// if one exists.
func Open(ctx context.Context, schema *Schema, opts Options) *Wizard {
	w := &Wizard{
		schema: schema,
		nav:    NewNavigator(schema.StepCount()),
		state:  NewFormState(schema.DocumentType()),
		drafts: opts.Drafts,
		key:    opts.DraftKey,
		coord:  opts.Coordinator,
		now:    opts.Clock,
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.key == "" {
		w.key = string(schema.DocumentType())
	}

	if w.drafts == nil {
		return w
	}
	rec := w.drafts.Restore(ctx, w.key)
	if rec == nil || rec.DocumentType != schema.DocumentType() {
		return w
	}
	for id, v := range rec.Values {
		if _, ok := schema.Field(id); ok {
			w.state.Values[id] = v
		}
	}
	w.nav.Restore(rec.ActiveStepIndex)
	w.state.ActiveStepIndex = w.nav.Index()
	saved := rec.SavedAt
	w.state.LastPersistedAt = &saved
	return w
}

func (w *Wizard) Schema() *Schema { return w.schema }

// State returns a copy of the current form state.
func (w *Wizard) State() FormState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Snapshot()
}

func (w *Wizard) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.nav.Phase()
}

// SetField stores one value. Blank values clear the field.
func (w *Wizard) SetField(ctx context.Context, id, value string) error {
	return w.SetFields(ctx, map[string]string{id: value})
}

// SetFields stores several values at once; nothing is stored if any of them
// is rejected.
func (w *Wizard) SetFields(ctx context.Context, values map[string]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, v := range values {
		f, ok := w.schema.Field(id)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, id)
		}
		if !f.AllowsValue(v) {
			return fmt.Errorf("%w: %s=%q", ErrInvalidOption, id, v)
		}
	}
	if err := w.nav.Edit(); err != nil {
		return err
	}
	for id, v := range values {
		if strings.TrimSpace(v) == "" {
			delete(w.state.Values, id)
			continue
		}
		w.state.Values[id] = v
	}
	w.persistLocked(ctx)
	return nil
}

// Next validates the active step, runs its gate and advances, or submits the
// form from the last step.
func (w *Wizard) Next(ctx context.Context) (NextOutcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkIdleLocked(); err != nil {
		return NextOutcome{}, err
	}
	step, err := w.schema.Step(w.nav.Index())
	if err != nil {
		return NextOutcome{}, err
	}
	if missing := MissingFields(step, w.schema, w.state.Values); len(missing) > 0 {
		return NextOutcome{}, &ValidationError{Step: step.Index, Missing: missing}
	}

	if w.nav.IsLast() {
		return w.submitLocked(ctx)
	}

	if step.Gate != GateNone {
		gate, err := w.runGateLocked(ctx, step)
		if err != nil {
			return NextOutcome{}, err
		}
		if !gate.Allowed {
			return NextOutcome{Gate: &gate}, nil
		}
		if _, err := w.nav.Advance(); err != nil {
			return NextOutcome{}, err
		}
		w.state.ActiveStepIndex = w.nav.Index()
		w.persistLocked(ctx)
		return NextOutcome{Advanced: true, Gate: &gate}, nil
	}

	if _, err := w.nav.Advance(); err != nil {
		return NextOutcome{}, err
	}
	w.state.ActiveStepIndex = w.nav.Index()
	w.persistLocked(ctx)
	return NextOutcome{Advanced: true}, nil
}

// runGateLocked releases the lock around the remote call and revalidates the
// step once it is reacquired.
func (w *Wizard) runGateLocked(ctx context.Context, step StepDefinition) (GateResult, error) {
	if w.coord == nil {
		return GateResult{Gate: step.Gate, Failure: "no coordinator configured"}, nil
	}
	values := w.state.Snapshot().Values
	w.busy = true
	w.mu.Unlock()
	gate := w.coord.RunGate(ctx, step.Gate, w.schema.DocumentType(), values)
	w.mu.Lock()
	w.busy = false

	if missing := MissingFields(step, w.schema, w.state.Values); len(missing) > 0 {
		return GateResult{}, &ValidationError{Step: step.Index, Missing: missing}
	}
	return gate, nil
}

func (w *Wizard) submitLocked(ctx context.Context) (NextOutcome, error) {
	if idx, missing := FirstInvalidStep(w.schema, w.state.Values); idx >= 0 {
		return NextOutcome{}, &ValidationError{Step: idx, Missing: missing}
	}
	if w.coord == nil {
		res := SubmissionResult{ErrorMessage: "no coordinator configured"}
		return NextOutcome{Submission: &res}, nil
	}
	if _, err := w.nav.Advance(); err != nil {
		return NextOutcome{}, err
	}

	values := w.state.Snapshot().Values
	w.mu.Unlock()
	res := w.coord.Submit(ctx, w.schema.DocumentType(), values)
	w.mu.Lock()

	if !res.Success {
		if err := w.nav.SubmitFailed(); err != nil {
			return NextOutcome{}, err
		}
		return NextOutcome{Submission: &res}, nil
	}

	if err := w.nav.SubmitSucceeded(); err != nil {
		return NextOutcome{}, err
	}
	w.state.Values = make(map[string]string)
	w.state.ActiveStepIndex = 0
	w.state.LastPersistedAt = nil
	if w.drafts != nil {
		w.drafts.Clear(ctx, w.key)
	}
	return NextOutcome{Submission: &res, Submitted: values}, nil
}

func (w *Wizard) Back(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkIdleLocked(); err != nil {
		return err
	}
	if err := w.nav.Back(); err != nil {
		return err
	}
	w.state.ActiveStepIndex = w.nav.Index()
	w.persistLocked(ctx)
	return nil
}

// JumpToStep moves to any step without validation, as the review step's edit
// links do.
func (w *Wizard) JumpToStep(ctx context.Context, index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkIdleLocked(); err != nil {
		return err
	}
	if err := w.nav.JumpTo(index); err != nil {
		return err
	}
	w.state.ActiveStepIndex = w.nav.Index()
	w.persistLocked(ctx)
	return nil
}

// Reset discards the form and its draft.
func (w *Wizard) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkIdleLocked(); err != nil {
		return err
	}
	if err := w.nav.Reset(); err != nil {
		return err
	}
	w.state.Values = make(map[string]string)
	w.state.ActiveStepIndex = 0
	w.state.LastPersistedAt = nil
	if w.drafts != nil {
		w.drafts.Clear(ctx, w.key)
	}
	return nil
}

// SaveProgress pushes the current draft to the remote collaborator.
func (w *Wizard) SaveProgress(ctx context.Context) error {
	w.mu.Lock()
	rec := newRecord(w.state, w.now())
	w.mu.Unlock()

	if w.coord == nil {
		return fmt.Errorf("wizard: no coordinator configured")
	}
	return w.coord.SaveProgress(ctx, rec)
}

func (w *Wizard) checkIdleLocked() error {
	if w.busy || w.nav.Phase() == PhaseSubmitting {
		return ErrSubmissionInFlight
	}
	return nil
}

func (w *Wizard) persistLocked(ctx context.Context) {
	if w.drafts == nil {
		return
	}
	at := w.now()
	w.drafts.Save(ctx, w.key, newRecord(w.state, at))
	w.state.LastPersistedAt = &at
}
