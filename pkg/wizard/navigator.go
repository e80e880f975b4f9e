package wizard

import "fmt"

// Phase is the coarse state of a wizard. While editing, the active step index
// carries the per-step state.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
)

type navEvent string

const (
	evNext         navEvent = "next"
	evBack         navEvent = "back"
	evJump         navEvent = "jump"
	evEdit         navEvent = "edit"
	evSubmit       navEvent = "submit"
	evSubmitOK     navEvent = "submit_ok"
	evSubmitFailed navEvent = "submit_failed"
	evReset        navEvent = "reset"
)

var transitions = map[Phase]map[navEvent]Phase{
	PhaseEditing: {
		evNext:   PhaseEditing,
		evBack:   PhaseEditing,
		evJump:   PhaseEditing,
		evEdit:   PhaseEditing,
		evSubmit: PhaseSubmitting,
		evReset:  PhaseEditing,
	},
	PhaseSubmitting: {
		evEdit:         PhaseSubmitting,
		evSubmitOK:     PhaseSubmitted,
		evSubmitFailed: PhaseEditing,
	},
	PhaseSubmitted: {
		evNext:  PhaseEditing,
		evBack:  PhaseEditing,
		evJump:  PhaseEditing,
		evEdit:  PhaseEditing,
		evReset: PhaseEditing,
	},
}

// Navigator is the step state machine. The active index always stays within
// [0, steps-1].
type Navigator struct {
	phase Phase
	index int
	last  int
}

func NewNavigator(stepCount int) *Navigator {
	if stepCount < 1 {
		stepCount = 1
	}
	return &Navigator{phase: PhaseEditing, last: stepCount - 1}
}

func (n *Navigator) Phase() Phase { return n.phase }
func (n *Navigator) Index() int   { return n.index }
func (n *Navigator) IsLast() bool { return n.index == n.last }

func (n *Navigator) fire(ev navEvent) error {
	next, ok := transitions[n.phase][ev]
	if !ok {
		if n.phase == PhaseSubmitting {
			return ErrSubmissionInFlight
		}
		return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, n.phase)
	}
	n.phase = next
	return nil
}

func (n *Navigator) can(ev navEvent) error {
	if _, ok := transitions[n.phase][ev]; !ok {
		if n.phase == PhaseSubmitting {
			return ErrSubmissionInFlight
		}
		return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, n.phase)
	}
	return nil
}

// Advance moves to the next step. On the last step it enters the submitting
// phase instead and reports submit=true; the caller must then settle the
// submission with SubmitSucceeded or SubmitFailed.
func (n *Navigator) Advance() (submit bool, err error) {
	if n.index == n.last {
		if err := n.fire(evSubmit); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := n.fire(evNext); err != nil {
		return false, err
	}
	n.index++
	return false, nil
}

func (n *Navigator) Back() error {
	if err := n.can(evBack); err != nil {
		return err
	}
	if n.index == 0 {
		return ErrAtFirstStep
	}
	n.index--
	return n.fire(evBack)
}

func (n *Navigator) JumpTo(i int) error {
	if err := n.can(evJump); err != nil {
		return err
	}
	if i < 0 || i > n.last {
		return fmt.Errorf("%w: %d", ErrStepOutOfRange, i)
	}
	n.index = i
	return n.fire(evJump)
}

// Edit records a field change. Editing a submitted wizard starts a new draft.
func (n *Navigator) Edit() error {
	return n.fire(evEdit)
}

func (n *Navigator) SubmitSucceeded() error {
	if err := n.fire(evSubmitOK); err != nil {
		return err
	}
	n.index = 0
	return nil
}

func (n *Navigator) SubmitFailed() error {
	return n.fire(evSubmitFailed)
}

func (n *Navigator) Reset() error {
	if err := n.fire(evReset); err != nil {
		return err
	}
	n.index = 0
	return nil
}

// Restore places the navigator on a persisted step, clamped into range.
func (n *Navigator) Restore(i int) {
	switch {
	case i < 0:
		i = 0
	case i > n.last:
		i = n.last
	}
	n.phase = PhaseEditing
	n.index = i
}
