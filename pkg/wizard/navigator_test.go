package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_AdvanceStopsAtLastStep(t *testing.T) {
	n := NewNavigator(3)
	for i := 0; i < 2; i++ {
		submit, err := n.Advance()
		require.NoError(t, err)
		assert.False(t, submit)
	}
	assert.Equal(t, 2, n.Index())

	submit, err := n.Advance()
	require.NoError(t, err)
	assert.True(t, submit)
	assert.Equal(t, 2, n.Index(), "index never passes the last step")
	assert.Equal(t, PhaseSubmitting, n.Phase())
}

func TestNavigator_BackNeverBelowZero(t *testing.T) {
	n := NewNavigator(3)
	assert.ErrorIs(t, n.Back(), ErrAtFirstStep)
	assert.Equal(t, 0, n.Index())

	_, _ = n.Advance()
	require.NoError(t, n.Back())
	assert.Equal(t, 0, n.Index())
}

func TestNavigator_JumpTo(t *testing.T) {
	n := NewNavigator(4)
	require.NoError(t, n.JumpTo(3))
	assert.Equal(t, 3, n.Index())
	require.NoError(t, n.JumpTo(1))
	assert.Equal(t, 1, n.Index())

	assert.ErrorIs(t, n.JumpTo(4), ErrStepOutOfRange)
	assert.ErrorIs(t, n.JumpTo(-1), ErrStepOutOfRange)
	assert.Equal(t, 1, n.Index())
}

func TestNavigator_SubmittingBlocksNavigation(t *testing.T) {
	n := NewNavigator(2)
	_, _ = n.Advance()
	submit, err := n.Advance()
	require.NoError(t, err)
	require.True(t, submit)

	_, err = n.Advance()
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.ErrorIs(t, n.Back(), ErrSubmissionInFlight)
	assert.ErrorIs(t, n.JumpTo(0), ErrSubmissionInFlight)
	assert.ErrorIs(t, n.Reset(), ErrSubmissionInFlight)
	assert.NoError(t, n.Edit())
}

func TestNavigator_SubmitOutcomes(t *testing.T) {
	n := NewNavigator(2)
	_, _ = n.Advance()
	_, _ = n.Advance()
	require.NoError(t, n.SubmitFailed())
	assert.Equal(t, PhaseEditing, n.Phase())
	assert.Equal(t, 1, n.Index())

	_, _ = n.Advance()
	require.NoError(t, n.SubmitSucceeded())
	assert.Equal(t, PhaseSubmitted, n.Phase())
	assert.Equal(t, 0, n.Index())

	require.NoError(t, n.Edit())
	assert.Equal(t, PhaseEditing, n.Phase())
}

func TestNavigator_SettleWithoutSubmitIsInvalid(t *testing.T) {
	n := NewNavigator(2)
	assert.ErrorIs(t, n.SubmitSucceeded(), ErrInvalidTransition)
	assert.ErrorIs(t, n.SubmitFailed(), ErrInvalidTransition)
}

func TestNavigator_RestoreClamps(t *testing.T) {
	n := NewNavigator(3)
	n.Restore(10)
	assert.Equal(t, 2, n.Index())
	n.Restore(-4)
	assert.Equal(t, 0, n.Index())
}
