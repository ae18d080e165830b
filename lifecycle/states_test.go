package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StateActive, StateInService, true},
		{StateActive, StateDisposed, true},
		{StateActive, StateDemo, false},
		{StateInService, StateActive, true},
		{StateInService, StateCondemned, false},
		{StateSpare, StateInService, true},
		{StateSpare, StateDisposed, false},
		{StateUnderService, StateCondemned, true},
		{StateDemo, StateDisposed, true},
		{StateDemo, StateSpare, false},
		{StateCondemned, StateDisposed, true},
		{StateCondemned, StateActive, false},
		{"Bogus", StateActive, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestDisposedIsTerminal(t *testing.T) {
	for _, to := range []string{
		StateActive, StateInService, StateSpare, StateUnderService,
		StateDemo, StateCondemned, StateDisposed,
	} {
		err := ValidateTransition(StateDisposed, to)
		require.Error(t, err, "Disposed -> %s must fail", to)

		var invalid *ErrInvalidTransition
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, StateDisposed, invalid.From)
		assert.Equal(t, to, invalid.To)
	}
	assert.Empty(t, AllowedTransitions(StateDisposed))
}

func TestValidateTransitionAllowed(t *testing.T) {
	assert.NoError(t, ValidateTransition(StateActive, StateInService))
	assert.NoError(t, ValidateTransition(StateUnderService, StateActive))
}

func TestIsValidState(t *testing.T) {
	assert.True(t, IsValidState(StateSpare))
	assert.True(t, IsValidState(StateDisposed))
	assert.False(t, IsValidState("Retired"))
	assert.False(t, IsValidState(""))
}

func TestAllowedTransitionsIsACopy(t *testing.T) {
	got := AllowedTransitions(StateSpare)
	require.Equal(t, []string{StateActive, StateInService}, got)

	got[0] = "Mutated"
	assert.Equal(t, []string{StateActive, StateInService}, AllowedTransitions(StateSpare))
}
