package workitem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// wantEdges mirrors the workflow graph independently of the implementation
// table so a typo in one shows up as a failure here.
var wantEdges = map[State][]State{
	StateBacklog:        {StateReady},
	StateReady:          {StateInProgress},
	StateInProgress:     {StateReadyForReview, StateBlocked},
	StateReadyForReview: {StateInProgress, StatePassedReview, StateBlocked, StateDone},
	StatePassedReview:   {StateDone},
	StateBlocked:        {StateInProgress, StateReadyForReview},
	StateDone:           {},
}

func TestCanTransition_ExhaustiveSweep(t *testing.T) {
	for _, from := range States() {
		allowed := make(map[State]bool)
		for _, to := range wantEdges[from] {
			allowed[to] = true
		}

		for _, to := range States() {
			got := CanTransition(from, to)
			assert.Equal(t, allowed[to], got, "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_SelfLoopsRejected(t *testing.T) {
	for _, s := range States() {
		assert.False(t, CanTransition(s, s), "%s -> %s", s, s)
	}
}

func TestCanTransition_UnknownStates(t *testing.T) {
	assert.False(t, CanTransition(State("bogus"), StateReady))
	assert.False(t, CanTransition(StateReady, State("bogus")))
}

func TestDestinations(t *testing.T) {
	assert.Equal(t,
		[]State{StateInProgress, StatePassedReview, StateBlocked, StateDone},
		Destinations(StateReadyForReview))
	assert.Empty(t, Destinations(StateDone))
	assert.Nil(t, Destinations(State("bogus")))
}

func TestDestinations_MatchGraph(t *testing.T) {
	for _, from := range States() {
		assert.ElementsMatch(t, wantEdges[from], Destinations(from), "state %s", from)
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range States() {
		assert.Equal(t, s == StateDone, s.Terminal(), "state %s", s)
	}
}

func TestValidInitial(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateBacklog, true},
		{StateReady, true},
		{StateInProgress, false},
		{StateReadyForReview, false},
		{StatePassedReview, false},
		{StateBlocked, false},
		{StateDone, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, ValidInitial(tt.state))
		})
	}
}
