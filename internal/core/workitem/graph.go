package workitem

// legalTransitions is the closed edge set of the workflow. Blocked's outgoing
// edges list both possible return states; the tracker further restricts the
// return to the recorded pre-block state. Done has no outgoing edges.
//
// Ready -> Blocked is deliberately absent: an item cannot be blocked before
// anyone starts work on it. If that ever changes, add the edge here.
var legalTransitions = map[State]map[State]struct{}{
	StateBacklog: {
		StateReady: {},
	},
	StateReady: {
		StateInProgress: {},
	},
	StateInProgress: {
		StateReadyForReview: {},
		StateBlocked:        {},
	},
	StateReadyForReview: {
		StateInProgress:   {},
		StatePassedReview: {},
		StateDone:         {},
		StateBlocked:      {},
	},
	StatePassedReview: {
		StateDone: {},
	},
	StateBlocked: {
		StateInProgress:     {},
		StateReadyForReview: {},
	},
	StateDone: {},
}

// CanTransition reports whether the edge from -> to exists in the workflow
// graph. It does not know about pre-block bookkeeping; that check belongs to
// the tracker, which has the item's history.
func CanTransition(from, to State) bool {
	dests, ok := legalTransitions[from]
	if !ok {
		return false
	}
	_, ok = dests[to]
	return ok
}

// Destinations returns the allowed target states for from, in workflow order.
func Destinations(from State) []State {
	dests, ok := legalTransitions[from]
	if !ok {
		return nil
	}
	out := make([]State, 0, len(dests))
	for _, s := range States() {
		if _, ok := dests[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// ValidInitial reports whether s is an allowed creation state. Items enter
// the tracker in Backlog, or directly in Ready when already triaged.
func ValidInitial(s State) bool {
	return s == StateBacklog || s == StateReady
}
