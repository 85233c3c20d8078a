package domain

// Phase represents the current phase of a game session.
type Phase string

const (
	PhaseWaiting        Phase = "waiting"         // lobby, players joining
	PhaseRoleAssignment Phase = "role_assignment" // players viewing their secret role
	PhaseQuestion       Phase = "question"        // everyone answers the round's question
	PhaseDebate         Phase = "debate"          // open discussion
	PhaseVoting         Phase = "voting"          // everyone votes on a suspect
	PhaseResults        Phase = "results"         // elimination outcome shown
	PhaseFinished       Phase = "finished"        // terminal, winner decided
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseWaiting, PhaseRoleAssignment, PhaseQuestion, PhaseDebate,
		PhaseVoting, PhaseResults, PhaseFinished:
		return true
	}
	return false
}

// CanTransitionTo checks if a transition from the current phase to the
// target phase is valid. question..results repeat once per round; results
// loops back to question until a win condition ends the game.
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseWaiting:        {PhaseRoleAssignment},
		PhaseRoleAssignment: {PhaseQuestion},
		PhaseQuestion:       {PhaseDebate},
		PhaseDebate:         {PhaseVoting},
		PhaseVoting:         {PhaseResults},
		PhaseResults:        {PhaseQuestion, PhaseFinished},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
