package domain

// Phase represents the current phase of the game round cycle
type Phase string

const (
	PhaseIntermission Phase = "intermission" // No active round, waiting for the next one
	PhaseActive       Phase = "active"       // Round in progress, accepting code
	PhaseFinishing    Phase = "finishing"    // Grace window, stragglers being force-submitted
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from current phase to target phase is valid.
// The machine loops for the lifetime of the process; there is no terminal phase.
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseIntermission: {PhaseActive},
		PhaseActive:       {PhaseFinishing},
		PhaseFinishing:    {PhaseIntermission},
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
