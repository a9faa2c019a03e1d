package session

// GateState is the top-level navigation verdict derived from the session.
type GateState int

const (
	GateLoading GateState = iota
	GateUnauthenticated
	GateOnboarding
	GateReady
)

func (g GateState) String() string {
	switch g {
	case GateLoading:
		return "loading"
	case GateUnauthenticated:
		return "unauthenticated"
	case GateOnboarding:
		return "onboarding"
	case GateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Gate maps a session to exactly one navigation state. It is a pure
// function with no internal memory: it is re-derived from scratch on every
// observation, so a backend-driven profile edit (say, an admin clearing the
// user type) reverts the UI to onboarding without any transition code.
func Gate(s Session) GateState {
	switch {
	case s.Loading:
		return GateLoading
	case s.Profile == nil:
		return GateUnauthenticated
	case !s.Profile.Complete():
		return GateOnboarding
	default:
		return GateReady
	}
}
