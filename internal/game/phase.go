package game

// Phase is a node of the game's state machine
type Phase string

const (
	PhaseSetup       Phase = "SETUP"
	PhaseSpeaking    Phase = "SPEAKING"
	PhaseVoting      Phase = "VOTING"
	PhaseExecutePlay Phase = "EXECUTE_PLAY"
	PhaseWaitRound   Phase = "WAIT_ROUND"
	PhaseTerminal    Phase = "TERMINAL"
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// Next is the transition function of the state machine. It is pure: it only
// reads the state that the phase just committed.
//
//	SETUP        -> SPEAKING
//	SPEAKING     -> VOTING
//	VOTING       -> EXECUTE_PLAY if anyone voted PLAY, else WAIT_ROUND
//	EXECUTE_PLAY -> SPEAKING
//	WAIT_ROUND   -> VOTING
//
// Any phase moves to TERMINAL once the status has left ACTIVE.
func Next(p Phase, s *GameState) Phase {
	if p == PhaseTerminal || s.Status.Terminal() {
		return PhaseTerminal
	}
	switch p {
	case PhaseSetup:
		return PhaseSpeaking
	case PhaseSpeaking:
		return PhaseVoting
	case PhaseVoting:
		for _, v := range s.Votes {
			if v == VotePlay {
				return PhaseExecutePlay
			}
		}
		return PhaseWaitRound
	case PhaseExecutePlay:
		return PhaseSpeaking
	case PhaseWaitRound:
		return PhaseVoting
	}
	return PhaseTerminal
}

// CanTransitionTo checks if moving from p to target is a legal edge of the
// state machine, regardless of the current state.
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseSetup:       {PhaseSpeaking, PhaseTerminal},
		PhaseSpeaking:    {PhaseVoting, PhaseTerminal},
		PhaseVoting:      {PhaseExecutePlay, PhaseWaitRound, PhaseTerminal},
		PhaseExecutePlay: {PhaseSpeaking, PhaseTerminal},
		PhaseWaitRound:   {PhaseVoting, PhaseTerminal},
	}
	for _, phase := range validTransitions[p] {
		if phase == target {
			return true
		}
	}
	return false
}
