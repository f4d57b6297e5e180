package game

// BudgetExhausted reports whether the round budget ran out with agents still
// holding cards.
func BudgetExhausted(s *GameState) bool {
	return s.MaxTurns > 0 && s.TurnCount >= s.MaxTurns && len(s.FinishedAgents) < len(s.Agents)
}

// Evaluate settles the status after a resolved round. It only ever moves an
// ACTIVE game to SUCCESS or FAILED and appends one record when it does.
func Evaluate(s *GameState, illegalPlay bool) Status {
	if s.Status.Terminal() {
		return s.Status
	}
	switch {
	case illegalPlay:
		s.Status = StatusFailed
		s.appendRecord(Record{Kind: RecordFailure, Text: "a card was played out of order"})
	case len(s.Agents) > 0 && len(s.FinishedAgents) == len(s.Agents):
		s.Status = StatusSuccess
		s.appendRecord(Record{Kind: RecordSuccess})
	case BudgetExhausted(s):
		s.Status = StatusFailed
		s.appendRecord(Record{Kind: RecordStagnation})
	}
	return s.Status
}

// CheckBudget fails an ACTIVE game whose round budget is spent. It runs at
// the top of every phase and reports whether the game was stopped.
func CheckBudget(s *GameState) bool {
	if s.Status.Terminal() || !BudgetExhausted(s) {
		return false
	}
	s.Status = StatusFailed
	s.appendRecord(Record{Kind: RecordStagnation})
	return true
}
