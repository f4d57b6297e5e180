package game

import "fmt"

// RecordKind classifies history records
type RecordKind string

const (
	RecordStart       RecordKind = "start"
	RecordUtterance   RecordKind = "utterance"
	RecordVote        RecordKind = "vote"
	RecordPlay        RecordKind = "play"
	RecordIllegalPlay RecordKind = "illegal_play"
	RecordWait        RecordKind = "wait"
	RecordQuestion    RecordKind = "question"
	RecordAnswer      RecordKind = "answer"
	RecordSuccess     RecordKind = "success"
	RecordFailure     RecordKind = "failure"
	RecordStagnation  RecordKind = "stagnation"
)

// Record is one append-only history entry. Value carries the card for play
// records; Text carries words, questions, votes and failure reasons.
type Record struct {
	Turn    int        `json:"turn"`
	Kind    RecordKind `json:"kind"`
	AgentID string     `json:"agent_id,omitempty"`
	Value   int        `json:"value,omitempty"`
	Text    string     `json:"text,omitempty"`
}

// String renders the record as a human-readable line
func (r Record) String() string {
	switch r.Kind {
	case RecordStart:
		return fmt.Sprintf("Game started. Theme: %s", r.Text)
	case RecordUtterance:
		return fmt.Sprintf("%s says %q", r.AgentID, r.Text)
	case RecordVote:
		return fmt.Sprintf("%s votes %s", r.AgentID, r.Text)
	case RecordPlay:
		return fmt.Sprintf("%s plays %d", r.AgentID, r.Value)
	case RecordIllegalPlay:
		return fmt.Sprintf("%s plays %d, out of order: %s", r.AgentID, r.Value, r.Text)
	case RecordWait:
		return "Everyone waits."
	case RecordQuestion:
		return fmt.Sprintf("Question from %s: %s", r.AgentID, r.Text)
	case RecordAnswer:
		return fmt.Sprintf("%s answers: %s", r.AgentID, r.Text)
	case RecordSuccess:
		return "Success! Every card was played in ascending order."
	case RecordFailure:
		return fmt.Sprintf("Game over: %s", r.Text)
	case RecordStagnation:
		return fmt.Sprintf("Game over: no progress after %d turns.", r.Turn)
	}
	return r.Text
}
