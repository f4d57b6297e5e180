package game

import (
	"maps"
	"slices"
)

// Status is the overall outcome of a game
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Terminal reports whether no further play can happen.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Vote is an agent's decision for the current voting phase
type Vote string

const (
	VotePlay Vote = "PLAY"
	VoteWait Vote = "WAIT"
)

// ParseVote normalises free-form input. Anything other than PLAY is WAIT.
func ParseVote(s string) Vote {
	if Vote(normalizeWord(s)) == VotePlay {
		return VotePlay
	}
	return VoteWait
}

// DefaultMaxTurns is the round budget used when none is configured.
const DefaultMaxTurns = 20

// GameState is the single aggregate mutated while a game runs. The engine
// owns it exclusively; callers only ever see clones.
type GameState struct {
	ID            string `json:"id"`
	Theme         string `json:"theme"`
	ThemeOverride string `json:"theme_override,omitempty"`

	Deck  []int          `json:"deck"`
	Hands map[string]int `json:"hands"`

	// Agents is the seating order. It carries no turn priority but drives
	// every iteration so output is reproducible.
	Agents         []string `json:"agents"`
	FinishedAgents []string `json:"finished_agents"`
	PlayedCards    []int    `json:"played_cards"`
	// LastPlayedCard is 0 until the first play; card values start at 1.
	LastPlayedCard int `json:"last_played_card"`

	Utterances map[string]string `json:"utterances"`
	Votes      map[string]Vote   `json:"votes"`

	TurnCount int      `json:"turn_count"`
	Status    Status   `json:"status"`
	History   []Record `json:"history"`

	MaxTurns int  `json:"max_turns"`
	Debug    bool `json:"debug,omitempty"`
	Reveal   bool `json:"reveal,omitempty"`

	SpeakerReasonings map[string]string `json:"speaker_reasonings,omitempty"`
	EstimatorThoughts map[string]string `json:"estimator_thoughts,omitempty"`
}

// LastPlayed returns the most recent card and whether any card was played.
func (s *GameState) LastPlayed() (int, bool) {
	return s.LastPlayedCard, len(s.PlayedCards) > 0
}

// IsFinished reports whether the agent already played legally.
func (s *GameState) IsFinished(agentID string) bool {
	return slices.Contains(s.FinishedAgents, agentID)
}

// ActiveAgents returns the agents still holding a card, in seating order.
func (s *GameState) ActiveAgents() []string {
	active := make([]string, 0, len(s.Agents))
	for _, id := range s.Agents {
		if s.IsFinished(id) {
			continue
		}
		if _, held := s.Hands[id]; !held {
			continue
		}
		active = append(active, id)
	}
	return active
}

// DealtHands reconstructs the hands as dealt: cards still held plus every
// card that was played, legally or not.
func (s *GameState) DealtHands() map[string]int {
	hands := maps.Clone(s.Hands)
	if hands == nil {
		hands = make(map[string]int)
	}
	for _, r := range s.History {
		if r.Kind == RecordPlay || r.Kind == RecordIllegalPlay {
			hands[r.AgentID] = r.Value
		}
	}
	return hands
}

// HistoryLines renders the history as text, one line per record.
func (s *GameState) HistoryLines() []string {
	lines := make([]string, len(s.History))
	for i, r := range s.History {
		lines[i] = r.String()
	}
	return lines
}

// Reward is the training signal for a finished game: 1 on success,
// otherwise the share of agents that played legally.
func (s *GameState) Reward() float64 {
	if len(s.Agents) == 0 {
		return 0
	}
	if s.Status == StatusSuccess {
		return 1
	}
	return float64(len(s.FinishedAgents)) / float64(len(s.Agents))
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	c := *s
	c.Deck = slices.Clone(s.Deck)
	c.Hands = maps.Clone(s.Hands)
	c.Agents = slices.Clone(s.Agents)
	c.FinishedAgents = slices.Clone(s.FinishedAgents)
	c.PlayedCards = slices.Clone(s.PlayedCards)
	c.Utterances = maps.Clone(s.Utterances)
	c.Votes = maps.Clone(s.Votes)
	c.History = slices.Clone(s.History)
	c.SpeakerReasonings = maps.Clone(s.SpeakerReasonings)
	c.EstimatorThoughts = maps.Clone(s.EstimatorThoughts)
	return &c
}

func (s *GameState) appendRecord(r Record) Record {
	r.Turn = s.TurnCount
	s.History = append(s.History, r)
	return r
}
