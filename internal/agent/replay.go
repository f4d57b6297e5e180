package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lox/ito/internal/game"
)

// ErrReplayExhausted is returned when a replayed agent is asked for more
// responses than the recording holds.
var ErrReplayExhausted = errors.New("recording has no more responses")

type script struct {
	utterances []string
	votes      []game.Vote
	questions  []string
	answers    []string
}

// Replay answers every call from a recorded history, per agent and in the
// order the responses were recorded. One Replay serves every seat.
type Replay struct {
	mu      sync.Mutex
	scripts map[string]*script
}

// NewReplay builds a replay from the records of a finished game.
func NewReplay(history []game.Record) *Replay {
	r := &Replay{scripts: make(map[string]*script)}
	for _, rec := range history {
		if rec.AgentID == "" {
			continue
		}
		s := r.scripts[rec.AgentID]
		if s == nil {
			s = &script{}
			r.scripts[rec.AgentID] = s
		}
		switch rec.Kind {
		case game.RecordUtterance:
			s.utterances = append(s.utterances, rec.Text)
		case game.RecordVote:
			s.votes = append(s.votes, game.ParseVote(rec.Text))
		case game.RecordQuestion:
			s.questions = append(s.questions, rec.Text)
		case game.RecordAnswer:
			s.answers = append(s.answers, rec.Text)
		}
	}
	return r
}

func pop[T any](queue *[]T, agentID, what string) (T, error) {
	var zero T
	if len(*queue) == 0 {
		return zero, fmt.Errorf("%s %s: %w", agentID, what, ErrReplayExhausted)
	}
	v := (*queue)[0]
	*queue = (*queue)[1:]
	return v, nil
}

func (r *Replay) script(agentID string) *script {
	s := r.scripts[agentID]
	if s == nil {
		s = &script{}
		r.scripts[agentID] = s
	}
	return s
}

func (r *Replay) Utterance(_ context.Context, req game.UtteranceRequest) (game.Utterance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	text, err := pop(&r.script(req.AgentID).utterances, req.AgentID, "utterance")
	return game.Utterance{Text: text}, err
}

func (r *Replay) Vote(_ context.Context, req game.VoteRequest) (game.Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vote, err := pop(&r.script(req.AgentID).votes, req.AgentID, "vote")
	return game.Decision{Vote: vote}, err
}

func (r *Replay) Question(_ context.Context, req game.QuestionRequest) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pop(&r.script(req.AgentID).questions, req.AgentID, "question")
}

func (r *Replay) Answer(_ context.Context, req game.AnswerRequest) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pop(&r.script(req.AgentID).answers, req.AgentID, "answer")
}

// ReplayState returns the initial state and agent needed to play a recorded
// game again: the same seating, hands and theme.
func ReplayState(recorded *game.GameState) (*game.GameState, *Replay) {
	initial := &game.GameState{
		Agents:        append([]string(nil), recorded.Agents...),
		Hands:         recorded.DealtHands(),
		ThemeOverride: recorded.Theme,
		MaxTurns:      recorded.MaxTurns,
	}
	return initial, NewReplay(recorded.History)
}
