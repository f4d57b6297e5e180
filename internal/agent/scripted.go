package agent

import (
	"context"
	"fmt"

	"github.com/lox/ito/internal/game"
)

// DefaultThreshold is the card value below which a scripted agent plays.
const DefaultThreshold = 20

const (
	scriptedQuestion = "How would you describe the degree behind your word?"
	scriptedAnswer   = "My word means a strength or size you can picture without thinking hard."
)

// Scripted plays any card below its threshold and waits otherwise. It is the
// stand-in when no model is configured.
type Scripted struct {
	threshold int
}

// NewScripted creates a scripted agent. A threshold of zero or less uses
// DefaultThreshold.
func NewScripted(threshold int) *Scripted {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Scripted{threshold: threshold}
}

// Threshold returns the card value below which the agent plays.
func (s *Scripted) Threshold() int {
	return s.threshold
}

func (s *Scripted) Utterance(ctx context.Context, req game.UtteranceRequest) (game.Utterance, error) {
	if err := ctx.Err(); err != nil {
		return game.Utterance{}, err
	}
	return game.Utterance{
		Text:      fmt.Sprintf("Mock word (%d)", req.Card),
		Reasoning: "Scripted agent, no model configured.",
	}, nil
}

func (s *Scripted) Vote(ctx context.Context, req game.VoteRequest) (game.Decision, error) {
	if err := ctx.Err(); err != nil {
		return game.Decision{}, err
	}
	vote := game.VoteWait
	if req.Card < s.threshold {
		vote = game.VotePlay
	}
	return game.Decision{
		Vote:    vote,
		Thought: fmt.Sprintf("Number is %d, so %s.", req.Card, vote),
	}, nil
}

func (s *Scripted) Question(ctx context.Context, _ game.QuestionRequest) (string, error) {
	return scriptedQuestion, ctx.Err()
}

func (s *Scripted) Answer(ctx context.Context, _ game.AnswerRequest) (string, error) {
	return scriptedAnswer, ctx.Err()
}
