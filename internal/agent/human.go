package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lox/ito/internal/game"
)

// historyTail is how many history lines a human sees with each prompt.
const historyTail = 8

// Prompt is one question put to a person.
type Prompt struct {
	Title       string
	Context     []string
	Placeholder string
}

// Prompter asks a person for a line of input.
type Prompter interface {
	Prompt(ctx context.Context, p Prompt) (string, error)
}

// Human seats a person behind a Prompter. Blank hints become silence and
// anything other than PLAY is a WAIT.
type Human struct {
	prompter Prompter
}

// NewHuman creates a human agent.
func NewHuman(p Prompter) *Human {
	return &Human{prompter: p}
}

func (h *Human) Utterance(ctx context.Context, req game.UtteranceRequest) (game.Utterance, error) {
	text, err := h.prompter.Prompt(ctx, Prompt{
		Title:       fmt.Sprintf("%s, your card is %d. Theme: %s", req.AgentID, req.Card, req.Theme),
		Context:     tail(req.History),
		Placeholder: "one word or short phrase for your card",
	})
	if err != nil {
		return game.Utterance{}, err
	}
	return game.Utterance{Text: strings.TrimSpace(text)}, nil
}

func (h *Human) Vote(ctx context.Context, req game.VoteRequest) (game.Decision, error) {
	lines := []string{fmt.Sprintf("Last played: %s", lastPlayed(req.LastPlayed))}
	lines = append(lines, hints(req.Utterances)...)
	text, err := h.prompter.Prompt(ctx, Prompt{
		Title:       fmt.Sprintf("%s, your card is %d and you said %q. PLAY or WAIT?", req.AgentID, req.Card, req.OwnUtterance),
		Context:     lines,
		Placeholder: "PLAY or WAIT",
	})
	if err != nil {
		return game.Decision{}, err
	}
	return game.Decision{Vote: game.ParseVote(text)}, nil
}

func (h *Human) Question(ctx context.Context, req game.QuestionRequest) (string, error) {
	lines := append(hints(req.Utterances), tail(req.History)...)
	text, err := h.prompter.Prompt(ctx, Prompt{
		Title:       fmt.Sprintf("%s, everyone waited. Ask the table one question (no numbers).", req.AgentID),
		Context:     lines,
		Placeholder: "leave blank to let the moderator ask",
	})
	return strings.TrimSpace(text), err
}

func (h *Human) Answer(ctx context.Context, req game.AnswerRequest) (string, error) {
	text, err := h.prompter.Prompt(ctx, Prompt{
		Title:       fmt.Sprintf("%s asks: %s", req.Asker, req.Question),
		Context:     []string{fmt.Sprintf("Your card is %d and your word was %q.", req.Card, req.OwnUtterance)},
		Placeholder: "answer without saying your number",
	})
	return strings.TrimSpace(text), err
}

func tail(lines []string) []string {
	if len(lines) > historyTail {
		return lines[len(lines)-historyTail:]
	}
	return lines
}

func lastPlayed(v int) string {
	if v == 0 {
		return "none"
	}
	return fmt.Sprint(v)
}

func hints(utterances map[string]string) []string {
	ids := make([]string, 0, len(utterances))
	for id := range utterances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = fmt.Sprintf("%s said %q", id, utterances[id])
	}
	return lines
}
