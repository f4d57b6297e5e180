package game

import (
	"context"
	"sync"
)

// mockAgent answers from optional hooks and counts calls. Without hooks it
// says the card's value, votes WAIT, and asks and answers nothing.
type mockAgent struct {
	onUtterance func(ctx context.Context, req UtteranceRequest) (Utterance, error)
	onVote      func(ctx context.Context, req VoteRequest) (Decision, error)
	onQuestion  func(ctx context.Context, req QuestionRequest) (string, error)
	onAnswer    func(ctx context.Context, req AnswerRequest) (string, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *mockAgent) count(method, agentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method+":"+agentID]++
}

func (m *mockAgent) Calls(method, agentID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method+":"+agentID]
}

func (m *mockAgent) Utterance(ctx context.Context, req UtteranceRequest) (Utterance, error) {
	m.count("utterance", req.AgentID)
	if m.onUtterance != nil {
		return m.onUtterance(ctx, req)
	}
	return Utterance{Text: "word"}, nil
}

func (m *mockAgent) Vote(ctx context.Context, req VoteRequest) (Decision, error) {
	m.count("vote", req.AgentID)
	if m.onVote != nil {
		return m.onVote(ctx, req)
	}
	return Decision{Vote: VoteWait}, nil
}

func (m *mockAgent) Question(ctx context.Context, req QuestionRequest) (string, error) {
	m.count("question", req.AgentID)
	if m.onQuestion != nil {
		return m.onQuestion(ctx, req)
	}
	return "", nil
}

func (m *mockAgent) Answer(ctx context.Context, req AnswerRequest) (string, error) {
	m.count("answer", req.AgentID)
	if m.onAnswer != nil {
		return m.onAnswer(ctx, req)
	}
	return "", nil
}

// alwaysPlay votes PLAY every round.
func alwaysPlay(context.Context, VoteRequest) (Decision, error) {
	return Decision{Vote: VotePlay}, nil
}

// playBelow votes PLAY when the held card is under threshold.
func playBelow(threshold int) func(context.Context, VoteRequest) (Decision, error) {
	return func(_ context.Context, req VoteRequest) (Decision, error) {
		if req.Card < threshold {
			return Decision{Vote: VotePlay}, nil
		}
		return Decision{Vote: VoteWait}, nil
	}
}

// recorder collects published events.
type recorder struct {
	events []GameEvent
}

func (r *recorder) OnEvent(e GameEvent) {
	r.events = append(r.events, e)
}

func (r *recorder) records() []Record {
	var out []Record
	for _, e := range r.events {
		if re, ok := e.(RecordEvent); ok {
			out = append(out, re.Record)
		}
	}
	return out
}

func recordsOfKind(history []Record, kind RecordKind) []Record {
	var out []Record
	for _, r := range history {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// presetState deals the given hands in the given seating order.
func presetState(ids []string, cards ...int) *GameState {
	hands := make(map[string]int, len(ids))
	for i, id := range ids {
		hands[id] = cards[i]
	}
	return &GameState{Agents: ids, Hands: hands, ThemeOverride: "animals"}
}

// newTestGame seats agent for every ID.
func newTestGame(t interface{ Fatalf(string, ...any) }, ids []string, agent Agent, opts ...Option) *Game {
	opts = append([]Option{WithDefaultAgent(agent)}, opts...)
	g, err := New(Config{AgentIDs: ids, Seed: 7}, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}
