package game

import (
	"context"
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/ito/internal/deck"
)

const (
	// SilentUtterance stands in for an empty hint or answer.
	SilentUtterance = "(silent)"
	// ModeratorQuestion is asked when the designated agent has no question.
	ModeratorQuestion = "How strong or large is the image behind each of your words?"
)

// WaitRoundPolicy picks who asks and who answers when everyone waits.
type WaitRoundPolicy interface {
	Select(s *GameState) (asker, answerer string)
}

// RotatingPolicy rotates the asker through the active agents by turn and lets
// the next active agent answer. A lone agent answers its own question.
type RotatingPolicy struct{}

func (RotatingPolicy) Select(s *GameState) (string, string) {
	active := s.ActiveAgents()
	if len(active) == 0 {
		return "", ""
	}
	i := s.TurnCount % len(active)
	return active[i], active[(i+1)%len(active)]
}

// pending holds the responses gathered so far for the phase in progress.
// Nothing in it touches GameState until every response is in.
type pending struct {
	phase      Phase
	turn       int
	utterances map[string]Utterance
	decisions  map[string]Decision

	asker, answerer string
	question        *string
	answer          *string
}

func (p *pending) begin(phase Phase, turn int) {
	if p.phase == phase && p.turn == turn {
		return
	}
	*p = pending{
		phase:      phase,
		turn:       turn,
		utterances: make(map[string]Utterance),
		decisions:  make(map[string]Decision),
	}
}

func (p *pending) clear() {
	*p = pending{}
}

// Coordinator runs one phase's work across the active agents and merges the
// results into the state.
type Coordinator struct {
	agents      map[string]Agent
	policy      WaitRoundPolicy
	concurrency int
	logger      *log.Logger
}

// NewCoordinator creates a coordinator. concurrency bounds parallel agent
// calls within a phase; zero or less means unbounded.
func NewCoordinator(agents map[string]Agent, policy WaitRoundPolicy, concurrency int, logger *log.Logger) *Coordinator {
	if policy == nil {
		policy = RotatingPolicy{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Coordinator{
		agents:      agents,
		policy:      policy,
		concurrency: concurrency,
		logger:      logger.WithPrefix("coordinator"),
	}
}

// collect calls every agent in ids concurrently. Results land in slots by
// index so completion order never matters.
func collect[T any](ctx context.Context, limit int, ids []string, call func(context.Context, string) (T, error)) ([]T, []error) {
	results := make([]T, len(ids))
	errs := make([]error, len(ids))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, id := range ids {
		g.Go(func() error {
			results[i], errs[i] = call(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return results, errs
}

func (c *Coordinator) firstError(ctx context.Context, phase Phase, ids []string, errs []error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i, err := range errs {
		if err != nil {
			c.logger.Warn("Agent failed to respond", "agent", ids[i], "phase", phase, "error", err)
			return &AgentResponseError{AgentID: ids[i], Phase: phase, Err: err}
		}
	}
	return nil
}

// Speak asks every active agent for a hint. Agents whose hint is already
// pending are not asked again.
func (c *Coordinator) Speak(ctx context.Context, s *GameState, p *pending) error {
	p.begin(PhaseSpeaking, s.TurnCount)
	active := s.ActiveAgents()
	history := s.HistoryLines()

	var missing []string
	for _, id := range active {
		if _, ok := p.utterances[id]; !ok {
			missing = append(missing, id)
		}
	}
	results, errs := collect(ctx, c.concurrency, missing, func(ctx context.Context, id string) (Utterance, error) {
		return c.requestUtterance(ctx, s, id, history)
	})
	for i, id := range missing {
		if errs[i] == nil {
			p.utterances[id] = results[i]
		}
	}
	if err := c.firstError(ctx, PhaseSpeaking, missing, errs); err != nil {
		return err
	}

	s.Utterances = make(map[string]string, len(active))
	if s.SpeakerReasonings == nil {
		s.SpeakerReasonings = make(map[string]string)
	}
	for _, id := range active {
		u := p.utterances[id]
		s.Utterances[id] = u.Text
		s.SpeakerReasonings[id] = u.Reasoning
		s.appendRecord(Record{Kind: RecordUtterance, AgentID: id, Text: u.Text})
	}
	p.clear()
	return nil
}

func (c *Coordinator) requestUtterance(ctx context.Context, s *GameState, id string, history []string) (Utterance, error) {
	u, err := c.agents[id].Utterance(ctx, UtteranceRequest{
		AgentID: id,
		Card:    s.Hands[id],
		Theme:   s.Theme,
		History: history,
	})
	if err != nil {
		return Utterance{}, err
	}
	u.Text = strings.TrimSpace(u.Text)
	if u.Text == "" {
		u.Text = SilentUtterance
	}
	c.logger.Debug("Utterance", "agent", id, "text", u.Text)
	return u, nil
}

// CollectVotes asks every active agent to PLAY or WAIT.
func (c *Coordinator) CollectVotes(ctx context.Context, s *GameState, p *pending) error {
	p.begin(PhaseVoting, s.TurnCount)
	active := s.ActiveAgents()
	history := s.HistoryLines()

	var missing []string
	for _, id := range active {
		if _, ok := p.decisions[id]; !ok {
			missing = append(missing, id)
		}
	}
	results, errs := collect(ctx, c.concurrency, missing, func(ctx context.Context, id string) (Decision, error) {
		return c.requestVote(ctx, s, id, active, history)
	})
	for i, id := range missing {
		if errs[i] == nil {
			p.decisions[id] = results[i]
		}
	}
	if err := c.firstError(ctx, PhaseVoting, missing, errs); err != nil {
		return err
	}

	s.Votes = make(map[string]Vote, len(active))
	if s.EstimatorThoughts == nil {
		s.EstimatorThoughts = make(map[string]string)
	}
	for _, id := range active {
		d := p.decisions[id]
		s.Votes[id] = d.Vote
		s.EstimatorThoughts[id] = d.Thought
		s.appendRecord(Record{Kind: RecordVote, AgentID: id, Text: string(d.Vote)})
	}
	p.clear()
	return nil
}

func (c *Coordinator) requestVote(ctx context.Context, s *GameState, id string, active, history []string) (Decision, error) {
	others := make(map[string]string, len(active))
	for _, other := range active {
		if other == id {
			continue
		}
		if word, ok := s.Utterances[other]; ok {
			others[other] = word
		}
	}
	d, err := c.agents[id].Vote(ctx, VoteRequest{
		AgentID:      id,
		Card:         s.Hands[id],
		Theme:        s.Theme,
		LastPlayed:   s.LastPlayedCard,
		OwnUtterance: s.Utterances[id],
		Utterances:   others,
		History:      history,
	})
	if err != nil {
		return Decision{}, err
	}
	d.Vote = ParseVote(string(d.Vote))
	c.logger.Debug("Vote", "agent", id, "vote", d.Vote)
	return d, nil
}

// ExecutePlay resolves exactly one play: the PLAY voter holding the lowest
// card, ties broken by seating order. It reports whether the play was out of
// order. The round counter advances either way.
func (c *Coordinator) ExecutePlay(s *GameState) (illegal bool) {
	player, card := "", 0
	for _, id := range s.Agents {
		if s.Votes[id] != VotePlay {
			continue
		}
		v, ok := s.Hands[id]
		if !ok {
			continue
		}
		if player == "" || v < card {
			player, card = id, v
		}
	}
	if player == "" {
		return false
	}

	delete(s.Hands, player)
	var reason string
	if last, ok := s.LastPlayed(); ok && card < last {
		reason = fmt.Sprintf("%d is lower than the last played card %d", card, last)
	} else if low, ok := deck.MinOutstanding(s.Hands); ok && low < card {
		holder, _ := deck.Holder(s.Hands, low)
		reason = fmt.Sprintf("%s still holds %d", holder, low)
	}

	s.PlayedCards = append(s.PlayedCards, card)
	s.LastPlayedCard = card
	s.Votes = make(map[string]Vote)
	delete(s.Utterances, player)

	if reason != "" {
		c.logger.Info("Out of order play", "agent", player, "card", card, "reason", reason)
		s.appendRecord(Record{Kind: RecordIllegalPlay, AgentID: player, Value: card, Text: reason})
		illegal = true
	} else {
		c.logger.Info("Card played", "agent", player, "card", card)
		s.FinishedAgents = append(s.FinishedAgents, player)
		s.appendRecord(Record{Kind: RecordPlay, AgentID: player, Value: card})
	}
	s.TurnCount++
	return illegal
}

// WaitRound runs the question and answer exchange after an all-WAIT vote,
// then clears the round's hints and votes. The question is kept pending if
// the answer fails, so a retry only re-asks the answerer.
func (c *Coordinator) WaitRound(ctx context.Context, s *GameState, p *pending) error {
	p.begin(PhaseWaitRound, s.TurnCount)
	if p.asker == "" {
		p.asker, p.answerer = c.selectSpeakers(s)
	}
	if p.question == nil {
		if err := c.askQuestion(ctx, s, p); err != nil {
			return err
		}
	}
	if p.answer == nil {
		if err := c.answerQuestion(ctx, s, p); err != nil {
			return err
		}
	}

	s.appendRecord(Record{Kind: RecordWait})
	s.appendRecord(Record{Kind: RecordQuestion, AgentID: p.asker, Text: *p.question})
	s.appendRecord(Record{Kind: RecordAnswer, AgentID: p.answerer, Text: *p.answer})
	s.Utterances = make(map[string]string)
	s.Votes = make(map[string]Vote)
	s.TurnCount++
	p.clear()
	return nil
}

func (c *Coordinator) selectSpeakers(s *GameState) (string, string) {
	asker, answerer := c.policy.Select(s)
	active := s.ActiveAgents()
	if !containsID(active, asker) || !containsID(active, answerer) {
		c.logger.Warn("Wait round policy picked an inactive agent, rotating instead", "asker", asker, "answerer", answerer)
		return RotatingPolicy{}.Select(s)
	}
	return asker, answerer
}

func (c *Coordinator) discussion(s *GameState, id string) DiscussionContext {
	return DiscussionContext{
		Theme:        s.Theme,
		Card:         s.Hands[id],
		LastPlayed:   s.LastPlayedCard,
		OwnUtterance: s.Utterances[id],
		Utterances:   maps.Clone(s.Utterances),
		History:      s.HistoryLines(),
	}
}

func (c *Coordinator) askQuestion(ctx context.Context, s *GameState, p *pending) error {
	q, err := c.agents[p.asker].Question(ctx, QuestionRequest{
		AgentID:           p.asker,
		DiscussionContext: c.discussion(s, p.asker),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn("Agent failed to ask", "agent", p.asker, "error", err)
		return &AgentResponseError{AgentID: p.asker, Phase: PhaseWaitRound, Err: err}
	}
	q = strings.TrimSpace(q)
	if q == "" {
		q = ModeratorQuestion
	}
	p.question = &q
	return nil
}

func (c *Coordinator) answerQuestion(ctx context.Context, s *GameState, p *pending) error {
	a, err := c.agents[p.answerer].Answer(ctx, AnswerRequest{
		AgentID:           p.answerer,
		Asker:             p.asker,
		Question:          *p.question,
		DiscussionContext: c.discussion(s, p.answerer),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn("Agent failed to answer", "agent", p.answerer, "error", err)
		return &AgentResponseError{AgentID: p.answerer, Phase: PhaseWaitRound, Err: err}
	}
	a = strings.TrimSpace(a)
	if a == "" {
		a = SilentUtterance
	}
	p.answer = &a
	return nil
}

// retry re-invokes a single agent's call for the phase in progress and
// stores the response as pending.
func (c *Coordinator) retry(ctx context.Context, s *GameState, p *pending, agentID string) error {
	if !containsID(s.ActiveAgents(), agentID) {
		return fmt.Errorf("agent %s is not active", agentID)
	}
	switch p.phase {
	case PhaseSpeaking:
		u, err := c.requestUtterance(ctx, s, agentID, s.HistoryLines())
		if err != nil {
			return &AgentResponseError{AgentID: agentID, Phase: p.phase, Err: err}
		}
		p.utterances[agentID] = u
	case PhaseVoting:
		d, err := c.requestVote(ctx, s, agentID, s.ActiveAgents(), s.HistoryLines())
		if err != nil {
			return &AgentResponseError{AgentID: agentID, Phase: p.phase, Err: err}
		}
		p.decisions[agentID] = d
	case PhaseWaitRound:
		switch {
		case p.question == nil && agentID == p.asker:
			return c.askQuestion(ctx, s, p)
		case p.question != nil && p.answer == nil && agentID == p.answerer:
			return c.answerQuestion(ctx, s, p)
		default:
			return fmt.Errorf("agent %s has nothing pending in the wait round", agentID)
		}
	default:
		return ErrNotSuspended
	}
	return nil
}
