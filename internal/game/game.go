package game

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/ito/internal/deck"
	"github.com/lox/ito/internal/gameid"
	"github.com/lox/ito/internal/randutil"
	"github.com/lox/ito/internal/themes"
)

// Config holds the run parameters of a game
type Config struct {
	AgentIDs     []string
	HumanAgentID string
	Theme        string
	MaxTurns     int
	Debug        bool
	Reveal       bool
	// Seed drives the deal and theme choice. Zero picks a random seed.
	Seed int64
	// Concurrency bounds parallel agent calls within a phase. Zero means
	// one call per agent at once; 1 asks agents one after another.
	Concurrency int
}

// Option configures a Game
type Option func(*Game)

// WithAgent seats a specific agent implementation under id.
func WithAgent(id string, a Agent) Option {
	return func(g *Game) { g.agents[id] = a }
}

// WithAgents seats several agents at once.
func WithAgents(agents map[string]Agent) Option {
	return func(g *Game) {
		for id, a := range agents {
			g.agents[id] = a
		}
	}
}

// WithDefaultAgent is used for every agent ID without its own agent.
func WithDefaultAgent(a Agent) Option {
	return func(g *Game) { g.defaultAgent = a }
}

// WithHumanAgent seats a for Config.HumanAgentID.
func WithHumanAgent(a Agent) Option {
	return func(g *Game) { g.human = a }
}

// WithLogger sets the logger. Games log nothing by default.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithWaitRoundPolicy replaces the default RotatingPolicy.
func WithWaitRoundPolicy(p WaitRoundPolicy) Option {
	return func(g *Game) { g.policy = p }
}

// WithNarrator sets the subscriber that receives events in verbose runs.
func WithNarrator(sub EventSubscriber) Option {
	return func(g *Game) { g.narrator = sub }
}

// WithSubscriber adds a subscriber that receives events in every run.
func WithSubscriber(sub EventSubscriber) Option {
	return func(g *Game) { g.bus.Subscribe(sub) }
}

// WithOutput sets where the default narrator writes. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(g *Game) { g.out = w }
}

// Game is the handle for running games with a fixed seating. It runs the
// phase state machine over a GameState it owns exclusively.
type Game struct {
	cfg          Config
	agents       map[string]Agent
	defaultAgent Agent
	human        Agent
	policy       WaitRoundPolicy
	coordinator  *Coordinator
	bus          EventBus
	narrator     EventSubscriber
	// active narrates the current run: narrator, or a line narrator built
	// from that run's flags.
	active EventSubscriber
	out          io.Writer
	baseLogger   *log.Logger
	logger       *log.Logger
	rng          *rand.Rand

	state     *GameState
	phase     Phase
	pending   pending
	published int
	verbose   bool
}

// New validates cfg and builds a game handle.
func New(cfg Config, opts ...Option) (*Game, error) {
	if err := validateAgentIDs(cfg.AgentIDs); err != nil {
		return nil, err
	}
	if cfg.HumanAgentID != "" && !slices.Contains(cfg.AgentIDs, cfg.HumanAgentID) {
		return nil, &ConfigurationError{Field: "human_agent_id", Reason: fmt.Sprintf("%q is not one of the agents", cfg.HumanAgentID)}
	}
	if cfg.MaxTurns < 0 {
		return nil, &ConfigurationError{Field: "max_turns", Reason: "must be positive"}
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if cfg.Concurrency < 0 {
		return nil, &ConfigurationError{Field: "concurrency", Reason: "must not be negative"}
	}

	g := &Game{
		cfg:    cfg,
		agents: make(map[string]Agent),
		bus:    NewEventBus(),
		out:    os.Stdout,
		rng:    randutil.New(randutil.Seed(cfg.Seed)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	g.baseLogger = g.logger

	seated, err := g.seat(cfg.AgentIDs)
	if err != nil {
		return nil, err
	}
	limit := cfg.Concurrency
	if limit == 0 {
		limit = len(cfg.AgentIDs)
	}
	g.coordinator = NewCoordinator(seated, g.policy, limit, g.logger)
	return g, nil
}

func validateAgentIDs(ids []string) error {
	if len(ids) == 0 {
		return &ConfigurationError{Field: "agent_ids", Reason: "at least one agent is required"}
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return &ConfigurationError{Field: "agent_ids", Reason: "agent IDs must not be blank"}
		}
		if seen[id] {
			return &ConfigurationError{Field: "agent_ids", Reason: fmt.Sprintf("duplicate agent %q", id)}
		}
		seen[id] = true
	}
	return nil
}

// seat resolves the Agent behind every ID.
func (g *Game) seat(ids []string) (map[string]Agent, error) {
	seated := make(map[string]Agent, len(ids))
	for _, id := range ids {
		switch {
		case id == g.cfg.HumanAgentID && g.human != nil:
			seated[id] = g.human
		case g.agents[id] != nil:
			seated[id] = g.agents[id]
		case g.defaultAgent != nil:
			seated[id] = g.defaultAgent
		default:
			return nil, &ConfigurationError{Field: "agents", Reason: fmt.Sprintf("no agent available for %q", id)}
		}
	}
	return seated, nil
}

// Run sets up a new game and drives it to TERMINAL. A non-nil initial state
// may pre-seed the agents, complete hands, a theme override and history.
// On an agent failure or cancellation it returns the state as of the last
// committed phase together with the error; the game can then be continued
// with Retry and Resume.
func (g *Game) Run(ctx context.Context, initial *GameState, verbose bool) (*GameState, error) {
	state, err := g.setup(initial)
	if err != nil {
		return nil, err
	}
	g.state = state
	g.phase = PhaseSetup
	g.pending.clear()
	g.published = 0
	g.verbose = verbose
	g.active = g.narrator
	if g.active == nil {
		g.active = &lineNarrator{w: g.out, debug: state.Debug, reveal: state.Reveal}
	}
	g.logger = g.baseLogger.With("game", state.ID)
	g.coordinator.logger = g.logger.WithPrefix("coordinator")

	g.logger.Info("Game starting", "agents", len(state.Agents), "theme", state.Theme, "max_turns", state.MaxTurns)
	g.publish(NewGameStartEvent(state.Clone()))
	g.publishRecords()
	g.phase = Next(PhaseSetup, state)
	return g.Resume(ctx)
}

// Resume continues a game that stopped on an error. Responses collected
// before the error are not requested again.
func (g *Game) Resume(ctx context.Context) (*GameState, error) {
	if g.state == nil {
		return nil, ErrNotSuspended
	}
	if g.phase == PhaseTerminal {
		return g.State(), ErrGameOver
	}

	for g.phase != PhaseTerminal {
		if err := ctx.Err(); err != nil {
			g.logger.Warn("Game interrupted", "phase", g.phase, "error", err)
			return g.State(), err
		}
		if CheckBudget(g.state) {
			g.publishRecords()
			g.phase = PhaseTerminal
			break
		}

		g.logger.Debug("Entering phase", "phase", g.phase, "turn", g.state.TurnCount)
		g.publish(NewPhaseEvent(g.phase, g.state.TurnCount))
		if err := g.step(ctx); err != nil {
			return g.State(), err
		}
		g.publishRecords()
		g.phase = Next(g.phase, g.state)
	}

	g.logger.Info("Game finished", "status", g.state.Status, "played", g.state.PlayedCards, "turns", g.state.TurnCount)
	g.publish(NewGameEndEvent(g.state.Clone()))
	return g.State(), nil
}

// Retry asks one agent again for the phase the game stopped in. The game
// does not advance; call Resume afterwards.
func (g *Game) Retry(ctx context.Context, agentID string) error {
	if g.state == nil {
		return ErrNotSuspended
	}
	if g.phase == PhaseTerminal {
		return ErrGameOver
	}
	switch g.phase {
	case PhaseSpeaking, PhaseVoting, PhaseWaitRound:
		g.pending.begin(g.phase, g.state.TurnCount)
		if g.phase == PhaseWaitRound && g.pending.asker == "" {
			g.pending.asker, g.pending.answerer = g.coordinator.selectSpeakers(g.state)
		}
	default:
		return ErrNotSuspended
	}
	return g.coordinator.retry(ctx, g.state, &g.pending, agentID)
}

func (g *Game) step(ctx context.Context) error {
	s := g.state
	switch g.phase {
	case PhaseSpeaking:
		return g.coordinator.Speak(ctx, s, &g.pending)
	case PhaseVoting:
		return g.coordinator.CollectVotes(ctx, s, &g.pending)
	case PhaseExecutePlay:
		illegal := g.coordinator.ExecutePlay(s)
		Evaluate(s, illegal)
	case PhaseWaitRound:
		if err := g.coordinator.WaitRound(ctx, s, &g.pending); err != nil {
			return err
		}
		Evaluate(s, false)
	}
	return nil
}

// State returns a copy of the current state, or nil before the first run.
func (g *Game) State() *GameState {
	return g.state.Clone()
}

// Phase returns the phase the game is in or stopped in.
func (g *Game) Phase() Phase {
	return g.phase
}

func (g *Game) setup(initial *GameState) (*GameState, error) {
	if initial == nil {
		initial = &GameState{}
	}

	agents := slices.Clone(g.cfg.AgentIDs)
	if len(initial.Agents) > 0 {
		if err := validateAgentIDs(initial.Agents); err != nil {
			return nil, err
		}
		agents = slices.Clone(initial.Agents)
	}
	seated, err := g.seat(agents)
	if err != nil {
		return nil, err
	}
	g.coordinator.agents = seated

	var hands map[string]int
	var remaining []int
	if presetHands(initial.Hands, agents) {
		hands = make(map[string]int, len(agents))
		held := make([]int, 0, len(agents))
		for _, id := range agents {
			hands[id] = initial.Hands[id]
			held = append(held, initial.Hands[id])
		}
		remaining = deck.NewDeckWithout(g.rng, held).Cards()
	} else {
		hands, remaining, err = deck.Deal(g.rng, agents)
		if err != nil {
			return nil, err
		}
	}

	override := strings.TrimSpace(initial.ThemeOverride)
	theme := override
	if theme == "" {
		theme = g.cfg.Theme
	}
	if theme == "" {
		theme = themes.Pick(g.rng)
	}

	maxTurns := g.cfg.MaxTurns
	if initial.MaxTurns > 0 {
		maxTurns = initial.MaxTurns
	}

	id := initial.ID
	if id == "" {
		if id, err = gameid.GenerateFromReader(randutil.Reader(g.rng)); err != nil {
			return nil, err
		}
	}

	state := &GameState{
		ID:                id,
		Theme:             theme,
		ThemeOverride:     override,
		Deck:              remaining,
		Hands:             hands,
		Agents:            agents,
		FinishedAgents:    []string{},
		PlayedCards:       []int{},
		Utterances:        make(map[string]string),
		Votes:             make(map[string]Vote),
		Status:            StatusActive,
		MaxTurns:          maxTurns,
		Debug:             g.cfg.Debug || initial.Debug,
		Reveal:            g.cfg.Reveal || initial.Reveal,
		SpeakerReasonings: make(map[string]string),
		EstimatorThoughts: make(map[string]string),
	}
	if len(initial.History) > 0 {
		state.History = slices.Clone(initial.History)
	} else {
		state.appendRecord(Record{Kind: RecordStart, Text: theme})
	}
	return state, nil
}

// presetHands reports whether hands deals exactly one distinct, in-range card
// to every agent.
func presetHands(hands map[string]int, agents []string) bool {
	if len(hands) != len(agents) {
		return false
	}
	seen := make(map[int]bool, len(hands))
	for _, id := range agents {
		v, ok := hands[id]
		if !ok || v < deck.MinValue || v > deck.MaxValue || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

func (g *Game) publish(event GameEvent) {
	g.bus.Publish(event)
	if !g.verbose {
		return
	}
	g.active.OnEvent(event)
}

// publishRecords publishes history records appended since the last call.
func (g *Game) publishRecords() {
	for ; g.published < len(g.state.History); g.published++ {
		g.publish(NewRecordEvent(g.state.History[g.published]))
	}
}

// lineNarrator prints history lines as plain text. Used for verbose runs
// when no narrator was configured.
type lineNarrator struct {
	w      io.Writer
	debug  bool
	reveal bool
}

func (n *lineNarrator) OnEvent(event GameEvent) {
	switch e := event.(type) {
	case GameStartEvent:
		if n.reveal {
			for _, id := range e.State.Agents {
				fmt.Fprintf(n.w, "%s holds %d\n", id, e.State.Hands[id])
			}
		}
	case PhaseEvent:
		if n.debug {
			fmt.Fprintf(n.w, "--- %s ---\n", e.Phase)
		}
	case RecordEvent:
		fmt.Fprintln(n.w, e.Record.String())
	case GameEndEvent:
		fmt.Fprintf(n.w, "Status: %s\n", e.State.Status)
	}
}
