package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/lox/ito/internal/agent"
	"github.com/lox/ito/internal/config"
	"github.com/lox/ito/internal/display"
	"github.com/lox/ito/internal/game"
	"github.com/lox/ito/internal/llm"
)

// PlayCmd plays one game
type PlayCmd struct {
	Config      string   `short:"c" default:"ito.hcl" help:"Game file (defaults apply when it does not exist)"`
	Env         []string `default:".env" help:"Dotenv files with model credentials"`
	Theme       string   `short:"t" help:"Theme (random when empty)"`
	MaxTurns    int      `help:"Turn budget"`
	Seed        int64    `help:"Deterministic seed for the deal and theme (0 is random)"`
	Human       string   `help:"Agent ID to play yourself"`
	Concurrency int      `help:"Agents asked at once within a phase (0 is all)"`
	Debug       bool     `help:"Show phases and agents' reasoning"`
	Reveal      bool     `help:"Show every hand at the start"`
	Quiet       bool     `short:"q" help:"Only print the summary"`
	NoColor     bool     `help:"Disable colour output"`
	Out         string   `type:"path" help:"Directory for the game archive"`
	Replay      string   `type:"existingfile" help:"Replay a game archive with the recorded hands and decisions"`
	Retries     int      `default:"1" help:"Times to ask a failing agent again, per failure, before giving up"`
}

// apply lets flags override the game file.
func (c *PlayCmd) apply(f *config.File) {
	if c.Theme != "" {
		f.Game.Theme = c.Theme
	}
	if c.MaxTurns != 0 {
		f.Game.MaxTurns = c.MaxTurns
	}
	if c.Seed != 0 {
		f.Game.Seed = c.Seed
	}
	if c.Human != "" {
		f.Game.Human = c.Human
		for i := range f.Agents {
			if f.Agents[i].ID == c.Human {
				f.Agents[i].Kind = config.KindHuman
			}
		}
	}
	if c.Concurrency != 0 {
		f.Game.Concurrency = c.Concurrency
	}
	f.Game.Debug = f.Game.Debug || c.Debug
	f.Game.Reveal = f.Game.Reveal || c.Reveal
	if c.Out != "" {
		f.Game.ArchiveDir = c.Out
	}
}

func (c *PlayCmd) Run(globals *Globals) error {
	file, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	c.apply(file)
	globals.inherit(file.Game)
	logger, closeLog, err := globals.Logger()
	if err != nil {
		return err
	}
	defer closeLog()

	var initial *game.GameState
	if c.Replay != "" {
		recorded, err := game.LoadState(c.Replay)
		if err != nil {
			return err
		}
		var replay *agent.Replay
		initial, replay = agent.ReplayState(recorded)
		file.Game.Human = ""
		file.Agents = file.Agents[:0]
		for _, id := range recorded.Agents {
			file.Agents = append(file.Agents, config.AgentConfig{ID: id, Kind: config.KindReplay, Replay: c.Replay})
		}
		logger.Info("Replaying game", "game", recorded.ID, "agents", len(recorded.Agents))
		return c.play(logger, file, initial, func(context.Context, *config.File) (map[string]game.Agent, []io.Closer, error) {
			agents := make(map[string]game.Agent, len(recorded.Agents))
			for _, id := range recorded.Agents {
				agents[id] = replay
			}
			return agents, nil, nil
		})
	}

	if err := file.Validate(); err != nil {
		return fmt.Errorf("invalid game file %s: %w", c.Config, err)
	}
	llmCfg, err := llm.LoadConfig(c.Env...)
	if err != nil {
		return err
	}
	var prompter agent.Prompter
	if file.HumanID() != "" {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			prompter = agent.NewTeaPrompter()
		} else {
			prompter = agent.NewLinePrompter(os.Stdin, os.Stdout)
		}
	}
	return c.play(logger, file, initial, newSeating(llmCfg, prompter, logger).build)
}

type buildFunc func(context.Context, *config.File) (map[string]game.Agent, []io.Closer, error)

func (c *PlayCmd) play(logger *log.Logger, file *config.File, initial *game.GameState, build buildFunc) error {
	ctx, cancel := signalContext(logger)
	defer cancel()

	agents, closers, err := build(ctx, file)
	if err != nil {
		return err
	}
	defer closeAll(logger, closers)

	opts := []game.Option{
		game.WithAgents(agents),
		game.WithLogger(logger.WithPrefix("game")),
		game.WithNarrator(display.NewNarrator(os.Stdout,
			display.WithReveal(file.Game.Reveal),
			display.WithDebug(file.Game.Debug),
			display.WithColor(!c.NoColor),
		)),
	}
	if dir := file.Game.ArchiveDir; dir != "" {
		opts = append(opts, game.WithSubscriber(game.NewArchiveWriter(dir, logger.WithPrefix("archive"))))
	}

	g, err := game.New(game.Config{
		AgentIDs:     file.AgentIDs(),
		HumanAgentID: file.HumanID(),
		Theme:        file.Game.Theme,
		MaxTurns:     file.Game.MaxTurns,
		Debug:        file.Game.Debug,
		Reveal:       file.Game.Reveal,
		Seed:         file.Game.Seed,
		Concurrency:  file.Game.Concurrency,
	}, opts...)
	if err != nil {
		return err
	}

	final, err := g.Run(ctx, initial, !c.Quiet)
	final, err = c.retryFailures(ctx, logger, g, final, err)
	if err != nil {
		return err
	}
	if c.Quiet {
		fmt.Print(game.Summary(final))
	}
	return nil
}

// retryFailures asks a failing agent again, up to Retries times for each
// failure, and resumes the game after every successful retry.
func (c *PlayCmd) retryFailures(ctx context.Context, logger *log.Logger, g *game.Game, final *game.GameState, err error) (*game.GameState, error) {
	type failure struct {
		agent string
		phase game.Phase
		turn  int
	}
	var last failure
	attempts := 0
	for err != nil {
		var agentErr *game.AgentResponseError
		if !errors.As(err, &agentErr) || errors.Is(err, agent.ErrPromptCancelled) {
			break
		}
		at := failure{agent: agentErr.AgentID, phase: agentErr.Phase, turn: g.State().TurnCount}
		if at != last {
			last, attempts = at, 0
		}
		if attempts >= c.Retries {
			break
		}
		attempts++

		logger.Warn("Agent failed, asking again", "agent", agentErr.AgentID, "phase", agentErr.Phase, "attempt", attempts, "error", agentErr.Err)
		if err = g.Retry(ctx, agentErr.AgentID); err != nil {
			continue
		}
		final, err = g.Resume(ctx)
	}
	return final, err
}
