package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/lox/ito/internal/agent"
	"github.com/lox/ito/internal/config"
	"github.com/lox/ito/internal/game"
	"github.com/lox/ito/internal/llm"
	"github.com/lox/ito/internal/remote"
)

// seating resolves the agents of a game file.
type seating struct {
	llm      llm.Config
	prompter agent.Prompter
	logger   *log.Logger

	// dial connects to remote agents. Replaced in tests.
	dial func(ctx context.Context, url string, opts ...remote.Option) (*remote.Agent, error)
	// loadState reads replay files.
	loadState func(path string) (*game.GameState, error)
}

func newSeating(cfg llm.Config, prompter agent.Prompter, logger *log.Logger) *seating {
	return &seating{
		llm:       cfg,
		prompter:  prompter,
		logger:    logger,
		dial:      remote.Dial,
		loadState: game.LoadState,
	}
}

// build returns an agent for every agent block, plus the connections to close
// when the game is over.
func (s *seating) build(ctx context.Context, f *config.File) (map[string]game.Agent, []io.Closer, error) {
	agents := make(map[string]game.Agent, len(f.Agents))
	var closers []io.Closer
	fail := func(err error) (map[string]game.Agent, []io.Closer, error) {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, nil, err
	}

	warnedMock := false
	for _, a := range f.Agents {
		logger := s.logger.With("agent", a.ID)
		switch a.Kind {
		case config.KindScripted:
			agents[a.ID] = agent.NewScripted(a.Threshold)

		case config.KindHuman:
			if s.prompter == nil {
				return fail(fmt.Errorf("agent %q: no terminal available for a human player", a.ID))
			}
			agents[a.ID] = agent.NewHuman(s.prompter)

		case config.KindLLM:
			if s.llm.Mock() {
				if !warnedMock {
					s.logger.Warn("No model credentials or ITO_FORCE_MOCK set; model agents use the scripted policy")
					warnedMock = true
				}
				agents[a.ID] = agent.NewScripted(a.Threshold)
				continue
			}
			cfg := s.llm
			if a.Model != "" {
				cfg.Model = a.Model
			}
			client := llm.NewClient(cfg, &http.Client{Timeout: cfg.Timeout})
			agents[a.ID] = llm.NewAgent(client, cfg, logger.WithPrefix("llm"))

		case config.KindRemote:
			timeout, err := a.TimeoutDuration()
			if err != nil {
				return fail(err)
			}
			opts := []remote.Option{remote.WithLogger(logger.WithPrefix("remote"))}
			if timeout > 0 {
				opts = append(opts, remote.WithTimeout(timeout))
			}
			ra, err := s.dial(ctx, a.URL, opts...)
			if err != nil {
				return fail(fmt.Errorf("agent %q: %w", a.ID, err))
			}
			closers = append(closers, ra)
			agents[a.ID] = ra

		case config.KindReplay:
			recorded, err := s.loadState(a.Replay)
			if err != nil {
				return fail(fmt.Errorf("agent %q: %w", a.ID, err))
			}
			agents[a.ID] = agent.NewReplay(recorded.History)

		default:
			return fail(fmt.Errorf("agent %q: unknown kind %q", a.ID, a.Kind))
		}
	}
	return agents, closers, nil
}

func closeAll(logger *log.Logger, closers []io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Debug("Close failed", "error", err)
		}
	}
}
