package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lox/ito/internal/agent"
	"github.com/lox/ito/internal/game"
	"github.com/lox/ito/internal/llm"
	"github.com/lox/ito/internal/remote"
)

// BotCmd serves one agent over websocket for remote games
type BotCmd struct {
	Addr      string   `default:":9000" help:"Listen address"`
	Kind      string   `default:"scripted" enum:"scripted,llm" help:"Agent to host (scripted|llm)"`
	Threshold int      `default:"20" help:"Scripted agent plays when holding less than this"`
	Model     string   `help:"Model override for llm agents"`
	Env       []string `default:".env" help:"Dotenv files with model credentials"`
}

func (c *BotCmd) Run(globals *Globals) error {
	logger, closeLog, err := globals.Logger()
	if err != nil {
		return err
	}
	defer closeLog()

	var a game.Agent = agent.NewScripted(c.Threshold)
	if c.Kind == "llm" {
		cfg, err := llm.LoadConfig(c.Env...)
		if err != nil {
			return err
		}
		if c.Model != "" {
			cfg.Model = c.Model
		}
		if cfg.Mock() {
			logger.Warn("No model credentials or ITO_FORCE_MOCK set; hosting the scripted policy")
		} else {
			a = llm.NewAgent(llm.NewClient(cfg, nil), cfg, logger.WithPrefix("llm"))
		}
	}

	host := remote.NewHost(a, logger.WithPrefix("host"))
	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           host.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	logger.Info("Hosting agent", "addr", c.Addr, "kind", c.Kind)
	fmt.Printf("Agent listening on ws://localhost%s/agent\n", c.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
