package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/ito/internal/agent"
	"github.com/lox/ito/internal/game"
	"github.com/lox/ito/internal/randutil"
	"github.com/lox/ito/internal/statistics"
	"github.com/lox/ito/internal/store"
)

// SimulateCmd plays many games between scripted agents
type SimulateCmd struct {
	Games     int    `short:"n" default:"100" help:"Number of games"`
	Agents    int    `short:"a" default:"3" help:"Agents per game"`
	Threshold int    `default:"20" help:"Scripted agents play when holding less than this"`
	MaxTurns  int    `default:"20" help:"Turn budget per game"`
	Theme     string `help:"Theme for every game (random when empty)"`
	Seed      int64  `help:"Base seed (0 is random)"`
	Parallel  int    `short:"p" help:"Games run at once (defaults to CPU count)"`
	DB        string `type:"path" help:"SQLite database that receives one row per game"`
}

type simulated struct {
	id     string
	theme  string
	result statistics.GameResult
}

func (c *SimulateCmd) Run(globals *Globals) error {
	logger, closeLog, err := globals.Logger()
	if err != nil {
		return err
	}
	defer closeLog()

	if c.Games <= 0 {
		return fmt.Errorf("games must be positive")
	}
	ids := make([]string, c.Agents)
	for i := range ids {
		ids[i] = fmt.Sprintf("agent-%d", i+1)
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	base := randutil.Seed(c.Seed)
	seeds := randutil.Seeds(base, c.Games)
	logger.Info("Starting simulation", "games", c.Games, "agents", c.Agents, "seed", base)

	parallel := c.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	results := make([]simulated, c.Games)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel)
	for i, seed := range seeds {
		eg.Go(func() error {
			g, err := game.New(game.Config{
				AgentIDs: ids,
				Theme:    c.Theme,
				MaxTurns: c.MaxTurns,
				Seed:     seed,
			}, game.WithDefaultAgent(agent.NewScripted(c.Threshold)))
			if err != nil {
				return err
			}
			final, err := g.Run(ctx, nil, false)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i, seed, err)
			}
			results[i] = simulated{
				id:     final.ID,
				theme:  final.Theme,
				result: statistics.ResultFromState(final, seed),
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r.result)
	}
	if err := stats.Validate(); err != nil {
		return err
	}
	fmt.Print(stats.Report())
	fmt.Printf("Elapsed: %s\n", time.Since(start).Round(time.Millisecond))
	if n := len(stats.FailedSeeds); n > 0 {
		fmt.Printf("First failing seed: %d\n", stats.FailedSeeds[0])
	}

	if c.DB != "" {
		return c.save(context.Background(), results)
	}
	return nil
}

func (c *SimulateCmd) save(ctx context.Context, results []simulated) error {
	db, err := store.Open(ctx, c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now()
	rows := make([]store.Result, len(results))
	for i, r := range results {
		rows[i] = store.Result{GameID: r.id, Theme: r.theme, CreatedAt: now, GameResult: r.result}
	}
	if err := db.SaveAll(ctx, rows); err != nil {
		return err
	}
	fmt.Printf("Saved %d results to %s\n", len(rows), c.DB)
	return nil
}
