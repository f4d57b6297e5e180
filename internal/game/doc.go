// Package game runs a cooperative game of ito.
//
// Every agent holds one secret card between 1 and 100. Each round the agents
// give a one-word hint on the round's theme, then vote to PLAY or WAIT. The
// lowest PLAY voter lays down their card; when nobody plays, one agent asks a
// question and another answers it. The table wins once every card is on the
// table in ascending order and loses on the first card played out of order
// or when the round budget runs out.
//
// # Basic Usage
//
//	g, err := game.New(game.Config{AgentIDs: []string{"alice", "bob"}},
//	    game.WithDefaultAgent(agent.NewScripted(20)))
//	if err != nil {
//	    return err
//	}
//	final, err := g.Run(ctx, nil, false)
//
// # Failures
//
// Phases commit atomically. When an agent returns an error Run stops with an
// *AgentResponseError and keeps every response already collected for the
// phase. Retry asks one agent again and Resume carries on from there:
//
//	var agentErr *game.AgentResponseError
//	if errors.As(err, &agentErr) {
//	    _ = g.Retry(ctx, agentErr.AgentID)
//	    final, err = g.Resume(ctx)
//	}
//
// # Deterministic Testing
//
// Config.Seed fixes the deal and the theme. Passing an initial GameState with
// Hands set skips dealing entirely.
package game
