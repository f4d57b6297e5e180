package statistics

import (
	"math"
	"strings"
	"testing"

	"github.com/lox/ito/internal/game"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.SuccessRate() != 0 {
		t.Errorf("Expected success rate of 0 for empty stats, got %f", stats.SuccessRate())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if err := stats.Validate(); err == nil {
		t.Error("Expected empty stats to fail validation")
	}
}

func TestStatistics_MultipleGames(t *testing.T) {
	stats := &Statistics{}

	results := []GameResult{
		{Seed: 1, Agents: 3, Played: 3, Turns: 4, Reward: 1, Outcome: OutcomeSuccess},
		{Seed: 2, Agents: 3, Played: 1, Turns: 2, Reward: 1.0 / 3, Outcome: OutcomeIllegal},
		{Seed: 3, Agents: 3, Played: 0, Turns: 20, Reward: 0, Outcome: OutcomeStagnation},
		{Seed: 4, Agents: 3, Played: 3, Turns: 6, Reward: 1, Outcome: OutcomeSuccess},
	}
	for _, r := range results {
		stats.Add(r)
	}

	if stats.Games != 4 {
		t.Fatalf("Expected 4 games, got %d", stats.Games)
	}
	if got := stats.SuccessRate(); got != 0.5 {
		t.Errorf("Expected success rate 0.5, got %f", got)
	}
	wantMean := (2 + 1.0/3) / 4
	if math.Abs(stats.Mean()-wantMean) > 1e-9 {
		t.Errorf("Expected mean %f, got %f", wantMean, stats.Mean())
	}
	if got := stats.MeanTurns(); got != 8 {
		t.Errorf("Expected mean turns 8, got %f", got)
	}
	if stats.MaxTurns != 20 {
		t.Errorf("Expected max turns 20, got %d", stats.MaxTurns)
	}
	if stats.Illegal != 1 || stats.Stagnations != 1 {
		t.Errorf("Expected 1 illegal and 1 stagnation, got %d and %d", stats.Illegal, stats.Stagnations)
	}
	if len(stats.FailedSeeds) != 2 || stats.FailedSeeds[0] != 2 || stats.FailedSeeds[1] != 3 {
		t.Errorf("Expected failed seeds [2 3], got %v", stats.FailedSeeds)
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Expected valid stats, got %v", err)
	}

	low, high := stats.ConfidenceInterval95()
	if low >= stats.Mean() || high <= stats.Mean() {
		t.Errorf("Expected CI around the mean, got [%f, %f]", low, high)
	}
}

func TestStatistics_Variance(t *testing.T) {
	stats := &Statistics{}
	for _, v := range []float64{0, 1, 0, 1} {
		stats.Add(GameResult{Reward: v, Outcome: OutcomeSuccess})
	}

	// mean 0.5, squared deviations sum to 1, n-1 = 3
	if math.Abs(stats.Variance()-1.0/3) > 1e-9 {
		t.Errorf("Expected variance 1/3, got %f", stats.Variance())
	}
	if math.Abs(stats.StdError()-math.Sqrt(1.0/3)/2) > 1e-9 {
		t.Errorf("Unexpected standard error %f", stats.StdError())
	}
}

func TestStatistics_Percentile(t *testing.T) {
	stats := &Statistics{}
	for _, v := range []float64{0.2, 1, 0, 0.6, 0.4} {
		stats.Add(GameResult{Reward: v, Outcome: OutcomeIllegal})
	}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 0},
		{0.5, 0.4},
		{0.25, 0.2},
		{1, 1},
	}
	for _, tt := range tests {
		if got := stats.Percentile(tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if stats.Median() != 0.4 {
		t.Errorf("Expected median 0.4, got %f", stats.Median())
	}
}

func TestStatistics_ValidateDetectsMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(GameResult{Agents: 2, Played: 2, Reward: 1, Outcome: OutcomeSuccess})
	stats.Successes++

	if err := stats.Validate(); err == nil {
		t.Error("Expected outcome mismatch to fail validation")
	}
}

func TestResultFromState(t *testing.T) {
	tests := []struct {
		name  string
		state *game.GameState
		want  Outcome
	}{
		{
			name: "success",
			state: &game.GameState{
				Agents:         []string{"a", "b"},
				FinishedAgents: []string{"a", "b"},
				Status:         game.StatusSuccess,
				History:        []game.Record{{Kind: game.RecordSuccess}},
			},
			want: OutcomeSuccess,
		},
		{
			name: "illegal play",
			state: &game.GameState{
				Agents:  []string{"a", "b"},
				Hands:   map[string]int{"a": 3},
				Status:  game.StatusFailed,
				History: []game.Record{{Kind: game.RecordIllegalPlay}, {Kind: game.RecordFailure}},
			},
			want: OutcomeIllegal,
		},
		{
			name: "stagnation",
			state: &game.GameState{
				Agents:    []string{"a", "b"},
				Hands:     map[string]int{"a": 3, "b": 7},
				Status:    game.StatusFailed,
				TurnCount: 20,
				History:   []game.Record{{Kind: game.RecordWait}, {Kind: game.RecordStagnation}},
			},
			want: OutcomeStagnation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResultFromState(tt.state, 42)
			if got.Outcome != tt.want {
				t.Errorf("Outcome = %s, want %s", got.Outcome, tt.want)
			}
			if got.Seed != 42 || got.Agents != 2 {
				t.Errorf("Unexpected result %+v", got)
			}
			if got.Reward != tt.state.Reward() {
				t.Errorf("Reward = %f, want %f", got.Reward, tt.state.Reward())
			}
		})
	}
}

func TestStatistics_Report(t *testing.T) {
	stats := &Statistics{}
	stats.Add(GameResult{Agents: 3, Played: 3, Turns: 5, Reward: 1, Outcome: OutcomeSuccess})
	stats.Add(GameResult{Agents: 3, Played: 0, Turns: 20, Reward: 0, Outcome: OutcomeStagnation})

	report := stats.Report()
	for _, want := range []string{"Games: 2", "Success rate: 50.0%", "Mean turns: 12.5 (max 20)", "0 out of order, 1 stagnated"} {
		if !strings.Contains(report, want) {
			t.Errorf("Report missing %q:\n%s", want, report)
		}
	}
}
