package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/ito/internal/game"
)

// Outcome classifies how a game ended
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeIllegal    Outcome = "illegal_play"
	OutcomeStagnation Outcome = "stagnation"
)

// GameResult represents the outcome of a single game
type GameResult struct {
	Seed    int64   // RNG seed for this game (for replay)
	Agents  int     // Number of agents seated
	Played  int     // Cards legally played
	Turns   int     // Turn count when the game ended
	Reward  float64 // 1 on success, else the share of agents that finished
	Outcome Outcome
}

// ResultFromState summarises a finished game.
func ResultFromState(s *game.GameState, seed int64) GameResult {
	r := GameResult{
		Seed:   seed,
		Agents: len(s.Agents),
		Played: len(s.FinishedAgents),
		Turns:  s.TurnCount,
		Reward: s.Reward(),
	}
	switch {
	case s.Status == game.StatusSuccess:
		r.Outcome = OutcomeSuccess
	case lastKind(s) == game.RecordStagnation:
		r.Outcome = OutcomeStagnation
	default:
		r.Outcome = OutcomeIllegal
	}
	return r
}

func lastKind(s *game.GameState) game.RecordKind {
	if len(s.History) == 0 {
		return ""
	}
	return s.History[len(s.History)-1].Kind
}

// Statistics accumulates results across many games
type Statistics struct {
	Games      int
	SumReward  float64
	SumReward2 float64   // Sum of squares for variance calculation
	Values     []float64 // All rewards, for median/percentile calculation

	Successes   int
	Illegal     int
	Stagnations int

	SumTurns    int
	MaxTurns    int
	CardsPlayed int
	CardsDealt  int
	FailedSeeds []int64 // Seeds of failed games, for replay
}

// Mean returns the mean reward per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumReward / float64(s.Games)
}

// Variance returns the sample variance of the rewards
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumReward2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of the rewards
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// SuccessRate returns the share of games in which every card was played
func (s *Statistics) SuccessRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Games)
}

// MeanTurns returns the average turn count per game
func (s *Statistics) MeanTurns() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.SumTurns) / float64(s.Games)
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	s.Games++
	s.SumReward += result.Reward
	s.SumReward2 += result.Reward * result.Reward
	s.Values = append(s.Values, result.Reward)

	switch result.Outcome {
	case OutcomeSuccess:
		s.Successes++
	case OutcomeStagnation:
		s.Stagnations++
	default:
		s.Illegal++
	}
	if result.Outcome != OutcomeSuccess {
		s.FailedSeeds = append(s.FailedSeeds, result.Seed)
	}

	s.SumTurns += result.Turns
	if result.Turns > s.MaxTurns {
		s.MaxTurns = result.Turns
	}
	s.CardsPlayed += result.Played
	s.CardsDealt += result.Agents
}

// Median returns the median reward
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the reward at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}
	if outcomes := s.Successes + s.Illegal + s.Stagnations; outcomes != s.Games {
		return fmt.Errorf("outcomes total (%d) does not match games count (%d)", outcomes, s.Games)
	}
	if s.CardsPlayed > s.CardsDealt {
		return fmt.Errorf("cards played (%d) exceeds cards dealt (%d)", s.CardsPlayed, s.CardsDealt)
	}
	return nil
}

// Report renders the aggregate as a few lines of text
func (s *Statistics) Report() string {
	low, high := s.ConfidenceInterval95()
	return fmt.Sprintf(
		"Games: %d\nSuccess rate: %.1f%%\nMean reward: %.3f (95%% CI %.3f to %.3f)\nMean turns: %.1f (max %d)\nFailures: %d out of order, %d stagnated\n",
		s.Games, 100*s.SuccessRate(), s.Mean(), low, high, s.MeanTurns(), s.MaxTurns, s.Illegal, s.Stagnations)
}
