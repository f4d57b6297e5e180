package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, VotePlay, ParseVote("PLAY"))
	assert.Equal(t, VotePlay, ParseVote(" play\n"))
	assert.Equal(t, VoteWait, ParseVote("WAIT"))
	assert.Equal(t, VoteWait, ParseVote("played"))
	assert.Equal(t, VoteWait, ParseVote(""))
}

func TestActiveAgents(t *testing.T) {
	t.Parallel()

	s := &GameState{
		Agents:         []string{"c", "a", "b", "d"},
		Hands:          map[string]int{"c": 9, "b": 4, "d": 2},
		FinishedAgents: []string{"a"},
	}
	assert.Equal(t, []string{"c", "b", "d"}, s.ActiveAgents())

	// An agent removed by an out-of-order play holds nothing.
	delete(s.Hands, "d")
	assert.Equal(t, []string{"c", "b"}, s.ActiveAgents())
}

func TestReward(t *testing.T) {
	t.Parallel()

	s := &GameState{Agents: []string{"a", "b", "c", "d"}, FinishedAgents: []string{"a"}, Status: StatusFailed}
	assert.InDelta(t, 0.25, s.Reward(), 1e-9)

	s.Status = StatusSuccess
	assert.Equal(t, 1.0, s.Reward())

	assert.Equal(t, 0.0, (&GameState{}).Reward())
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	s := &GameState{
		Hands:          map[string]int{"a": 1},
		Agents:         []string{"a"},
		FinishedAgents: []string{},
		PlayedCards:    []int{},
		Utterances:     map[string]string{"a": "ant"},
		Votes:          map[string]Vote{"a": VotePlay},
		History:        []Record{{Kind: RecordStart}},
	}
	c := s.Clone()
	c.Hands["a"] = 2
	c.Utterances["a"] = "bee"
	c.Votes["a"] = VoteWait
	c.History[0].Text = "changed"
	c.Agents[0] = "z"

	assert.Equal(t, 1, s.Hands["a"])
	assert.Equal(t, "ant", s.Utterances["a"])
	assert.Equal(t, VotePlay, s.Votes["a"])
	assert.Empty(t, s.History[0].Text)
	assert.Equal(t, "a", s.Agents[0])

	var nilState *GameState
	assert.Nil(t, nilState.Clone())
}

func TestLastPlayed(t *testing.T) {
	t.Parallel()

	s := &GameState{}
	_, ok := s.LastPlayed()
	assert.False(t, ok)

	s.PlayedCards = []int{12}
	s.LastPlayedCard = 12
	v, ok := s.LastPlayed()
	assert.True(t, ok)
	assert.Equal(t, 12, v)
}

func TestDealtHands(t *testing.T) {
	t.Parallel()

	s := &GameState{
		Hands: map[string]int{"c": 80},
		History: []Record{
			{Kind: RecordStart},
			{Kind: RecordPlay, AgentID: "a", Value: 4},
			{Kind: RecordIllegalPlay, AgentID: "b", Value: 60},
		},
	}
	assert.Equal(t, map[string]int{"a": 4, "b": 60, "c": 80}, s.DealtHands())
	assert.Len(t, s.Hands, 1)
}
