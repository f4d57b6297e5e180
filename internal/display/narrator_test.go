package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/ito/internal/game"
)

func finishedState() *game.GameState {
	return &game.GameState{
		Theme:          "animals",
		Agents:         []string{"alice", "bob"},
		Hands:          map[string]int{},
		FinishedAgents: []string{"alice", "bob"},
		PlayedCards:    []int{3, 7},
		Status:         game.StatusSuccess,
		TurnCount:      2,
		MaxTurns:       20,
		EstimatorThoughts: map[string]string{
			"alice": "I am surely lowest",
		},
	}
}

func narrate(n *Narrator) {
	start := finishedState()
	start.Hands = map[string]int{"alice": 3, "bob": 7}
	n.OnEvent(game.NewGameStartEvent(start))
	n.OnEvent(game.NewPhaseEvent(game.PhaseSpeaking, 0))
	for _, r := range []game.Record{
		{Kind: game.RecordStart, Text: "animals"},
		{Kind: game.RecordUtterance, AgentID: "alice", Text: "ant"},
		{Kind: game.RecordVote, AgentID: "alice", Text: "PLAY"},
		{Kind: game.RecordPlay, AgentID: "alice", Value: 3},
		{Kind: game.RecordWait},
		{Kind: game.RecordQuestion, AgentID: "bob", Text: "how big?"},
		{Kind: game.RecordAnswer, AgentID: "alice", Text: "tiny"},
		{Kind: game.RecordSuccess},
	} {
		n.OnEvent(game.NewRecordEvent(r))
	}
	n.OnEvent(game.NewGameEndEvent(finishedState()))
}

func TestNarratorPlainOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	narrate(NewNarrator(&buf, WithColor(false)))
	out := buf.String()

	assert.NotContains(t, out, "\x1b[", "no escape codes without colour")
	assert.Contains(t, out, "ito: animals")
	assert.Contains(t, out, `alice says "ant"`)
	assert.Contains(t, out, "alice plays 3")
	assert.Contains(t, out, "bob asks: how big?")
	assert.Contains(t, out, "alice answers: tiny")
	assert.Contains(t, out, "Success!")
	assert.Contains(t, out, "Status: SUCCESS after 2 turns")
	assert.Equal(t, 1, strings.Count(out, "animals"), "start record is folded into the header")

	assert.NotContains(t, out, "holds 3")
	assert.NotContains(t, out, "SPEAKING")
	assert.NotContains(t, out, "surely lowest")
}

func TestNarratorRevealAndDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	narrate(NewNarrator(&buf, WithColor(false), WithReveal(true), WithDebug(true)))
	out := buf.String()

	assert.Contains(t, out, "alice holds 3")
	assert.Contains(t, out, "bob holds 7")
	assert.Contains(t, out, "-- SPEAKING (turn 0)")
	assert.Contains(t, out, "alice thought: I am surely lowest")
}

func TestNarratorIllegalPlay(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := NewNarrator(&buf, WithColor(false))
	n.OnEvent(game.NewRecordEvent(game.Record{Kind: game.RecordIllegalPlay, AgentID: "bob", Value: 7, Text: "alice still holds 3"}))
	n.OnEvent(game.NewRecordEvent(game.Record{Kind: game.RecordFailure, Text: "a card was played out of order"}))

	assert.Contains(t, buf.String(), "bob plays 7 out of order (alice still holds 3)")
	assert.Contains(t, buf.String(), "Game over: a card was played out of order")
}
