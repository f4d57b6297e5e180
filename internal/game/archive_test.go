package game

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveWriterRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ids := []string{"alice", "bob"}
	archive := NewArchiveWriter(dir, log.New(os.Stderr))
	g := newTestGame(t, ids, &mockAgent{onVote: alwaysPlay}, WithSubscriber(archive))

	final, err := g.Run(context.Background(), presetState(ids, 3, 7), false)
	require.NoError(t, err)

	loaded, err := LoadState(filepath.Join(dir, "game_"+final.ID+".json"))
	require.NoError(t, err)
	assert.Equal(t, final.PlayedCards, loaded.PlayedCards)
	assert.Equal(t, final.Status, loaded.Status)
	assert.Equal(t, final.History, loaded.History)

	text, err := os.ReadFile(filepath.Join(dir, "game_"+final.ID+".txt"))
	require.NoError(t, err)
	assert.Contains(t, string(text), "alice plays 3")
	assert.Contains(t, string(text), "Status: SUCCESS after 2 turns")
	assert.Contains(t, string(text), "Played: 3 7 (2 of 2)")
}

func TestSummaryListsHeldCards(t *testing.T) {
	t.Parallel()

	s := &GameState{
		Agents:         []string{"a", "b", "c"},
		Hands:          map[string]int{"b": 9, "c": 40},
		FinishedAgents: []string{"a"},
		PlayedCards:    []int{2},
		Status:         StatusFailed,
		TurnCount:      20,
	}
	summary := Summary(s)
	assert.Contains(t, summary, "Status: FAILED after 20 turns")
	assert.Contains(t, summary, "Still held: b=9 c=40")
	assert.Contains(t, summary, "Reward: 0.33")
}

func TestLoadStateMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadState(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
