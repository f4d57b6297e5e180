package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		record Record
		want   string
	}{
		{Record{Kind: RecordStart, Text: "animals"}, "Game started. Theme: animals"},
		{Record{Kind: RecordUtterance, AgentID: "alice", Text: "mouse"}, `alice says "mouse"`},
		{Record{Kind: RecordVote, AgentID: "bob", Text: "WAIT"}, "bob votes WAIT"},
		{Record{Kind: RecordPlay, AgentID: "alice", Value: 3}, "alice plays 3"},
		{Record{Kind: RecordIllegalPlay, AgentID: "bob", Value: 7, Text: "alice still holds 3"}, "bob plays 7, out of order: alice still holds 3"},
		{Record{Kind: RecordWait}, "Everyone waits."},
		{Record{Kind: RecordQuestion, AgentID: "alice", Text: "how big?"}, "Question from alice: how big?"},
		{Record{Kind: RecordAnswer, AgentID: "bob", Text: "tiny"}, "bob answers: tiny"},
		{Record{Kind: RecordStagnation, Turn: 20}, "Game over: no progress after 20 turns."},
	}

	for _, tt := range tests {
		t.Run(string(tt.record.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.String())
		})
	}
}
