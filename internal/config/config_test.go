package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	f, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, f.AgentIDs())
	assert.Equal(t, 20, f.Game.MaxTurns)
	assert.Equal(t, DefaultLogLevel, f.Game.LogLevel)
	for _, a := range f.Agents {
		assert.Equal(t, KindScripted, a.Kind)
	}
	require.NoError(t, f.Validate())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `
game {
  theme       = "animals"
  max_turns   = 12
  seed        = 42
  human       = "me"
  concurrency = 2
  reveal      = true
  log_level   = "debug"
}

agent "me" {}

agent "alice" {
  kind      = "scripted"
  threshold = 35
}

agent "bob" {
  kind    = "REMOTE"
  url     = "ws://localhost:9000/agent"
  timeout = "45s"
}

agent "carol" {
  kind  = "llm"
  model = "gpt-4o"
}
`)
	f, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, f.Validate())

	assert.Equal(t, "animals", f.Game.Theme)
	assert.Equal(t, "debug", f.Game.LogLevel)
	assert.Equal(t, 12, f.Game.MaxTurns)
	assert.Equal(t, int64(42), f.Game.Seed)
	assert.Equal(t, 2, f.Game.Concurrency)
	assert.True(t, f.Game.Reveal)
	assert.Equal(t, []string{"me", "alice", "bob", "carol"}, f.AgentIDs())
	assert.Equal(t, KindHuman, f.Agents[0].Kind)
	assert.Equal(t, 35, f.Agents[1].Threshold)
	assert.Equal(t, KindRemote, f.Agents[2].Kind)
	assert.Equal(t, "me", f.HumanID())

	d, err := f.Agents[2].TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)
}

func TestLoadRejectsBadHCL(t *testing.T) {
	t.Parallel()

	_, err := Load(writeFile(t, `game { max_turns = `))
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Load(writeFile(t, `agent "a" { colour = "red" }`))
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hcl  string
		want string
	}{
		{"no agents", `game {}`, "at least one agent"},
		{"duplicate", `
agent "a" {}
agent "a" {}`, "duplicate agent"},
		{"unknown kind", `agent "a" { kind = "oracle" }`, "unknown kind"},
		{"remote without url", `agent "a" { kind = "remote" }`, "need a url"},
		{"replay without file", `agent "a" { kind = "replay" }`, "need a replay file"},
		{"bad timeout", `agent "a" { timeout = "soon" }`, "invalid timeout"},
		{"human not seated", `
game { human = "z" }
agent "a" {}`, "not one of the agents"},
		{"two humans", `
agent "a" { kind = "human" }
agent "b" { kind = "human" }`, "only one human"},
		{"bad log level", `
game { log_level = "loud" }
agent "a" {}`, "invalid log_level"},
		{"negative turns", `
game { max_turns = -1 }
agent "a" {}`, "invalid max_turns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := Load(writeFile(t, tt.hcl))
			require.NoError(t, err)
			assert.ErrorContains(t, f.Validate(), tt.want)
		})
	}
}
