// Package config loads game files written in HCL.
//
//	game {
//	  theme     = "animals"
//	  max_turns = 20
//	  human     = "me"
//	}
//
//	agent "me" { kind = "human" }
//	agent "alice" { kind = "llm" }
//	agent "bob" {
//	  kind    = "remote"
//	  url     = "ws://localhost:9000/agent"
//	  timeout = "45s"
//	}
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/ito/internal/game"
)

// Agent kinds
const (
	KindScripted = "scripted"
	KindHuman    = "human"
	KindRemote   = "remote"
	KindLLM      = "llm"
	KindReplay   = "replay"
)

// DefaultLogLevel applies when neither the command line nor the game file
// sets a level.
const DefaultLogLevel = "warn"

var kinds = []string{KindScripted, KindHuman, KindRemote, KindLLM, KindReplay}

// File represents a complete game file
type File struct {
	Game   *GameSettings `hcl:"game,block"`
	Agents []AgentConfig `hcl:"agent,block"`
}

// GameSettings contains game-level configuration
type GameSettings struct {
	Theme       string `hcl:"theme,optional"`
	MaxTurns    int    `hcl:"max_turns,optional"`
	Seed        int64  `hcl:"seed,optional"`
	Human       string `hcl:"human,optional"`
	Concurrency int    `hcl:"concurrency,optional"`
	Debug       bool   `hcl:"debug,optional"`
	Reveal      bool   `hcl:"reveal,optional"`
	ArchiveDir  string `hcl:"archive_dir,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	LogFile     string `hcl:"log_file,optional"`
}

// AgentConfig defines one seat
type AgentConfig struct {
	ID        string `hcl:"id,label"`
	Kind      string `hcl:"kind,optional"`
	Threshold int    `hcl:"threshold,optional"`
	URL       string `hcl:"url,optional"`
	Timeout   string `hcl:"timeout,optional"`
	Model     string `hcl:"model,optional"`
	Replay    string `hcl:"replay,optional"`
}

// TimeoutDuration parses Timeout. Zero means the transport default.
func (a AgentConfig) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0, fmt.Errorf("agent %q: invalid timeout %q: %w", a.ID, a.Timeout, err)
	}
	return d, nil
}

// Default returns the configuration used when no game file exists: three
// scripted agents.
func Default() *File {
	f := &File{
		Agents: []AgentConfig{
			{ID: "Alice"},
			{ID: "Bob"},
			{ID: "Charlie"},
		},
	}
	f.applyDefaults()
	return f
}

// Load loads a game file. A missing file yields Default.
func Load(filename string) (*File, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var f File
	if diags := gohcl.DecodeBody(file.Body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	f.applyDefaults()
	return &f, nil
}

func (f *File) applyDefaults() {
	if f.Game == nil {
		f.Game = &GameSettings{}
	}
	if f.Game.MaxTurns == 0 {
		f.Game.MaxTurns = game.DefaultMaxTurns
	}
	if f.Game.LogLevel == "" {
		f.Game.LogLevel = DefaultLogLevel
	}
	for i := range f.Agents {
		a := &f.Agents[i]
		if a.Kind == "" {
			a.Kind = KindScripted
			if a.ID == f.Game.Human {
				a.Kind = KindHuman
			}
		}
		a.Kind = strings.ToLower(a.Kind)
	}
}

// AgentIDs returns the seating order.
func (f *File) AgentIDs() []string {
	ids := make([]string, len(f.Agents))
	for i, a := range f.Agents {
		ids[i] = a.ID
	}
	return ids
}

// Validate validates the game file
func (f *File) Validate() error {
	if len(f.Agents) == 0 {
		return fmt.Errorf("at least one agent block is required")
	}
	if f.Game.MaxTurns < 0 {
		return fmt.Errorf("invalid max_turns: %d", f.Game.MaxTurns)
	}
	if f.Game.Concurrency < 0 {
		return fmt.Errorf("invalid concurrency: %d", f.Game.Concurrency)
	}
	if _, err := log.ParseLevel(f.Game.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", f.Game.LogLevel)
	}

	seen := make(map[string]bool)
	humans := 0
	for _, a := range f.Agents {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("agent id must not be blank")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate agent %q", a.ID)
		}
		seen[a.ID] = true

		if !slices.Contains(kinds, a.Kind) {
			return fmt.Errorf("agent %q: unknown kind %q", a.ID, a.Kind)
		}
		switch a.Kind {
		case KindRemote:
			if a.URL == "" {
				return fmt.Errorf("agent %q: remote agents need a url", a.ID)
			}
		case KindReplay:
			if a.Replay == "" {
				return fmt.Errorf("agent %q: replay agents need a replay file", a.ID)
			}
		case KindHuman:
			humans++
		}
		if a.Threshold < 0 {
			return fmt.Errorf("agent %q: invalid threshold %d", a.ID, a.Threshold)
		}
		if _, err := a.TimeoutDuration(); err != nil {
			return err
		}
	}

	if f.Game.Human != "" && !seen[f.Game.Human] {
		return fmt.Errorf("human %q is not one of the agents", f.Game.Human)
	}
	if humans > 1 {
		return fmt.Errorf("only one human agent is supported, found %d", humans)
	}
	return nil
}

// HumanID returns the human's agent ID, from the game block or the single
// agent of kind human.
func (f *File) HumanID() string {
	if f.Game.Human != "" {
		return f.Game.Human
	}
	for _, a := range f.Agents {
		if a.Kind == KindHuman {
			return a.ID
		}
	}
	return ""
}
