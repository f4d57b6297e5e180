// Package display narrates games on a terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/ito/internal/game"
)

// Option configures a Narrator
type Option func(*Narrator)

// WithReveal prints every hand when the game starts.
func WithReveal(reveal bool) Option {
	return func(n *Narrator) { n.reveal = reveal }
}

// WithDebug prints phase changes and agents' private reasoning.
func WithDebug(debug bool) Option {
	return func(n *Narrator) { n.debug = debug }
}

// WithColor forces colour on or off. By default the writer's terminal
// capabilities decide.
func WithColor(color bool) Option {
	return func(n *Narrator) {
		if !color {
			n.renderer.SetColorProfile(termenv.Ascii)
		}
	}
}

// Narrator prints game events as styled lines. It implements
// game.EventSubscriber.
type Narrator struct {
	w        io.Writer
	renderer *lipgloss.Renderer
	styles   styles
	reveal   bool
	debug    bool
}

// NewNarrator creates a narrator writing to w.
func NewNarrator(w io.Writer, opts ...Option) *Narrator {
	n := &Narrator{w: w, renderer: lipgloss.NewRenderer(w)}
	for _, opt := range opts {
		opt(n)
	}
	n.styles = newStyles(n.renderer)
	return n
}

func (n *Narrator) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.GameStartEvent:
		n.start(e.State)
	case game.PhaseEvent:
		if n.debug {
			n.printf("%s\n", n.styles.phase.Render(fmt.Sprintf("-- %s (turn %d)", e.Phase, e.Turn)))
		}
	case game.RecordEvent:
		n.record(e.Record)
	case game.GameEndEvent:
		n.end(e.State)
	}
}

func (n *Narrator) printf(format string, args ...any) {
	fmt.Fprintf(n.w, format, args...)
}

func (n *Narrator) start(s *game.GameState) {
	n.printf("%s\n", n.styles.header.Render("ito: "+s.Theme))
	n.printf("%s\n", n.styles.info.Render(fmt.Sprintf("%d agents: %s. Max %d turns.", len(s.Agents), strings.Join(s.Agents, ", "), s.MaxTurns)))
	if n.reveal {
		for _, id := range s.Agents {
			n.printf("  %s holds %d\n", n.styles.agent.Render(id), s.Hands[id])
		}
	}
	n.printf("\n")
}

func (n *Narrator) record(r game.Record) {
	st := n.styles
	switch r.Kind {
	case game.RecordStart:
		// The header already shows the theme.
	case game.RecordUtterance:
		n.printf("%s says %s\n", st.agent.Render(r.AgentID), st.word.Render(fmt.Sprintf("%q", r.Text)))
	case game.RecordVote:
		n.printf("%s votes %s\n", st.agent.Render(r.AgentID), r.Text)
	case game.RecordPlay:
		n.printf("%s\n", st.play.Render(fmt.Sprintf("%s plays %d", r.AgentID, r.Value)))
	case game.RecordIllegalPlay:
		n.printf("%s\n", st.illegal.Render(fmt.Sprintf("%s plays %d out of order (%s)", r.AgentID, r.Value, r.Text)))
	case game.RecordWait:
		n.printf("%s\n", st.info.Render("Everyone waits."))
	case game.RecordQuestion:
		n.printf("%s asks: %s\n", st.agent.Render(r.AgentID), r.Text)
	case game.RecordAnswer:
		n.printf("%s answers: %s\n", st.agent.Render(r.AgentID), r.Text)
	case game.RecordSuccess:
		n.printf("\n%s\n", st.success.Render(r.String()))
	case game.RecordFailure, game.RecordStagnation:
		n.printf("\n%s\n", st.failure.Render(r.String()))
	default:
		n.printf("%s\n", r.String())
	}
}

func (n *Narrator) end(s *game.GameState) {
	if n.debug {
		for _, id := range s.Agents {
			if thought := s.EstimatorThoughts[id]; thought != "" {
				n.printf("%s\n", n.styles.info.Render(fmt.Sprintf("%s thought: %s", id, thought)))
			}
		}
	}
	n.printf("%s", game.Summary(s))
}
