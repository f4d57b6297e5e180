package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrPromptCancelled is returned when the person quits a prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

type promptModel struct {
	prompt    Prompt
	input     textinput.Model
	value     string
	done      bool
	cancelled bool
}

func newPromptModel(p Prompt) promptModel {
	ti := textinput.New()
	ti.Placeholder = p.Placeholder
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "
	return promptModel{prompt: p, input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = m.input.Value()
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	for _, line := range m.prompt.Context {
		b.WriteString(contextStyle.Render(line))
		b.WriteByte('\n')
	}
	b.WriteString(titleStyle.Render(m.prompt.Title))
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	return b.String()
}

// TeaPrompter prompts on the terminal with a bubbletea text input.
type TeaPrompter struct {
	opts []tea.ProgramOption
}

// NewTeaPrompter creates a terminal prompter. Options are passed to every
// bubbletea program, for example tea.WithInput in tests.
func NewTeaPrompter(opts ...tea.ProgramOption) *TeaPrompter {
	return &TeaPrompter{opts: opts}
}

func (p *TeaPrompter) Prompt(ctx context.Context, pr Prompt) (string, error) {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, p.opts...)
	final, err := tea.NewProgram(newPromptModel(pr), opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("run prompt: %w", err)
	}
	m := final.(promptModel)
	if m.cancelled {
		return "", ErrPromptCancelled
	}
	return m.value, nil
}

// LinePrompter reads answers line by line. It serves piped input and
// terminals that cannot run a full-screen program.
type LinePrompter struct {
	lines chan lineResult
	out   io.Writer
}

type lineResult struct {
	text string
	err  error
}

// NewLinePrompter reads lines from in and writes prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	p := &LinePrompter{lines: make(chan lineResult), out: out}
	go p.read(in)
	return p
}

func (p *LinePrompter) read(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		p.lines <- lineResult{text: scanner.Text()}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	for {
		p.lines <- lineResult{err: err}
	}
}

func (p *LinePrompter) Prompt(ctx context.Context, pr Prompt) (string, error) {
	for _, line := range pr.Context {
		fmt.Fprintln(p.out, line)
	}
	fmt.Fprintf(p.out, "%s\n> ", pr.Title)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-p.lines:
		return res.text, res.err
	}
}
