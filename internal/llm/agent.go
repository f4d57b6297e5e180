package llm

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/charmbracelet/log"

	"github.com/lox/ito/internal/game"
)

const (
	fallbackQuestion = "How strong or large is the image behind your word?"
	fallbackAnswer   = "My word points at a strength or size you can picture without thinking hard."
)

var (
	speakerTmpl   = template.Must(template.New("speaker").Parse(speakerTemplate))
	estimatorTmpl = template.Must(template.New("estimator").Parse(estimatorTemplate))
	questionTmpl  = template.Must(template.New("question").Parse(questionTemplate))
	answerTmpl    = template.Must(template.New("answer").Parse(answerTemplate))
)

// Agent asks a model for every decision. Transport failures are returned to
// the game; malformed replies fall back to safe defaults where one exists.
type Agent struct {
	completer Completer
	cfg       Config
	logger    *log.Logger
}

// NewAgent creates a model-backed agent.
func NewAgent(c Completer, cfg Config, logger *log.Logger) *Agent {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Agent{completer: c, cfg: cfg, logger: logger.WithPrefix("llm")}
}

type promptData struct {
	Theme        string
	Card         int
	LastPlayed   string
	OwnUtterance string
	Utterances   string
	History      string
	Asker        string
	Question     string
}

func (a *Agent) ask(ctx context.Context, role Role, system string, tmpl *template.Template, data promptData) (string, error) {
	var user strings.Builder
	if err := tmpl.Execute(&user, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", role, err)
	}
	model := a.cfg.ModelFor(role)
	a.logger.Debug("Calling model", "role", role, "model", model)
	return a.completer.Complete(ctx, Request{
		Model:       model,
		Temperature: role.Temperature(),
		System:      system,
		User:        user.String(),
	})
}

func (a *Agent) Utterance(ctx context.Context, req game.UtteranceRequest) (game.Utterance, error) {
	text, err := a.ask(ctx, RoleSpeaker, speakerPrompt, speakerTmpl, promptData{
		Theme:   req.Theme,
		Card:    req.Card,
		History: formatHistory(req.History),
	})
	if err != nil {
		return game.Utterance{}, err
	}
	obj, err := ParseObject(text)
	if err != nil {
		return game.Utterance{}, fmt.Errorf("speaker reply: %w", err)
	}
	return game.Utterance{
		Text:      strings.TrimSpace(obj.Get("word").String()),
		Reasoning: obj.Get("reasoning").String(),
	}, nil
}

func (a *Agent) Vote(ctx context.Context, req game.VoteRequest) (game.Decision, error) {
	text, err := a.ask(ctx, RoleEstimator, estimatorPrompt, estimatorTmpl, promptData{
		Theme:        req.Theme,
		Card:         req.Card,
		LastPlayed:   formatLastPlayed(req.LastPlayed),
		OwnUtterance: req.OwnUtterance,
		Utterances:   formatUtterances(req.Utterances),
		History:      formatHistory(req.History),
	})
	if err != nil {
		return game.Decision{}, err
	}
	obj, err := ParseObject(text)
	if err != nil {
		a.logger.Warn("Unreadable estimator reply, waiting", "agent", req.AgentID, "error", err)
		return game.Decision{Vote: game.VoteWait, Thought: err.Error()}, nil
	}
	return game.Decision{
		Vote:    game.ParseVote(obj.Get("action").String()),
		Thought: obj.Get("thought").String(),
	}, nil
}

func (a *Agent) Question(ctx context.Context, req game.QuestionRequest) (string, error) {
	text, err := a.ask(ctx, RoleDiscussion, questionPrompt, questionTmpl, promptData{
		Theme:        req.Theme,
		LastPlayed:   formatLastPlayed(req.LastPlayed),
		OwnUtterance: req.OwnUtterance,
		Utterances:   formatUtterances(req.Utterances),
		History:      formatHistory(req.History),
	})
	if err != nil {
		return "", err
	}
	return field(text, "question", fallbackQuestion), nil
}

func (a *Agent) Answer(ctx context.Context, req game.AnswerRequest) (string, error) {
	text, err := a.ask(ctx, RoleDiscussion, answerPrompt, answerTmpl, promptData{
		Theme:        req.Theme,
		OwnUtterance: req.OwnUtterance,
		Asker:        req.Asker,
		Question:     req.Question,
		History:      formatHistory(req.History),
	})
	if err != nil {
		return "", err
	}
	return field(text, "answer", fallbackAnswer), nil
}

// field reads one string field from a reply, or fallback when the reply is
// unreadable or the field is blank.
func field(text, name, fallback string) string {
	obj, err := ParseObject(text)
	if err != nil {
		return fallback
	}
	if v := strings.TrimSpace(obj.Get(name).String()); v != "" {
		return v
	}
	return fallback
}

func formatHistory(lines []string) string {
	if len(lines) == 0 {
		return "(nothing yet)"
	}
	return strings.Join(lines, "\n")
}

func formatLastPlayed(v int) string {
	if v == 0 {
		return "none"
	}
	return fmt.Sprint(v)
}

func formatUtterances(utterances map[string]string) string {
	if len(utterances) == 0 {
		return "(none)"
	}
	ids := make([]string, 0, len(utterances))
	for id := range utterances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "%s: %s\n", id, utterances[id])
	}
	return strings.TrimSuffix(b.String(), "\n")
}
