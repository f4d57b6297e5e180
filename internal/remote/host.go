package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/ito/internal/game"
)

// Host serves a local agent to games that dial in. Every request is answered
// on its own goroutine so one slow decision does not hold up the others.
type Host struct {
	agent    game.Agent
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewHost creates a host for agent.
func NewHost(agent game.Agent, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Host{
		agent: agent,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.WithPrefix("host"),
	}
}

// Handler returns an http.Handler serving the agent at /agent.
func (h *Host) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/agent", h)
	return mux
}

func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.logger.Info("Game connected", "remote", r.RemoteAddr)
	h.serve(r.Context(), conn)
	h.logger.Info("Game disconnected", "remote", r.RemoteAddr)
}

func (h *Host) serve(ctx context.Context, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		conn.Close()
	}()

	var writeMu sync.Mutex
	send := func(msg *Message) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Warn("Failed to send response", "request", msg.RequestID, "error", err)
		}
	}

	conn.SetReadLimit(maxRequestSize)
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("Read failed", "error", err)
			}
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			send(h.handle(ctx, &msg))
		}()
	}
}

func (h *Host) handle(ctx context.Context, msg *Message) *Message {
	resp, err := h.dispatch(ctx, msg)
	if err != nil {
		h.logger.Warn("Agent failed", "type", msg.Type, "request", msg.RequestID, "error", err)
		out, _ := NewMessage(MessageTypeError, msg.RequestID, ErrorData{Message: err.Error()})
		return out
	}
	out, err := NewMessage(MessageTypeResponse, msg.RequestID, resp)
	if err != nil {
		out, _ = NewMessage(MessageTypeError, msg.RequestID, ErrorData{Message: err.Error()})
	}
	return out
}

func (h *Host) dispatch(ctx context.Context, msg *Message) (ResponseData, error) {
	var req RequestData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return ResponseData{}, fmt.Errorf("decode %s: %w", msg.Type, err)
	}

	switch msg.Type {
	case MessageTypeUtterance:
		u, err := h.agent.Utterance(ctx, game.UtteranceRequest{
			AgentID: req.AgentID,
			Card:    req.Card,
			Theme:   req.Theme,
			History: req.History,
		})
		return ResponseData{Text: u.Text, Reasoning: u.Reasoning}, err
	case MessageTypeVote:
		d, err := h.agent.Vote(ctx, game.VoteRequest{
			AgentID:      req.AgentID,
			Card:         req.Card,
			Theme:        req.Theme,
			LastPlayed:   req.LastPlayed,
			OwnUtterance: req.OwnUtterance,
			Utterances:   req.Utterances,
			History:      req.History,
		})
		return ResponseData{Vote: string(d.Vote), Reasoning: d.Thought}, err
	case MessageTypeQuestion:
		q, err := h.agent.Question(ctx, game.QuestionRequest{AgentID: req.AgentID, DiscussionContext: req.discussion()})
		return ResponseData{Text: q}, err
	case MessageTypeAnswer:
		a, err := h.agent.Answer(ctx, game.AnswerRequest{
			AgentID:           req.AgentID,
			Asker:             req.Asker,
			Question:          req.Question,
			DiscussionContext: req.discussion(),
		})
		return ResponseData{Text: a}, err
	}
	return ResponseData{}, fmt.Errorf("unknown message type %q", msg.Type)
}
