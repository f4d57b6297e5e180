package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/ito/internal/game"
)

const (
	// DefaultTimeout bounds how long a remote agent may think.
	DefaultTimeout = 30 * time.Second

	// Requests carry the whole game history, so the host accepts far more
	// than a response ever needs.
	maxRequestSize  = 16 << 20
	maxResponseSize = 1 << 20
)

var (
	// ErrTimeout is returned when a remote agent does not answer in time.
	ErrTimeout = errors.New("remote agent timed out")
	// ErrClosed is returned for calls on a closed connection.
	ErrClosed = errors.New("remote agent connection closed")
)

// Option configures an Agent
type Option func(*Agent)

// WithClock replaces the real clock, for tests.
func WithClock(c quartz.Clock) Option {
	return func(a *Agent) { a.clock = c }
}

// WithTimeout sets how long each call may take.
func WithTimeout(d time.Duration) Option {
	return func(a *Agent) { a.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// Agent proxies every decision to a bot host over one websocket. Calls may
// run concurrently; responses are matched by request ID.
type Agent struct {
	conn    *websocket.Conn
	clock   quartz.Clock
	timeout time.Duration
	logger  *log.Logger

	writeMu sync.Mutex
	mu      sync.Mutex
	waiting map[string]chan *Message
	nextID  atomic.Uint64

	done      chan struct{}
	closeOnce sync.Once
	err       error
}

// Dial connects to the bot host at url (ws:// or wss://).
func Dial(ctx context.Context, url string, opts ...Option) (*Agent, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return newAgent(conn, opts...), nil
}

func newAgent(conn *websocket.Conn, opts ...Option) *Agent {
	a := &Agent{
		conn:    conn,
		clock:   quartz.NewReal(),
		timeout: DefaultTimeout,
		waiting: make(map[string]chan *Message),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard)
	}
	a.logger = a.logger.WithPrefix("remote")
	conn.SetReadLimit(maxResponseSize)
	go a.readPump()
	return a
}

func (a *Agent) readPump() {
	defer a.shutdown(ErrClosed)
	for {
		var msg Message
		if err := a.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				a.logger.Warn("Connection lost", "error", err)
			}
			return
		}
		a.mu.Lock()
		ch, ok := a.waiting[msg.RequestID]
		delete(a.waiting, msg.RequestID)
		a.mu.Unlock()
		if !ok {
			a.logger.Debug("Dropping response nobody is waiting for", "request", msg.RequestID, "type", msg.Type)
			continue
		}
		ch <- &msg
	}
}

func (a *Agent) shutdown(err error) {
	a.closeOnce.Do(func() {
		a.err = err
		close(a.done)
		_ = a.conn.Close()
	})
}

// Close sends a close frame and releases the connection.
func (a *Agent) Close() error {
	a.writeMu.Lock()
	_ = a.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	a.writeMu.Unlock()
	a.shutdown(ErrClosed)
	return nil
}

func (a *Agent) call(ctx context.Context, typ MessageType, data RequestData) (ResponseData, error) {
	id := strconv.FormatUint(a.nextID.Add(1), 10)
	msg, err := NewMessage(typ, id, data)
	if err != nil {
		return ResponseData{}, fmt.Errorf("encode %s: %w", typ, err)
	}

	ch := make(chan *Message, 1)
	a.mu.Lock()
	a.waiting[id] = ch
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		delete(a.waiting, id)
		a.mu.Unlock()
	}()

	// Armed before the request goes out so a fast clock can never miss it.
	timeoutFired := make(chan struct{})
	timer := a.clock.AfterFunc(a.timeout, func() { close(timeoutFired) }, "remote", "call")
	defer timer.Stop()

	a.writeMu.Lock()
	err = a.conn.WriteJSON(msg)
	a.writeMu.Unlock()
	if err != nil {
		return ResponseData{}, fmt.Errorf("send %s: %w", typ, err)
	}

	select {
	case resp := <-ch:
		return decodeResponse(resp)
	case <-timeoutFired:
		a.logger.Warn("Remote agent timed out", "agent", data.AgentID, "type", typ, "timeout", a.timeout)
		return ResponseData{}, ErrTimeout
	case <-ctx.Done():
		return ResponseData{}, ctx.Err()
	case <-a.done:
		return ResponseData{}, a.err
	}
}

func decodeResponse(msg *Message) (ResponseData, error) {
	switch msg.Type {
	case MessageTypeResponse:
		var resp ResponseData
		if err := json.Unmarshal(msg.Data, &resp); err != nil {
			return ResponseData{}, fmt.Errorf("decode response: %w", err)
		}
		return resp, nil
	case MessageTypeError:
		var e ErrorData
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			return ResponseData{}, fmt.Errorf("decode error: %w", err)
		}
		return ResponseData{}, fmt.Errorf("remote agent: %s", e.Message)
	}
	return ResponseData{}, fmt.Errorf("unexpected message type %q", msg.Type)
}

func (a *Agent) Utterance(ctx context.Context, req game.UtteranceRequest) (game.Utterance, error) {
	resp, err := a.call(ctx, MessageTypeUtterance, RequestData{
		AgentID: req.AgentID,
		Card:    req.Card,
		Theme:   req.Theme,
		History: req.History,
	})
	if err != nil {
		return game.Utterance{}, err
	}
	return game.Utterance{Text: resp.Text, Reasoning: resp.Reasoning}, nil
}

func (a *Agent) Vote(ctx context.Context, req game.VoteRequest) (game.Decision, error) {
	resp, err := a.call(ctx, MessageTypeVote, RequestData{
		AgentID:      req.AgentID,
		Card:         req.Card,
		Theme:        req.Theme,
		LastPlayed:   req.LastPlayed,
		OwnUtterance: req.OwnUtterance,
		Utterances:   req.Utterances,
		History:      req.History,
	})
	if err != nil {
		return game.Decision{}, err
	}
	return game.Decision{Vote: game.ParseVote(resp.Vote), Thought: resp.Reasoning}, nil
}

func (a *Agent) Question(ctx context.Context, req game.QuestionRequest) (string, error) {
	resp, err := a.call(ctx, MessageTypeQuestion, discussionData(req.AgentID, req.DiscussionContext))
	return resp.Text, err
}

func (a *Agent) Answer(ctx context.Context, req game.AnswerRequest) (string, error) {
	data := discussionData(req.AgentID, req.DiscussionContext)
	data.Asker = req.Asker
	data.Question = req.Question
	resp, err := a.call(ctx, MessageTypeAnswer, data)
	return resp.Text, err
}
