// Package remote seats agents that live in another process. The game side
// dials a bot host over a websocket and sends one request per decision; the
// host answers each request with a response carrying the same request ID.
package remote

import (
	"encoding/json"
	"time"

	"github.com/lox/ito/internal/game"
)

// MessageType identifies a websocket message
type MessageType string

const (
	MessageTypeUtterance MessageType = "utterance_request"
	MessageTypeVote      MessageType = "vote_request"
	MessageTypeQuestion  MessageType = "question_request"
	MessageTypeAnswer    MessageType = "answer_request"
	MessageTypeResponse  MessageType = "response"
	MessageTypeError     MessageType = "error"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, requestID string, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
		RequestID: requestID,
	}, nil
}

// RequestData carries everything an agent may see for one decision. Fields
// that do not apply to a request type are left empty.
type RequestData struct {
	AgentID      string            `json:"agentId"`
	Card         int               `json:"card"`
	Theme        string            `json:"theme"`
	LastPlayed   int               `json:"lastPlayed,omitempty"`
	OwnUtterance string            `json:"ownUtterance,omitempty"`
	Utterances   map[string]string `json:"utterances,omitempty"`
	History      []string          `json:"history"`
	Asker        string            `json:"asker,omitempty"`
	Question     string            `json:"question,omitempty"`
}

// ResponseData is an agent's reply. Text holds the word, question or answer.
type ResponseData struct {
	Text      string `json:"text,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
	Vote      string `json:"vote,omitempty"`
}

// ErrorData reports that the hosted agent failed.
type ErrorData struct {
	Message string `json:"message"`
}

func discussionData(id string, d game.DiscussionContext) RequestData {
	return RequestData{
		AgentID:      id,
		Card:         d.Card,
		Theme:        d.Theme,
		LastPlayed:   d.LastPlayed,
		OwnUtterance: d.OwnUtterance,
		Utterances:   d.Utterances,
		History:      d.History,
	}
}

func (r RequestData) discussion() game.DiscussionContext {
	return game.DiscussionContext{
		Theme:        r.Theme,
		Card:         r.Card,
		LastPlayed:   r.LastPlayed,
		OwnUtterance: r.OwnUtterance,
		Utterances:   r.Utterances,
		History:      r.History,
	}
}
