package game

import (
	"errors"
	"fmt"
)

var (
	// ErrGameOver is returned when resuming a game that already finished.
	ErrGameOver = errors.New("game is over")
	// ErrNotSuspended is returned by Retry and Resume when no game is in progress.
	ErrNotSuspended = errors.New("no game in progress")
)

// ConfigurationError reports invalid run parameters. It is raised before any
// state exists.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// AgentResponseError reports one agent failing to respond during a phase.
// Responses already collected from other agents in the same phase are kept,
// so the caller can retry just this agent.
type AgentResponseError struct {
	AgentID string
	Phase   Phase
	Err     error
}

func (e *AgentResponseError) Error() string {
	return fmt.Sprintf("agent %s failed during %s: %v", e.AgentID, e.Phase, e.Err)
}

func (e *AgentResponseError) Unwrap() error {
	return e.Err
}
