package game

import "context"

// UtteranceRequest asks an agent for its hint for the current round.
type UtteranceRequest struct {
	AgentID string
	Card    int
	Theme   string
	History []string
}

// Utterance is a hint with optional reasoning (never shown to other agents).
type Utterance struct {
	Text      string
	Reasoning string
}

// VoteRequest asks an agent whether to play now. Utterances holds the other
// unfinished agents' hints for the round.
type VoteRequest struct {
	AgentID      string
	Card         int
	Theme        string
	LastPlayed   int
	OwnUtterance string
	Utterances   map[string]string
	History      []string
}

// Decision is a vote with optional reasoning
type Decision struct {
	Vote    Vote
	Thought string
}

// DiscussionContext is what an agent sees during a wait round.
type DiscussionContext struct {
	Theme        string
	Card         int
	LastPlayed   int
	OwnUtterance string
	Utterances   map[string]string
	History      []string
}

// QuestionRequest asks the designated agent for one clarifying question.
type QuestionRequest struct {
	AgentID string
	DiscussionContext
}

// AnswerRequest asks an agent to answer a question from Asker.
type AnswerRequest struct {
	AgentID  string
	Asker    string
	Question string
	DiscussionContext
}

// Agent is anything that can take a seat: a human at a prompt, a scripted
// policy, a remote bot or a language model. Agents receive copies of the
// state they may see and return decisions; they never mutate the game.
type Agent interface {
	Utterance(ctx context.Context, req UtteranceRequest) (Utterance, error)
	Vote(ctx context.Context, req VoteRequest) (Decision, error)
	Question(ctx context.Context, req QuestionRequest) (string, error)
	Answer(ctx context.Context, req AnswerRequest) (string, error)
}
