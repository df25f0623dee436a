// Package llm abstracts the external reasoning service the assistant
// plans and summarizes with.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Message roles in a conversation transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ErrNoChoices indicates the reasoning service returned an empty response.
var ErrNoChoices = errors.New("reasoning service returned no choices")

// ToolCall is one operation the service asked to run, with the raw
// argument payload it produced.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Message is one transcript entry. ToolCallID and ToolName are set only
// on tool-result messages, ToolCalls only on assistant messages.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
}

// ToolSpec describes one operation offered to the service. Parameters
// is a JSON-schema object.
type ToolSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  any    `json:"parameters"`
}

// ImagePart attaches an image to the user turn during planning.
type ImagePart struct {
	URL         string
	ContentType string
}

// PlanRequest carries one user turn plus its surrounding transcript into
// the planning round.
type PlanRequest struct {
	SystemPrompt string
	History      []Message
	Instruction  string
	Image        *ImagePart
	Tools        []ToolSpec
}

// PlanResult is the planning round's outcome: either a direct answer,
// or one or more tool calls to run in order. Assistant is the raw
// assistant message, kept so the summarizing round can replay it.
type PlanResult struct {
	Answer    string
	Calls     []ToolCall
	Assistant Message
}

// Client is the reasoning service. Plan decides what to do with a user
// turn; Summarize turns executed tool results into the final reply.
type Client interface {
	Plan(ctx context.Context, req PlanRequest) (PlanResult, error)
	Summarize(ctx context.Context, messages []Message) (string, error)
}
