package contract

// Message roles follow the OpenAI-style convention. A "tool" message must
// carry the ToolCallID of the assistant tool call it answers, plus the
// function's ToolName for backends that correlate responses by name; the
// conversation slice is append-only.
type Message struct {
	Role       string      `json:"role"`
	Content    string      `json:"content"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
	ToolName   string      `json:"tool_name,omitempty"`
	ToolCalls  []*ToolCall `json:"tool_calls,omitempty"`
}

type ToolCall struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Input string `json:"input"`
}

type ToolDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type CompletionRequest struct {
	Model         string    `json:"model"`
	Messages      []Message `json:"messages"`
	Tools         []ToolDef `json:"tools,omitempty"`
	Temperature   *float64  `json:"temperature,omitempty"`
	MaxTokens     int       `json:"max_tokens,omitempty"`
	TopP          *float64  `json:"top_p,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
}

// FinishReason is the closed, backend-neutral set. Raw backend strings never
// cross the provider boundary.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishContentFilter FinishReason = "content_filter"
	FinishToolCalls     FinishReason = "tool_calls"
	FinishError         FinishReason = "error"
	FinishUnknown       FinishReason = "unknown"
)

type CompletionResponse struct {
	Content      string       `json:"content"`
	ToolCalls    []*ToolCall  `json:"tool_calls,omitempty"`
	FinishReason FinishReason `json:"finish_reason"`
	Model        string       `json:"model,omitempty"`
}
