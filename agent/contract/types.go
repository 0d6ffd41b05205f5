package contract

import "encoding/json"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	BlockTypeText       = "text"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
)

const (
	StopReasonEndTurn = "end_turn"
	StopReasonToolUse = "tool_use"
)

// Block is one content block of a conversation message or model completion.
// Exactly one of the three shapes is populated, keyed by Type.
type Block struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

func TextBlock(text string) Block {
	return Block{Type: BlockTypeText, Text: text}
}

func ToolResultBlock(toolUseID, content string, isError bool) Block {
	return Block{
		Type:      BlockTypeToolResult,
		ToolUseID: toolUseID,
		Content:   content,
		IsError:   isError,
	}
}

// Message is one turn of caller-supplied history. The orchestrator never
// mutates history it did not itself append.
type Message struct {
	Role    string  `json:"role"`
	Content []Block `json:"content"`
}

func UserText(text string) Message {
	return Message{Role: RoleUser, Content: []Block{TextBlock(text)}}
}

func AssistantText(text string) Message {
	return Message{Role: RoleAssistant, Content: []Block{TextBlock(text)}}
}

// Completion is one model response: a stop reason plus content blocks. The
// model may emit text and tool_use blocks in the same response.
type Completion struct {
	StopReason string  `json:"stop_reason"`
	Content    []Block `json:"content"`
}

// FirstToolUse returns the first tool_use block, or nil.
func (c Completion) FirstToolUse() *Block {
	for i := range c.Content {
		if c.Content[i].Type == BlockTypeToolUse {
			return &c.Content[i]
		}
	}
	return nil
}

// FirstText returns the text of the first text block, or "".
func (c Completion) FirstText() string {
	for i := range c.Content {
		if c.Content[i].Type == BlockTypeText {
			return c.Content[i].Text
		}
	}
	return ""
}

// RequestsTool reports whether the completion asks the host to run a tool.
func (c Completion) RequestsTool() bool {
	return c.StopReason == StopReasonToolUse && c.FirstToolUse() != nil
}

// ToolDefinition is the schema contract for one callable tool. Definitions
// are immutable and declared once at startup.
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"input_schema"`
}

// Schema is a minimal JSON-schema object description, enough to express the
// tool inputs this system declares.
type Schema struct {
	Type       string           `json:"type"`
	Properties map[string]Field `json:"properties,omitempty"`
	Required   []string         `json:"required,omitempty"`
}

type Field struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// ToolInvocation is a model-produced request to run one tool. ID is opaque
// and must be echoed back verbatim on the result.
type ToolInvocation struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is always produced for an invocation, never omitted. Failures
// set IsError and carry a structured payload instead of a raw error.
type ToolResult struct {
	InvocationID string `json:"invocation_id"`
	Payload      any    `json:"payload"`
	IsError      bool   `json:"is_error"`
}
