package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

type fakeModel struct {
	configured  bool
	completions []contractx.Completion
	err         error
	calls       int
	histories   [][]contractx.Message
}

func (f *fakeModel) Configured() bool {
	return f.configured
}

func (f *fakeModel) Complete(
	ctx context.Context,
	systemPrompt string,
	tools []contractx.ToolDefinition,
	messages []contractx.Message,
) (contractx.Completion, error) {
	f.calls++
	history := append([]contractx.Message(nil), messages...)
	f.histories = append(f.histories, history)
	if f.err != nil {
		return contractx.Completion{}, f.err
	}
	idx := f.calls - 1
	if idx >= len(f.completions) {
		return contractx.Completion{}, fmt.Errorf("no completion left at call=%d", f.calls)
	}
	return f.completions[idx], nil
}

type fakeExecutor struct {
	defs    []contractx.ToolDefinition
	result  contractx.ToolResult
	calls   []contractx.ToolInvocation
	echoID  bool
	payload any
}

func (f *fakeExecutor) Definitions() []contractx.ToolDefinition {
	return f.defs
}

func (f *fakeExecutor) Execute(ctx context.Context, inv contractx.ToolInvocation) contractx.ToolResult {
	f.calls = append(f.calls, inv)
	result := f.result
	if f.echoID {
		result.InvocationID = inv.ID
	}
	if f.payload != nil {
		result.Payload = f.payload
	}
	return result
}

func userTurn(text string) contractx.Message {
	return contractx.Message{
		Role:    contractx.RoleUser,
		Content: []contractx.Block{contractx.TextBlock(text)},
	}
}

func toolUseCompletion(id, name string, args any) contractx.Completion {
	input, _ := json.Marshal(args)
	return contractx.Completion{
		StopReason: contractx.StopReasonToolUse,
		Content: []contractx.Block{
			contractx.TextBlock("Let me check that for you."),
			{
				Type:  contractx.BlockTypeToolUse,
				ID:    id,
				Name:  name,
				Input: input,
			},
		},
	}
}

func textCompletion(text string) contractx.Completion {
	return contractx.Completion{
		StopReason: contractx.StopReasonEndTurn,
		Content:    []contractx.Block{contractx.TextBlock(text)},
	}
}

func TestHandleTurnDemoMode(t *testing.T) {
	t.Parallel()

	model := &fakeModel{configured: false}
	o, err := New(model, &fakeExecutor{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	reply, err := o.HandleTurn(context.Background(), []contractx.Message{userTurn("hello")})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != demoModeReply {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if model.calls != 0 {
		t.Fatalf("expected no model calls in demo mode, got %d", model.calls)
	}
}

func TestHandleTurnDirectAnswer(t *testing.T) {
	t.Parallel()

	model := &fakeModel{
		configured:  true,
		completions: []contractx.Completion{textCompletion("Dubai Marina is a great pick.")},
	}
	executor := &fakeExecutor{}
	o, err := New(model, executor)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	reply, err := o.HandleTurn(context.Background(), []contractx.Message{userTurn("tell me about Dubai Marina")})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != "Dubai Marina is a great pick." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if model.calls != 1 {
		t.Fatalf("expected one model call, got %d", model.calls)
	}
	if len(executor.calls) != 0 {
		t.Fatalf("expected no tool executions, got %d", len(executor.calls))
	}
}

func TestHandleTurnToolRoundTrip(t *testing.T) {
	t.Parallel()

	first := toolUseCompletion("toolu_01", "get_property_portfolio", map[string]any{"location": "Palm Jumeirah"})
	model := &fakeModel{
		configured: true,
		completions: []contractx.Completion{
			first,
			textCompletion("I found 2 villas on Palm Jumeirah."),
		},
	}
	executor := &fakeExecutor{
		echoID:  true,
		payload: map[string]any{"success": true, "count": 2},
	}
	o, err := New(model, executor)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	reply, err := o.HandleTurn(context.Background(), []contractx.Message{userTurn("villas on the palm?")})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != "I found 2 villas on Palm Jumeirah." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if len(executor.calls) != 1 {
		t.Fatalf("expected exactly one tool execution, got %d", len(executor.calls))
	}
	inv := executor.calls[0]
	if inv.ID != "toolu_01" || inv.Name != "get_property_portfolio" {
		t.Fatalf("unexpected invocation: %+v", inv)
	}
	if inv.Args["location"] != "Palm Jumeirah" {
		t.Fatalf("unexpected args: %+v", inv.Args)
	}

	if model.calls != 2 {
		t.Fatalf("expected two model calls, got %d", model.calls)
	}

	followUpHistory := model.histories[1]
	if len(followUpHistory) != 3 {
		t.Fatalf("expected follow-up history of 3 messages, got %d", len(followUpHistory))
	}

	assistant := followUpHistory[1]
	if assistant.Role != contractx.RoleAssistant {
		t.Fatalf("expected assistant turn at index 1, got role %q", assistant.Role)
	}
	if len(assistant.Content) != len(first.Content) {
		t.Fatalf("assistant turn content was altered: %+v", assistant.Content)
	}

	resultTurn := followUpHistory[2]
	if resultTurn.Role != contractx.RoleUser {
		t.Fatalf("expected user turn carrying the tool result, got role %q", resultTurn.Role)
	}
	block := resultTurn.Content[0]
	if block.Type != contractx.BlockTypeToolResult {
		t.Fatalf("expected tool_result block, got %q", block.Type)
	}
	if block.ToolUseID != "toolu_01" {
		t.Fatalf("tool result keyed to %q, want toolu_01", block.ToolUseID)
	}
	if !strings.Contains(block.Content, `"count":2`) {
		t.Fatalf("tool result payload not serialized: %q", block.Content)
	}
}

func TestHandleTurnSecondToolRequestGetsFallback(t *testing.T) {
	t.Parallel()

	model := &fakeModel{
		configured: true,
		completions: []contractx.Completion{
			toolUseCompletion("toolu_01", "get_property_portfolio", map[string]any{}),
			toolUseCompletion("toolu_02", "create_lead", map[string]any{}),
		},
	}
	executor := &fakeExecutor{echoID: true, payload: map[string]any{"success": true}}
	o, err := New(model, executor)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	reply, err := o.HandleTurn(context.Background(), []contractx.Message{userTurn("find and register")})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != couldNotProcessReply {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(executor.calls) != 1 {
		t.Fatalf("expected exactly one tool execution, got %d", len(executor.calls))
	}
	if model.calls != 2 {
		t.Fatalf("expected two model calls, got %d", model.calls)
	}
}

func TestHandleTurnFirstCompletionWithoutText(t *testing.T) {
	t.Parallel()

	model := &fakeModel{
		configured: true,
		completions: []contractx.Completion{
			{StopReason: contractx.StopReasonEndTurn},
		},
	}
	o, err := New(model, &fakeExecutor{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	reply, err := o.HandleTurn(context.Background(), []contractx.Message{userTurn("...")})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if reply != couldNotUnderstandReply {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandleTurnModelError(t *testing.T) {
	t.Parallel()

	model := &fakeModel{
		configured: true,
		err:        fmt.Errorf("%w: upstream 529", contractx.ErrModelInvoke),
	}
	o, err := New(model, &fakeExecutor{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = o.HandleTurn(context.Background(), []contractx.Message{userTurn("hi")})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestHandleTurnRejectsBadHistory(t *testing.T) {
	t.Parallel()

	model := &fakeModel{configured: true}
	o, err := New(model, &fakeExecutor{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = o.HandleTurn(context.Background(), nil)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty history, got %v", err)
	}

	_, err = o.HandleTurn(context.Background(), []contractx.Message{
		{Role: "system", Content: []contractx.Block{contractx.TextBlock("x")}},
	})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad role, got %v", err)
	}
	if model.calls != 0 {
		t.Fatalf("expected no model calls on invalid input, got %d", model.calls)
	}
}
