package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

type GraphInput struct {
	Messages []contractx.Message
}

type GraphOutput struct {
	Reply string
}

// turnState carries one turn through the graph. History holds the
// caller-supplied messages verbatim; the orchestrator only appends.
type turnState struct {
	History []contractx.Message

	First      contractx.Completion
	Invocation contractx.ToolInvocation
	Result     contractx.ToolResult
	FollowUp   contractx.Completion
}

func validateTurn(in GraphInput) (*turnState, error) {
	if len(in.Messages) == 0 {
		return nil, fmt.Errorf("%w: messages are required", contractx.ErrValidation)
	}
	for i, msg := range in.Messages {
		if msg.Role != contractx.RoleUser && msg.Role != contractx.RoleAssistant {
			return nil, fmt.Errorf("%w: message %d has unsupported role %q", contractx.ErrValidation, i, msg.Role)
		}
	}
	return &turnState{History: in.Messages}, nil
}

func (o *Orchestrator) callModel(ctx context.Context, st *turnState) (*turnState, error) {
	completion, err := o.model.Complete(ctx, o.systemPrompt, o.executor.Definitions(), st.History)
	if err != nil {
		return nil, err
	}
	st.First = completion
	return st, nil
}

// executeTool honors only the first tool_use block. If the model requested
// several tools in one turn, the rest are dropped.
func (o *Orchestrator) executeTool(ctx context.Context, st *turnState) (*turnState, error) {
	block := st.First.FirstToolUse()
	if block == nil {
		return nil, fmt.Errorf("%w: tool branch without tool_use block", contractx.ErrValidation)
	}

	st.Invocation = invocationFromBlock(*block)
	log.Info().Str("tool", st.Invocation.Name).Str("invocation_id", st.Invocation.ID).Msg("executing tool")

	st.Result = o.executor.Execute(ctx, st.Invocation)
	return st, nil
}

// callFollowUp extends the history with the model's own turn verbatim and a
// synthetic user message carrying the tool result keyed by invocation id,
// then asks the model for the final reply.
func (o *Orchestrator) callFollowUp(ctx context.Context, st *turnState) (*turnState, error) {
	payload, err := json.Marshal(st.Result.Payload)
	if err != nil {
		payload = []byte(`{"error":"unserializable_tool_result"}`)
	}

	history := make([]contractx.Message, 0, len(st.History)+2)
	history = append(history, st.History...)
	history = append(history, contractx.Message{
		Role:    contractx.RoleAssistant,
		Content: st.First.Content,
	})
	history = append(history, contractx.Message{
		Role: contractx.RoleUser,
		Content: []contractx.Block{
			contractx.ToolResultBlock(st.Result.InvocationID, string(payload), st.Result.IsError),
		},
	})

	completion, err := o.model.Complete(ctx, o.systemPrompt, o.executor.Definitions(), history)
	if err != nil {
		return nil, err
	}
	st.FollowUp = completion
	return st, nil
}

// finalizeFollowUp closes the turn after a tool round-trip. A follow-up that
// requests yet another tool gets the fixed fallback, never a second
// execution, even when it carries preamble text before the tool_use block.
func finalizeFollowUp(st *turnState) (GraphOutput, error) {
	if st.FollowUp.RequestsTool() {
		log.Warn().Str("tool", st.FollowUp.FirstToolUse().Name).Msg("follow-up requested another tool, serving fallback")
		return GraphOutput{Reply: couldNotProcessReply}, nil
	}
	text := st.FollowUp.FirstText()
	if text == "" {
		log.Warn().Str("stop_reason", st.FollowUp.StopReason).Msg("follow-up completion had no text block")
		return GraphOutput{Reply: couldNotProcessReply}, nil
	}
	return GraphOutput{Reply: text}, nil
}

// finalizeDirect closes a turn that needed no tool.
func finalizeDirect(st *turnState) (GraphOutput, error) {
	text := st.First.FirstText()
	if text == "" {
		log.Warn().Str("stop_reason", st.First.StopReason).Msg("completion had no text block")
		return GraphOutput{Reply: couldNotUnderstandReply}, nil
	}
	return GraphOutput{Reply: text}, nil
}

func invocationFromBlock(block contractx.Block) contractx.ToolInvocation {
	args := map[string]any{}
	if len(block.Input) > 0 {
		// Malformed input still dispatches; the executor reports the
		// validation failure back to the model as a tool result.
		if err := json.Unmarshal(block.Input, &args); err != nil {
			log.Warn().Err(err).Str("tool", block.Name).Msg("tool input is not a JSON object")
			args = map[string]any{}
		}
	}
	return contractx.ToolInvocation{
		ID:   block.ID,
		Name: block.Name,
		Args: args,
	}
}
