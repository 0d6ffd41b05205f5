package claude

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

// toolsToParams converts the registry to Anthropic tool declarations.
func toolsToParams(tools []contractx.ToolDefinition) []anthropic.ToolUnionParam {
	params := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, def := range tools {
		properties := make(map[string]any, len(def.InputSchema.Properties))
		for name, field := range def.InputSchema.Properties {
			prop := map[string]any{"type": field.Type}
			if field.Description != "" {
				prop["description"] = field.Description
			}
			if len(field.Enum) > 0 {
				prop["enum"] = field.Enum
			}
			properties[name] = prop
		}

		schema := anthropic.ToolInputSchemaParam{
			Type:       "object",
			Properties: properties,
		}
		if len(def.InputSchema.Required) > 0 {
			schema.Required = def.InputSchema.Required
		}

		params = append(params, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: anthropic.String(def.Description),
				InputSchema: schema,
			},
		})
	}
	return params
}

// messagesToParams converts contract messages, including assistant tool_use
// turns and synthetic tool_result user turns, to Anthropic message params.
func messagesToParams(messages []contractx.Message) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		blocks := blocksToParams(msg.Content)
		if len(blocks) == 0 {
			continue
		}
		switch msg.Role {
		case contractx.RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(blocks...))
		default:
			params = append(params, anthropic.NewUserMessage(blocks...))
		}
	}
	return params
}

func blocksToParams(blocks []contractx.Block) []anthropic.ContentBlockParamUnion {
	out := make([]anthropic.ContentBlockParamUnion, 0, len(blocks))
	for _, b := range blocks {
		switch b.Type {
		case contractx.BlockTypeText:
			if b.Text != "" {
				out = append(out, anthropic.NewTextBlock(b.Text))
			}
		case contractx.BlockTypeToolUse:
			var input any
			if len(b.Input) > 0 {
				if err := json.Unmarshal(b.Input, &input); err != nil {
					input = map[string]any{}
				}
			}
			out = append(out, anthropic.NewToolUseBlock(b.ID, input, b.Name))
		case contractx.BlockTypeToolResult:
			out = append(out, anthropic.NewToolResultBlock(b.ToolUseID, b.Content, b.IsError))
		}
	}
	return out
}

// completionFromMessage flattens an Anthropic response into contract blocks.
func completionFromMessage(msg *anthropic.Message) contractx.Completion {
	completion := contractx.Completion{
		StopReason: string(msg.StopReason),
	}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			completion.Content = append(completion.Content, contractx.TextBlock(block.Text))
		case "tool_use":
			completion.Content = append(completion.Content, contractx.Block{
				Type:  contractx.BlockTypeToolUse,
				ID:    block.ID,
				Name:  block.Name,
				Input: json.RawMessage(block.Input),
			})
		}
	}
	return completion
}
