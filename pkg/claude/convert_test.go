package claude

import (
	"encoding/json"
	"testing"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

func TestToolsToParams(t *testing.T) {
	t.Parallel()

	defs := []contractx.ToolDefinition{
		{
			Name:        "get_property_portfolio",
			Description: "Retrieves available properties",
			InputSchema: contractx.Schema{
				Type: "object",
				Properties: map[string]contractx.Field{
					"property_type": {Type: "string", Enum: []string{"villa", "all"}},
					"min_price_aed": {Type: "number", Description: "Minimum price in AED"},
				},
			},
		},
		{
			Name: "check_golden_visa_eligibility",
			InputSchema: contractx.Schema{
				Type:       "object",
				Properties: map[string]contractx.Field{"priceAed": {Type: "number"}},
				Required:   []string{"priceAed"},
			},
		},
	}

	params := toolsToParams(defs)
	if len(params) != 2 {
		t.Fatalf("expected 2 tool params, got %d", len(params))
	}

	first := params[0].OfTool
	if first == nil || first.Name != "get_property_portfolio" {
		t.Fatalf("unexpected first tool: %+v", params[0])
	}
	properties, ok := first.InputSchema.Properties.(map[string]any)
	if !ok {
		t.Fatalf("properties not mapped: %#v", first.InputSchema.Properties)
	}
	prop, ok := properties["property_type"].(map[string]any)
	if !ok {
		t.Fatalf("property_type not mapped: %#v", properties)
	}
	enum, ok := prop["enum"].([]string)
	if !ok || len(enum) != 2 {
		t.Fatalf("enum not carried: %#v", prop)
	}

	second := params[1].OfTool
	if second == nil || len(second.InputSchema.Required) != 1 || second.InputSchema.Required[0] != "priceAed" {
		t.Fatalf("required not carried: %+v", params[1])
	}
}

func TestMessagesToParamsRolesAndBlocks(t *testing.T) {
	t.Parallel()

	input, _ := json.Marshal(map[string]any{"location": "Downtown"})
	messages := []contractx.Message{
		contractx.UserText("show me apartments"),
		{
			Role: contractx.RoleAssistant,
			Content: []contractx.Block{
				contractx.TextBlock("Checking the portfolio."),
				{Type: contractx.BlockTypeToolUse, ID: "toolu_1", Name: "get_property_portfolio", Input: input},
			},
		},
		{
			Role: contractx.RoleUser,
			Content: []contractx.Block{
				contractx.ToolResultBlock("toolu_1", `{"success":true,"count":0}`, false),
			},
		},
		{Role: contractx.RoleUser, Content: nil},
	}

	params := messagesToParams(messages)
	if len(params) != 3 {
		t.Fatalf("expected empty message skipped, got %d params", len(params))
	}
	if params[0].Role != "user" || params[1].Role != "assistant" || params[2].Role != "user" {
		t.Fatalf("roles not mapped: %v %v %v", params[0].Role, params[1].Role, params[2].Role)
	}
	if len(params[1].Content) != 2 {
		t.Fatalf("assistant blocks dropped: %d", len(params[1].Content))
	}
	toolUse := params[1].Content[1].OfToolUse
	if toolUse == nil || toolUse.ID != "toolu_1" || toolUse.Name != "get_property_portfolio" {
		t.Fatalf("tool_use block not mapped: %+v", params[1].Content[1])
	}
	toolResult := params[2].Content[0].OfToolResult
	if toolResult == nil || toolResult.ToolUseID != "toolu_1" {
		t.Fatalf("tool_result block not mapped: %+v", params[2].Content[0])
	}
}
