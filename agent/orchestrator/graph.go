package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
)

// compileTurnGraph builds the turn state machine:
//
//	validate_turn -> call_model -> { execute_tool -> call_followup -> finalize_followup
//	                              , finalize_direct }
//
// The tool cycle appears exactly once in the graph, which enforces the
// one-round-trip bound structurally rather than by a loop counter.
func (o *Orchestrator) compileTurnGraph(
	ctx context.Context,
) (compose.Runnable[GraphInput, GraphOutput], error) {
	graph := compose.NewGraph[GraphInput, GraphOutput]()

	if err := graph.AddLambdaNode("validate_turn",
		compose.InvokableLambda(func(ctx context.Context, in GraphInput) (*turnState, error) {
			return validateTurn(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_turn: %w", err)
	}

	if err := graph.AddLambdaNode("call_model",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			return o.callModel(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node call_model: %w", err)
	}

	if err := graph.AddLambdaNode("execute_tool",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			return o.executeTool(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_tool: %w", err)
	}

	if err := graph.AddLambdaNode("call_followup",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			return o.callFollowUp(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node call_followup: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_followup",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (GraphOutput, error) {
			return finalizeFollowUp(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_followup: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_direct",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (GraphOutput, error) {
			return finalizeDirect(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_direct: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *turnState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("turn state is nil")
			}
			if in.First.RequestsTool() {
				return "execute_tool", nil
			}
			return "finalize_direct", nil
		},
		map[string]bool{
			"execute_tool":    true,
			"finalize_direct": true,
		},
	)

	if err := graph.AddBranch("call_model", branch); err != nil {
		return nil, fmt.Errorf("add turn branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_turn"},
		{"validate_turn", "call_model"},
		{"execute_tool", "call_followup"},
		{"call_followup", "finalize_followup"},
		{"finalize_followup", compose.END},
		{"finalize_direct", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("concierge.turn"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}
