package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

// Tool name constants. The catalog below is the single source of truth tying
// each name to its schema and handler, so the registry the model sees and the
// dispatch table the executor uses cannot diverge.
const (
	NamePropertyPortfolio   = "get_property_portfolio"
	NameCreateLead          = "create_lead"
	NameGoldenVisaCheck     = "check_golden_visa_eligibility"
	NameViewingAvailability = "check_viewing_availability"
	NameScheduleViewing     = "schedule_viewing"
)

// Handler executes one tool against the gateway. A non-nil error marks the
// result as failed; if a payload is returned alongside the error it is used
// verbatim so handlers can shape structured failure payloads.
type Handler func(ctx context.Context, gw contractx.DomainGateway, args map[string]any) (any, error)

type entry struct {
	def contractx.ToolDefinition
	run Handler
}

// catalog returns the ordered, closed tool set. Order matters: the three core
// tools come first, the viewing tools after.
func catalog() []entry {
	return []entry{
		portfolioEntry(),
		createLeadEntry(),
		goldenVisaEntry(),
		viewingAvailabilityEntry(),
		scheduleViewingEntry(),
	}
}

// Executor dispatches tool invocations. It implements contract.ToolExecutor
// and never lets a failure escape as a Go error.
type Executor struct {
	gateway  contractx.DomainGateway
	defs     []contractx.ToolDefinition
	handlers map[string]Handler
}

var _ contractx.ToolExecutor = (*Executor)(nil)

func NewExecutor(gateway contractx.DomainGateway) (*Executor, error) {
	if gateway == nil {
		return nil, errors.New("domain gateway is required")
	}

	entries := catalog()
	e := &Executor{
		gateway:  gateway,
		defs:     make([]contractx.ToolDefinition, 0, len(entries)),
		handlers: make(map[string]Handler, len(entries)),
	}
	for _, ent := range entries {
		if _, dup := e.handlers[ent.def.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", ent.def.Name)
		}
		e.defs = append(e.defs, ent.def)
		e.handlers[ent.def.Name] = ent.run
	}
	return e, nil
}

// Definitions returns the ordered registry exposed to the model on every
// completion call.
func (e *Executor) Definitions() []contractx.ToolDefinition {
	defs := make([]contractx.ToolDefinition, len(e.defs))
	copy(defs, e.defs)
	return defs
}

// Execute runs one invocation and always produces a result keyed by the
// invocation id. Unknown tools and failed handlers become error payloads.
func (e *Executor) Execute(ctx context.Context, inv contractx.ToolInvocation) contractx.ToolResult {
	handler, ok := e.handlers[inv.Name]
	if !ok {
		log.Warn().Str("tool", inv.Name).Msg("model requested unknown tool")
		return contractx.ToolResult{
			InvocationID: inv.ID,
			Payload:      map[string]any{"error": "unknown_tool"},
			IsError:      true,
		}
	}

	payload, err := handler(ctx, e.gateway, inv.Args)
	if err != nil {
		log.Warn().Err(err).Str("tool", inv.Name).Msg("tool execution failed")
		if payload == nil {
			payload = map[string]any{"error": err.Error()}
		}
		return contractx.ToolResult{
			InvocationID: inv.ID,
			Payload:      payload,
			IsError:      true,
		}
	}

	return contractx.ToolResult{
		InvocationID: inv.ID,
		Payload:      payload,
	}
}
