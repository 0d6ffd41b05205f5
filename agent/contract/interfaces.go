package contract

import "context"

// ModelClient is the adapter to the external LLM completion API.
type ModelClient interface {
	// Configured reports whether a usable credential is present. Callers must
	// not invoke Complete when it returns false.
	Configured() bool
	Complete(ctx context.Context, systemPrompt string, tools []ToolDefinition, messages []Message) (Completion, error)
}

// ToolExecutor maps a tool invocation to a gateway call. It never returns a
// Go error: every failure becomes a structured ToolResult.
type ToolExecutor interface {
	Definitions() []ToolDefinition
	Execute(ctx context.Context, inv ToolInvocation) ToolResult
}

// DomainGateway is the interface through which tools reach external state.
type DomainGateway interface {
	SearchProperties(ctx context.Context, filter PropertyFilter) ([]Property, error)
	CreateLead(ctx context.Context, q LeadQualification) (Lead, error)
	CheckViewingAvailability(ctx context.Context, propertyID, date string) ([]string, error)
	ScheduleViewing(ctx context.Context, leadID, propertyID, date, timeSlot, viewingType string) (Viewing, error)
}

// EventPublisher fans domain events out to an external channel. Implementations
// are best-effort; publish failures must never fail the originating operation.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any) error
}
