package orchestrator

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/apexproperties/concierge/agent/contract"
	promptx "github.com/apexproperties/concierge/agent/prompt"
)

const (
	// Reply when no model credential is configured. The turn endpoint must
	// return this without any outbound call.
	demoModeReply = "Thank you for your interest in Apex Properties Dubai! \n\n" +
		"⚠️ The AI chatbot is currently in demo mode and requires API configuration to function.\n\n" +
		"To activate the full chatbot experience:\n" +
		"1. Get an Anthropic API key from console.anthropic.com\n" +
		"2. Add it to your .env.local file\n" +
		"3. Restart the development server\n\n" +
		"In the meantime, feel free to browse our luxury properties on the homepage, or contact us directly at:\n" +
		"📞 +971 4 444 5555\n" +
		"📧 inquiries@apexpropertiesdubai.ae"

	// Reply when the follow-up completion carries no text block, e.g. the
	// model asks for a second tool. One tool round-trip per turn is the bound.
	couldNotProcessReply = "I apologize, but I couldn't process that request."

	// Reply when the first completion carries neither text nor tool use.
	couldNotUnderstandReply = "I apologize, but I couldn't understand that. Could you please rephrase?"
)

// Orchestrator drives one conversation turn: one model call, at most one tool
// round-trip, one assistant reply. It holds no conversation state; callers
// resend full history every turn.
type Orchestrator struct {
	model        contractx.ModelClient
	executor     contractx.ToolExecutor
	systemPrompt string

	graphRunner compose.Runnable[GraphInput, GraphOutput]
}

func New(model contractx.ModelClient, executor contractx.ToolExecutor) (*Orchestrator, error) {
	if model == nil {
		return nil, errors.New("model client is required")
	}
	if executor == nil {
		return nil, errors.New("tool executor is required")
	}

	o := &Orchestrator{
		model:        model,
		executor:     executor,
		systemPrompt: promptx.Consultant(),
	}

	graphRunner, err := o.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleTurn produces exactly one assistant reply for the supplied history.
func (o *Orchestrator) HandleTurn(ctx context.Context, messages []contractx.Message) (string, error) {
	if !o.model.Configured() {
		return demoModeReply, nil
	}

	out, err := o.graphRunner.Invoke(ctx, GraphInput{Messages: messages})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}
