package claude

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

type Config struct {
	APIKey      string        `envconfig:"API_KEY" split_words:"true"`
	Model       string        `envconfig:"MODEL" split_words:"true" default:"claude-sonnet-4-20250514"`
	MaxTokens   int64         `envconfig:"MAX_TOKENS" split_words:"true" default:"4096"`
	Temperature float64       `envconfig:"TEMPERATURE" split_words:"true" default:"-1"`
	Timeout     time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
}

// Configured reports whether a usable API key is set. Placeholder keys
// straight out of an .env template count as unconfigured.
func (c Config) Configured() bool {
	key := strings.TrimSpace(c.APIKey)
	return key != "" && !strings.Contains(key, "your-key")
}

// Client adapts the Anthropic messages API to contract.ModelClient.
type Client struct {
	api         anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
	configured  bool
}

var _ contractx.ModelClient = (*Client)(nil)

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	api := anthropic.NewClient(
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	)

	return &Client{
		api:         api,
		model:       strings.TrimSpace(cfg.Model),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		configured:  cfg.Configured(),
	}
}

func (c *Client) Configured() bool {
	return c.configured
}

// Complete performs one completion call with the full tool registry attached.
func (c *Client) Complete(
	ctx context.Context,
	systemPrompt string,
	tools []contractx.ToolDefinition,
	messages []contractx.Message,
) (contractx.Completion, error) {
	if !c.configured {
		return contractx.Completion{}, contractx.ErrModelNotConfigured
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Tools:     toolsToParams(tools),
		Messages:  messagesToParams(messages),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Type: "text", Text: systemPrompt},
		}
	}
	if c.temperature >= 0 {
		params.Temperature = anthropic.Float(c.temperature)
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		log.Warn().Err(err).Str("model", c.model).Msg("anthropic completion failed")
		return contractx.Completion{}, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	return completionFromMessage(msg), nil
}
