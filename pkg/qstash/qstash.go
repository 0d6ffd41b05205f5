// Package qstash publishes CRM events to an Upstash QStash endpoint so
// downstream consumers (notifications, analytics) pick up new leads and
// viewings without blocking the chat turn.
package qstash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

type Config struct {
	URL     string        `split_words:"true"`
	Token   string        `split_words:"true"`
	Topic   string        `split_words:"true" default:"crm-events"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

// Enabled reports whether the publisher is configured at all. Event
// publishing is optional; an empty URL disables it.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

type Client struct {
	baseURL    string
	token      string
	topic      string
	httpClient *http.Client
}

var _ contractx.EventPublisher = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("qstash url is required")
	}

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(cfg.Token),
		topic:   strings.TrimSpace(cfg.Topic),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	return client, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Publish posts one event to the configured topic. Callers treat failures as
// non-fatal; the chat turn never depends on delivery.
func (c *Client) Publish(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event, err)
	}

	endpoint := fmt.Sprintf("%s/v2/publish/%s", c.baseURL, url.PathEscape(c.topic))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("publish event %s: %w", event, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("publish event %s: unexpected status %d", event, resp.StatusCode)
	}
	return nil
}
