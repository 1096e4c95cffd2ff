// Package completion wraps a hosted text-completion API. The caller owns the
// prompt and any interpretation of the returned text; this layer only moves
// bytes and guards the upstream with a circuit breaker.
package completion

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const apiVersion = "2023-06-01"

// Client is an opaque text-completion function. No streaming, no tool calls.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options configures the HTTP-backed client.
type Options struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Logger    *log.Logger
}

// HTTPClient implements Client against a messages-style completion endpoint.
type HTTPClient struct {
	baseURL   *url.URL
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[string]
	logger    *log.Logger
}

// NewHTTPClient constructs a completion client. The breaker opens after a 60%
// failure rate over at least five requests, so a down upstream fails fast
// instead of holding every recommendation request for the full timeout.
func NewHTTPClient(baseURL, apiKey string, opts Options) (*HTTPClient, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse completion url: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "completion-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Printf("completion: breaker %s %s -> %s", name, from, to)
		},
	})

	return &HTTPClient{
		baseURL:   parsed,
		apiKey:    apiKey,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   opts.Timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   opts.Timeout,
				ResponseHeaderTimeout: opts.Timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		breaker: breaker,
		logger:  logger,
	}, nil
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends the prompt and returns the model's text output.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		return c.complete(ctx, prompt)
	})
}

func (c *HTTPClient) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	endpoint := c.baseURL.ResolveReference(&url.URL{Path: "/v1/messages"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("completion: upstream returned %d", resp.StatusCode)
		return "", fmt.Errorf("completion: upstream returned %d", resp.StatusCode)
	}

	var decoded messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(decoded.Content) == 0 {
		return "", fmt.Errorf("completion: empty response content")
	}
	return decoded.Content[0].Text, nil
}
