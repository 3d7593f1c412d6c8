// Package llm wraps the hosted model service behind embedding and
// completion calls with per-call timeouts.
package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Client calls the hosted model service for embeddings and completions.
type Client struct {
	client          openai.Client
	embedModel      string
	completionModel string
	timeout         time.Duration
	maxOutputTokens int

	// Stats tracks call latencies for the status endpoint.
	Stats *Stats
}

// Options configures the client.
type Options struct {
	APIKey          string
	BaseURL         string // Optional: for OpenAI-compatible APIs.
	EmbedModel      string
	CompletionModel string
	Timeout         time.Duration
	MaxOutputTokens int
}

func NewClient(opts Options) *Client {
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxTokens := opts.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	return &Client{
		client:          openai.NewClient(clientOpts...),
		embedModel:      opts.EmbedModel,
		completionModel: opts.CompletionModel,
		timeout:         timeout,
		maxOutputTokens: maxTokens,
		Stats:           NewStats(time.Hour),
	}
}

// Embed returns the embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(c.embedModel),
	})
	c.Stats.Record(time.Since(start).Milliseconds())
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}

// Complete sends a system instruction and user content to the chat
// completion endpoint and returns the narrative text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(user),
	}
	if system != "" {
		messages = append([]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(system)}, messages...)
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.completionModel),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(c.maxOutputTokens)),
		Temperature: openai.Float(0.1),
	})
	c.Stats.Record(time.Since(start).Milliseconds())
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return StripCodeBlock(resp.Choices[0].Message.Content), nil
}

// EmbedModel returns the configured embedding model identifier.
func (c *Client) EmbedModel() string { return c.embedModel }

// CompletionModel returns the configured completion model identifier.
func (c *Client) CompletionModel() string { return c.completionModel }

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// classify maps rate limits, server errors and timeouts onto
// RetryableError so the pipeline can apply its retry budget; everything
// else passes through wrapped.
func classify(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == 429 || apierr.StatusCode >= 500 {
			return &RetryableError{StatusCode: apierr.StatusCode, Message: apierr.Error()}
		}
		return fmt.Errorf("model api status %d: %w", apierr.StatusCode, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &RetryableError{Message: "request timed out"}
	}
	return fmt.Errorf("model api: %w", err)
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:[a-z]+)?\\s*(.*?)\\s*```$")

// StripCodeBlock removes a surrounding markdown code fence, if any.
func StripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
