package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/sentimo/internal/domain/chat"
	"github.com/bryanwahyu/sentimo/internal/domain/review"
	"github.com/bryanwahyu/sentimo/internal/infra/ai/prompt"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel   = "gemini-3-pro-preview"
)

type Options struct {
	APIKey        string
	BaseURL       string
	AnalysisModel string
	ChatModel     string
	// ThinkingBudget is the deliberation budget in tokens; 0 leaves the
	// provider default.
	ThinkingBudget int
	// MaxOutputTokens caps the completion; 0 leaves it unset.
	MaxOutputTokens int
	HTTPClient      *http.Client
}

// Client talks to an OpenAI-compatible chat completions API.
type Client struct {
	*openai.Client
	AnalysisModel   string
	ChatModel       string
	ThinkingBudget  int
	MaxOutputTokens int
}

func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = DefaultBaseURL
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	c := &Client{
		Client:          openai.NewClientWithConfig(cfg),
		AnalysisModel:   opts.AnalysisModel,
		ChatModel:       opts.ChatModel,
		ThinkingBudget:  opts.ThinkingBudget,
		MaxOutputTokens: opts.MaxOutputTokens,
	}
	if c.AnalysisModel == "" {
		c.AnalysisModel = DefaultModel
	}
	if c.ChatModel == "" {
		c.ChatModel = DefaultModel
	}
	return c
}

// GenerateJSON asks for a completion constrained to the request schema.
func (c *Client) GenerateJSON(ctx context.Context, req review.Request) (string, error) {
	format := &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	if req.Schema != nil {
		format = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "analysis_result",
				Schema: req.Schema,
				Strict: true,
			},
		}
	}
	creq := openai.ChatCompletionRequest{
		Model:          c.AnalysisModel,
		ResponseFormat: format,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: req.Instruction},
		},
		ReasoningEffort: ReasoningEffort(c.ThinkingBudget),
	}
	c.limitTokens(&creq)
	return c.complete(ctx, creq)
}

// Complete sends a conversation and returns the reply text.
func (c *Client) Complete(ctx context.Context, system string, turns []chat.Turn) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, t := range turns {
		role := openai.ChatMessageRoleUser
		if t.Role == chat.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Text})
	}
	creq := openai.ChatCompletionRequest{
		Model:    c.ChatModel,
		Messages: msgs,
	}
	c.limitTokens(&creq)
	return c.complete(ctx, creq)
}

// Ping lists models to confirm the endpoint and credential work.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.ListModels(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// limitTokens uses MaxCompletionTokens for reasoning models (o1/o3/o4/gpt-5*)
// and MaxTokens for the rest.
func (c *Client) limitTokens(req *openai.ChatCompletionRequest) {
	if c.MaxOutputTokens <= 0 {
		return
	}
	if isReasoningModel(req.Model) {
		req.MaxCompletionTokens = c.MaxOutputTokens
	} else {
		req.MaxTokens = c.MaxOutputTokens
	}
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

// ReasoningEffort maps a numeric thinking budget onto the effort levels of
// the OpenAI-compatible API, using Gemini's budget for each level as the
// upper bound.
func ReasoningEffort(budget int) string {
	switch {
	case budget <= 0:
		return ""
	case budget <= 1024:
		return "low"
	case budget <= 8192:
		return "medium"
	default:
		return "high"
	}
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &review.TransportError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &review.TransportError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &review.TransportError{Err: err}
}
