package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/markusylisiurunen/wavetracker/internal/logger"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel   = "llama-3.3-70b-versatile"
	DefaultTimeout = 60 * time.Second

	maxResponseSize = 4 << 20
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ Completer = (*ChatCompletions)(nil)

type ChatCompletionsOption func(*ChatCompletions)

func WithBaseURL(baseURL string) ChatCompletionsOption {
	return func(c *ChatCompletions) { c.baseURL = baseURL }
}

func WithDoer(doer Doer) ChatCompletionsOption {
	return func(c *ChatCompletions) { c.doer = doer }
}

func WithTimeout(timeout time.Duration) ChatCompletionsOption {
	return func(c *ChatCompletions) { c.timeout = timeout }
}

// ChatCompletions talks to any OpenAI-compatible /chat/completions endpoint,
// Groq by default. Requests are not streamed.
type ChatCompletions struct {
	logger  logger.Logger
	token   string
	model   string
	baseURL string
	timeout time.Duration
	doer    Doer
}

func NewChatCompletions(logger logger.Logger, token, model string, opts ...ChatCompletionsOption) *ChatCompletions {
	if model == "" {
		model = DefaultModel
	}
	c := &ChatCompletions{
		logger:  logger,
		token:   token,
		model:   model,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.doer == nil {
		c.doer = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Complete sends messages as one request and returns the first choice. A
// non-nil error is always a *ChatError.
func (c *ChatCompletions) Complete(ctx context.Context, messages []Message) (Message, Usage, error) {
	log := logger.With(c.logger, "request_id", uuid.NewString())
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.request(ctx, log, messages)
	if err != nil {
		log.Error("error calling chat completions: %v", err)
		var chatErr *ChatError
		if errors.As(err, &chatErr) {
			return Message{}, Usage{}, chatErr
		}
		return Message{}, Usage{}, &ChatError{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		log.Error("error reading response body: %v", err)
		return Message{}, Usage{}, &ChatError{Kind: KindTransport, Message: fmt.Sprintf("error reading response body: %v", err), Err: err}
	}
	log.Debugj("chat completions response", body)
	if resp.StatusCode != http.StatusOK {
		return Message{}, Usage{}, statusError(resp.StatusCode, body)
	}
	if !gjson.ValidBytes(body) {
		return Message{}, Usage{}, &ChatError{Kind: KindProvider, StatusCode: resp.StatusCode, Message: "response is not valid JSON"}
	}
	result := gjson.ParseBytes(body)
	if e := result.Get("error"); isError(e) {
		return Message{}, Usage{}, providerError(resp.StatusCode, e)
	}
	choice := result.Get("choices.0.message")
	if !choice.Exists() {
		return Message{}, Usage{}, &ChatError{Kind: KindEmpty, Message: "response has no choices"}
	}
	usage := Usage{
		PromptTokens:     int(result.Get("usage.prompt_tokens").Int()),
		CompletionTokens: int(result.Get("usage.completion_tokens").Int()),
	}
	log.Info("chat completion done (prompt tokens: %d, completion tokens: %d)", usage.PromptTokens, usage.CompletionTokens)
	role := Role(choice.Get("role").String())
	if role == "" {
		role = RoleAssistant
	}
	return Message{
		Role:    role,
		Content: ContentParts{NewTextContentPart(choice.Get("content").String())},
	}, usage, nil
}

func (c *ChatCompletions) request(ctx context.Context, log logger.Logger, messages []Message) (*http.Response, error) {
	payload := chat_Request{
		Model:    c.model,
		Messages: make([]chat_Message, 0, len(messages)),
		Stream:   false,
	}
	for _, msg := range messages {
		payload.Messages = append(payload.Messages, chat_Message{
			Role:    string(msg.Role),
			Content: msg.Content.Text(),
		})
	}
	var data bytes.Buffer
	encoder := json.NewEncoder(&data)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		return nil, fmt.Errorf("error marshalling request: %w", err)
	}
	log.Debugj("chat completions request", data.Bytes())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &data)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.doer.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ChatError{Kind: KindTransport, Message: "request timed out", Err: err}
		}
		return nil, &ChatError{Kind: KindTransport, Message: fmt.Sprintf("request failed: %v", err), Err: err}
	}
	return resp, nil
}

func statusError(status int, body []byte) *ChatError {
	if e := gjson.GetBytes(body, "error"); isError(e) {
		return providerError(status, e)
	}
	msg := string(bytes.TrimSpace(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &ChatError{Kind: kindForStatus(status, ""), StatusCode: status, Message: msg}
}

// isError reports whether an "error" member carries a failure. Some
// providers send "error": null alongside a successful completion.
func isError(e gjson.Result) bool {
	return e.Exists() && e.Type != gjson.Null
}

func providerError(status int, e gjson.Result) *ChatError {
	msg := e.Get("message").String()
	if msg == "" {
		msg = e.String()
	}
	code := e.Get("code").String()
	if code == "" {
		code = e.Get("type").String()
	}
	return &ChatError{Kind: kindForStatus(status, code), StatusCode: status, Code: code, Message: msg}
}

func kindForStatus(status int, code string) ErrorKind {
	switch code {
	case "invalid_api_key", "authentication_error", "permission_denied":
		return KindAuth
	case "rate_limit_exceeded", "insufficient_quota", "tokens":
		return KindRateLimit
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindRateLimit
	default:
		return KindProvider
	}
}

// helper types ------------------------------------------------------------------------------------

type chat_Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chat_Request struct {
	Model    string         `json:"model"`
	Messages []chat_Message `json:"messages"`
	Stream   bool           `json:"stream"`
}
