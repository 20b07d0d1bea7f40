package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

const DefaultTemplate = "Provide a helpful and concise response to this question: {{.Query}}"

type RelayOption func(*Relay) error

// WithTemplate sets the text/template the user's query is wrapped in. The
// query is available as {{.Query}}. An empty template sends the query as is.
func WithTemplate(text string) RelayOption {
	return func(r *Relay) error {
		text = strings.TrimSpace(text)
		if text == "" {
			r.template = nil
			return nil
		}
		tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
		if err != nil {
			return fmt.Errorf("error parsing prompt template: %w", err)
		}
		r.template = tmpl
		return nil
	}
}

// Relay forwards single questions to a chat model. It keeps no history; every
// Ask is independent of the ones before it.
type Relay struct {
	completer Completer
	template  *template.Template
}

func NewRelay(completer Completer, opts ...RelayOption) (*Relay, error) {
	r := &Relay{completer: completer}
	if err := WithTemplate(DefaultTemplate)(r); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Prompt returns the text that Ask sends for query.
func (r *Relay) Prompt(query string) (string, error) {
	if r.template == nil {
		return query, nil
	}
	var sb strings.Builder
	if err := r.template.Execute(&sb, struct{ Query string }{Query: query}); err != nil {
		return "", fmt.Errorf("error rendering prompt: %w", err)
	}
	return sb.String(), nil
}

// Ask returns the model's reply verbatim. A non-nil error is always a
// *ChatError.
func (r *Relay) Ask(ctx context.Context, query string) (string, error) {
	prompt, err := r.Prompt(query)
	if err != nil {
		return "", &ChatError{Kind: KindProvider, Message: err.Error(), Err: err}
	}
	msg, _, err := r.completer.Complete(ctx, []Message{NewUserMessage(prompt)})
	if err != nil {
		var chatErr *ChatError
		if errors.As(err, &chatErr) {
			return "", chatErr
		}
		return "", &ChatError{Kind: KindTransport, Message: err.Error(), Err: err}
	}
	return msg.Content.Text(), nil
}
