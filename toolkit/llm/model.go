package llm

import (
	"context"
	"strings"
)

// messages ----------------------------------------------------------------------------------------

type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

type ContentPart any

type TextContentPart struct {
	Type string
	Text string
}

func NewTextContentPart(text string) TextContentPart {
	return TextContentPart{Type: "text", Text: text}
}

type ContentParts []ContentPart

func (c ContentParts) Text() string {
	var sb strings.Builder
	for _, part := range c {
		if p, ok := part.(TextContentPart); ok {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

type Message struct {
	Role    Role
	Content ContentParts
}

func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: ContentParts{NewTextContentPart(text)}}
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// model -------------------------------------------------------------------------------------------

type Completer interface {
	Complete(ctx context.Context, messages []Message) (Message, Usage, error)
}
