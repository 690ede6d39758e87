package llm

import (
	"context"
	"strings"
)

// Provider is the completion abstraction used by the checklist generator,
// the resume analyzer and the chat assistant.
type Provider interface {
	// Generate sends the request and returns the model's reply. When the
	// request carries a Schema the reply is validated against it before it
	// is returned.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Format selects the shape of the reply.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. Single-turn calls carry one user message.
	Messages []Message

	// Format asks the provider for a JSON object when set to FormatJSON.
	Format Format

	// Schema, when set, is used to validate the JSON reply locally. It is
	// never sent to the provider.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema definition.
type Schema struct {
	// Name keys the compiled schema cache, so it must be unique per definition.
	Name       string
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the reply text. For JSON requests it is the bare JSON
	// document with any markdown fences removed.
	Content    string
	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds a single-turn request body.
func UserPrompt(text string) []Message {
	return []Message{{Role: RoleUser, Content: text}}
}

const defaultMaxTokens = 1024

func maxTokens(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return defaultMaxTokens
}

// stripFences removes a surrounding ```json ... ``` block if the model added one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// finish applies the shared post-processing for a raw provider reply.
func finish(req Request, content, stopReason string) (string, error) {
	if stopReason == "max_tokens" && req.Format == FormatJSON {
		return "", &ErrMaxTokensExceeded{Content: content}
	}
	if req.Format != FormatJSON {
		return content, nil
	}
	content = stripFences(content)
	if err := validateResponse(req.Schema, content); err != nil {
		return "", err
	}
	return content, nil
}
