// Package completion is the boundary to the language-model completion
// service: an ordered list of role-tagged messages in, generated text out.
// Go code builds prompts and parses replies; the numbers themselves come
// from the model.
package completion

import (
	"context"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes one completion call.
type Request struct {
	Messages []Message
	// MaxTokens caps the generated output. Zero means the client default.
	MaxTokens int64
	// Temperature, when non-nil, overrides the provider's default sampling
	// temperature. Unit conversion pins this to zero.
	Temperature *float64
}

// Service generates text from role-tagged messages. Implementations are
// stateless per call and safe for concurrent use.
type Service interface {
	// Complete sends the messages and returns the generated assistant text.
	Complete(ctx context.Context, req Request) (string, error)

	// Provider returns the provider name (e.g., "anthropic", "openai").
	Provider() string

	// Model returns the model name used for completions.
	Model() string
}

// System returns a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User returns a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Assistant returns an assistant message.
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// splitSystem separates leading system messages from the conversation turns.
// Both providers take system text out of band.
func splitSystem(messages []Message) (system []string, turns []Message) {
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	return system, turns
}
