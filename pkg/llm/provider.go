package llm

import (
	"context"
)

// Message is a chat turn in a provider-agnostic shape.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option carries optional generation parameters.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // overrides the provider's default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider is the contract every model backend satisfies.
type LLMProvider interface {
	// Chat sends a conversation to the model and returns the response text.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt. Convenience wrapper over Chat.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// EstimateTokens approximates usage for providers that do not report it.
// Four characters per token is the usual rule of thumb for English prose.
func EstimateTokens(text string) int {
	return len(text) / 4
}
