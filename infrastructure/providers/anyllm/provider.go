// Package anyllm adapts github.com/mozilla-ai/any-llm-go into
// application/ports.ChatProvider, grounded on the reference pkg/provider/
// llm/anyllm wrapper's provider-name-to-backend switch: we keep that
// switch but drop its streaming/tool-calling surface since the Concept
// Extractor and Iteration Controller only ever need a single completed
// response to a single prompt.
package anyllm

import (
	"context"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/deepseek"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"

	apperrors "github.com/danja/semem-go/pkg/errors"
)

// Provider implements ports.ChatProvider over any-llm-go.
type Provider struct {
	backend anyllmlib.Provider
	model   string
}

// New creates a Provider backed by the named any-llm-go provider (one of
// openai, anthropic, gemini, ollama, deepseek, mistral, groq). Credentials
// are supplied as any-llm-go options, already resolved from
// ${VAR}/${VAR:-default} templates by the config loader.
func New(providerName, model, apiKey, baseURL string) (*Provider, error) {
	if providerName == "" || model == "" {
		return nil, apperrors.NewConfig("anyllm provider requires both providerName and model")
	}

	var opts []anyllmlib.Option
	if apiKey != "" {
		opts = append(opts, anyllmlib.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, anyllmlib.WithBaseURL(baseURL))
	}

	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, apperrors.NewConfig("anyllm: create %q backend: %v", providerName, err)
	}
	return &Provider{backend: backend, model: model}, nil
}

func createBackend(providerName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(providerName) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	case "deepseek":
		return deepseek.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "groq":
		return groq.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q", providerName)
	}
}

// GenerateResponse implements ports.ChatProvider. Prior context entries are
// folded in as preceding user/assistant turns are not modeled here — they
// are concatenated ahead of the prompt as the Concept Extractor and
// Iteration Controller only ever supply flat context strings.
func (p *Provider) GenerateResponse(ctx context.Context, prompt string, context []string) (string, error) {
	messages := make([]anyllmlib.Message, 0, len(context)+1)
	for _, c := range context {
		messages = append(messages, anyllmlib.Message{Role: anyllmlib.RoleUser, Content: c})
	}
	messages = append(messages, anyllmlib.Message{Role: anyllmlib.RoleUser, Content: prompt})

	resp, err := p.backend.Completion(ctx, anyllmlib.CompletionParams{
		Model:    p.model,
		Messages: messages,
	})
	if err != nil {
		return "", apperrors.NewTransient("anyllm completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewProtocol("anyllm: empty choices in response")
	}
	return resp.Choices[0].Message.ContentString(), nil
}
