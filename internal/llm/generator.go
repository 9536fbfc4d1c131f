package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"

	"github.com/sevigo/mr-warden/internal/config"
)

// ErrEmptyResponse is returned when the backend answers with no text.
var ErrEmptyResponse = errors.New("generation backend returned an empty response")

// Generator is the text generation backend: one blocking, non-streaming call
// taking a prompt and a system persona and returning the response text.
//
//go:generate mockgen -destination=../../mocks/mock_generator.go -package=mocks . Generator
type Generator interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
}

// NewGenerator builds the configured backend.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Generator, error) {
	switch cfg.Generator.Provider {
	case config.ProviderOllama:
		return NewOllamaGenerator(cfg.Ollama, newOllamaHTTPClient(), logger)
	case config.ProviderGemini:
		model, err := gemini.New(ctx,
			gemini.WithModel(cfg.Generator.GeminiModel),
			gemini.WithAPIKey(cfg.Generator.GeminiAPIKey),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini model: %w", err)
		}
		return NewModelGenerator(model, logger), nil
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", cfg.Generator.Provider)
	}
}

// OllamaGenerator calls the Ollama generate endpoint with a fixed model and
// options bag.
type OllamaGenerator struct {
	client  *api.Client
	model   string
	options map[string]any
	logger  *slog.Logger
}

func NewOllamaGenerator(cfg config.OllamaConfig, httpClient *http.Client, logger *slog.Logger) (*OllamaGenerator, error) {
	base, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", cfg.Host, err)
	}
	return &OllamaGenerator{
		client:  api.NewClient(base, httpClient),
		model:   cfg.Model,
		options: cfg.Options,
		logger:  logger,
	}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt, system string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:   g.model,
		Prompt:  prompt,
		System:  system,
		Stream:  &stream,
		Options: g.options,
	}

	g.logger.Debug("sending prompt to ollama", "model", g.model, "prompt_bytes", len(prompt))

	var sb strings.Builder
	err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate with model %s: %w", g.model, err)
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// ModelGenerator adapts a goframe model. The persona is sent as a preamble
// because the single-prompt call has no separate system slot.
type ModelGenerator struct {
	model  llms.Model
	logger *slog.Logger
}

func NewModelGenerator(model llms.Model, logger *slog.Logger) *ModelGenerator {
	return &ModelGenerator{model: model, logger: logger}
}

func (g *ModelGenerator) Generate(ctx context.Context, prompt, system string) (string, error) {
	if system != "" {
		prompt = system + "\n\n" + prompt
	}
	response, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt)
	if err != nil {
		return "", fmt.Errorf("model generate: %w", err)
	}
	if strings.TrimSpace(response) == "" {
		return "", ErrEmptyResponse
	}
	return response, nil
}

func newOllamaHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   15 * time.Minute,
	}
}
