package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"pdfchat/internal/config"
	"pdfchat/internal/models"
)

// ErrNoCompletion means the model call succeeded at the transport level but
// returned no usable text.
var ErrNoCompletion = errors.New("model returned no completion")

// Generator produces an answer for a question given retrieved context,
// via an OpenAI-compatible chat completion endpoint.
type Generator struct {
	llm   llms.Model
	model string
}

// New builds the generation client. The API credential is resolved from the
// environment here, so a missing key fails fast rather than on first query.
func New(cfg *config.LLMConfig) (*Generator, error) {
	key, err := cfg.ResolveKey()
	if err != nil {
		return nil, err
	}
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(key, "Bearer ")),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize generation LLM: %w", err)
	}
	return &Generator{llm: llm, model: cfg.Model}, nil
}

// BuildPrompt composes the user prompt from retrieved chunk texts and the
// literal question.
func BuildPrompt(question string, contexts []string) string {
	return fmt.Sprintf(models.QuestionPromptTemplate, strings.Join(contexts, models.ContextSeparator), question)
}

// Generate calls the model once with the composed prompt. Failures are
// surfaced to the caller; there are no retries.
func (g *Generator) Generate(ctx context.Context, question string, contexts []string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextContent{Text: models.SystemInstruction}},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: BuildPrompt(question, contexts)}},
		},
	}

	log.Debug().Str("model", g.model).Int("contexts", len(contexts)).Msg("generating completion")
	resp, err := g.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrNoCompletion
	}
	return resp.Choices[0].Content, nil
}
