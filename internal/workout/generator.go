package workout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/myrjola/fitplan/internal/errors"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// ErrGeneration marks every failure of the plan generator, including unusable output.
var ErrGeneration = errors.NewSentinel("plan generation failed")

// Generator turns a rendered prompt into the raw text of a plan.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts an ordinary function to the [Generator] interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f(ctx, prompt).
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// OpenAIConfig configures [OpenAIGenerator].
type OpenAIConfig struct {
	APIKey string
	// BaseURL overrides the API endpoint, e.g. for compatible providers or tests. Empty uses the default.
	BaseURL     string
	Model       string
	Temperature float64
}

// OpenAIGenerator generates plans with the OpenAI chat completions API.
type OpenAIGenerator struct {
	client      openai.Client
	model       string
	temperature float64
	logger      *slog.Logger
}

// NewOpenAIGenerator creates a generator. The SDK's automatic retries are disabled so that a failed request surfaces
// immediately.
func NewOpenAIGenerator(cfg OpenAIConfig, logger *slog.Logger) *OpenAIGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIGenerator{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// Generate sends the system instruction and prompt and returns the content of the first choice.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.LogAttrs(ctx, slog.LevelDebug, "sending chat completion request",
		slog.String("model", g.model), slog.Int("prompt_length", len(prompt)))

	chat, err := g.client.Chat.Completions.New(ctx,
		openai.ChatCompletionNewParams{ //nolint:exhaustruct // only need to set a few fields.
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(SystemInstruction),
				openai.UserMessage(prompt),
			},
			Model:       openai.ChatModel(g.model),
			Temperature: openai.Float(g.temperature),
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{ //nolint:exhaustruct // union
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{}, //nolint:exhaustruct // type has a default.
			},
		})
	if err != nil {
		return "", errors.Wrap(err, "chat completion", slog.String("model", g.model))
	}
	if len(chat.Choices) == 0 {
		return "", errors.New("chat completion has no choices", slog.String("model", g.model))
	}

	g.logger.LogAttrs(ctx, slog.LevelDebug, "received chat completion response",
		slog.Int64("completion_tokens", chat.Usage.CompletionTokens),
		slog.Int64("prompt_tokens", chat.Usage.PromptTokens),
		slog.Int64("total_tokens", chat.Usage.TotalTokens),
		slog.String("finish_reason", chat.Choices[0].FinishReason))

	return chat.Choices[0].Message.Content, nil
}

// generationError marks err as a generation failure while keeping it inspectable with [errors.Is] and [errors.As].
func generationError(err error, msg string, attrs ...slog.Attr) error {
	return errors.Wrap(fmt.Errorf("%w: %w", ErrGeneration, err), msg, attrs...)
}
