package ai

import (
	"context"
	"log/slog"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Config holds the Azure OpenAI settings. The service is disabled unless both
// Endpoint and APIKey are set.
type Config struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

// Service generates narrative reports. A zero or disabled Service still answers
// with the raw figures.
type Service struct {
	client     *openai.Client
	deployment string
	logger     *slog.Logger
}

// NewService initializes the Azure OpenAI client when credentials are present.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{deployment: cfg.Deployment, logger: logger.With("component", "ai")}
	if s.deployment == "" {
		s.deployment = "gpt-35-turbo"
	}

	if cfg.Endpoint == "" || cfg.APIKey == "" {
		s.logger.Info("AI service disabled - Azure OpenAI credentials not provided")
		return s
	}

	client := openai.NewClient(
		option.WithBaseURL(cfg.Endpoint),
		option.WithAPIKey(cfg.APIKey),
	)
	s.client = &client
	s.logger.Info("AI service initialized with Azure OpenAI")
	return s
}

// IsEnabled returns whether the AI service is properly initialized
func (s *Service) IsEnabled() bool {
	return s != nil && s.client != nil
}

// generateCompletion is a helper function to generate AI completions
func (s *Service) generateCompletion(ctx context.Context, systemMessage, userMessage string) (string, error) {
	if !s.IsEnabled() {
		return "", &AIError{Message: "AI service is not enabled"}
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemMessage),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userMessage),
					},
				},
			},
		},
		MaxTokens:   openai.Int(800),
		Temperature: openai.Float(0.4),
	})
	if err != nil {
		s.logger.Error("AI API error", "error", err)
		return "", &AIError{Message: "Failed to generate AI response", Cause: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{Message: "AI returned empty response"}
	}

	return resp.Choices[0].Message.Content, nil
}

// AIError represents an AI service error
type AIError struct {
	Message string
	Cause   error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AIError) Unwrap() error {
	return e.Cause
}
