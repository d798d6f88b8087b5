package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/redclay/finwire/internal/common"
	"github.com/redclay/finwire/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"github.com/ternarybob/arbor"
)

// DeepSeekService implements the LLMService interface against an
// OpenAI-compatible DeepSeek endpoint. Reasoning models return their
// intermediate reasoning as a separate reasoning_content field, which
// becomes the report's reasoning trace.
type DeepSeekService struct {
	config  *common.DeepSeekConfig
	client  *openai.Client
	logger  arbor.ILogger
	timeout time.Duration
}

// NewDeepSeekService creates a DeepSeek LLM service instance.
func NewDeepSeekService(config *common.DeepSeekConfig, logger arbor.ILogger) (*DeepSeekService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("DeepSeek API key is required (set LKEAP_API_KEY, FINWIRE_DEEPSEEK_API_KEY, or deepseek.api_key in config)")
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration %q: %w", config.Timeout, err)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	service := &DeepSeekService{
		config:  config,
		client:  openai.NewClientWithConfig(clientConfig),
		logger:  logger,
		timeout: timeout,
	}

	logger.Debug().
		Str("model", config.Model).
		Str("base_url", config.BaseURL).
		Dur("timeout", timeout).
		Msg("DeepSeek LLM service initialized")

	return service, nil
}

// GenerateAnalysis sends one single-turn user prompt and returns the
// reasoning trace plus content text.
func (s *DeepSeekService) GenerateAnalysis(ctx context.Context, prompt string) (*models.Completion, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Debug().
		Int("prompt_length", len(prompt)).
		Msg("Starting DeepSeek completion")

	resp, err := s.client.CreateChatCompletion(timeoutCtx, openai.ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("DeepSeek API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response generated from DeepSeek API")
	}

	message := resp.Choices[0].Message
	s.logger.Debug().
		Int("content_length", len(message.Content)).
		Int("reasoning_length", len(message.ReasoningContent)).
		Dur("duration", time.Since(startTime)).
		Msg("DeepSeek completion finished")

	return &models.Completion{
		Reasoning: message.ReasoningContent,
		Content:   message.Content,
	}, nil
}

// Close releases resources held by the service.
func (s *DeepSeekService) Close() error {
	s.client = nil
	return nil
}
