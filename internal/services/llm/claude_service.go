package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/redclay/finwire/internal/common"
	"github.com/redclay/finwire/internal/models"
	"github.com/ternarybob/arbor"
)

// thinkingBudgetTokens is the token budget granted to extended thinking;
// it must stay below the configured max_tokens.
const thinkingBudgetTokens = 4096

// ClaudeService implements the LLMService interface using the Anthropic
// Claude API. With extended thinking enabled, the thinking blocks of the
// response become the report's reasoning trace.
type ClaudeService struct {
	config    *common.ClaudeConfig
	client    anthropic.Client
	logger    arbor.ILogger
	timeout   time.Duration
	maxTokens int
}

// NewClaudeService creates a Claude LLM service instance.
func NewClaudeService(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set ANTHROPIC_API_KEY, FINWIRE_CLAUDE_API_KEY, or claude.api_key in config)")
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration %q: %w", config.Timeout, err)
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}
	if config.Thinking && maxTokens <= thinkingBudgetTokens {
		return nil, fmt.Errorf("claude max_tokens (%d) must exceed the thinking budget (%d)", maxTokens, thinkingBudgetTokens)
	}

	service := &ClaudeService{
		config:    config,
		client:    anthropic.NewClient(option.WithAPIKey(config.APIKey)),
		logger:    logger,
		timeout:   timeout,
		maxTokens: maxTokens,
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Int("max_tokens", maxTokens).
		Bool("thinking", config.Thinking).
		Msg("Claude LLM service initialized")

	return service, nil
}

// GenerateAnalysis sends one single-turn user prompt and returns the
// reasoning trace (thinking text, when enabled) plus content text.
func (s *ClaudeService) GenerateAnalysis(ctx context.Context, prompt string) (*models.Completion, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if s.config.Thinking {
		params.Thinking = anthropic.ThinkingConfigParamOfEnabled(thinkingBudgetTokens)
	}

	startTime := time.Now()
	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	var reasoning, content strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "thinking":
			reasoning.WriteString(block.Thinking)
		case "text":
			content.WriteString(block.Text)
		}
	}

	if content.Len() == 0 {
		return nil, fmt.Errorf("no response generated from Claude API")
	}

	s.logger.Debug().
		Int("content_length", content.Len()).
		Int("reasoning_length", reasoning.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Claude completion finished")

	return &models.Completion{
		Reasoning: reasoning.String(),
		Content:   content.String(),
	}, nil
}

// Close releases resources and performs cleanup operations.
func (s *ClaudeService) Close() error {
	s.logger.Debug().Msg("Closing Claude LLM service")
	return nil
}
