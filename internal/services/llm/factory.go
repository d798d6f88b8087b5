package llm

import (
	"fmt"

	"github.com/redclay/finwire/internal/common"
	"github.com/redclay/finwire/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// NewService creates the LLM service selected by llm.default_provider.
func NewService(config *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	switch config.LLM.DefaultProvider {
	case common.ProviderDeepSeek:
		return NewDeepSeekService(&config.DeepSeek, logger)
	case common.ProviderClaude:
		return NewClaudeService(&config.Claude, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.LLM.DefaultProvider)
	}
}
