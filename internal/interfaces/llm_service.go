package interfaces

import (
	"context"

	"github.com/redclay/finwire/internal/models"
)

// LLMService sends a single-turn completion request to an external
// reasoning-capable model and returns the reasoning trace (when the
// provider exposes one) together with the content text. Failures are
// opaque transport errors; no retry happens at this layer.
type LLMService interface {
	GenerateAnalysis(ctx context.Context, prompt string) (*models.Completion, error)
	Close() error
}
