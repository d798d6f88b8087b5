package retention

import (
	"time"

	"github.com/redclay/finwire/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// Service deletes articles past the configured retention age. Running it
// twice in succession with no new data is a no-op the second time.
type Service struct {
	articles interfaces.ArticleStorage
	maxAge   time.Duration
	logger   arbor.ILogger
}

// NewService creates a retention sweeper deleting articles whose
// IngestedAt is older than maxAgeDays.
func NewService(articles interfaces.ArticleStorage, maxAgeDays int, logger arbor.ILogger) *Service {
	return &Service{
		articles: articles,
		maxAge:   time.Duration(maxAgeDays) * 24 * time.Hour,
		logger:   logger,
	}
}

// Sweep deletes every article older than the retention age and returns
// the number deleted.
func (s *Service) Sweep() (int, error) {
	cutoff := time.Now().Add(-s.maxAge)

	deleted, err := s.articles.DeleteArticlesBefore(cutoff)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int("deleted", deleted).
		Str("cutoff", cutoff.Format(time.RFC3339)).
		Msg("Retention sweep completed")

	return deleted, nil
}
