package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redclay/finwire/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// ErrRunInProgress is returned when a run is requested while another run
// of the pipeline is still executing (scheduled tick vs. manual trigger).
var ErrRunInProgress = errors.New("ingestion run already in progress")

// RunResult summarizes one completed ingestion run.
type RunResult struct {
	Discovered int           `json:"discovered"`
	Inserted   int           `json:"inserted"`
	Skipped    int           `json:"skipped"`
	Duplicates int           `json:"duplicates"`
	Duration   time.Duration `json:"duration"`
}

// Service drives one end-to-end ingestion pass: discover candidates,
// gate against the store, fetch and normalize detail pages, insert.
type Service struct {
	source   interfaces.ArticleSource
	articles interfaces.ArticleStorage
	logger   arbor.ILogger
	mu       sync.Mutex
	running  bool
}

// NewService creates an ingestion service.
func NewService(source interfaces.ArticleSource, articles interfaces.ArticleStorage, logger arbor.ILogger) *Service {
	return &Service{
		source:   source,
		articles: articles,
		logger:   logger,
	}
}

// Run executes one ingestion pass. Only one run may execute at a time;
// concurrent requests get ErrRunInProgress. A listing-page transport
// failure aborts with zero writes; a detail-page transport failure aborts
// the remainder of the run but keeps records already inserted. Per-article
// extraction and timestamp failures skip only that article.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	// One shared ingestion timestamp for every record of this run.
	runStart := time.Now()

	refs, err := s.source.DiscoverArticles(ctx)
	if err != nil {
		return nil, err
	}

	result := &RunResult{Discovered: len(refs)}

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		exists, err := s.articles.HasArticle(ref.ID)
		if err != nil {
			return result, err
		}
		if exists {
			s.logger.Debug().Str("article_id", ref.ID).Msg("Article already exists, skipping")
			result.Duplicates++
			continue
		}

		article, err := s.source.FetchArticle(ctx, ref)
		if err != nil {
			if errors.Is(err, interfaces.ErrArticleUnusable) {
				s.logger.Warn().Err(err).Str("article_id", ref.ID).Msg("Skipping unusable article")
				result.Skipped++
				continue
			}
			// Transport failure: abort the rest of the run, keep what was
			// inserted so far.
			return result, err
		}

		article.IngestedAt = runStart

		if err := s.articles.SaveArticle(article); err != nil {
			if errors.Is(err, interfaces.ErrDuplicateArticle) {
				// Lost the check-then-insert race to a concurrent run; the
				// store's uniqueness constraint is the final authority.
				s.logger.Debug().Str("article_id", ref.ID).Msg("Duplicate insert, treating as already present")
				result.Duplicates++
				continue
			}
			return result, err
		}
		result.Inserted++
	}

	result.Duration = time.Since(runStart)
	s.logger.Info().
		Int("discovered", result.Discovered).
		Int("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Int("duplicates", result.Duplicates).
		Dur("duration", result.Duration).
		Msg("Ingestion run completed")

	return result, nil
}

// IsRunning reports whether a run is currently executing.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
