package cls

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/redclay/finwire/internal/common"
	"github.com/redclay/finwire/internal/httpclient"
	"github.com/redclay/finwire/internal/interfaces"
	"github.com/redclay/finwire/internal/models"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

// Source is the cls.cn implementation of the ArticleSource capability.
// All page-structure knowledge for the current site layout lives in this
// package; a site redesign requires a new adapter, not pipeline changes.
type Source struct {
	config  *common.SourceConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  arbor.ILogger
	baseURL string
}

// New creates a cls.cn source from configuration.
func New(config *common.SourceConfig, logger arbor.ILogger) (*Source, error) {
	timeout, err := time.ParseDuration(config.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid source request_timeout %q: %w", config.RequestTimeout, err)
	}
	delay, err := time.ParseDuration(config.RequestDelay)
	if err != nil {
		return nil, fmt.Errorf("invalid source request_delay %q: %w", config.RequestDelay, err)
	}

	return &Source{
		config:  config,
		client:  httpclient.NewDefaultHTTPClient(timeout),
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		logger:  logger,
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
	}, nil
}

// DiscoverArticles fetches the home page's three listing regions and the
// telegraph feed, returning the merged candidate set deduplicated by id
// in first-seen order.
func (s *Source) DiscoverArticles(ctx context.Context) ([]models.ArticleRef, error) {
	homeDoc, err := s.fetchDocument(ctx, s.baseURL+"/")
	if err != nil {
		return nil, fmt.Errorf("home page: %w", err)
	}
	refs := CollectHomeLinks(homeDoc)

	telegraphDoc, err := s.fetchDocument(ctx, s.baseURL+s.config.TelegraphPath)
	if err != nil {
		return nil, fmt.Errorf("telegraph page: %w", err)
	}
	refs = dedupeRefs(append(refs, CollectTelegraphLinks(telegraphDoc)...))

	s.logger.Info().
		Int("candidates", len(refs)).
		Msg("Article candidates discovered")

	return refs, nil
}

// FetchArticle retrieves one detail page and normalizes it into an
// Article. IngestedAt is left zero; the pipeline stamps it with the
// run-shared value.
func (s *Source) FetchArticle(ctx context.Context, ref models.ArticleRef) (*models.Article, error) {
	detailURL := fmt.Sprintf("%s/detail/%s", s.baseURL, ref.ID)

	doc, err := s.fetchDocument(ctx, detailURL)
	if err != nil {
		return nil, fmt.Errorf("detail page %s: %w", ref.ID, err)
	}

	detail, err := extractDetail(doc)
	if err != nil {
		return nil, fmt.Errorf("article %s: %w", ref.ID, err)
	}

	var publishedAt time.Time
	if detail.Kind == models.KindBrief {
		publishedAt, err = ParseBriefTime(detail.TimeText)
	} else {
		publishedAt, err = ParseLongFormTime(detail.TimeText)
	}
	if err != nil {
		return nil, fmt.Errorf("article %s: %v: %w", ref.ID, err, interfaces.ErrArticleUnusable)
	}

	return &models.Article{
		ArticleID:   ref.ID,
		Title:       detail.Title,
		SourceLink:  ref.Href,
		DetailURL:   detailURL,
		Kind:        detail.Kind,
		PublishedAt: publishedAt,
		Summary:     detail.Summary,
		Body:        detail.Body,
	}, nil
}

// fetchDocument retrieves one page and parses it, respecting the
// configured request spacing toward the origin site.
func (s *Source) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", url, err)
	}
	return doc, nil
}
