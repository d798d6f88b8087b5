package interfaces

import (
	"context"
	"errors"

	"github.com/redclay/finwire/internal/models"
)

// ErrArticleUnusable marks a detail page whose structure could not be
// understood well enough to store a record (missing title, unparseable
// timestamp). The pipeline skips the article and continues the run;
// transport errors are never wrapped with this sentinel.
var ErrArticleUnusable = errors.New("article unusable")

// ArticleSource is the capability interface hiding all page-structure
// knowledge of one external site layout. A site redesign needs a new
// implementation, not pipeline changes.
type ArticleSource interface {
	// DiscoverArticles fetches the listing surfaces and returns candidate
	// refs deduplicated by id in first-seen order. A transport failure on
	// any listing surface fails the whole discovery.
	DiscoverArticles(ctx context.Context) ([]models.ArticleRef, error)

	// FetchArticle retrieves and normalizes one detail page. Errors that
	// wrap ErrArticleUnusable mean "skip this article"; any other error is
	// a transport failure.
	FetchArticle(ctx context.Context, ref models.ArticleRef) (*models.Article, error)
}
