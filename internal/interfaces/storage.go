package interfaces

import (
	"errors"
	"time"

	"github.com/redclay/finwire/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateArticle is returned by SaveArticle when the article id is
// already present. The ingestion pipeline treats it as an idempotent
// no-op, not a failure.
var ErrDuplicateArticle = errors.New("article already exists")

// ArticleListOptions controls ListArticles filtering and ordering.
type ArticleListOptions struct {
	SortBy  string // "pub_time" (default) or "created_at"
	Order   string // "desc" (default) or "asc"
	Keyword string // title substring filter, empty = no filter
}

// ArticleStorage is the keyed article collection. ArticleID is the unique
// key; IngestedAt and PublishedAt are range-queryable.
type ArticleStorage interface {
	SaveArticle(article *models.Article) error
	HasArticle(id string) (bool, error)
	GetArticle(id string) (*models.Article, error)
	ListArticles(opts *ArticleListOptions) ([]*models.Article, error)

	// GetArticlesSince returns articles with IngestedAt >= since, ordered
	// by PublishedAt descending, at most limit records (0 = no limit).
	GetArticlesSince(since time.Time, limit int) ([]*models.Article, error)

	DeleteArticle(id string) error
	DeleteArticles(ids []string) (int, error)

	// DeleteArticlesBefore removes articles with IngestedAt < cutoff and
	// returns the number deleted.
	DeleteArticlesBefore(cutoff time.Time) (int, error)

	CountArticles() (int, error)
}

// ReportStorage is the keyed analysis-report collection.
type ReportStorage interface {
	SaveReport(report *models.Report) error
	GetReport(id string) (*models.Report, error)
	ListReports() ([]*models.Report, error)
	DeleteReport(id string) error
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	ArticleStorage() ArticleStorage
	ReportStorage() ReportStorage
	Close() error
}
