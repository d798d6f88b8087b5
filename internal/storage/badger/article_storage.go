package badger

import (
	"fmt"
	"regexp"
	"time"

	"github.com/redclay/finwire/internal/interfaces"
	"github.com/redclay/finwire/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// ArticleStorage implements the ArticleStorage interface for Badger
type ArticleStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewArticleStorage creates a new ArticleStorage instance
func NewArticleStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ArticleStorage {
	return &ArticleStorage{
		db:     db,
		logger: logger,
	}
}

// SaveArticle inserts a new article. The article id is the store key, so
// a second insert of the same id fails with ErrDuplicateArticle - the
// store's uniqueness constraint is the final dedup authority.
func (s *ArticleStorage) SaveArticle(article *models.Article) error {
	if article.ArticleID == "" {
		return fmt.Errorf("article ID is required")
	}
	if article.PublishedAt.IsZero() {
		return fmt.Errorf("article %s has no published time", article.ArticleID)
	}

	if err := s.db.Store().Insert(article.ArticleID, article); err != nil {
		if err == badgerhold.ErrKeyExists {
			return interfaces.ErrDuplicateArticle
		}
		return fmt.Errorf("failed to save article: %w", err)
	}
	return nil
}

func (s *ArticleStorage) HasArticle(id string) (bool, error) {
	var article models.Article
	err := s.db.Store().Get(id, &article)
	if err == badgerhold.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check article: %w", err)
	}
	return true, nil
}

func (s *ArticleStorage) GetArticle(id string) (*models.Article, error) {
	var article models.Article
	if err := s.db.Store().Get(id, &article); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

func (s *ArticleStorage) ListArticles(opts *interfaces.ArticleListOptions) ([]*models.Article, error) {
	query := badgerhold.Where("ArticleID").Ne("")

	sortField := "PublishedAt"
	descending := true
	if opts != nil {
		if opts.SortBy == "created_at" {
			sortField = "IngestedAt"
		}
		if opts.Order == "asc" {
			descending = false
		}
		if opts.Keyword != "" {
			// Literal substring match on the title, case insensitive.
			regex, err := regexp.Compile("(?i)" + regexp.QuoteMeta(opts.Keyword))
			if err != nil {
				return nil, fmt.Errorf("invalid keyword: %w", err)
			}
			query = query.And("Title").RegExp(regex)
		}
	}

	query = query.SortBy(sortField)
	if descending {
		query = query.Reverse()
	}

	var articles []models.Article
	if err := s.db.Store().Find(&articles, query); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	result := make([]*models.Article, len(articles))
	for i := range articles {
		result[i] = &articles[i]
	}
	return result, nil
}

func (s *ArticleStorage) GetArticlesSince(since time.Time, limit int) ([]*models.Article, error) {
	query := badgerhold.Where("IngestedAt").Ge(since).SortBy("PublishedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var articles []models.Article
	if err := s.db.Store().Find(&articles, query); err != nil {
		return nil, fmt.Errorf("failed to query articles since %s: %w", since.Format(time.RFC3339), err)
	}

	result := make([]*models.Article, len(articles))
	for i := range articles {
		result[i] = &articles[i]
	}
	return result, nil
}

func (s *ArticleStorage) DeleteArticle(id string) error {
	if err := s.db.Store().Delete(id, &models.Article{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return nil
}

func (s *ArticleStorage) DeleteArticles(ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		err := s.DeleteArticle(id)
		if err == interfaces.ErrNotFound {
			continue
		}
		if err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (s *ArticleStorage) DeleteArticlesBefore(cutoff time.Time) (int, error) {
	query := badgerhold.Where("IngestedAt").Lt(cutoff)

	count, err := s.db.Store().Count(&models.Article{}, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count expired articles: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.db.Store().DeleteMatching(&models.Article{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete expired articles: %w", err)
	}
	return int(count), nil
}

func (s *ArticleStorage) CountArticles() (int, error) {
	count, err := s.db.Store().Count(&models.Article{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return int(count), nil
}
