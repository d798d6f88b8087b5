package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redclay/finwire/internal/common"
	"github.com/redclay/finwire/internal/interfaces"
	"github.com/redclay/finwire/internal/models"
)

type memoryArticleStore struct {
	articles map[string]*models.Article
}

func newMemoryArticleStore() *memoryArticleStore {
	return &memoryArticleStore{articles: make(map[string]*models.Article)}
}

func (m *memoryArticleStore) SaveArticle(article *models.Article) error {
	if _, ok := m.articles[article.ArticleID]; ok {
		return interfaces.ErrDuplicateArticle
	}
	m.articles[article.ArticleID] = article
	return nil
}

func (m *memoryArticleStore) HasArticle(id string) (bool, error) {
	_, ok := m.articles[id]
	return ok, nil
}

func (m *memoryArticleStore) GetArticle(id string) (*models.Article, error) {
	article, ok := m.articles[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return article, nil
}

func (m *memoryArticleStore) ListArticles(opts *interfaces.ArticleListOptions) ([]*models.Article, error) {
	var result []*models.Article
	for _, article := range m.articles {
		result = append(result, article)
	}
	return result, nil
}

func (m *memoryArticleStore) GetArticlesSince(since time.Time, limit int) ([]*models.Article, error) {
	return nil, nil
}

func (m *memoryArticleStore) DeleteArticle(id string) error {
	if _, ok := m.articles[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(m.articles, id)
	return nil
}

func (m *memoryArticleStore) DeleteArticles(ids []string) (int, error) { return 0, nil }

func (m *memoryArticleStore) DeleteArticlesBefore(cutoff time.Time) (int, error) { return 0, nil }

func (m *memoryArticleStore) CountArticles() (int, error) { return len(m.articles), nil }

// stubSource serves canned refs and articles, with optional per-id
// failures.
type stubSource struct {
	refs        []models.ArticleRef
	discoverErr error
	unusableIDs map[string]bool
	failIDs     map[string]bool
	fetchCount  int
}

func (s *stubSource) DiscoverArticles(ctx context.Context) ([]models.ArticleRef, error) {
	if s.discoverErr != nil {
		return nil, s.discoverErr
	}
	return s.refs, nil
}

func (s *stubSource) FetchArticle(ctx context.Context, ref models.ArticleRef) (*models.Article, error) {
	s.fetchCount++
	if s.unusableIDs[ref.ID] {
		return nil, fmt.Errorf("article %s: no title: %w", ref.ID, interfaces.ErrArticleUnusable)
	}
	if s.failIDs[ref.ID] {
		return nil, errors.New("connection reset")
	}
	return &models.Article{
		ArticleID:   ref.ID,
		Title:       ref.Title,
		Kind:        models.KindBrief,
		PublishedAt: time.Now(),
	}, nil
}

func refs(ids ...string) []models.ArticleRef {
	result := make([]models.ArticleRef, 0, len(ids))
	for _, id := range ids {
		result = append(result, models.ArticleRef{ID: id, Href: "/detail/" + id, Title: "标题" + id})
	}
	return result
}

func TestRun_InsertsDiscoveredArticles(t *testing.T) {
	store := newMemoryArticleStore()
	source := &stubSource{refs: refs("1", "2", "3")}

	result, err := NewService(source, store, common.GetLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Discovered != 3 || result.Inserted != 3 || result.Skipped != 0 || result.Duplicates != 0 {
		t.Errorf("result = %+v", result)
	}

	// Every record of the run shares one ingestion timestamp.
	var stamp time.Time
	for _, article := range store.articles {
		if article.IngestedAt.IsZero() {
			t.Fatal("IngestedAt not set")
		}
		if stamp.IsZero() {
			stamp = article.IngestedAt
		} else if !article.IngestedAt.Equal(stamp) {
			t.Error("articles of one run have different IngestedAt values")
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	store := newMemoryArticleStore()
	source := &stubSource{refs: refs("1", "2")}
	service := NewService(source, store, common.GetLogger())

	if _, err := service.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	fetchesAfterFirst := source.fetchCount

	result, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if result.Inserted != 0 || result.Duplicates != 2 {
		t.Errorf("second run result = %+v", result)
	}
	if source.fetchCount != fetchesAfterFirst {
		t.Error("known articles must be gated before any detail fetch")
	}
}

func TestRun_SkipsUnusableArticles(t *testing.T) {
	store := newMemoryArticleStore()
	source := &stubSource{
		refs:        refs("1", "2", "3"),
		unusableIDs: map[string]bool{"2": true},
	}

	result, err := NewService(source, store, common.GetLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Inserted != 2 || result.Skipped != 1 {
		t.Errorf("result = %+v", result)
	}
	if _, ok := store.articles["2"]; ok {
		t.Error("unusable article was stored")
	}
}

func TestRun_TransportFailureKeepsPriorInserts(t *testing.T) {
	store := newMemoryArticleStore()
	source := &stubSource{
		refs:    refs("1", "2", "3"),
		failIDs: map[string]bool{"2": true},
	}

	result, err := NewService(source, store, common.GetLogger()).Run(context.Background())
	if err == nil {
		t.Fatal("expected transport error to surface")
	}

	if result.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", result.Inserted)
	}
	if _, ok := store.articles["1"]; !ok {
		t.Error("article inserted before the failure was lost")
	}
	if _, ok := store.articles["3"]; ok {
		t.Error("run continued past the transport failure")
	}
}

func TestRun_DiscoverFailureWritesNothing(t *testing.T) {
	store := newMemoryArticleStore()
	source := &stubSource{discoverErr: errors.New("listing page unreachable")}

	_, err := NewService(source, store, common.GetLogger()).Run(context.Background())
	if err == nil {
		t.Fatal("expected discover error to surface")
	}
	if len(store.articles) != 0 {
		t.Errorf("store has %d articles, want 0", len(store.articles))
	}
}
