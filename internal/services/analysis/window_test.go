package analysis

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/redclay/finwire/internal/interfaces"
	"github.com/redclay/finwire/internal/models"
)

// fakeArticleStore is an in-memory ArticleStorage for window and
// service tests.
type fakeArticleStore struct {
	articles map[string]*models.Article
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{articles: make(map[string]*models.Article)}
}

func (f *fakeArticleStore) SaveArticle(article *models.Article) error {
	if _, ok := f.articles[article.ArticleID]; ok {
		return interfaces.ErrDuplicateArticle
	}
	f.articles[article.ArticleID] = article
	return nil
}

func (f *fakeArticleStore) HasArticle(id string) (bool, error) {
	_, ok := f.articles[id]
	return ok, nil
}

func (f *fakeArticleStore) GetArticle(id string) (*models.Article, error) {
	article, ok := f.articles[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return article, nil
}

func (f *fakeArticleStore) ListArticles(opts *interfaces.ArticleListOptions) ([]*models.Article, error) {
	var result []*models.Article
	for _, article := range f.articles {
		result = append(result, article)
	}
	return result, nil
}

func (f *fakeArticleStore) GetArticlesSince(since time.Time, limit int) ([]*models.Article, error) {
	var result []*models.Article
	for _, article := range f.articles {
		if !article.IngestedAt.Before(since) {
			result = append(result, article)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PublishedAt.After(result[j].PublishedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeArticleStore) DeleteArticle(id string) error {
	if _, ok := f.articles[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(f.articles, id)
	return nil
}

func (f *fakeArticleStore) DeleteArticles(ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		if f.DeleteArticle(id) == nil {
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeArticleStore) DeleteArticlesBefore(cutoff time.Time) (int, error) {
	deleted := 0
	for id, article := range f.articles {
		if article.IngestedAt.Before(cutoff) {
			delete(f.articles, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeArticleStore) CountArticles() (int, error) {
	return len(f.articles), nil
}

func (f *fakeArticleStore) addArticle(id, title, summary string, publishedAgo time.Duration) {
	now := time.Now()
	f.articles[id] = &models.Article{
		ArticleID:   id,
		Title:       title,
		Kind:        models.KindBrief,
		Summary:     summary,
		PublishedAt: now.Add(-publishedAgo),
		IngestedAt:  now.Add(-time.Minute),
	}
}

func TestBuildWindow_Empty(t *testing.T) {
	store := newFakeArticleStore()

	_, err := BuildWindow(store, WindowOptions{Hours: 6, MaxNews: 100, SummaryLimit: 100, MaxChars: 30000})
	if err != ErrNoArticles {
		t.Errorf("got %v, want ErrNoArticles", err)
	}
}

func TestBuildWindow_RendersArticles(t *testing.T) {
	store := newFakeArticleStore()
	store.addArticle("1", "央行降准", "央行宣布下调存款准备金率。", time.Hour)
	store.addArticle("2", "新能源大涨", "新能源板块全线走强。", 2*time.Hour)

	window, err := BuildWindow(store, WindowOptions{Hours: 6, MaxNews: 100, SummaryLimit: 100, MaxChars: 30000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if window.Count != 2 {
		t.Errorf("Count = %d, want 2", window.Count)
	}
	if window.Truncated {
		t.Error("Truncated = true for a tiny window")
	}
	if !strings.Contains(window.Text, "央行降准") || !strings.Contains(window.Text, "新能源大涨") {
		t.Errorf("window text missing titles: %q", window.Text)
	}
	// Newest published first.
	if strings.Index(window.Text, "央行降准") > strings.Index(window.Text, "新能源大涨") {
		t.Error("expected newest article first")
	}
	if window.TimeRange == "" {
		t.Error("TimeRange is empty")
	}
}

func TestBuildWindow_MaxNews(t *testing.T) {
	store := newFakeArticleStore()
	store.addArticle("1", "最旧", "", 3*time.Hour)
	store.addArticle("2", "较新", "", 2*time.Hour)
	store.addArticle("3", "最新", "", time.Hour)

	window, err := BuildWindow(store, WindowOptions{Hours: 6, MaxNews: 2, SummaryLimit: 100, MaxChars: 30000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if window.Count != 2 {
		t.Errorf("Count = %d, want 2", window.Count)
	}
	if strings.Contains(window.Text, "最旧") {
		t.Error("oldest article should have been cut by MaxNews")
	}
}

func TestBuildWindow_CharCap(t *testing.T) {
	store := newFakeArticleStore()
	store.addArticle("1", "长文章", strings.Repeat("数", 500), time.Hour)
	store.addArticle("2", "另一篇", strings.Repeat("据", 500), 2*time.Hour)

	maxChars := 300
	window, err := BuildWindow(store, WindowOptions{Hours: 6, MaxNews: 100, SummaryLimit: 1000, MaxChars: maxChars})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !window.Truncated {
		t.Error("Truncated = false, want true")
	}
	if got := len([]rune(window.Text)); got > maxChars {
		t.Errorf("window text is %d runes, cap is %d", got, maxChars)
	}
	if !strings.HasSuffix(window.Text, truncationMarker) {
		t.Error("truncated window missing truncation marker")
	}
}

func TestBuildWindow_SummaryLimit(t *testing.T) {
	store := newFakeArticleStore()
	store.addArticle("1", "标题", strings.Repeat("长", 50), time.Hour)

	window, err := BuildWindow(store, WindowOptions{Hours: 6, MaxNews: 100, SummaryLimit: 10, MaxChars: 30000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(window.Text, strings.Repeat("长", 10)+"...") {
		t.Errorf("summary not truncated: %q", window.Text)
	}
	if strings.Contains(window.Text, strings.Repeat("长", 11)) {
		t.Error("summary exceeds limit")
	}
}
