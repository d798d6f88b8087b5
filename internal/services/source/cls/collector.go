package cls

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/redclay/finwire/internal/models"
)

// homeRegionSelectors are the three listing regions on the home page:
// headline previews, recommended articles, and the ranking block. An
// absent region yields zero candidates, not a failure.
var homeRegionSelectors = []string{
	".home-article-list a",
	".home-article-rec a",
	".home-article-ranking-list a",
}

// telegraphSelector picks every anchor on the live-feed page whose href
// points at a detail page.
const telegraphSelector = `a[href*="detail"]`

// CollectHomeLinks extracts article candidates from the home page's three
// listing regions, deduplicated by id in first-seen order.
func CollectHomeLinks(doc *goquery.Document) []models.ArticleRef {
	var refs []models.ArticleRef
	for _, selector := range homeRegionSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if ref, ok := candidateFromSelection(sel); ok {
				refs = append(refs, ref)
			}
		})
	}
	return dedupeRefs(refs)
}

// CollectTelegraphLinks extracts article candidates from the live-feed page.
func CollectTelegraphLinks(doc *goquery.Document) []models.ArticleRef {
	var refs []models.ArticleRef
	doc.Find(telegraphSelector).Each(func(_ int, sel *goquery.Selection) {
		if ref, ok := candidateFromSelection(sel); ok {
			refs = append(refs, ref)
		}
	})
	return dedupeRefs(refs)
}

// candidateFromSelection turns an anchor into a candidate ref. Only hrefs
// containing a "detail/" path segment qualify; the article id is the
// final path segment.
func candidateFromSelection(sel *goquery.Selection) (models.ArticleRef, bool) {
	href, exists := sel.Attr("href")
	if !exists || !strings.Contains(href, "detail/") {
		return models.ArticleRef{}, false
	}

	trimmed := strings.TrimSuffix(href, "/")
	id := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if id == "" {
		return models.ArticleRef{}, false
	}

	return models.ArticleRef{
		ID:    id,
		Href:  href,
		Title: strings.TrimSpace(sel.Text()),
	}, true
}

// dedupeRefs keeps the first occurrence of each id, preserving order.
func dedupeRefs(refs []models.ArticleRef) []models.ArticleRef {
	seen := make(map[string]bool, len(refs))
	result := refs[:0]
	for _, ref := range refs {
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		result = append(result, ref)
	}
	return result
}
