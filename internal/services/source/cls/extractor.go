package cls

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/redclay/finwire/internal/interfaces"
	"github.com/redclay/finwire/internal/models"
)

// briefMarker identifies brief (live-wire) detail pages.
const briefMarker = "image/telegraph-logo.png"

// articleDetail is the raw extraction result of one detail page before
// timestamp normalization.
type articleDetail struct {
	Kind     models.ArticleKind
	Title    string
	TimeText string
	Summary  string
	Body     string
}

// extractDetail classifies a detail page and pulls out its kind-specific
// regions. A missing title discards the article (ErrArticleUnusable);
// any other missing region degrades to an empty field.
func extractDetail(doc *goquery.Document) (*articleDetail, error) {
	detail := &articleDetail{Kind: classifyKind(doc)}

	var titleSel *goquery.Selection
	if detail.Kind == models.KindBrief {
		titleSel = doc.Find(".detail-header").First()
	} else {
		titleSel = doc.Find(".detail-title-content").First()
	}
	detail.Title = strings.TrimSpace(titleSel.Text())
	if detail.Title == "" {
		return nil, fmt.Errorf("no title element: %w", interfaces.ErrArticleUnusable)
	}

	if detail.Kind == models.KindBrief {
		detail.TimeText = strings.TrimSpace(doc.Find("span.f-s-24.f-w-b").First().Text())
		// Brief items carry only a summary-equivalent content block.
		detail.Summary = blockText(doc.Find("div.detail-telegraph-content").First())
	} else {
		detail.TimeText = strings.TrimSpace(doc.Find("div.f-l.m-r-10").First().Text())
		detail.Summary = blockText(doc.Find("pre.detail-brief").First())
		detail.Body = blockText(doc.Find("div.detail-content").First())
	}

	return detail, nil
}

// classifyKind returns KindBrief when the telegraph marker image is
// present, KindLongForm otherwise.
func classifyKind(doc *goquery.Document) models.ArticleKind {
	kind := models.KindLongForm
	doc.Find("img[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, _ := sel.Attr("src")
		if strings.Contains(src, briefMarker) {
			kind = models.KindBrief
			return false
		}
		return true
	})
	return kind
}

// blockText renders a content region to newline-separated text.
func blockText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	var lines []string
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		if text := strings.TrimSpace(child.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) == 0 {
		return strings.TrimSpace(sel.Text())
	}
	return strings.Join(lines, "\n")
}
