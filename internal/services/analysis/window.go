package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redclay/finwire/internal/interfaces"
	"github.com/redclay/finwire/internal/models"
)

// ErrNoArticles is returned when the lookback window selects nothing;
// an empty window is a reportable condition, not a silent empty report.
var ErrNoArticles = errors.New("no articles in analysis window")

// truncationMarker is appended when the concatenated window text had to
// be cut at the character cap.
const truncationMarker = "\n...(内容已截断)"

const displayTimeLayout = "2006-01-02 15:04"

// WindowOptions bounds one analysis window.
type WindowOptions struct {
	Hours        int // Lookback in hours from now
	MaxNews      int // Maximum articles included
	SummaryLimit int // Per-article summary truncation, in characters
	MaxChars     int // Total window text cap, in characters
}

// Window is a prompt-ready text block built from recent articles.
type Window struct {
	Text      string
	Count     int
	TimeRange string
	Truncated bool
}

var kindLabels = map[models.ArticleKind]string{
	models.KindBrief:    "电报",
	models.KindLongForm: "长文",
}

// BuildWindow selects articles ingested within the lookback window,
// newest published first up to MaxNews, and renders them into one
// bounded text block.
func BuildWindow(articles interfaces.ArticleStorage, opts WindowOptions) (*Window, error) {
	now := time.Now()
	since := now.Add(-time.Duration(opts.Hours) * time.Hour)

	selected, err := articles.GetArticlesSince(since, opts.MaxNews)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, ErrNoArticles
	}

	var builder strings.Builder
	for _, article := range selected {
		builder.WriteString(renderArticle(article, opts.SummaryLimit))
		builder.WriteString("\n")
	}

	text := builder.String()
	truncated := false
	if runes := []rune(text); len(runes) > opts.MaxChars {
		// Cut the concatenation, not individual articles, leaving room
		// for the marker so the cap is never exceeded.
		keep := opts.MaxChars - len([]rune(truncationMarker))
		text = string(runes[:keep]) + truncationMarker
		truncated = true
	}

	return &Window{
		Text:      text,
		Count:     len(selected),
		TimeRange: fmt.Sprintf("%s ~ %s", since.Format(displayTimeLayout), now.Format(displayTimeLayout)),
		Truncated: truncated,
	}, nil
}

// renderArticle produces the fixed per-article block: title, time, kind,
// truncated summary.
func renderArticle(article *models.Article, summaryLimit int) string {
	summary := article.Summary
	if runes := []rune(summary); len(runes) > summaryLimit {
		summary = string(runes[:summaryLimit]) + "..."
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "- 标题: %s\n", article.Title)
	fmt.Fprintf(&builder, "  时间: %s\n", article.PublishedAt.Format(displayTimeLayout))
	fmt.Fprintf(&builder, "  类型: %s\n", kindLabels[article.Kind])
	if summary != "" {
		fmt.Fprintf(&builder, "  摘要: %s\n", summary)
	}
	return builder.String()
}
