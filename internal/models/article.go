package models

import (
	"time"
)

// ArticleKind identifies the page layout an article was extracted from.
type ArticleKind string

const (
	// KindBrief is a short live-wire item, identified by the telegraph
	// marker image on its detail page.
	KindBrief ArticleKind = "brief"
	// KindLongForm is a full-length article with separate summary and body.
	KindLongForm ArticleKind = "long_form"
)

// ArticleRef is a candidate discovered on a listing page before the
// detail page has been fetched. ID is the final path segment of the
// detail href and is the dedup fingerprint.
type ArticleRef struct {
	ID    string `json:"id"`
	Href  string `json:"href"`
	Title string `json:"title"`
}

// Article is one normalized news record. Keyed by ArticleID in the store;
// immutable once written except for deletion.
type Article struct {
	ArticleID   string      `json:"article_id" badgerhold:"key"`
	Title       string      `json:"title"`
	SourceLink  string      `json:"link"`
	DetailURL   string      `json:"url"`
	Kind        ArticleKind `json:"article_type"`
	PublishedAt time.Time   `json:"pub_time" badgerhold:"index"`
	IngestedAt  time.Time   `json:"created_at" badgerhold:"index"`
	Summary     string      `json:"summary,omitempty"`
	Body        string      `json:"content,omitempty"`
}
