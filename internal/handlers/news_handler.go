package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/redclay/finwire/internal/interfaces"
	"github.com/redclay/finwire/internal/services/ingest"
	"github.com/ternarybob/arbor"
)

// NewsHandler exposes the harvested article collection and the manual
// ingestion trigger.
type NewsHandler struct {
	ingestService *ingest.Service
	articles      interfaces.ArticleStorage
	logger        arbor.ILogger
}

// NewNewsHandler creates a news handler instance.
func NewNewsHandler(ingestService *ingest.Service, articles interfaces.ArticleStorage, logger arbor.ILogger) *NewsHandler {
	return &NewsHandler{
		ingestService: ingestService,
		articles:      articles,
		logger:        logger,
	}
}

// ListHandler returns stored articles. Supports sort_by (pub_time,
// created_at), order (asc, desc), and keyword title filtering.
func (h *NewsHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query()
	opts := &interfaces.ArticleListOptions{
		SortBy:  query.Get("sort_by"),
		Order:   query.Get("order"),
		Keyword: query.Get("keyword"),
	}

	articles, err := h.articles.ListArticles(opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list articles")
		WriteError(w, http.StatusInternalServerError, "Failed to list articles")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
		"count":    len(articles),
	})
}

// FetchHandler runs one ingestion pass synchronously and returns its
// counters. A pass already in flight yields 409.
func (h *NewsHandler) FetchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	result, err := h.ingestService.Run(r.Context())
	if err != nil {
		if errors.Is(err, ingest.ErrRunInProgress) {
			WriteError(w, http.StatusConflict, "An ingestion run is already in progress")
			return
		}
		h.logger.Error().Err(err).Msg("Ingestion run failed")
		WriteError(w, http.StatusBadGateway, "Ingestion run failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"result": result,
	})
}

// DeleteHandler deletes one article by id (path suffix after /api/news/).
func (h *NewsHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/news/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "Invalid article id")
		return
	}

	if err := h.articles.DeleteArticle(id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Article not found")
			return
		}
		h.logger.Error().Err(err).Str("article_id", id).Msg("Failed to delete article")
		WriteError(w, http.StatusInternalServerError, "Failed to delete article")
		return
	}

	WriteSuccess(w, "Article deleted")
}

// DeleteManyHandler deletes a batch of articles by id. Missing ids are
// not an error; the response carries the number actually removed.
func (h *NewsHandler) DeleteManyHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	var req struct {
		ArticleIDs []string `json:"article_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.ArticleIDs) == 0 {
		WriteError(w, http.StatusBadRequest, "article_ids is required")
		return
	}

	deleted, err := h.articles.DeleteArticles(req.ArticleIDs)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to delete articles")
		WriteError(w, http.StatusInternalServerError, "Failed to delete articles")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"requested": len(req.ArticleIDs),
		"deleted":   deleted,
	})
}
