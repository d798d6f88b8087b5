package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/redclay/finwire/internal/interfaces"
	"github.com/redclay/finwire/internal/services/analysis"
	"github.com/ternarybob/arbor"
)

// AnalysisHandler exposes on-demand analysis runs and the persisted
// report collection.
type AnalysisHandler struct {
	analysisService *analysis.Service
	reports         interfaces.ReportStorage
	logger          arbor.ILogger
}

// NewAnalysisHandler creates an analysis handler instance.
func NewAnalysisHandler(analysisService *analysis.Service, reports interfaces.ReportStorage, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		reports:         reports,
		logger:          logger,
	}
}

// RunHandler executes one analysis run synchronously and returns the
// persisted report. The request body is optional; absent fields fall
// back to the configured defaults.
func (h *AnalysisHandler) RunHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		Hours            int      `json:"hours"`
		MaxNews          int      `json:"max_news"`
		SummaryLimit     int      `json:"summary_limit"`
		FocusedCompanies []string `json:"focused_companies"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	report, err := h.analysisService.Run(r.Context(), analysis.Options{
		Hours:            req.Hours,
		MaxNews:          req.MaxNews,
		SummaryLimit:     req.SummaryLimit,
		FocusedCompanies: req.FocusedCompanies,
	})
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrRunInProgress):
			WriteError(w, http.StatusConflict, "An analysis run is already in progress")
		case errors.Is(err, analysis.ErrNoArticles):
			WriteError(w, http.StatusNotFound, "No articles in the requested window")
		default:
			h.logger.Error().Err(err).Msg("Analysis run failed")
			WriteError(w, http.StatusBadGateway, "Analysis run failed: "+err.Error())
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"report": report,
	})
}

// ListReportsHandler returns all stored reports, newest first.
func (h *AnalysisHandler) ListReportsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	reports, err := h.reports.ListReports()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list reports")
		WriteError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
	})
}

// ReportHandler serves GET and DELETE for a single report by id (path
// suffix after /api/analysis/reports/).
func (h *AnalysisHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/analysis/reports/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	switch r.Method {
	case "GET":
		report, err := h.reports.GetReport(id)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "Report not found")
				return
			}
			h.logger.Error().Err(err).Str("report_id", id).Msg("Failed to get report")
			WriteError(w, http.StatusInternalServerError, "Failed to get report")
			return
		}
		WriteJSON(w, http.StatusOK, report)

	case "DELETE":
		if err := h.reports.DeleteReport(id); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "Report not found")
				return
			}
			h.logger.Error().Err(err).Str("report_id", id).Msg("Failed to delete report")
			WriteError(w, http.StatusInternalServerError, "Failed to delete report")
			return
		}
		WriteSuccess(w, "Report deleted")

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
