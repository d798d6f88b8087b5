package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - News
	mux.HandleFunc("/api/news", s.handleNewsCollection)                 // GET (list), DELETE (batch)
	mux.HandleFunc("/api/news/fetch", s.app.NewsHandler.FetchHandler)   // POST - run one ingestion pass
	mux.HandleFunc("/api/news/", s.app.NewsHandler.DeleteHandler)       // DELETE /{id}

	// API routes - Analysis
	mux.HandleFunc("/api/analysis/run", s.app.AnalysisHandler.RunHandler)              // POST - run analysis now
	mux.HandleFunc("/api/analysis/reports", s.app.AnalysisHandler.ListReportsHandler)  // GET - list reports
	mux.HandleFunc("/api/analysis/reports/", s.app.AnalysisHandler.ReportHandler)      // GET/DELETE /{id}

	// API routes - Scheduler
	mux.HandleFunc("/api/scheduler/trigger-analysis", s.app.SchedulerHandler.TriggerAnalysisHandler)
	mux.HandleFunc("/api/scheduler/jobs", s.app.SchedulerHandler.ListJobsHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleNewsCollection dispatches the /api/news collection route by
// method: GET lists, DELETE removes a batch.
func (s *Server) handleNewsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		s.app.NewsHandler.ListHandler(w, r)
	case "DELETE":
		s.app.NewsHandler.DeleteManyHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
