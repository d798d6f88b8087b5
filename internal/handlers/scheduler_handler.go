package handlers

import (
	"net/http"

	"github.com/redclay/finwire/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// SchedulerHandler exposes scheduler job status and manual triggers.
type SchedulerHandler struct {
	scheduler interfaces.SchedulerService
	logger    arbor.ILogger
}

// NewSchedulerHandler creates a scheduler handler instance.
func NewSchedulerHandler(scheduler interfaces.SchedulerService, logger arbor.ILogger) *SchedulerHandler {
	return &SchedulerHandler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// TriggerAnalysisHandler fires the scheduled analysis job immediately.
// The run proceeds in the background; the response only acknowledges
// the trigger.
func (h *SchedulerHandler) TriggerAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := h.scheduler.TriggerJob("analysis"); err != nil {
		WriteError(w, http.StatusConflict, err.Error())
		return
	}

	WriteStarted(w, "Analysis job triggered")
}

// ListJobsHandler returns the status of every registered job.
func (h *SchedulerHandler) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	statuses := h.scheduler.GetAllJobStatuses()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"scheduler_running": h.scheduler.IsRunning(),
		"jobs":              statuses,
	})
}
