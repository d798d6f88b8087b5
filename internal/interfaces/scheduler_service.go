package interfaces

import (
	"time"
)

// JobStatus describes one registered scheduler job.
type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Description string     `json:"description"`
	Enabled     bool       `json:"enabled"`
	IsRunning   bool       `json:"is_running"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// SchedulerService owns the cron timers driving the background jobs.
// Each job is single-flight: a firing (scheduled or manual) while the
// same job is still running is skipped, never run concurrently.
type SchedulerService interface {
	RegisterJob(name, schedule, description string, handler func() error) error
	Start() error
	Stop() error
	IsRunning() bool

	// TriggerJob fires a job immediately in the background. Returns an
	// error when the job is unknown or already running.
	TriggerJob(name string) error

	GetJobStatus(name string) (*JobStatus, error)
	GetAllJobStatuses() map[string]*JobStatus
}
