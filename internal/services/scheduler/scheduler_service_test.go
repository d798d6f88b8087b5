package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redclay/finwire/internal/common"
)

func TestRegisterJob(t *testing.T) {
	service := NewService(common.GetLogger())

	if err := service.RegisterJob("ingest", "*/5 * * * *", "harvest articles", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Duplicate name is rejected.
	if err := service.RegisterJob("ingest", "*/5 * * * *", "again", func() error { return nil }); err == nil {
		t.Error("expected error for duplicate job name")
	}

	// Invalid schedule is rejected.
	if err := service.RegisterJob("bad", "not a cron", "x", func() error { return nil }); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestTriggerJob(t *testing.T) {
	service := NewService(common.GetLogger())

	done := make(chan struct{})
	err := service.RegisterJob("analysis", "0 8 * * *", "analysis run", func() error {
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := service.TriggerJob("analysis"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("triggered job never ran")
	}

	if err := service.TriggerJob("missing"); err == nil {
		t.Error("expected error for unknown job")
	}
}

func TestTriggerJob_SingleFlight(t *testing.T) {
	service := NewService(common.GetLogger())

	started := make(chan struct{})
	release := make(chan struct{})
	err := service.RegisterJob("slow", "0 8 * * *", "slow job", func() error {
		close(started)
		<-release
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := service.TriggerJob("slow"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-started

	// A second trigger while running is refused.
	if err := service.TriggerJob("slow"); err == nil {
		t.Error("expected error for already-running job")
	}
	close(release)
}

func TestJobStatus_TracksLastError(t *testing.T) {
	service := NewService(common.GetLogger())

	var mu sync.Mutex
	fail := true
	done := make(chan struct{}, 1)
	err := service.RegisterJob("flaky", "0 8 * * *", "flaky job", func() error {
		defer func() { done <- struct{}{} }()
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	runAndWait := func() {
		if err := service.TriggerJob("flaky"); err != nil {
			t.Fatalf("trigger failed: %v", err)
		}
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job never finished")
		}
		// Status bookkeeping happens after the handler returns.
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if status, _ := service.GetJobStatus("flaky"); status != nil && !status.IsRunning {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Fatal("job status never settled")
	}

	runAndWait()
	status, _ := service.GetJobStatus("flaky")
	if status.LastError != "boom" {
		t.Errorf("LastError = %q, want boom", status.LastError)
	}

	mu.Lock()
	fail = false
	mu.Unlock()

	runAndWait()
	status, _ = service.GetJobStatus("flaky")
	if status.LastError != "" {
		t.Errorf("LastError = %q, want cleared", status.LastError)
	}
}

func TestGetAllJobStatuses(t *testing.T) {
	service := NewService(common.GetLogger())

	service.RegisterJob("a", "*/5 * * * *", "job a", func() error { return nil })
	service.RegisterJob("b", "0 3 * * *", "job b", func() error { return nil })

	statuses := service.GetAllJobStatuses()
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses, want 2", len(statuses))
	}
	if statuses["a"].Schedule != "*/5 * * * *" {
		t.Errorf("schedule = %q", statuses["a"].Schedule)
	}
	if _, err := service.GetJobStatus("missing"); err == nil {
		t.Error("expected error for unknown job")
	}
}

func TestStartStop(t *testing.T) {
	service := NewService(common.GetLogger())

	if service.IsRunning() {
		t.Error("new scheduler reports running")
	}
	if err := service.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !service.IsRunning() {
		t.Error("scheduler not running after Start")
	}
	if err := service.Start(); err == nil {
		t.Error("expected error for double start")
	}
	if err := service.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if service.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
	if err := service.Stop(); err != nil {
		t.Errorf("second stop should be a no-op, got %v", err)
	}
}
