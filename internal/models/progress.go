package models

import (
	"sync"
	"sync/atomic"
	"time"
)

// maxErrorDetails bounds the per-run error list exposed by the API
const maxErrorDetails = 50

// TaskError describes a single failed file
type TaskError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// ProgressSink receives run lifecycle events from the pipeline.
// Initialize fires once before dispatch, Update once per completed task
// and Complete once at the end of the run.
type ProgressSink interface {
	Initialize(total int)
	Update(success bool, detail *TaskError)
	Complete()
}

// RunProgress is the run-scoped aggregate state shared by worker tasks.
// Counters are atomic so concurrent task completions never lose updates.
type RunProgress struct {
	Profile   string
	StartedAt time.Time

	total     atomic.Int64
	completed atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64

	mu         sync.Mutex
	status     RunStatus
	finishedAt time.Time
	errors     []TaskError
}

// NewRunProgress creates progress state for one run of a profile
func NewRunProgress(profile string) *RunProgress {
	return &RunProgress{
		Profile:   profile,
		StartedAt: time.Now(),
		status:    RunStatusRunning,
	}
}

// Initialize records the total task count before dispatch
func (p *RunProgress) Initialize(total int) {
	p.total.Store(int64(total))
}

// Update records one completed task
func (p *RunProgress) Update(success bool, detail *TaskError) {
	p.completed.Add(1)
	if success {
		p.succeeded.Add(1)
		return
	}
	p.failed.Add(1)
	if detail != nil {
		p.mu.Lock()
		if len(p.errors) < maxErrorDetails {
			p.errors = append(p.errors, *detail)
		}
		p.mu.Unlock()
	}
}

// Complete marks the run as finished
func (p *RunProgress) Complete() {
	p.mu.Lock()
	p.status = RunStatusCompleted
	p.finishedAt = time.Now()
	p.mu.Unlock()
}

// AddSkipped counts files bypassed before or during dispatch
// (processed-log hits and already-linked sources)
func (p *RunProgress) AddSkipped(n int) {
	p.skipped.Add(int64(n))
}

// Fail marks the run as aborted with a run-level status
func (p *RunProgress) Fail(status RunStatus) {
	p.mu.Lock()
	p.status = status
	p.finishedAt = time.Now()
	p.mu.Unlock()
}

// ProgressSnapshot is a point-in-time copy of run progress for the API
type ProgressSnapshot struct {
	Profile    string      `json:"profile"`
	Status     RunStatus   `json:"status"`
	Total      int64       `json:"total"`
	Completed  int64       `json:"completed"`
	Succeeded  int64       `json:"succeeded"`
	Failed     int64       `json:"failed"`
	Skipped    int64       `json:"skipped"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	Errors     []TaskError `json:"errors,omitempty"`
}

// Snapshot returns a consistent copy of the current progress
func (p *RunProgress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	status := p.status
	finished := p.finishedAt
	errs := make([]TaskError, len(p.errors))
	copy(errs, p.errors)
	p.mu.Unlock()

	snap := ProgressSnapshot{
		Profile:   p.Profile,
		Status:    status,
		Total:     p.total.Load(),
		Completed: p.completed.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
		Skipped:   p.skipped.Load(),
		StartedAt: p.StartedAt,
		Errors:    errs,
	}
	if !finished.IsZero() {
		snap.FinishedAt = &finished
	}
	return snap
}
