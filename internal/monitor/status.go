package monitor

import "sync"

// Status is what the web UI polls while a run is active.
type Status struct {
	IsRunning      bool   `json:"is_running"`
	Progress       int    `json:"progress"`
	Total          int    `json:"total"`
	CurrentWebsite string `json:"current_website"`
	Completed      bool   `json:"completed"`
	Error          string `json:"error"`
}

// StatusTracker serializes run-state transitions between the monitor
// loop and the web handlers.
type StatusTracker struct {
	mu     sync.Mutex
	status Status
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{}
}

// TryBegin flips the tracker into the running state. It reports false
// when a run is already active, in which case the caller must not start
// another one.
func (t *StatusTracker) TryBegin(total int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.IsRunning {
		return false
	}
	t.status = Status{IsRunning: true, Total: total, CurrentWebsite: "preparing"}
	return true
}

// StartSite records which website the loop is visiting.
func (t *StatusTracker) StartSite(site string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.CurrentWebsite = site
}

// SiteDone advances the progress counter.
func (t *StatusTracker) SiteDone() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Progress++
}

// Finish leaves the running state. A nil err marks the run completed.
func (t *StatusTracker) Finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.IsRunning = false
	if err != nil {
		t.status.Error = err.Error()
		return
	}
	t.status.Completed = true
	t.status.CurrentWebsite = "done"
}

// Snapshot returns a copy safe to serialize concurrently with a run.
func (t *StatusTracker) Snapshot() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}
