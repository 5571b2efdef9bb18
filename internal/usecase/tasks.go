package usecase

import (
	"context"
	"errors"
	"sync"
	"time"
)

type TaskState string

const (
	TaskIdle      TaskState = "idle"
	TaskPending   TaskState = "pending"
	TaskSucceeded TaskState = "succeeded"
	TaskFailed    TaskState = "failed"
)

// Actions tracked per session.
const (
	ActionSummary     = "summary"
	ActionDescription = "description"
	ActionSkills      = "skills"
	ActionAnalysis    = "analysis"
	ActionCoverLetter = "cover-letter"
	ActionPolish      = "polish"
	ActionExport      = "export"
)

// ErrTaskPending is returned when an action is started while a previous run
// of it has not finished.
var ErrTaskPending = errors.New("action already in progress")

type TaskStatus struct {
	State     TaskState `json:"state"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

type task struct {
	status TaskStatus
	cancel context.CancelFunc
}

// Tasks is a per-session set of single-flight actions. A failed run is not
// retried.
type Tasks struct {
	mu    sync.Mutex
	tasks map[string]*task
	now   func() time.Time
}

func NewTasks() *Tasks {
	return &Tasks{tasks: map[string]*task{}, now: time.Now}
}

// Run executes fn as action, synchronously. It returns ErrTaskPending
// without calling fn when the action is already running.
func (t *Tasks) Run(ctx context.Context, action string, fn func(ctx context.Context) error) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.mu.Lock()
	tk, ok := t.tasks[action]
	if !ok {
		tk = &task{}
		t.tasks[action] = tk
	}
	if tk.status.State == TaskPending {
		t.mu.Unlock()
		return ErrTaskPending
	}
	tk.status = TaskStatus{State: TaskPending, UpdatedAt: t.now()}
	tk.cancel = cancel
	t.mu.Unlock()

	err := fn(runCtx)

	t.mu.Lock()
	tk.cancel = nil
	if err != nil {
		tk.status = TaskStatus{State: TaskFailed, Error: err.Error(), UpdatedAt: t.now()}
	} else {
		tk.status = TaskStatus{State: TaskSucceeded, UpdatedAt: t.now()}
	}
	t.mu.Unlock()
	return err
}

func (t *Tasks) Status(action string) TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tk, ok := t.tasks[action]; ok {
		return tk.status
	}
	return TaskStatus{State: TaskIdle}
}

// Snapshot returns the status of every action that has run.
func (t *Tasks) Snapshot() map[string]TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]TaskStatus, len(t.tasks))
	for k, tk := range t.tasks {
		out[k] = tk.status
	}
	return out
}

// Busy reports whether any action is pending.
func (t *Tasks) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tk := range t.tasks {
		if tk.status.State == TaskPending {
			return true
		}
	}
	return false
}

// CancelAll cancels the context of every pending run.
func (t *Tasks) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tk := range t.tasks {
		if tk.cancel != nil {
			tk.cancel()
		}
	}
}
