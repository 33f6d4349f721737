package migrate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pass names.
const (
	PassScopedCopy   = "scoped_copy"   // Pass A: unscoped -> scoped, same backend
	PassSecretImport = "secret_import" // Pass B: old secret store -> current backend
)

// Step actions.
const (
	ActionMigrated = "migrated"
	ActionSkipped  = "skipped"
	ActionCleaned  = "cleaned"
	ActionFailed   = "failed"
)

var stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kitlocal_migration_steps_total",
	Help: "Migration steps by pass and action.",
}, []string{"pass", "action"})

// StepResult records the outcome of one migration step for one document.
// Best-effort failures are collected here instead of being discarded.
type StepResult struct {
	Key    string `json:"key"`
	Pass   string `json:"pass"`
	Action string `json:"action"`
	Err    string `json:"error,omitempty"`
}

// Report is the outcome of one migration run for one scope.
type Report struct {
	Scope      string       `json:"scope"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Steps      []StepResult `json:"steps"`
}

func newReport(scope string) *Report {
	return &Report{Scope: scope, StartedAt: time.Now().UTC()}
}

func (r *Report) finish() {
	r.FinishedAt = time.Now().UTC()
}

func (r *Report) add(key, pass, action string, err error) {
	s := StepResult{Key: key, Pass: pass, Action: action}
	if err != nil {
		s.Err = err.Error()
	}
	r.Steps = append(r.Steps, s)
	stepsTotal.WithLabelValues(pass, action).Inc()
}

// Failed returns the steps that recorded an error.
func (r *Report) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Action == ActionFailed {
			out = append(out, s)
		}
	}
	return out
}

// Migrated returns the steps that moved a document.
func (r *Report) Migrated() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Action == ActionMigrated {
			out = append(out, s)
		}
	}
	return out
}
