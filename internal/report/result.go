package report

import (
	"time"

	"github.com/rs/zerolog"
)

// Outcome is how a launch attempt ended.
type Outcome string

const (
	// OutcomeCompleted: the entrypoint ran and exited 0.
	OutcomeCompleted Outcome = "completed"
	// OutcomeFailed: the entrypoint ran (or failed to start) and exited non-zero.
	OutcomeFailed Outcome = "failed"
	// OutcomeRejected: validation stopped the launch before any process started.
	OutcomeRejected Outcome = "rejected"
)

// Outcomes lists every outcome, in label order.
var Outcomes = []Outcome{OutcomeCompleted, OutcomeFailed, OutcomeRejected}

// Result is the record of one launch attempt. Set once, never changed.
type Result struct {
	Entrypoint string `json:"entrypoint"`
	PID        int    `json:"pid,omitempty"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	ExitCode int     `json:"exit_code"`
	Outcome  Outcome `json:"outcome"`
	Reason   string  `json:"reason,omitempty"`
}

// NewResult records a process that ran. The outcome follows the exit code.
func NewResult(entrypoint string, pid, exitCode int, startTime, endTime time.Time) *Result {
	outcome := OutcomeCompleted
	if exitCode != 0 {
		outcome = OutcomeFailed
	}
	return &Result{
		Entrypoint: entrypoint,
		PID:        pid,
		StartTime:  startTime,
		EndTime:    endTime,
		Duration:   endTime.Sub(startTime),
		ExitCode:   exitCode,
		Outcome:    outcome,
	}
}

// NewRejected records a launch refused before start.
func NewRejected(entrypoint string, exitCode int, reason string, at time.Time) *Result {
	return &Result{
		Entrypoint: entrypoint,
		StartTime:  at,
		EndTime:    at,
		ExitCode:   exitCode,
		Outcome:    OutcomeRejected,
		Reason:     reason,
	}
}

// LogSummary writes a one-line summary of the attempt.
func (r *Result) LogSummary(logger zerolog.Logger) {
	ev := logger.Info().Str("entrypoint", r.Entrypoint).
		Str("outcome", string(r.Outcome)).
		Int("exit", r.ExitCode).
		Dur("runtime", r.Duration)
	if r.PID != 0 {
		ev = ev.Int("pid", r.PID)
	}
	if r.Reason != "" {
		ev = ev.Str("reason", r.Reason)
	}
	ev.Msg("launch finished")
}
