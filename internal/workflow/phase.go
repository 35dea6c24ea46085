// internal/workflow/phase.go
//
// Pipeline phases for one submission cycle. The pipeline is linear: a
// submission either walks Idle → Uploading → Submitting → Idle, or skips
// Uploading when nothing is attached. The TUI shows a single Processing
// indicator from submit until the pipeline settles.

package workflow

import "errors"

// Phase is the submission pipeline's current stage.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseUploading
	PhaseSubmitting
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseUploading:
		return "Uploading"
	case PhaseSubmitting:
		return "Submitting"
	default:
		return "Unknown"
	}
}

// Busy reports whether a submission cycle is running.
func (p Phase) Busy() bool {
	return p != PhaseIdle
}

// ErrBusy rejects a submit while a previous cycle is still settling. The
// form swaps to a spinner while busy, so an operator should never hit it.
var ErrBusy = errors.New("workflow: a submission is already in progress")
