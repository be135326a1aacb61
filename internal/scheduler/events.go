package scheduler

// FetchPhase describes where a single fetch is in its lifecycle.
type FetchPhase string

const (
	PhaseDispatched FetchPhase = "dispatched"
	PhaseSucceeded  FetchPhase = "succeeded"
	PhaseFailed     FetchPhase = "failed"
	PhaseSkipped    FetchPhase = "skipped"
)

// FetchEvent is published on the batch broker as fetches move through their
// lifecycle. Error is the failure message for PhaseFailed/PhaseSkipped.
type FetchEvent struct {
	BatchID string
	Name    string
	Phase   FetchPhase
	Error   string
}
