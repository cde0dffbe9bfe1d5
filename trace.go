package pathstore

import (
	"encoding/json"
	"time"
)

// MutationTrace is a serialisable record of one applied mutation round,
// suitable for devtools-style inspection or transport.
type MutationTrace struct {
	Op         string    `json:"op"`
	Path       string    `json:"path,omitempty"`
	Paths      []string  `json:"paths,omitempty"`
	Batched    bool      `json:"batched,omitempty"`
	Notified   int       `json:"notified"`
	DurationNS int64     `json:"duration_ns"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t MutationTrace) ToJSON() ([]byte, error) {
	type alias MutationTrace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (MutationTrace, error) {
	type alias MutationTrace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return MutationTrace{}, err
	}
	return MutationTrace(trace), nil
}

// TraceRecorder is a MutationLogger that keeps a bounded history of applied
// mutations, oldest first. It shares the store's single-threaded model and
// adds no locking.
type TraceRecorder struct {
	limit  int
	traces []MutationTrace
}

// NewTraceRecorder builds a recorder keeping at most limit traces; a
// non-positive limit keeps everything.
func NewTraceRecorder(limit int) *TraceRecorder {
	return &TraceRecorder{limit: limit}
}

// LogMutation implements MutationLogger.
func (r *TraceRecorder) LogMutation(event MutationLogEvent) {
	r.traces = append(r.traces, MutationTrace{
		Op:         event.Op,
		Path:       event.Path,
		Paths:      event.Paths,
		Batched:    event.Batched,
		Notified:   event.Notified,
		DurationNS: event.Duration.Nanoseconds(),
		OccurredAt: time.Now().UTC(),
	})
	if r.limit > 0 && len(r.traces) > r.limit {
		r.traces = r.traces[len(r.traces)-r.limit:]
	}
}

// Traces returns a copy of the recorded history, oldest first.
func (r *TraceRecorder) Traces() []MutationTrace {
	out := make([]MutationTrace, len(r.traces))
	copy(out, r.traces)
	return out
}

// Reset discards the recorded history.
func (r *TraceRecorder) Reset() {
	r.traces = nil
}
