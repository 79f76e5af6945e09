package match

import (
	"context"
	"sync"
	"time"

	"biobridge/internal/dataset"
)

// Invocation captures one traced strategy execution.
type Invocation struct {
	SourceName    string
	SourceRows    int
	ReferenceName string
	ReferenceRows int
	Elapsed       time.Duration
	Outcome       Outcome
}

// Recorder wraps a strategy and records every Match call without altering the
// wrapped strategy's behavior. Compose it around a strategy at orchestration
// setup when call-level inspection is needed.
type Recorder struct {
	inner Strategy

	mu          sync.Mutex
	invocations []Invocation
}

var _ Strategy = (*Recorder)(nil)

// NewRecorder wraps strategy with call recording.
func NewRecorder(strategy Strategy) *Recorder {
	return &Recorder{inner: strategy}
}

func (r *Recorder) Name() string { return r.inner.Name() }

func (r *Recorder) Match(ctx context.Context, source, reference *dataset.Dataset) Outcome {
	start := time.Now()
	outcome := r.inner.Match(ctx, source, reference)

	inv := Invocation{
		Elapsed: time.Since(start),
		Outcome: outcome,
	}
	if source != nil {
		inv.SourceName = source.Name
		inv.SourceRows = source.Len()
	}
	if reference != nil {
		inv.ReferenceName = reference.Name
		inv.ReferenceRows = reference.Len()
	}

	r.mu.Lock()
	r.invocations = append(r.invocations, inv)
	r.mu.Unlock()
	return outcome
}

// Invocations returns a copy of the recorded calls in execution order.
func (r *Recorder) Invocations() []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Invocation(nil), r.invocations...)
}
