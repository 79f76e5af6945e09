package pipeline

import (
	"sort"
	"sync"
	"time"
)

// StageStatistics captures what one stage contributed to a run.
type StageStatistics struct {
	StageNumber       int           `json:"stage_number"`
	Name              string        `json:"name"`
	Strategy          string        `json:"strategy"`
	NewMatches        int           `json:"new_matches"`
	CumulativeMatched int           `json:"cumulative_matched"`
	TotalProcessed    int           `json:"total_processed"`
	Unmatched         int           `json:"unmatched"`
	MatchRate         float64       `json:"match_rate"`
	Elapsed           time.Duration `json:"elapsed_ns"`
	Success           bool          `json:"success"`
	Message           string        `json:"message,omitempty"`
}

// Tracker aggregates per-stage statistics for one run, keyed by stage number.
// Begin registers a provisional failure entry immediately, so a stage that
// panics or never finishes still appears in the report.
type Tracker struct {
	mu       sync.Mutex
	universe int
	stats    map[int]*StageStatistics
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{stats: make(map[int]*StageStatistics)}
}

// SetUniverse records the size of the identifier population the run is
// reconciling. Match rates are computed against it.
func (t *Tracker) SetUniverse(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n > t.universe {
		t.universe = n
	}
}

// Universe reports the recorded population size.
func (t *Tracker) Universe() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.universe
}

// Begin registers a stage and returns a handle used to finalize its entry.
func (t *Tracker) Begin(number int, name, strategy string) *StageRun {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats[number] = &StageStatistics{
		StageNumber: number,
		Name:        name,
		Strategy:    strategy,
		Success:     false,
		Message:     "stage did not complete",
	}
	return &StageRun{tracker: t, number: number, started: time.Now()}
}

// StageRun finalizes one stage entry. Finish is safe to call exactly once,
// typically via defer.
type StageRun struct {
	tracker *Tracker
	number  int
	started time.Time
}

// Finish completes the stage entry. Cumulative is the total matched so far
// across all stages including this one; the unmatched count and match rate
// derive from it and the recorded universe.
func (r *StageRun) Finish(processed, newMatches, cumulative int, success bool, message string) {
	elapsed := time.Since(r.started)
	t := r.tracker
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.stats[r.number]
	if !ok {
		return
	}
	entry.TotalProcessed = processed
	entry.NewMatches = newMatches
	entry.CumulativeMatched = cumulative
	entry.Unmatched = t.universe - cumulative
	if entry.Unmatched < 0 {
		entry.Unmatched = 0
	}
	entry.MatchRate = matchRate(cumulative, t.universe)
	entry.Elapsed = elapsed
	entry.Success = success
	entry.Message = message
}

// Stage returns the statistics entry for a stage number.
func (t *Tracker) Stage(number int) (StageStatistics, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.stats[number]
	if !ok {
		return StageStatistics{}, false
	}
	return *entry, true
}

// Snapshot returns every stage entry ordered by stage number.
func (t *Tracker) Snapshot() []StageStatistics {
	t.mu.Lock()
	defer t.mu.Unlock()
	numbers := make([]int, 0, len(t.stats))
	for number := range t.stats {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	result := make([]StageStatistics, 0, len(numbers))
	for _, number := range numbers {
		result = append(result, *t.stats[number])
	}
	return result
}

// TotalElapsed sums the per-stage durations.
func (t *Tracker) TotalElapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total time.Duration
	for _, entry := range t.stats {
		total += entry.Elapsed
	}
	return total
}

// matchRate divides matched by universe, returning 0 for an empty universe.
func matchRate(matched, universe int) float64 {
	if universe == 0 {
		return 0
	}
	return float64(matched) / float64(universe)
}
