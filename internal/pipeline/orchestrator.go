package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"biobridge/internal/dataset"
	"biobridge/internal/logging"
	"biobridge/internal/match"
	"biobridge/internal/services"
)

// Stage binds a strategy to its inputs within a run.
type Stage struct {
	// Number orders stages within the run and keys their statistics.
	Number int
	Name   string
	// Strategy executes the matching for this stage.
	Strategy match.Strategy
	// SourceDataset and ReferenceDataset name datasets in the store.
	SourceDataset    string
	ReferenceDataset string
	// FilterColumn is the source column checked against the exclusion set
	// before the stage runs.
	FilterColumn string
	// OutputKey, when set, names the dataset the stage's matches are written
	// to after a successful execution.
	OutputKey string
}

// Orchestrator executes stages in order, feeding each one only the source
// identifiers no earlier stage matched.
type Orchestrator struct {
	store  dataset.Store
	logger *slog.Logger
	stages []Stage
}

// New builds an orchestrator over a dataset store.
func New(store dataset.Store, logger *slog.Logger) (*Orchestrator, error) {
	if store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "setup", "dataset store is required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		store:  store,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// AddStage registers a stage. Stages run in ascending Number order no matter
// the registration order; registration order breaks ties.
func (o *Orchestrator) AddStage(st Stage) error {
	if st.Strategy == nil {
		return services.Wrap(services.ErrConfiguration, "pipeline", "add-stage",
			fmt.Sprintf("stage %d has no strategy", st.Number), nil)
	}
	if st.SourceDataset == "" || st.ReferenceDataset == "" {
		return services.Wrap(services.ErrConfiguration, "pipeline", "add-stage",
			fmt.Sprintf("stage %d needs source and reference dataset names", st.Number), nil)
	}
	if st.FilterColumn == "" {
		return services.Wrap(services.ErrConfiguration, "pipeline", "add-stage",
			fmt.Sprintf("stage %d needs a filter column", st.Number), nil)
	}
	if st.Name == "" {
		st.Name = st.Strategy.Name()
	}
	o.stages = append(o.stages, st)
	sort.SliceStable(o.stages, func(i, j int) bool {
		return o.stages[i].Number < o.stages[j].Number
	})
	return nil
}

// RunReport summarizes a completed run.
type RunReport struct {
	RunID         string                     `json:"run_id"`
	StartedAt     time.Time                  `json:"started_at"`
	Elapsed       time.Duration              `json:"elapsed_ns"`
	Stages        []StageStatistics          `json:"stages"`
	ByStrategy    map[string]StageStatistics `json:"by_strategy"`
	TotalMatched  int                        `json:"total_matched"`
	TotalUniverse int                        `json:"total_universe"`
	Unmatched     int                        `json:"unmatched"`
	MatchRate     float64                    `json:"match_rate"`
}

// Run executes every registered stage in order. Individual stage failures
// are recorded in the report and do not stop the run; Run returns an error
// only when no stages are registered or the context is canceled between
// stages.
func (o *Orchestrator) Run(ctx context.Context) (*RunReport, error) {
	if len(o.stages) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "run", "no stages registered", nil)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, o.logger)
	started := time.Now()

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("stages", len(o.stages)))

	exclusion := NewExclusionSet()
	tracker := NewTracker()
	universe := make(map[string]struct{})

	for _, st := range o.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		o.runStage(ctx, logger, st, exclusion, tracker, universe)
	}

	report := &RunReport{
		RunID:         runID,
		StartedAt:     started,
		Elapsed:       time.Since(started),
		Stages:        tracker.Snapshot(),
		ByStrategy:    make(map[string]StageStatistics),
		TotalMatched:  exclusion.Len(),
		TotalUniverse: tracker.Universe(),
	}
	report.Unmatched = report.TotalUniverse - report.TotalMatched
	if report.Unmatched < 0 {
		report.Unmatched = 0
	}
	report.MatchRate = matchRate(report.TotalMatched, report.TotalUniverse)
	for _, entry := range report.Stages {
		report.ByStrategy[entry.Strategy] = entry
	}

	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("total_matched", report.TotalMatched),
		logging.Int("unmatched", report.Unmatched),
		logging.Float64("match_rate", report.MatchRate),
		logging.Duration("elapsed", report.Elapsed))

	return report, nil
}

func (o *Orchestrator) runStage(ctx context.Context, logger *slog.Logger, st Stage, exclusion *ExclusionSet, tracker *Tracker, universe map[string]struct{}) {
	stageCtx := services.WithStage(ctx, st.Name)
	stageLogger := logging.WithContext(stageCtx, o.logger).With(
		logging.Int(logging.FieldStageNumber, st.Number),
		logging.String(logging.FieldStrategy, st.Strategy.Name()),
	)

	run := tracker.Begin(st.Number, st.Name, st.Strategy.Name())

	source, err := o.store.Get(stageCtx, st.SourceDataset)
	if err != nil {
		stageLogger.Error("source dataset unavailable", logging.Error(err))
		run.Finish(0, 0, exclusion.Len(), false, fmt.Sprintf("source dataset %q unavailable: %v", st.SourceDataset, err))
		return
	}
	reference, err := o.store.Get(stageCtx, st.ReferenceDataset)
	if err != nil {
		stageLogger.Error("reference dataset unavailable", logging.Error(err))
		run.Finish(0, 0, exclusion.Len(), false, fmt.Sprintf("reference dataset %q unavailable: %v", st.ReferenceDataset, err))
		return
	}

	if ids, ok := source.Column(st.FilterColumn); ok {
		for _, id := range dedupe(ids) {
			universe[id] = struct{}{}
		}
	}
	tracker.SetUniverse(len(universe))

	filtered := FilterDataset(source, st.FilterColumn, exclusion)
	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.Int("records_total", source.Len()),
		logging.Int("records_remaining", filtered.Len()))

	if filtered.Len() == 0 && source.Len() > 0 {
		run.Finish(0, 0, exclusion.Len(), true, "no unmatched identifiers remain")
		stageLogger.Info("stage skipped",
			logging.String(logging.FieldEventType, "stage_skip"))
		return
	}

	outcome := executeStrategy(stageCtx, st.Strategy, filtered, reference)
	result := resultFromOutcome(outcome)
	matched := ExtractMatchedIdentifiers(result)
	newMatches := len(exclusion.FilterUnmatched(dedupe(matched)))
	exclusion.Add(matched...)

	run.Finish(filtered.Len(), newMatches, exclusion.Len(), outcome.Success, outcome.Message)

	if !outcome.Success {
		stageLogger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.String("error_message", outcome.Message))
		return
	}

	if st.OutputKey != "" {
		if err := o.store.Put(stageCtx, matchDataset(st.OutputKey, outcome.Matches)); err != nil {
			stageLogger.Error("failed to persist stage output", logging.Error(err))
		}
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Int("new_matches", newMatches),
		logging.Int("cumulative_matched", exclusion.Len()))
}

// executeStrategy isolates strategy panics at the stage boundary so a broken
// strategy cannot take down the whole run.
func executeStrategy(ctx context.Context, strategy match.Strategy, source, reference *dataset.Dataset) (outcome match.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = match.Outcome{Success: false, Message: fmt.Sprintf("strategy %s panicked: %v", strategy.Name(), r)}
		}
	}()
	return strategy.Match(ctx, source, reference)
}

// matchDataset converts strategy matches into a persistable dataset.
func matchDataset(name string, matches []match.Record) *dataset.Dataset {
	ds := dataset.New(name, []string{"source_id", "target_id", "confidence", "method"})
	for _, m := range matches {
		ds.Append(dataset.Record{
			"source_id":  m.SourceID,
			"target_id":  m.TargetID,
			"confidence": strconv.FormatFloat(m.Confidence, 'f', -1, 64),
			"method":     string(m.Method),
		})
	}
	return ds
}
