package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"biobridge/internal/dataset"
	"biobridge/internal/pipeline"
)

// runStatsDataset is the catalog key the run command writes its stage
// statistics to, replaced on every run.
const runStatsDataset = "run_stats"

func statsDataset(report *pipeline.RunReport) *dataset.Dataset {
	ds := dataset.New(runStatsDataset, []string{
		"run_id", "stage", "name", "strategy", "processed",
		"new_matches", "cumulative", "match_rate", "elapsed_ms", "status", "message",
	})
	for _, st := range report.Stages {
		status := "ok"
		if !st.Success {
			status = "failed"
		}
		ds.Append(dataset.Record{
			"run_id":      report.RunID,
			"stage":       strconv.Itoa(st.StageNumber),
			"name":        st.Name,
			"strategy":    st.Strategy,
			"processed":   strconv.Itoa(st.TotalProcessed),
			"new_matches": strconv.Itoa(st.NewMatches),
			"cumulative":  strconv.Itoa(st.CumulativeMatched),
			"match_rate":  fmt.Sprintf("%.4f", st.MatchRate),
			"elapsed_ms":  strconv.FormatInt(st.Elapsed.Milliseconds(), 10),
			"status":      status,
			"message":     st.Message,
		})
	}
	return ds
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show stage statistics from the most recent run",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer catalog.Close()

			ds, err := catalog.Get(cmd.Context(), runStatsDataset)
			if err != nil {
				return fmt.Errorf("no run statistics recorded yet: %w", err)
			}
			if ds.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No run statistics recorded yet")
				return nil
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "Run %s\n", ds.Records[0].Get("run_id"))

			rows := make([][]string, 0, ds.Len())
			for _, record := range ds.Records {
				elapsed := ""
				if ms, err := strconv.ParseInt(record.Get("elapsed_ms"), 10, 64); err == nil {
					elapsed = (time.Duration(ms) * time.Millisecond).String()
				}
				rate := record.Get("match_rate")
				if parsed, err := strconv.ParseFloat(rate, 64); err == nil {
					rate = fmt.Sprintf("%.1f%%", parsed*100)
				}
				rows = append(rows, []string{
					record.Get("stage"),
					record.Get("name"),
					record.Get("strategy"),
					record.Get("processed"),
					record.Get("new_matches"),
					record.Get("cumulative"),
					rate,
					elapsed,
					colorizeStatus(record.Get("status"), record.Get("status") == "ok", colorize),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Stage", "Strategy", "Processed", "New", "Cumulative", "Rate", "Elapsed", "Status"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}
