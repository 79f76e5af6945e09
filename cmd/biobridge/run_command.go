package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"biobridge/internal/config"
	"biobridge/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "run <pipeline.toml>",
		Short: "Execute a reconciliation pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			pcfg, err := config.LoadPipeline(args[0])
			if err != nil {
				return err
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			catalog, err := ctx.openCatalog()
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer catalog.Close()

			res, err := ctx.newResolver()
			if err != nil {
				return err
			}

			stages, err := pipeline.BuildStages(pcfg, pipeline.BuildDeps{
				Resolver: res,
				Defaults: cfg.Matching,
			})
			if err != nil {
				return err
			}

			orch, err := pipeline.New(catalog, logger)
			if err != nil {
				return err
			}
			for _, stage := range stages {
				if err := orch.AddStage(stage); err != nil {
					return err
				}
			}

			report, err := orch.Run(cmd.Context())
			if err != nil {
				return err
			}

			if err := catalog.Put(cmd.Context(), statsDataset(report)); err != nil {
				return fmt.Errorf("persist run statistics: %w", err)
			}

			if jsonOut {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			}
			printRunReport(cmd, pcfg.Name, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run report as JSON")
	return cmd
}

func printRunReport(cmd *cobra.Command, name string, report *pipeline.RunReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	if name == "" {
		name = "pipeline"
	}
	fmt.Fprintf(out, "Run %s (%s) finished in %s\n", report.RunID, name, report.Elapsed.Round(time.Millisecond))

	rows := make([][]string, 0, len(report.Stages))
	for _, st := range report.Stages {
		status := "ok"
		if !st.Success {
			status = "failed"
		}
		rows = append(rows, []string{
			strconv.Itoa(st.StageNumber),
			st.Name,
			st.Strategy,
			strconv.Itoa(st.TotalProcessed),
			strconv.Itoa(st.NewMatches),
			strconv.Itoa(st.CumulativeMatched),
			fmt.Sprintf("%.1f%%", st.MatchRate*100),
			st.Elapsed.Round(time.Millisecond).String(),
			colorizeStatus(status, st.Success, colorize),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Stage", "Strategy", "Processed", "New", "Cumulative", "Rate", "Elapsed", "Status"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))

	fmt.Fprintf(out, "Matched %d of %d identifiers (%.1f%%), %d unmatched\n",
		report.TotalMatched, report.TotalUniverse, report.MatchRate*100, report.Unmatched)

	for _, st := range report.Stages {
		if !st.Success {
			fmt.Fprintf(out, "  stage %d (%s): %s\n", st.StageNumber, st.Strategy, st.Message)
		}
	}
}
