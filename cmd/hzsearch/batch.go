package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var configPath string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run the searches of a config file",
	Long:  `Runs every problem of a YAML config concurrently and prints the outcomes in config order.`,
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&configPath, "config", "", "YAML config path (required)")

	batchCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	workers := config.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	slog.Info("Loaded config", "path", configPath, "problems", len(config.Jobs), "workers", workers)

	outcomes, err := runJobs(cmd.Context(), config.Jobs, workers)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, out := range outcomes {
		if err := printOutcome(w, out); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

// runJobs runs every job on its own goroutine, at most workers at once.
// The first failing job cancels the jobs not yet started.
func runJobs(ctx context.Context, jobs []Job, workers int) ([]*outcome, error) {
	outcomes := make([]*outcome, len(jobs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			out, err := runJob(job, trace)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch failed: %w", err)
	}
	return outcomes, nil
}
