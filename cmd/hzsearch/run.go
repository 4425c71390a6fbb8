package main

import (
	"github.com/curioloop/linesearch/hagerzhang"
	"github.com/spf13/cobra"
)

var (
	problemName string
	initStep    float64
	batchSize   int
	maxIter     int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one batched search",
	Long:  `Runs a batched line search over a built-in problem and prints the outcome of every member.`,
	RunE:  runSearch,
}

func init() {
	runCmd.Flags().StringVar(&problemName, "problem", "quadratic", "Problem: quadratic, rosenbrock, beale, overflow")
	runCmd.Flags().Float64Var(&initStep, "step", 1, "Initial step of every member")
	runCmd.Flags().IntVar(&batchSize, "batch", 1, "Number of members")
	runCmd.Flags().IntVar(&maxIter, "max-iter", hagerzhang.DefaultParams().MaxIterations, "Max iterations")

	rootCmd.AddCommand(runCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	config := &Config{
		Params: ParamsConfig{MaxIterations: &maxIter},
		Jobs:   []Job{{Name: problemName, Problem: problemName, Step: initStep, Batch: batchSize}},
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return err
	}

	out, err := runJob(config.Jobs[0], trace)
	if err != nil {
		return err
	}
	return printOutcome(cmd.OutOrStdout(), out)
}
