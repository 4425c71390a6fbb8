package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/curioloop/linesearch/hagerzhang"
)

// outcome is the result of one job.
type outcome struct {
	job     Job
	res     *hagerzhang.Result[float64]
	elapsed time.Duration
	trace   bytes.Buffer
}

// runJob runs the job as one batched search. With trace set, the search progress
// is kept in the outcome so that concurrent jobs do not interleave their output.
func runJob(job Job, trace bool) (*outcome, error) {
	oracle, err := buildProblem(job.Problem, job.Batch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Name, err)
	}

	out := &outcome{job: job}
	searchLog := &hagerzhang.Logger{Level: hagerzhang.LogNoop}
	if trace {
		searchLog = &hagerzhang.Logger{Level: hagerzhang.LogEval, Msg: &out.trace, Out: io.Discard}
	}

	params := job.params
	p := hagerzhang.Problem[float64]{N: job.Batch, Eval: oracle, Params: &params}
	searcher, err := p.New(searchLog)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Name, err)
	}

	slog.Debug("Starting search", "name", job.Name, "problem", job.Problem, "batch", job.Batch, "step", job.Step)

	start := time.Now()
	out.res = searcher.Search(&hagerzhang.Start[float64]{Step: slices.Repeat([]float64{job.Step}, job.Batch)})
	out.elapsed = time.Since(start)

	conv, fail := 0, 0
	for i := range out.res.Status {
		if out.res.Converged[i] {
			conv++
		} else if out.res.Failed[i] {
			fail++
		}
	}
	slog.Info("Search complete",
		"name", job.Name,
		"elapsed", out.elapsed,
		"iterations", out.res.NumIter,
		"evaluations", out.res.NumEval,
		"converged", conv,
		"failed", fail,
	)
	return out, nil
}

func printOutcome(w io.Writer, out *outcome) error {
	res := out.res
	if _, err := fmt.Fprintf(w, "== %s (%s, batch %d, %d iterations, %d evaluations, %v)\n",
		out.job.Name, out.job.Problem, out.job.Batch, res.NumIter, res.NumEval, out.elapsed); err != nil {
		return err
	}
	if out.trace.Len() > 0 {
		if _, err := out.trace.WriteTo(w); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MEMBER\tSTATUS\tSTEP\tF\tDF\tBRACKET")
	for i, s := range res.Status {
		l, r := res.Left[i], res.Right[i]
		fmt.Fprintf(tw, "%d\t%v\t%.6g\t%.6g\t%.6g\t[%.6g, %.6g]\n", i, s, l.X, l.F, l.DF, l.X, r.X)
	}
	return tw.Flush()
}
