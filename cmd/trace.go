package main

import (
	"fmt"
	"os"

	"github.com/iontrap/projsearch/internal/params"
	"github.com/iontrap/projsearch/internal/report"
	"github.com/spf13/cobra"
)

var (
	traceMagnitude  bool
	traceInterleave bool
	traceAddStates  []string
	traceTol        float64
	traceIndex      int
)

var traceCmd = &cobra.Command{
	Use:   "trace <results-file>",
	Short: "Render population trace tables for a result file",
	Long: `Reads a result file written by 'run', rebuilds the basis of its run
parameters and prints one table per basis state showing the amplitude of each
ket after every pulse of the optimized sequence.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().BoolVar(&traceMagnitude, "magnitude", false, "Show |amplitude| instead of complex values")
	traceCmd.Flags().BoolVar(&traceInterleave, "interleave", false, "Interleave excited and ground kets")
	traceCmd.Flags().StringArrayVar(&traceAddStates, "add-state", nil, "Extra start state to trace, e.g. '{g0: 1}' (repeatable)")
	traceCmd.Flags().Float64Var(&traceTol, "tol", report.DefaultTraceTol, "Magnitude below which a coefficient prints as 0")
	traceCmd.Flags().IntVar(&traceIndex, "result", -1, "Result block to trace (default: last)")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open results: %w", err)
	}
	defer f.Close()

	results, err := report.ReadResults(f)
	if err != nil {
		return fmt.Errorf("failed to read results: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no result blocks in %s", args[0])
	}

	idx := traceIndex
	if idx < 0 {
		idx = len(results) - 1
	}
	if idx >= len(results) {
		return fmt.Errorf("result index %d out of range, file has %d", idx, len(results))
	}

	opts := report.TraceOptions{
		Magnitude:  traceMagnitude,
		Interleave: traceInterleave,
		Tol:        traceTol,
	}
	for _, s := range traceAddStates {
		spec, err := params.ParseState(s)
		if err != nil {
			return fmt.Errorf("failed to parse --add-state %q: %w", s, err)
		}
		opts.AddStates = append(opts.AddStates, spec)
	}

	tables, err := report.RenderTraces(results[idx], opts)
	if err != nil {
		return err
	}
	for i, table := range tables {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(table)
	}
	return nil
}
