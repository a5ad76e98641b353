package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/iontrap/projsearch/internal/opt"
	"github.com/iontrap/projsearch/internal/params"
	"github.com/iontrap/projsearch/internal/report"
	"github.com/iontrap/projsearch/internal/search"
	"github.com/spf13/cobra"
)

var (
	inputPath   string
	runLine     string
	stateFlag   string
	seqFlag     string
	laserFlag   string
	timeFlag    float64
	successPath string
	failurePath string
	method      string
	periods     float64
	seed        int64
	maxIters    int
	popSize     int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the anytime search for one or more parameter sets",
	Long: `Reads run parameters from a machine-readable input file (or a single
inline run line), optimizes each set over its wall-clock budget, and writes a
stream of improving results to the success file.  Non-improving converged
attempts can optionally be written to a failure file.`,
	RunE: runSearch,
}

func init() {
	runCmd.Flags().StringVar(&inputPath, "input", "", "Input file (machine or user form)")
	runCmd.Flags().StringVar(&runLine, "line", "", "Single machine-readable run line")
	runCmd.Flags().StringVar(&stateFlag, "state", "", "Target state, e.g. '{g0:1, e1:1}'")
	runCmd.Flags().StringVar(&seqFlag, "sequence", "", "Pulse sequence, e.g. '[0,1,-1]'")
	runCmd.Flags().StringVar(&laserFlag, "laser", "", "Laser settings '(detuning, lambDicke, baseRabi)'")
	runCmd.Flags().Float64Var(&timeFlag, "time", 0, "Wall-clock budget in seconds")
	runCmd.Flags().StringVar(&successPath, "success", "-", "Improving results output ('-' for stdout)")
	runCmd.Flags().StringVar(&failurePath, "failure", "", "Non-improving results output (discarded if empty)")
	runCmd.Flags().StringVar(&method, "method", "bfgs", "Local minimizer: bfgs, mayfly")
	runCmd.Flags().Float64Var(&periods, "periods", search.DefaultPeriodsFactor, "Rabi periods the restart durations are drawn over")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "Random seed for the restart sampler")
	runCmd.Flags().IntVar(&maxIters, "iters", 100, "Max iterations per local attempt (mayfly)")
	runCmd.Flags().IntVar(&popSize, "pop", 20, "Population size (mayfly)")

	rootCmd.AddCommand(runCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	var sets []*params.RunParameters
	switch {
	case runLine != "":
		rp, err := params.ParseMachineLine(runLine)
		if err != nil {
			return fmt.Errorf("failed to parse run line: %w", err)
		}
		sets = []*params.RunParameters{rp}
	case inputPath != "":
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		sets, err = params.ReadParameters(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	case stateFlag != "" && seqFlag != "" && laserFlag != "":
		line := fmt.Sprintf("state=%s;sequence=%s;laser=%s;time=%s",
			stateFlag, seqFlag, laserFlag, params.FormatTime(timeFlag))
		rp, err := params.ParseMachineLine(line)
		if err != nil {
			return fmt.Errorf("failed to parse run flags: %w", err)
		}
		sets = []*params.RunParameters{rp}
	default:
		return fmt.Errorf("need --input, --line, or --state/--sequence/--laser")
	}

	success, closeSuccess, err := openOutput(successPath)
	if err != nil {
		return err
	}
	defer closeSuccess()

	var failure io.Writer
	if failurePath != "" {
		var closeFailure func()
		failure, closeFailure, err = openOutput(failurePath)
		if err != nil {
			return err
		}
		defer closeFailure()
	}

	rng := rand.New(rand.NewSource(seed))
	for i, rp := range sets {
		slog.Info("Starting search",
			"set", i+1,
			"of", len(sets),
			"sequence", params.FormatSequence(rp.Sequence),
			"budget_s", rp.Time,
		)
		if err := searchOne(rp, success, failure, rng); err != nil {
			return err
		}
	}
	return nil
}

func searchOne(rp *params.RunParameters, success, failure io.Writer, rng *rand.Rand) error {
	basis, seq, err := search.BuildBasis(rp.State, rp.Sequence, rp.Laser)
	if err != nil {
		return fmt.Errorf("failed to build basis: %w", err)
	}
	objective := search.BuildObjective(basis, seq)

	couplings := search.Couplings(rp.Sequence, rp.Laser)
	sampler, err := search.NewSampler(rp.Sequence, couplings, periods, rng)
	if err != nil {
		return err
	}

	var local opt.Local
	switch method {
	case "bfgs":
		local = opt.NewBFGS(0, 0)
	case "mayfly":
		ranges, err := search.SampleRanges(rp.Sequence, couplings, periods)
		if err != nil {
			return err
		}
		local = opt.NewMayfly(maxIters, popSize, seed, ranges)
	default:
		return fmt.Errorf("unknown method: %s", method)
	}

	if err := report.PrintInfo(success, rp); err != nil {
		return err
	}
	if failure != nil {
		if err := report.PrintInfo(failure, rp); err != nil {
			return err
		}
	}

	start := time.Now()
	filter := report.FileFilter(success, failure)
	budget := time.Duration(rp.Time * float64(time.Second))
	search.OptimizeOverTime(objective, sampler, local, filter.Apply, budget)

	best, ok := filter.Best()
	if !ok {
		slog.Warn("No attempt converged", "elapsed", time.Since(start))
		return nil
	}
	slog.Info("Search complete", "elapsed", time.Since(start), "best_infidelity", best)
	return nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
