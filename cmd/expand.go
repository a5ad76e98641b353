package main

import (
	"fmt"
	"io"
	"os"

	"github.com/iontrap/projsearch/internal/params"
	"github.com/spf13/cobra"
)

var expandOutput string

var expandCmd = &cobra.Command{
	Use:   "expand <input-file>",
	Short: "Expand a user input file into machine-readable run lines",
	Long: `Expands value lists and commands such as !length in a user input file
into the cartesian product of machine-readable run lines, one per line.
The output is suitable for 'run --input' or for distributing across hosts.`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().StringVar(&expandOutput, "output", "-", "Output file ('-' for stdout)")
	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	lines, err := params.ExpandInput(f)
	if err != nil {
		return fmt.Errorf("failed to expand input: %w", err)
	}

	out, closeOut, err := openAppend(expandOutput)
	if err != nil {
		return err
	}
	defer closeOut()

	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

// openAppend opens path for appending so repeated expansions accumulate in
// one machine file.
func openAppend(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
