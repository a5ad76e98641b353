// Package report renders and parses the human-readable output of a search:
// run headers, streams of improving results, and per-state population trace
// tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iontrap/projsearch/internal/params"
	"github.com/iontrap/projsearch/internal/search"
)

// PrintInfo writes the run-parameter header of a result file.
func PrintInfo(w io.Writer, rp *params.RunParameters) error {
	_, err := fmt.Fprintf(w, "state = %s\nsequence = %s\nlaser = %s\ntime = %s\n\n",
		params.FormatState(rp.State),
		params.FormatSequence(rp.Sequence),
		params.FormatLaser(rp.Laser),
		params.FormatTime(rp.Time),
	)
	return err
}

// WriteResult writes one attempt outcome as an indented key=value block.
func WriteResult(w io.Writer, o search.Outcome) error {
	_, err := fmt.Fprintf(w, "    infidelity = %s\n    parameters = %s\n    success = %t\n\n",
		strconv.FormatFloat(o.Infidelity, 'g', -1, 64),
		formatFloats(o.Params),
		o.Success,
	)
	return err
}

func formatFloats(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FileFilter builds a best-result filter that writes improving outcomes to
// the success writer and the rest to the failure writer.  failure may be
// nil, in which case non-improving outcomes are dropped.
func FileFilter(success, failure io.Writer) *search.BestFilter {
	writeTo := func(w io.Writer) search.Callback {
		return func(o search.Outcome) {
			_ = WriteResult(w, o)
		}
	}
	var onFailure search.Callback
	if failure != nil {
		onFailure = writeTo(failure)
	}
	return search.NewBestFilter(writeTo(success), onFailure, nil, nil)
}
