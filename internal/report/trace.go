package report

import (
	"fmt"
	"math/cmplx"
	"strings"

	"github.com/iontrap/projsearch/internal/ion"
	"github.com/iontrap/projsearch/internal/search"
)

// TraceOptions controls the rendering of population trace tables.
type TraceOptions struct {
	// Magnitude shows only |amplitude| instead of the full complex value.
	Magnitude bool
	// Interleave orders kets |e0>, |g0>, |e1>, ... instead of all excited
	// kets followed by all ground kets.
	Interleave bool
	// AddStates are extra start states traced alongside the basis.
	AddStates []ion.Spec
	// Tol is the magnitude below which a coefficient prints as 0.
	Tol float64
}

// DefaultTraceTol is the coefficient display cutoff.
const DefaultTraceTol = 5e-10

// RenderTraces rebuilds the basis and sequence of a result set and renders
// one table per start state showing the per-ket amplitudes after each pulse.
func RenderTraces(rs ResultSet, opts TraceOptions) ([]string, error) {
	if opts.Tol <= 0 {
		opts.Tol = DefaultTraceTol
	}
	basis, seq, err := search.BuildBasis(rs.Run.State, rs.Run.Sequence, rs.Run.Laser)
	if err != nil {
		return nil, err
	}
	states := basis
	for _, spec := range opts.AddStates {
		st, err := ion.NewState(spec, seq.Ns())
		if err != nil {
			return nil, err
		}
		states = append(states, st.Normalized())
	}
	if len(rs.Parameters) != seq.NumParams() {
		return nil, fmt.Errorf("report: %d parameters for a %d-pulse sequence", len(rs.Parameters), seq.Len())
	}

	out := make([]string, len(states))
	for i, state := range states {
		out[i] = renderTrace(seq, rs.Parameters, state, opts)
	}
	return out, nil
}

func renderTrace(seq *ion.Sequence, parameters []float64, state *ion.State, opts TraceOptions) string {
	stages := seq.Trace(parameters, state)

	// Trim motional levels never populated in any stage.
	maxLevel := 0
	for _, st := range stages {
		for _, p := range st.PopulatedLabels() {
			if cmplx.Abs(p.Amplitude) >= opts.Tol && p.Label.Level > maxLevel {
				maxLevel = p.Label.Level
			}
		}
	}

	kets := ketOrder(maxLevel, opts.Interleave)
	headings := append([]string{"", "start"}, pulseNames(seq)...)

	columns := make([][]string, 0, len(stages)+1)
	names := make([]string, len(kets))
	for i, k := range kets {
		names[i] = "|" + k.String() + ">"
	}
	columns = append(columns, names)
	for _, st := range stages {
		col := make([]string, len(kets))
		for i, k := range kets {
			col[i] = formatCoefficient(st.At(k), opts)
		}
		columns = append(columns, col)
	}

	// Right-align each column under its heading.
	for i := range columns {
		width := len(headings[i])
		for _, cell := range columns[i] {
			if len(cell) > width {
				width = len(cell)
			}
		}
		headings[i] = pad(headings[i], width)
		for j, cell := range columns[i] {
			columns[i][j] = pad(cell, width)
		}
	}

	lines := make([]string, 0, len(kets)+2)
	header := strings.Join(headings, " │ ")
	lines = append(lines, header, headerSeparator(header))
	for j := range kets {
		row := make([]string, len(columns))
		for i := range columns {
			row[i] = columns[i][j]
		}
		lines = append(lines, strings.Join(row, " │ "))
	}
	return strings.Join(lines, "\n")
}

func ketOrder(maxLevel int, interleave bool) []ion.Label {
	var out []ion.Label
	if interleave {
		for n := 0; n <= maxLevel; n++ {
			out = append(out,
				ion.Label{Branch: ion.Excited, Level: n},
				ion.Label{Branch: ion.Ground, Level: n})
		}
		return out
	}
	for n := 0; n <= maxLevel; n++ {
		out = append(out, ion.Label{Branch: ion.Excited, Level: n})
	}
	for n := 0; n <= maxLevel; n++ {
		out = append(out, ion.Label{Branch: ion.Ground, Level: n})
	}
	return out
}

func pulseNames(seq *ion.Sequence) []string {
	out := make([]string, seq.Len())
	for i, sb := range seq.Pulses() {
		out[i] = sb.Name()
	}
	return out
}

func formatCoefficient(c complex128, opts TraceOptions) string {
	if opts.Magnitude {
		m := cmplx.Abs(c)
		if m < opts.Tol {
			return "0"
		}
		return fmt.Sprintf("%.8g", m)
	}
	switch {
	case cmplx.Abs(c) < opts.Tol:
		return "0"
	case abs(real(c)) < opts.Tol:
		return fmt.Sprintf("%.8gi", imag(c))
	case abs(imag(c)) < opts.Tol:
		return fmt.Sprintf("%.8g", real(c))
	case imag(c) >= 0:
		return fmt.Sprintf("%.8g + %.8gi", real(c), imag(c))
	default:
		return fmt.Sprintf("%.8g - %.8gi", real(c), -imag(c))
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func headerSeparator(header string) string {
	var b strings.Builder
	for _, r := range header {
		if r == '│' {
			b.WriteRune('┼')
		} else {
			b.WriteRune('─')
		}
	}
	return b.String()
}
