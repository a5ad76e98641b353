package params

import (
	"fmt"
	"io"
	"strings"
)

// ParseMachineLine parses one machine-readable line of the form
//
//	state={g1:1,g0:1i};sequence=[0,1];laser=(0,0.1,1000);time=3600
//
// into RunParameters.  All four keys must appear exactly once.
func ParseMachineLine(line string) (*RunParameters, error) {
	stmts, err := Statements(strings.NewReader(line))
	if err != nil {
		return nil, err
	}
	sets, err := GroupSets(stmts)
	if err != nil {
		return nil, err
	}
	if len(sets) != 1 {
		return nil, fmt.Errorf("%w: expected one parameter set per machine line, got %d", ErrSyntax, len(sets))
	}
	return runParametersFromSet(sets[0])
}

func runParametersFromSet(set []Statement) (*RunParameters, error) {
	rp := &RunParameters{}
	for _, stmt := range set {
		var err error
		switch stmt.Key {
		case "state":
			rp.State, err = ParseState(stmt.Value)
		case "sequence":
			rp.Sequence, err = ParseSequence(stmt.Value)
		case "laser":
			rp.Laser, err = ParseLaser(stmt.Value)
		case "time":
			rp.Time, err = ParseTime(stmt.Value)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", stmt.Line, err)
		}
	}
	return rp, nil
}

// FormatMachineLine renders RunParameters as a canonical machine line that
// round-trips through ParseMachineLine.
func FormatMachineLine(rp *RunParameters) string {
	return "state=" + FormatState(rp.State) +
		";sequence=" + FormatSequence(rp.Sequence) +
		";laser=" + FormatLaser(rp.Laser) +
		";time=" + FormatTime(rp.Time)
}

// ReadParameters reads a full input file (user or machine form), expanding
// any commands, and returns every RunParameters it defines in file order.
func ReadParameters(r io.Reader) ([]*RunParameters, error) {
	lines, err := ExpandInput(r)
	if err != nil {
		return nil, err
	}
	out := make([]*RunParameters, 0, len(lines))
	for _, line := range lines {
		rp, err := ParseMachineLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, nil
}
