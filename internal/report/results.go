package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iontrap/projsearch/internal/params"
)

// ResultSet is one parsed attempt outcome together with the run parameters
// it was produced under.
type ResultSet struct {
	Run        *params.RunParameters
	Infidelity float64
	Parameters []float64
	Success    bool
}

var runKeys = map[string]bool{"state": true, "sequence": true, "laser": true, "time": true}
var resultKeys = map[string]bool{"infidelity": true, "parameters": true, "success": true}

// ReadResults parses a result file written by PrintInfo + WriteResult: one
// run-parameter header followed by any number of result blocks.
func ReadResults(r io.Reader) ([]ResultSet, error) {
	stmts, err := params.Statements(r)
	if err != nil {
		return nil, err
	}
	if len(stmts) < len(runKeys) {
		return nil, fmt.Errorf("report: result file has no run-parameter header")
	}

	header := make([]params.Statement, 0, len(runKeys))
	rest := stmts
	for _, stmt := range stmts {
		if !runKeys[stmt.Key] {
			break
		}
		header = append(header, stmt)
		rest = rest[1:]
	}
	if len(header) != len(runKeys) {
		return nil, fmt.Errorf("report: incomplete run-parameter header")
	}
	sets, err := params.GroupSets(header)
	if err != nil {
		return nil, err
	}
	run, err := params.ParseMachineLine(setToLine(sets[0]))
	if err != nil {
		return nil, err
	}

	var out []ResultSet
	cur := ResultSet{Run: run}
	seen := make(map[string]bool)
	for _, stmt := range rest {
		if !resultKeys[stmt.Key] {
			return nil, fmt.Errorf("report: unexpected key %q on line %d", stmt.Key, stmt.Line)
		}
		if seen[stmt.Key] {
			return nil, fmt.Errorf("report: duplicate key %q on line %d before result block was complete", stmt.Key, stmt.Line)
		}
		seen[stmt.Key] = true
		switch stmt.Key {
		case "infidelity":
			cur.Infidelity, err = strconv.ParseFloat(stmt.Value, 64)
		case "parameters":
			cur.Parameters, err = parseFloats(stmt.Value)
		case "success":
			cur.Success, err = strconv.ParseBool(stmt.Value)
		}
		if err != nil {
			return nil, fmt.Errorf("report: line %d: %w", stmt.Line, err)
		}
		if len(seen) == len(resultKeys) {
			out = append(out, cur)
			cur = ResultSet{Run: run}
			seen = make(map[string]bool)
		}
	}
	if len(seen) != 0 {
		return nil, fmt.Errorf("report: end of file before the last result block was complete")
	}
	return out, nil
}

func setToLine(set []params.Statement) string {
	parts := make([]string, len(set))
	for i, stmt := range set {
		parts[i] = stmt.Key + "=" + stmt.Value
	}
	return strings.Join(parts, ";")
}

func parseFloats(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("parameters %q are not bracket-delimited", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, nil
	}
	var out []float64
	for _, part := range strings.Split(body, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("parameter entry %q is not a number", strings.TrimSpace(part))
		}
		out = append(out, v)
	}
	return out, nil
}
