package params

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A command is a '!' directive in a user input file that expands one
// parameter specifier into many values.  Commands per parameter:
//
//	sequence = !length start [stop]
//
// which generates every sequence of first-order sidebands and carrier
// pulses with a length between start and stop inclusive (stop defaults to
// start), excluding sequences with two adjacent pulses of the same order.

// expandSpecifier turns one specifier into its list of canonical value
// strings: a single canonical rendering for literals, or the command's full
// expansion.
func expandSpecifier(key, spec string) ([]string, error) {
	spec = strings.TrimSpace(spec)
	if !strings.HasPrefix(spec, "!") {
		canon, err := canonicalValue(key, spec)
		if err != nil {
			return nil, err
		}
		return []string{canon}, nil
	}
	fields := strings.Fields(spec[1:])
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty command for %q", ErrSyntax, key)
	}
	if key != "sequence" || fields[0] != "length" {
		return nil, fmt.Errorf("%w: unknown %s command %q", ErrSyntax, key, "!"+fields[0])
	}
	return sequenceLength(fields[1:])
}

// canonicalValue parses and re-renders a literal specifier, both validating
// it early and minimising the text written to machine files.
func canonicalValue(key, spec string) (string, error) {
	switch key {
	case "state":
		v, err := ParseState(spec)
		if err != nil {
			return "", err
		}
		return FormatState(v), nil
	case "sequence":
		v, err := ParseSequence(spec)
		if err != nil {
			return "", err
		}
		return FormatSequence(v), nil
	case "laser":
		v, err := ParseLaser(spec)
		if err != nil {
			return "", err
		}
		return FormatLaser(v), nil
	case "time":
		v, err := ParseTime(spec)
		if err != nil {
			return "", err
		}
		return FormatTime(v), nil
	}
	return "", fmt.Errorf("%w: unknown parameter %q", ErrSyntax, key)
}

// sequenceLength implements the !length command.
func sequenceLength(args []string) ([]string, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, fmt.Errorf("%w: !length takes (start: int) [(stop: int)]", ErrSyntax)
	}
	start, err := strconv.Atoi(args[0])
	if err != nil || start < 1 {
		return nil, fmt.Errorf("%w: !length start %q must be a positive integer", ErrSyntax, args[0])
	}
	stop := start
	if len(args) == 2 {
		stop, err = strconv.Atoi(args[1])
		if err != nil || stop < start {
			return nil, fmt.Errorf("%w: !length stop %q must be an integer >= start", ErrSyntax, args[1])
		}
	}
	var out []string
	for n := start; n <= stop; n++ {
		for _, seq := range sequencesOfLength(n) {
			out = append(out, FormatSequence(seq))
		}
	}
	return out, nil
}

// sequencesOfLength enumerates every sequence over {0, -1, 1} of the given
// length with no two adjacent equal orders.
func sequencesOfLength(n int) [][]int {
	orders := []int{0, -1, 1}
	var out [][]int
	var build func(prefix []int)
	build = func(prefix []int) {
		if len(prefix) == n {
			out = append(out, append([]int(nil), prefix...))
			return
		}
		for _, o := range orders {
			if len(prefix) > 0 && prefix[len(prefix)-1] == o {
				continue
			}
			build(append(prefix, o))
		}
	}
	build(nil)
	return out
}

// ExpandSet expands one complete parameter set into machine lines: the
// cartesian product of every specifier's expansion, with the first
// statement in the set acting as the outermost loop.
func ExpandSet(set []Statement) ([]string, error) {
	expansions := make([][]string, len(set))
	for i, stmt := range set {
		exp, err := expandSpecifier(stmt.Key, stmt.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", stmt.Line, err)
		}
		expansions[i] = exp
	}
	lines := []string{""}
	for i, exp := range expansions {
		next := make([]string, 0, len(lines)*len(exp))
		for _, prefix := range lines {
			for _, val := range exp {
				stmt := set[i].Key + "=" + val
				if prefix == "" {
					next = append(next, stmt)
				} else {
					next = append(next, prefix+";"+stmt)
				}
			}
		}
		lines = next
	}
	return lines, nil
}

// ExpandInput reads a user input file and expands every parameter set into
// machine-readable lines in file order.
func ExpandInput(r io.Reader) ([]string, error) {
	stmts, err := Statements(r)
	if err != nil {
		return nil, err
	}
	sets, err := GroupSets(stmts)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, set := range sets {
		lines, err := ExpandSet(set)
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}
	return out, nil
}
