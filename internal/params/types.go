package params

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iontrap/projsearch/internal/ion"
)

// ErrSyntax is the base error for malformed input values.
var ErrSyntax = errors.New("params: syntax error")

// RunParameters is one complete input to the optimiser: a target state, a
// pulse sequence, the laser settings and a wall-clock budget in seconds.
type RunParameters struct {
	State    ion.Spec
	Sequence []int
	Laser    ion.Laser
	Time     float64
}

// ParseState parses a sparse state specification of the form
// {g0:1, e3:0.5i}.  Keys may be quoted; a trailing 'j' on amplitudes is
// accepted for compatibility with older input files.
func ParseState(s string) (ion.Spec, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return nil, fmt.Errorf("%w: state %q is not brace-delimited", ErrSyntax, s)
	}
	spec := make(ion.Spec)
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return spec, nil
	}
	for _, part := range strings.Split(body, ",") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("%w: state entry %q is not key:value", ErrSyntax, strings.TrimSpace(part))
		}
		key := strings.Trim(strings.TrimSpace(kv[0]), `'"`)
		label, err := ion.ParseLabel(key)
		if err != nil {
			return nil, fmt.Errorf("%w: state key %q: %v", ErrSyntax, key, err)
		}
		if _, dup := spec[label]; dup {
			return nil, fmt.Errorf("%w: duplicate state key %q", ErrSyntax, key)
		}
		amp, err := parseComplex(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: state amplitude %q: %v", ErrSyntax, strings.TrimSpace(kv[1]), err)
		}
		spec[label] = amp
	}
	return spec, nil
}

func parseComplex(s string) (complex128, error) {
	s = strings.ReplaceAll(s, "j", "i")
	return strconv.ParseComplex(s, 128)
}

// FormatState renders a spec in canonical form, excited labels first, levels
// ascending.
func FormatState(spec ion.Spec) string {
	labels := make([]ion.Label, 0, len(spec))
	for l := range spec {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].Branch != labels[j].Branch {
			return labels[i].Branch < labels[j].Branch
		}
		return labels[i].Level < labels[j].Level
	})
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l.String() + ":" + formatComplex(spec[l])
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func formatComplex(c complex128) string {
	switch {
	case imag(c) == 0:
		return strconv.FormatFloat(real(c), 'g', -1, 64)
	case real(c) == 0:
		return strconv.FormatFloat(imag(c), 'g', -1, 64) + "i"
	default:
		return fmt.Sprintf("(%g%+gi)", real(c), imag(c))
	}
}

// ParseSequence parses a pulse-order list of the form [0,1,-1].
func ParseSequence(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("%w: sequence %q is not bracket-delimited", ErrSyntax, s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, fmt.Errorf("%w: sequence %q is empty", ErrSyntax, s)
	}
	var out []int
	for _, part := range strings.Split(body, ",") {
		order, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: sequence entry %q is not an integer", ErrSyntax, strings.TrimSpace(part))
		}
		out = append(out, order)
	}
	return out, nil
}

// FormatSequence renders a pulse-order list in canonical form.
func FormatSequence(orders []int) string {
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = strconv.Itoa(o)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ParseLaser parses the laser triple (detuning, lambDicke, baseRabi).
func ParseLaser(s string) (ion.Laser, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return ion.Laser{}, fmt.Errorf("%w: laser %q is not parenthesised", ErrSyntax, s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 3 {
		return ion.Laser{}, fmt.Errorf("%w: laser %q needs (detuning, lambDicke, baseRabi)", ErrSyntax, s)
	}
	vals := make([]float64, 3)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return ion.Laser{}, fmt.Errorf("%w: laser component %q is not a number", ErrSyntax, strings.TrimSpace(part))
		}
		vals[i] = v
	}
	return ion.Laser{Detuning: vals[0], LambDicke: vals[1], BaseRabi: vals[2]}, nil
}

// FormatLaser renders the laser triple in canonical form.
func FormatLaser(l ion.Laser) string {
	return fmt.Sprintf("(%g,%g,%g)", l.Detuning, l.LambDicke, l.BaseRabi)
}

// ParseTime parses a wall-clock budget in seconds.
func ParseTime(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: time %q is not a number", ErrSyntax, strings.TrimSpace(s))
	}
	return v, nil
}

// FormatTime renders the budget in canonical form.
func FormatTime(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}
