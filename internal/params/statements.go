package params

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Statement is one key=value pair from an input file, with its source line
// for error reporting.
type Statement struct {
	Key   string
	Value string
	Line  int
	Text  string
}

// requiredKeys are the parameters every complete input set must specify.
var requiredKeys = map[string]bool{
	"state":    true,
	"sequence": true,
	"laser":    true,
	"time":     true,
}

// Statements reads every key=value statement from r.  Statements are
// separated by ';' or newlines; '#' starts a comment running to the end of
// the line; blank statements are skipped.
func Statements(r io.Reader) ([]Statement, error) {
	var out []Statement
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, stmt := range strings.Split(text, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			parts := strings.SplitN(stmt, "=", 2)
			if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
				return nil, fmt.Errorf("%w: cannot interpret statement %q on line %d", ErrSyntax, stmt, line)
			}
			out = append(out, Statement{
				Key:   strings.TrimSpace(parts[0]),
				Value: strings.TrimSpace(parts[1]),
				Line:  line,
				Text:  stmt,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("params: reading statements: %w", err)
	}
	return out, nil
}

// GroupSets splits a statement stream into consecutive complete sets, each
// containing exactly one statement per required key.  Unknown keys,
// duplicates within an unfinished set, and a trailing incomplete set are
// errors.
func GroupSets(stmts []Statement) ([][]Statement, error) {
	var sets [][]Statement
	var current []Statement
	seen := make(map[string]bool)
	for _, stmt := range stmts {
		if !requiredKeys[stmt.Key] {
			return nil, fmt.Errorf("%w: unknown parameter %q on line %d", ErrSyntax, stmt.Key, stmt.Line)
		}
		if seen[stmt.Key] {
			return nil, fmt.Errorf("%w: another specifier for %q on line %d before the previous set was complete",
				ErrSyntax, stmt.Key, stmt.Line)
		}
		seen[stmt.Key] = true
		current = append(current, stmt)
		if len(current) == len(requiredKeys) {
			sets = append(sets, current)
			current = nil
			seen = make(map[string]bool)
		}
	}
	if len(current) != 0 {
		return nil, fmt.Errorf("%w: end of input before the last parameter set was complete", ErrSyntax)
	}
	return sets, nil
}
