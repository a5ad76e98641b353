package params

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencesOfLength(t *testing.T) {
	// Three orders, no two adjacent equal: 3 * 2^(n-1) sequences.
	assert.Len(t, sequencesOfLength(1), 3)
	assert.Len(t, sequencesOfLength(2), 6)
	assert.Len(t, sequencesOfLength(3), 12)

	for _, seq := range sequencesOfLength(3) {
		for i := 1; i < len(seq); i++ {
			assert.NotEqual(t, seq[i-1], seq[i], "adjacent equal orders in %v", seq)
		}
	}
}

func TestExpandSpecifier_Literal(t *testing.T) {
	vals, err := expandSpecifier("sequence", " [0, 1] ")
	require.NoError(t, err)
	assert.Equal(t, []string{"[0,1]"}, vals)
}

func TestExpandSpecifier_Length(t *testing.T) {
	vals, err := expandSpecifier("sequence", "!length 1 2")
	require.NoError(t, err)
	assert.Len(t, vals, 9)
	assert.Contains(t, vals, "[0]")
	assert.Contains(t, vals, "[0,1]")
	assert.NotContains(t, vals, "[1,1]")
}

func TestExpandSpecifier_Errors(t *testing.T) {
	cases := []struct{ key, spec string }{
		{"sequence", "!grow 3"},   // unknown command
		{"state", "!length 1"},    // command on the wrong key
		{"sequence", "!length"},   // missing argument
		{"sequence", "!length 0"}, // start below 1
		{"sequence", "!length 2 1"},
		{"sequence", "!length 1 2 3"},
	}
	for _, c := range cases {
		_, err := expandSpecifier(c.key, c.spec)
		assert.ErrorIs(t, err, ErrSyntax, "%s=%s", c.key, c.spec)
	}
}

func TestExpandSet_CartesianProduct(t *testing.T) {
	stmts, err := Statements(strings.NewReader("state={g0:1};sequence=!length 1;laser=(0,0.1,1);time=1"))
	require.NoError(t, err)
	sets, err := GroupSets(stmts)
	require.NoError(t, err)

	lines, err := ExpandSet(sets[0])
	require.NoError(t, err)
	require.Len(t, lines, 3)
	// First statement is the outermost loop, so the state prefix is shared
	// and the sequence varies.
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "state={g0:1};sequence="), line)
		assert.True(t, strings.HasSuffix(line, ";laser=(0,0.1,1);time=1"), line)
	}
}

func TestExpandInput(t *testing.T) {
	in := `
# two sets, the first one command-expanded
state={g0:1}; sequence=!length 1; laser=(0,0.1,1); time=1
state={e0:1}; sequence=[0,1]; laser=(0,0.1,1); time=2
`
	lines, err := ExpandInput(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, "state={e0:1};sequence=[0,1];laser=(0,0.1,1);time=2", lines[3])
}
