package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/protmatch-go/internal/alignment"
	"github.com/aria-lang/protmatch-go/internal/sequence"
)

func dnaTable() *alignment.PenaltyTable {
	return alignment.UniformTable("ACGT", 2, -1, -1)
}

func TestAlignment(t *testing.T) {
	a, err := alignment.LocalAlign("ACACACTA", "AGCACACA", dnaTable())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Alignment(&buf, a))

	out := buf.String()
	assert.Contains(t, out, "Local alignment")
	assert.Contains(t, out, "A*CACACTA")
	assert.Contains(t, out, "AGCACAC*A")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, a.ToCIGAR())
	assert.Contains(t, out, "2 in 2 runs")
}

func TestAlignmentEmpty(t *testing.T) {
	a, err := alignment.LocalAlign("AAAA", "TTTT", dnaTable())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Alignment(&buf, a))
	assert.Contains(t, buf.String(), "no local alignment")
}

func TestMatch(t *testing.T) {
	candidates := []*sequence.Record{
		{Description: "first candidate", Sequence: "GCTAGCTA"},
		{Description: "exact copy", Sequence: "ACACACTA"},
	}
	m, err := alignment.SelectBest("ACACACTA", candidates, dnaTable())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Match(&buf, m))

	out := buf.String()
	assert.Contains(t, out, "Best match")
	assert.Contains(t, out, "exact copy")
	assert.Contains(t, out, "16")
}

func TestScores(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Scores(&buf, []int{8, 2}, []string{"one", "two"}))

	out := buf.String()
	assert.Contains(t, out, "#0")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "two")
	assert.Contains(t, out, "8")
}
