package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dnaTable = `$ A C G T *
A 2 -1 -1 -1 -1
C -1 2 -1 -1 -1
G -1 -1 2 -1 -1
T -1 -1 -1 2 -1
* -1 -1 -1 -1 -1
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, logLevel, matrixPath = "", "error", ""
	plainOutput, workers, showProgress, listScores, histBins = false, 0, false, false, 10
	emitPath = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "protmatch v")
}

func TestAlignPlain(t *testing.T) {
	table := writeTemp(t, "dna.txt", dnaTable)

	out, err := run(t, "align", "--plain", "-m", table, "acacacta", "AGCACACA")
	require.NoError(t, err)
	assert.Contains(t, out, "A*CACACTA")
	assert.Contains(t, out, "AGCACAC*A")
	assert.Contains(t, out, "Score: 12")
}

func TestAlignRejectsUnknownResidue(t *testing.T) {
	table := writeTemp(t, "dna.txt", dnaTable)

	_, err := run(t, "align", "-m", table, "ACGT", "ACXT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequence2")
}

func TestAlignBLOSUM62(t *testing.T) {
	out, err := run(t, "align", "HEAGAWGHEE", "PAWHEAE")
	require.NoError(t, err)
	assert.Contains(t, out, "Local alignment")
}

func TestBest(t *testing.T) {
	table := writeTemp(t, "dna.txt", dnaTable)
	records := writeTemp(t, "records.txt", ">c0 shuffled\nGCTAGCTA\n>c1 exact\nACACACTA\n>c2 poly-a\nAAAAAAAA\n")

	for _, w := range []string{"1", "3"} {
		out, err := run(t, "best", "--plain", "--scores", "-w", w, "-m", table, "ACACACTA", records)
		require.NoError(t, err)
		assert.Contains(t, out, "c1 exact")
		assert.Contains(t, out, "Score: 16")
		assert.Contains(t, out, "#2")
		assert.Contains(t, out, "scores: n=3 min=4 max=16")
	}
}

func TestBestEmit(t *testing.T) {
	table := writeTemp(t, "dna.txt", dnaTable)
	records := writeTemp(t, "records.txt", ">c0 shuffled\nGCTAGCTA\n>c1 padded\nGGACACACTAGG\n")
	emit := filepath.Join(t.TempDir(), "region.txt")

	_, err := run(t, "best", "--plain", "--emit", emit, "-m", table, "ACACACTA", records)
	require.NoError(t, err)

	data, err := os.ReadFile(emit)
	require.NoError(t, err)
	assert.Equal(t, ">c1 padded region=3-10\nACACACTA\n", string(data))
}

func TestBestEmitNothingAligned(t *testing.T) {
	table := writeTemp(t, "dna.txt", dnaTable)
	records := writeTemp(t, "records.txt", ">c0\nTTTT\n")
	emit := filepath.Join(t.TempDir(), "region.txt")

	_, err := run(t, "best", "--plain", "--emit", emit, "-m", table, "AAAA", records)
	require.NoError(t, err)
	assert.NoFileExists(t, emit)
}

func TestBestMissingFile(t *testing.T) {
	_, err := run(t, "best", "ACGT", filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}

func TestMatrix(t *testing.T) {
	table := writeTemp(t, "dna.txt", dnaTable)

	out, err := run(t, "matrix", "-m", table)
	require.NoError(t, err)
	assert.Contains(t, out, "$  A  C  G  T  *")
	assert.Contains(t, out, "A  2 -1 -1 -1 -1")
}

func TestStats(t *testing.T) {
	records := writeTemp(t, "records.txt", ">a\nmkv\n>b\nMKVLAA\n>c\nWW\n>d\nMKVLAAGGHH\n")

	out, err := run(t, "stats", "--bins", "4", records)
	require.NoError(t, err)
	assert.Contains(t, out, "count: 4")
	assert.Contains(t, out, "N50: 6")
	assert.Contains(t, out, "top residues: AKMVG")
	assert.Contains(t, out, "Length Histogram:")
}
