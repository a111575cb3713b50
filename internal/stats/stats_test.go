package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/protmatch-go/internal/sequence"
)

func records(seqs ...string) []*sequence.Record {
	out := make([]*sequence.Record, len(seqs))
	for i, s := range seqs {
		out[i] = &sequence.Record{Description: "r", Sequence: s}
	}
	return out
}

func TestFromRecords(t *testing.T) {
	stats, err := FromRecords(records("MKV", "MKVLAA", "WW", "MKVLAAGGHH"))
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 21, stats.TotalResidues)
	assert.Equal(t, 2, stats.MinLength)
	assert.Equal(t, 10, stats.MaxLength)
	assert.InDelta(t, 21.0/4.0, stats.MeanLength, 0.0001)
	assert.Equal(t, 4, stats.MedianLength) // sorted: 2, 3, 6, 10
	assert.Equal(t, 6, stats.N50)          // 10 covers 10 of 21 residues, 10+6 covers 16
	assert.Equal(t, 4, stats.Composition['A'])
	assert.Equal(t, []byte("AKM"), stats.TopResidues(3))
	assert.Contains(t, stats.String(), "N50: 6")
}

func TestFromRecordsEmpty(t *testing.T) {
	_, err := FromRecords(nil)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestN50(t *testing.T) {
	tests := []struct {
		name    string
		lengths []int
		want    int
	}{
		{"single", []int{7}, 7},
		{"equal", []int{5, 5, 5, 5}, 5},
		{"skewed", []int{1, 1, 1, 20}, 20},
		{"spread", []int{2, 3, 4, 5, 6}, 5}, // total 20, 6+5 >= 10
		{"odd total", []int{2, 3, 4}, 3},    // total 9, 4 < 4.5 so 4+3 is needed
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := 0
			for _, l := range tt.lengths {
				total += l
			}
			assert.Equal(t, tt.want, n50(tt.lengths, total))
		})
	}
}

func TestTopResiduesMoreThanPresent(t *testing.T) {
	stats, err := FromRecords(records("AC"))
	require.NoError(t, err)
	assert.Equal(t, []byte("AC"), stats.TopResidues(10))
}

func TestSummarizeScores(t *testing.T) {
	scores := []int{7, 16, 4, 0}

	s, err := SummarizeScores(scores)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 16, 4, 0}, scores, "input order is kept")
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 0, s.Min)
	assert.Equal(t, 16, s.Max)
	assert.InDelta(t, 6.75, s.Mean, 0.0001)
	assert.Equal(t, 5, s.Median)
	assert.Equal(t, 3, s.Positive)
	assert.Equal(t, "scores: n=4 min=0 max=16 mean=6.75 median=5 positive=3", s.String())

	_, err = SummarizeScores(nil)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestLengthHistogram(t *testing.T) {
	h, err := NewLengthHistogram(records("MKV", "MKVLAA", "WW", "MKVLAAGGHH"), 4)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 0, 1, 1}, h.Bins)
	assert.Equal(t, 2, h.BinWidth)
	assert.Contains(t, h.String(), "    2-    4: ## (2)")

	_, err = NewLengthHistogram(records("A"), 0)
	require.Error(t, err)
	_, err = NewLengthHistogram(nil, 3)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestLengthHistogramUniform(t *testing.T) {
	h, err := NewLengthHistogram(records("AAA", "CCC"), 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 0}, h.Bins)
	assert.Equal(t, 1, h.BinWidth)
}
