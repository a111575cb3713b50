// Package stats provides summaries of record sets and of candidate score
// distributions.
package stats

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/aria-lang/protmatch-go/internal/sequence"
)

// ErrEmpty is returned when a summary is requested for no values.
var ErrEmpty = errors.New("cannot summarise an empty set")

// RecordSetStats represents aggregated statistics for a set of records.
type RecordSetStats struct {
	Count         int
	TotalResidues int
	MinLength     int
	MaxLength     int
	MeanLength    float64
	MedianLength  int
	N50           int
	// Composition counts each residue over all records.
	Composition map[byte]int
}

// FromRecords calculates statistics for a collection of records.
func FromRecords(records []*sequence.Record) (*RecordSetStats, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	lengths := make([]int, len(records))
	composition := make(map[byte]int)
	total := 0
	for i, rec := range records {
		lengths[i] = rec.Len()
		total += rec.Len()
		for j := 0; j < len(rec.Sequence); j++ {
			composition[rec.Sequence[j]]++
		}
	}

	sorted := make([]int, len(lengths))
	copy(sorted, lengths)
	sort.Ints(sorted)

	return &RecordSetStats{
		Count:         len(records),
		TotalResidues: total,
		MinLength:     sorted[0],
		MaxLength:     sorted[len(sorted)-1],
		MeanLength:    float64(total) / float64(len(records)),
		MedianLength:  median(sorted),
		N50:           n50(sorted, total),
		Composition:   composition,
	}, nil
}

// median expects sorted values.
func median(sorted []int) int {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// n50 is the length at which at least half the residues lie in records at
// least that long. It expects ascending lengths.
func n50(sorted []int, total int) int {
	half := (total + 1) / 2
	running := 0
	for i := len(sorted) - 1; i >= 0; i-- {
		running += sorted[i]
		if running >= half {
			return sorted[i]
		}
	}
	return sorted[len(sorted)-1]
}

// TopResidues returns the n most frequent residues, ties broken by symbol.
func (s *RecordSetStats) TopResidues(n int) []byte {
	residues := make([]byte, 0, len(s.Composition))
	for r := range s.Composition {
		residues = append(residues, r)
	}
	sort.Slice(residues, func(i, j int) bool {
		ci, cj := s.Composition[residues[i]], s.Composition[residues[j]]
		if ci != cj {
			return ci > cj
		}
		return residues[i] < residues[j]
	})
	if n < len(residues) {
		residues = residues[:n]
	}
	return residues
}

func (s *RecordSetStats) String() string {
	return fmt.Sprintf(`RecordSetStats {
  count: %d
  total residues: %d
  length range: %d - %d
  mean length: %.1f
  median length: %d
  N50: %d
  top residues: %s
}`, s.Count, s.TotalResidues, s.MinLength, s.MaxLength,
		s.MeanLength, s.MedianLength, s.N50, string(s.TopResidues(5)))
}

// ScoreSummary describes the scores of a query against a candidate set.
type ScoreSummary struct {
	Count    int
	Min      int
	Max      int
	Mean     float64
	Median   int
	Positive int
}

// SummarizeScores summarises candidate scores. The input is not modified.
func SummarizeScores(candidateScores []int) (*ScoreSummary, error) {
	if len(candidateScores) == 0 {
		return nil, ErrEmpty
	}

	scores := slices.Clone(candidateScores)
	sum, positive := 0, 0
	for _, score := range scores {
		sum += score
		if score > 0 {
			positive++
		}
	}
	sort.Ints(scores)

	return &ScoreSummary{
		Count:    len(scores),
		Min:      scores[0],
		Max:      scores[len(scores)-1],
		Mean:     float64(sum) / float64(len(scores)),
		Median:   median(scores),
		Positive: positive,
	}, nil
}

func (s *ScoreSummary) String() string {
	return fmt.Sprintf("scores: n=%d min=%d max=%d mean=%.2f median=%d positive=%d",
		s.Count, s.Min, s.Max, s.Mean, s.Median, s.Positive)
}

// LengthHistogram buckets record lengths into equal-width bins.
type LengthHistogram struct {
	Bins      []int
	MinLength int
	MaxLength int
	BinWidth  int
}

// NewLengthHistogram creates a length histogram from records.
func NewLengthHistogram(records []*sequence.Record, numBins int) (*LengthHistogram, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	if numBins <= 0 {
		return nil, fmt.Errorf("numBins must be positive")
	}

	minLen, maxLen := records[0].Len(), records[0].Len()
	for _, rec := range records {
		minLen = min(minLen, rec.Len())
		maxLen = max(maxLen, rec.Len())
	}

	binWidth := max((maxLen-minLen)/numBins, 1)
	bins := make([]int, numBins)
	for _, rec := range records {
		bin := min((rec.Len()-minLen)/binWidth, numBins-1)
		bins[bin]++
	}

	return &LengthHistogram{
		Bins:      bins,
		MinLength: minLen,
		MaxLength: maxLen,
		BinWidth:  binWidth,
	}, nil
}

func (h *LengthHistogram) String() string {
	var b strings.Builder
	b.WriteString("Length Histogram:\n")
	for i, count := range h.Bins {
		start := h.MinLength + i*h.BinWidth
		fmt.Fprintf(&b, "%5d-%5d: %s (%d)\n", start, start+h.BinWidth, strings.Repeat("#", count), count)
	}
	return b.String()
}
