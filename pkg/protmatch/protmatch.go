// Package protmatch provides a high-level API for local alignment of protein
// sequences.
//
// Example usage:
//
//	table, err := protmatch.LoadPenaltyTable("BLOSUM62.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	records, err := protmatch.ReadRecords("candidates.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	match, err := protmatch.BestMatch("HEAGAWGHEE", records, table)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(match.Record.Description, match.Alignment.Score)
package protmatch

import (
	"context"
	"fmt"
	"io"

	"github.com/aria-lang/protmatch-go/internal/alignment"
	"github.com/aria-lang/protmatch-go/internal/sequence"
)

// Re-export types for convenience
type (
	Record       = sequence.Record
	Alignment    = alignment.Alignment
	PenaltyTable = alignment.PenaltyTable
	Match        = alignment.Match
)

// Gap is the symbol aligned against a residue where the other sequence has
// none.
const Gap = alignment.Gap

// ErrEmptyCandidateSet is returned by BestMatch for an empty candidate list.
var ErrEmptyCandidateSet = alignment.ErrEmptyCandidateSet

// ErrUnknownSymbol is matched by errors.Is for residues missing from a table.
var ErrUnknownSymbol = alignment.ErrUnknownSymbol

// Align performs local alignment between two residue strings. A nil table
// selects BLOSUM62.
func Align(seq1, seq2 string, table *PenaltyTable) (*Alignment, error) {
	return alignment.LocalAlign(seq1, seq2, table)
}

// AlignScore returns only the local alignment score.
func AlignScore(seq1, seq2 string, table *PenaltyTable) (int, error) {
	return alignment.AlignmentScoreOnly(seq1, seq2, table)
}

// BestMatch returns the candidate that aligns best to query.
func BestMatch(query string, candidates []*Record, table *PenaltyTable) (*Match, error) {
	return alignment.SelectBest(query, candidates, table)
}

// BestMatchParallel is BestMatch spread over workers goroutines. It returns
// the same result as BestMatch.
func BestMatchParallel(ctx context.Context, query string, candidates []*Record,
	table *PenaltyTable, workers int) (*Match, error) {
	s := &alignment.Selector{Table: table, Workers: workers}
	return s.Select(ctx, query, candidates)
}

// NewRecord creates a record from a description and residues.
func NewRecord(description, residues string) (*Record, error) {
	return sequence.New(description, residues)
}

// ReadRecords reads a record file from disk.
func ReadRecords(filename string) ([]*Record, error) {
	return sequence.ReadFile(filename)
}

// ParseRecords parses records from r.
func ParseRecords(r io.Reader) ([]*Record, error) {
	return sequence.Parse(r)
}

// LoadPenaltyTable reads a penalty table file from disk.
func LoadPenaltyTable(filename string) (*PenaltyTable, error) {
	return alignment.LoadPenaltyTable(filename)
}

// ParsePenaltyTable parses a penalty table from r.
func ParsePenaltyTable(r io.Reader) (*PenaltyTable, error) {
	return alignment.ParsePenaltyTable(r)
}

// DefaultPenaltyTable returns the built-in BLOSUM62 table.
func DefaultPenaltyTable() *PenaltyTable {
	return alignment.BLOSUM62()
}

// Version returns the protmatch version.
func Version() string {
	return "1.0.0"
}

// Info returns information about protmatch.
func Info() string {
	return fmt.Sprintf(`protmatch v%s - Protein Local Alignment

Features:
  - Smith-Waterman style local alignment with gap-as-symbol scoring
  - Penalty tables in BLOSUM text layout, BLOSUM62 built in
  - Best-match search over a candidate set, sequential or parallel
  - Record file parsing
`, Version())
}
