// Package alignment provides local alignment of protein sequences.
//
// This package implements a Smith-Waterman style local alignment driven by a
// substitution table in which insertions and deletions are scored as
// substitutions against the gap symbol, and a selector that picks the best
// scoring candidate for a query.
package alignment

import (
	"errors"
	"fmt"
	"sort"
)

// Gap is the reserved symbol for "no residue aligned here". It matches the
// '*' row and column of NCBI BLOSUM files.
const Gap byte = '*'

// ErrUnknownSymbol is returned when a symbol pair was never registered in a
// PenaltyTable.
var ErrUnknownSymbol = errors.New("unknown symbol")

// UnknownSymbolError names the pair that missed.
type UnknownSymbolError struct {
	A, B byte
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("%s: no penalty for pair ('%c', '%c')", ErrUnknownSymbol, e.A, e.B)
}

func (e *UnknownSymbolError) Unwrap() error {
	return ErrUnknownSymbol
}

const symbolSpace = 256

// PenaltyTable maps an ordered pair of symbols to an integer score.
//
// Pairs are directed: Get(a, Gap) and Get(Gap, b) are independent of each
// other and of Get(a, b). A table is built once and then only read; reads are
// safe from any number of goroutines.
type PenaltyTable struct {
	scores   []int
	defined  []uint64
	seen     [symbolSpace]bool
	alphabet []byte
	pairs    int
}

// NewPenaltyTable creates an empty table.
func NewPenaltyTable() *PenaltyTable {
	return &PenaltyTable{
		scores:  make([]int, symbolSpace*symbolSpace),
		defined: make([]uint64, symbolSpace*symbolSpace/64),
	}
}

func pairIndex(a, b byte) int {
	return int(a)<<8 | int(b)
}

// Set registers or overwrites the score for transforming a into b.
func (t *PenaltyTable) Set(a, b byte, score int) {
	idx := pairIndex(a, b)
	word, bit := idx/64, uint64(1)<<(idx%64)
	if t.defined[word]&bit == 0 {
		t.defined[word] |= bit
		t.pairs++
	}
	t.scores[idx] = score
	t.addSymbol(a)
	t.addSymbol(b)
}

func (t *PenaltyTable) addSymbol(sym byte) {
	if !t.seen[sym] {
		t.seen[sym] = true
		t.alphabet = append(t.alphabet, sym)
	}
}

// Get returns the score for transforming a into b, or an *UnknownSymbolError
// when the pair was never registered.
func (t *PenaltyTable) Get(a, b byte) (int, error) {
	idx := pairIndex(a, b)
	if t.defined[idx/64]&(uint64(1)<<(idx%64)) == 0 {
		return 0, &UnknownSymbolError{A: a, B: b}
	}
	return t.scores[idx], nil
}

// Has reports whether sym appears in any registered pair.
func (t *PenaltyTable) Has(sym byte) bool {
	return t.seen[sym]
}

// Alphabet returns the symbols in the order they were first registered.
func (t *PenaltyTable) Alphabet() []byte {
	out := make([]byte, len(t.alphabet))
	copy(out, t.alphabet)
	return out
}

// Len returns the number of registered pairs.
func (t *PenaltyTable) Len() int {
	return t.pairs
}

// Residues returns the alphabet without the gap symbol, sorted.
func (t *PenaltyTable) Residues() []byte {
	out := make([]byte, 0, len(t.alphabet))
	for _, sym := range t.alphabet {
		if sym != Gap {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String returns a short description of the table.
func (t *PenaltyTable) String() string {
	return fmt.Sprintf("PenaltyTable { symbols: %d, pairs: %d }", len(t.alphabet), t.pairs)
}

// UniformTable builds a table over residues scoring match for identical
// residues, mismatch for any other residue pair, and gap for a residue
// against Gap in either direction.
func UniformTable(residues string, match, mismatch, gap int) *PenaltyTable {
	t := NewPenaltyTable()
	for i := 0; i < len(residues); i++ {
		a := residues[i]
		for j := 0; j < len(residues); j++ {
			b := residues[j]
			if a == b {
				t.Set(a, b, match)
			} else {
				t.Set(a, b, mismatch)
			}
		}
		t.Set(a, Gap, gap)
		t.Set(Gap, a, gap)
	}
	t.Set(Gap, Gap, gap)
	return t
}
