package alignment

import (
	"fmt"
	"strings"
)

// AlignDirection represents the traceback direction in the alignment matrix.
type AlignDirection uint8

const (
	// Stop marks a cell with no recorded move (row 0 and column 0)
	Stop AlignDirection = iota
	// Diagonal represents a match or substitution
	Diagonal
	// Up represents a residue of sequence 1 against a gap
	Up
	// Left represents a residue of sequence 2 against a gap
	Left
)

func (d AlignDirection) String() string {
	switch d {
	case Stop:
		return "stop"
	case Diagonal:
		return "diagonal"
	case Up:
		return "up"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Alignment represents the result of a local alignment between two
// sequences.
//
// Start and End fields are half-open residue ranges of the aligned region
// in each input sequence.
type Alignment struct {
	AlignedSeq1 string
	AlignedSeq2 string
	Score       int
	Start1      int
	End1        int
	Start2      int
	End2        int
	Identity    float64
}

// NewAlignmentWithPositions creates an alignment with position information.
func NewAlignmentWithPositions(aligned1, aligned2 string, score int,
	start1, end1, start2, end2 int) (*Alignment, error) {
	if len(aligned1) != len(aligned2) {
		return nil, fmt.Errorf("aligned sequences must have equal length")
	}

	a := &Alignment{
		AlignedSeq1: aligned1,
		AlignedSeq2: aligned2,
		Score:       score,
		Start1:      start1,
		End1:        end1,
		Start2:      start2,
		End2:        end2,
	}
	a.Identity = a.calculateIdentity()
	return a, nil
}

// calculateIdentity calculates the sequence identity.
func (a *Alignment) calculateIdentity() float64 {
	if len(a.AlignedSeq1) == 0 {
		return 0.0
	}
	return float64(a.MatchCount()) / float64(len(a.AlignedSeq1))
}

// Length returns the length of the alignment.
func (a *Alignment) Length() int {
	return len(a.AlignedSeq1)
}

// IsEmpty reports whether no residues were aligned.
func (a *Alignment) IsEmpty() bool {
	return len(a.AlignedSeq1) == 0
}

// MatchCount returns the number of identical residue pairs.
func (a *Alignment) MatchCount() int {
	count := 0
	for i := 0; i < len(a.AlignedSeq1); i++ {
		if a.AlignedSeq1[i] == a.AlignedSeq2[i] && a.AlignedSeq1[i] != Gap {
			count++
		}
	}
	return count
}

// MismatchCount returns the number of substitutions.
func (a *Alignment) MismatchCount() int {
	count := 0
	for i := 0; i < len(a.AlignedSeq1); i++ {
		if a.AlignedSeq1[i] != a.AlignedSeq2[i] &&
			a.AlignedSeq1[i] != Gap && a.AlignedSeq2[i] != Gap {
			count++
		}
	}
	return count
}

// GapsSeq1 returns the number of gaps in sequence 1.
func (a *Alignment) GapsSeq1() int {
	return strings.Count(a.AlignedSeq1, string(Gap))
}

// GapsSeq2 returns the number of gaps in sequence 2.
func (a *Alignment) GapsSeq2() int {
	return strings.Count(a.AlignedSeq2, string(Gap))
}

// TotalGaps returns the total number of gaps.
func (a *Alignment) TotalGaps() int {
	return a.GapsSeq1() + a.GapsSeq2()
}

// GapOpenings counts the number of gap runs across both sequences.
func (a *Alignment) GapOpenings() int {
	openings := 0
	inGap1, inGap2 := false, false

	for i := 0; i < len(a.AlignedSeq1); i++ {
		if a.AlignedSeq1[i] == Gap && !inGap1 {
			openings++
			inGap1 = true
		} else if a.AlignedSeq1[i] != Gap {
			inGap1 = false
		}

		if a.AlignedSeq2[i] == Gap && !inGap2 {
			openings++
			inGap2 = true
		} else if a.AlignedSeq2[i] != Gap {
			inGap2 = false
		}
	}

	return openings
}

// ToCIGAR generates a CIGAR string with sequence 1 as the reference.
func (a *Alignment) ToCIGAR() string {
	if len(a.AlignedSeq1) == 0 {
		return ""
	}

	var cigar strings.Builder
	currentOp := byte(0)
	count := 0

	for i := 0; i < len(a.AlignedSeq1); i++ {
		var op byte
		if a.AlignedSeq1[i] == Gap {
			op = 'I'
		} else if a.AlignedSeq2[i] == Gap {
			op = 'D'
		} else if a.AlignedSeq1[i] == a.AlignedSeq2[i] {
			op = 'M'
		} else {
			op = 'X'
		}

		if op == currentOp {
			count++
		} else {
			if count > 0 {
				fmt.Fprintf(&cigar, "%d%c", count, currentOp)
			}
			currentOp = op
			count = 1
		}
	}

	if count > 0 {
		fmt.Fprintf(&cigar, "%d%c", count, currentOp)
	}

	return cigar.String()
}

// MatchLine returns the middle line of a printed alignment: '|' for
// identical residues, '.' for substitutions and ' ' against a gap.
func (a *Alignment) MatchLine() string {
	var matchLine strings.Builder
	for i := 0; i < len(a.AlignedSeq1); i++ {
		if a.AlignedSeq1[i] == a.AlignedSeq2[i] && a.AlignedSeq1[i] != Gap {
			matchLine.WriteByte('|')
		} else if a.AlignedSeq1[i] == Gap || a.AlignedSeq2[i] == Gap {
			matchLine.WriteByte(' ')
		} else {
			matchLine.WriteByte('.')
		}
	}
	return matchLine.String()
}

// Format returns a formatted string representation of the alignment.
func (a *Alignment) Format() string {
	return fmt.Sprintf("Seq1: %s\n      %s\nSeq2: %s\nScore: %d\nIdentity: %.1f%%\nCIGAR: %s",
		a.AlignedSeq1, a.MatchLine(), a.AlignedSeq2,
		a.Score, a.Identity*100, a.ToCIGAR())
}

func (a *Alignment) String() string {
	return fmt.Sprintf("Alignment { score: %d, identity: %.1f%%, length: %d }",
		a.Score, a.Identity*100, a.Length())
}

// Aligner runs local alignments against one penalty table, reusing its
// score and traceback buffers between calls.
//
// An Aligner is not safe for concurrent use; give each goroutine its own.
type Aligner struct {
	table *PenaltyTable
	score []int
	moves []AlignDirection
	cols  int
}

// NewAligner creates an aligner for table. A nil table selects BLOSUM62.
func NewAligner(table *PenaltyTable) *Aligner {
	if table == nil {
		table = BLOSUM62()
	}
	return &Aligner{table: table}
}

// Table returns the penalty table the aligner scores with.
func (al *Aligner) Table() *PenaltyTable {
	return al.table
}

// LocalAlign aligns seq1 against seq2 with a fresh Aligner.
func LocalAlign(seq1, seq2 string, table *PenaltyTable) (*Alignment, error) {
	return NewAligner(table).Align(seq1, seq2)
}

// chooseMove picks the traceback move for a cell. Left is taken only when it
// beats up strictly, and either gap move must beat the diagonal strictly, so
// ties fall to up over left and to the diagonal over both.
func chooseMove(up, left, diag int) AlignDirection {
	if left > up {
		if left > diag {
			return Left
		}
		return Diagonal
	}
	if up > diag {
		return Up
	}
	return Diagonal
}

// reset sizes the buffers for an (n+1) x (m+1) matrix and clears row 0 and
// column 0. Inner cells are always written before they are read.
func (al *Aligner) reset(n, m int) {
	size := (n + 1) * (m + 1)
	if cap(al.score) < size {
		al.score = make([]int, size)
		al.moves = make([]AlignDirection, size)
	}
	al.score = al.score[:size]
	al.moves = al.moves[:size]
	al.cols = m + 1

	for j := 0; j <= m; j++ {
		al.score[j] = 0
		al.moves[j] = Stop
	}
	for i := 1; i <= n; i++ {
		al.score[i*al.cols] = 0
		al.moves[i*al.cols] = Stop
	}
}

// fill computes every inner cell.
//
// Unlike textbook Smith-Waterman the cell value is max(up, left, diag) with
// no zero floor, so cells may go negative; only row 0 and column 0 are
// pinned to zero.
func (al *Aligner) fill(seq1, seq2 string) error {
	n, m := len(seq1), len(seq2)
	cols := al.cols

	for i := 1; i <= n; i++ {
		r1 := seq1[i-1]
		insert, err := al.table.Get(r1, Gap)
		if err != nil {
			return err
		}

		row, prev := i*cols, (i-1)*cols
		for j := 1; j <= m; j++ {
			r2 := seq2[j-1]
			del, err := al.table.Get(Gap, r2)
			if err != nil {
				return err
			}
			sub, err := al.table.Get(r1, r2)
			if err != nil {
				return err
			}

			up := al.score[prev+j] + insert
			left := al.score[row+j-1] + del
			diag := al.score[prev+j-1] + sub

			al.score[row+j] = max(up, left, diag)
			al.moves[row+j] = chooseMove(up, left, diag)
		}
	}
	return nil
}

// bestInLastRow scans row n only, so every alignment ends at the last
// residue of sequence 1. The first strictly greater score wins; when no cell
// beats zero the result is column 0 with score 0.
func (al *Aligner) bestInLastRow(n, m int) (int, int) {
	best, bestJ := 0, 0
	row := n * al.cols
	for j := 1; j <= m; j++ {
		if al.score[row+j] > best {
			best = al.score[row+j]
			bestJ = j
		}
	}
	return best, bestJ
}

// Align computes the local alignment of seq1 against seq2.
//
// Empty inputs give a zero score and empty alignment. A residue missing from
// the table fails with an *UnknownSymbolError.
func (al *Aligner) Align(seq1, seq2 string) (*Alignment, error) {
	n, m := len(seq1), len(seq2)
	if n == 0 || m == 0 {
		return NewAlignmentWithPositions("", "", 0, n, n, 0, 0)
	}

	al.reset(n, m)
	if err := al.fill(seq1, seq2); err != nil {
		return nil, err
	}

	best, bestJ := al.bestInLastRow(n, m)
	aligned1, aligned2, start1, start2 := al.traceback(seq1, seq2, n, bestJ)

	return NewAlignmentWithPositions(aligned1, aligned2, best,
		start1, n, start2, bestJ)
}

// traceback follows recorded moves from (startI, startJ) until a Stop cell.
func (al *Aligner) traceback(seq1, seq2 string, startI, startJ int) (string, string, int, int) {
	buf1 := make([]byte, 0, startI+startJ)
	buf2 := make([]byte, 0, startI+startJ)
	i, j := startI, startJ

	for {
		direction := al.moves[i*al.cols+j]
		if direction == Stop {
			break
		}

		switch direction {
		case Diagonal:
			buf1 = append(buf1, seq1[i-1])
			buf2 = append(buf2, seq2[j-1])
			i--
			j--
		case Up:
			buf1 = append(buf1, seq1[i-1])
			buf2 = append(buf2, Gap)
			i--
		case Left:
			buf1 = append(buf1, Gap)
			buf2 = append(buf2, seq2[j-1])
			j--
		}
	}

	reverse(buf1)
	reverse(buf2)
	return string(buf1), string(buf2), i, j
}

// reverse reverses b in place.
func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// AlignmentScoreOnly returns the score LocalAlign would report, keeping two
// rows instead of the full matrix.
func AlignmentScoreOnly(seq1, seq2 string, table *PenaltyTable) (int, error) {
	if table == nil {
		table = BLOSUM62()
	}

	n, m := len(seq1), len(seq2)
	if n == 0 || m == 0 {
		return 0, nil
	}

	prevRow := make([]int, m+1)
	currRow := make([]int, m+1)

	for i := 1; i <= n; i++ {
		insert, err := table.Get(seq1[i-1], Gap)
		if err != nil {
			return 0, err
		}
		currRow[0] = 0

		for j := 1; j <= m; j++ {
			del, err := table.Get(Gap, seq2[j-1])
			if err != nil {
				return 0, err
			}
			sub, err := table.Get(seq1[i-1], seq2[j-1])
			if err != nil {
				return 0, err
			}
			currRow[j] = max(prevRow[j]+insert, currRow[j-1]+del, prevRow[j-1]+sub)
		}

		prevRow, currRow = currRow, prevRow
	}

	best := 0
	for j := 1; j <= m; j++ {
		if prevRow[j] > best {
			best = prevRow[j]
		}
	}
	return best, nil
}
