package alignment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/biogo/biogo/align/matrix"
	"github.com/biogo/biogo/alphabet"
)

// ColumnHeaderPrefix starts the line that lists a table's column symbols.
const ColumnHeaderPrefix = '$'

// ParseError reports a malformed line in a penalty table.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("penalty table line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	errNoColumns   = errors.New("row before column header")
	errTooManyCols = errors.New("more scores than columns")
)

// ParsePenaltyTable reads a penalty table in row/column text form.
//
// A line starting with '$' lists the column symbols as whitespace-separated
// tokens (the first byte of each token is used). Every other non-blank line
// is a row: its first byte is the row symbol and the remaining
// whitespace-separated integers are the scores against the columns, in
// order.
func ParsePenaltyTable(r io.Reader) (*PenaltyTable, error) {
	table := NewPenaltyTable()
	scanner := bufio.NewScanner(r)

	var columns []byte
	lineNum := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if len(line) == 0 {
			continue
		}

		if line[0] == ColumnHeaderPrefix {
			for _, tok := range strings.Fields(line[1:]) {
				columns = append(columns, tok[0])
			}
			continue
		}

		row := line[0]
		fields := strings.Fields(line[1:])
		if len(fields) == 0 {
			continue
		}
		if len(columns) == 0 {
			return nil, &ParseError{Line: lineNum, Err: errNoColumns}
		}
		if len(fields) > len(columns) {
			return nil, &ParseError{Line: lineNum, Err: errTooManyCols}
		}
		for k, field := range fields {
			score, err := strconv.Atoi(field)
			if err != nil {
				return nil, &ParseError{Line: lineNum, Err: err}
			}
			table.Set(row, columns[k], score)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading penalty table: %w", err)
	}

	return table, nil
}

// LoadPenaltyTable reads a penalty table from a file.
func LoadPenaltyTable(path string) (*PenaltyTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	return ParsePenaltyTable(file)
}

// WriteTo writes the table in the form read by ParsePenaltyTable. Symbols
// are written in registration order; pairs that were never registered
// cannot be represented and are skipped by ending the row early, so only
// complete leading runs survive a round trip.
func (t *PenaltyTable) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64

	write := func(s string) error {
		n, err := bw.WriteString(s)
		written += int64(n)
		return err
	}

	var header strings.Builder
	header.WriteByte(ColumnHeaderPrefix)
	for _, col := range t.alphabet {
		header.WriteString("  ")
		header.WriteByte(col)
	}
	header.WriteByte('\n')
	if err := write(header.String()); err != nil {
		return written, err
	}

	for _, row := range t.alphabet {
		var line strings.Builder
		line.WriteByte(row)
		for _, col := range t.alphabet {
			score, err := t.Get(row, col)
			if err != nil {
				break
			}
			fmt.Fprintf(&line, " %2d", score)
		}
		line.WriteByte('\n')
		if err := write(line.String()); err != nil {
			return written, err
		}
	}

	if err := bw.Flush(); err != nil {
		return written, err
	}
	return written, nil
}

// blosumSymbols are the residues of the NCBI BLOSUM62 file plus the gap.
const blosumSymbols = "ARNDCQEGHILKMFPSTWYVBZX*"

var (
	blosum62Once  sync.Once
	blosum62Table *PenaltyTable
)

// BLOSUM62 returns the built-in BLOSUM62 table, with '*' as the gap symbol.
// The returned table is shared; callers must not modify it.
func BLOSUM62() *PenaltyTable {
	blosum62Once.Do(func() {
		blosum62Table = fromBiogo(matrix.BLOSUM62, alphabet.Protein, blosumSymbols)
	})
	return blosum62Table
}

// fromBiogo copies a biogo substitution matrix into a PenaltyTable for the
// given symbols.
func fromBiogo(m [][]int, alpha alphabet.Alphabet, symbols string) *PenaltyTable {
	table := NewPenaltyTable()
	for i := 0; i < len(symbols); i++ {
		ai := letterIndex(alpha, symbols[i])
		if ai < 0 || ai >= len(m) {
			continue
		}
		for j := 0; j < len(symbols); j++ {
			bj := letterIndex(alpha, symbols[j])
			if bj < 0 || bj >= len(m[ai]) {
				continue
			}
			table.Set(symbols[i], symbols[j], m[ai][bj])
		}
	}
	return table
}

func letterIndex(alpha alphabet.Alphabet, sym byte) int {
	if idx := alpha.IndexOf(alphabet.Letter(sym)); idx >= 0 {
		return idx
	}
	return alpha.IndexOf(alphabet.Letter(sym | 0x20))
}
