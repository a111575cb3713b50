// Package sequence provides the protein sequence record type and the
// two-line record format it is read from.
//
// A record is a free-text description plus the residue string. Records are
// created by the parser, never mutated afterwards, and shared by pointer with
// everything that compares against them.
package sequence

import (
	"fmt"
	"strings"
)

// HeaderPrefix starts every record header line.
const HeaderPrefix = '>'

// Record represents a named protein sequence.
//
// Residues are stored verbatim; checking them against a penalty table is the
// caller's job (see Validate).
type Record struct {
	Description string
	Sequence    string
}

// New creates a record from a description and a residue string.
func New(description, residues string) (*Record, error) {
	if len(residues) == 0 {
		return nil, &EmptySequenceError{}
	}
	return &Record{
		Description: description,
		Sequence:    residues,
	}, nil
}

// Len returns the number of residues.
func (r *Record) Len() int {
	return len(r.Sequence)
}

// ID returns the first whitespace-separated token of the description, or an
// empty string when the description is blank.
func (r *Record) ID() string {
	fields := strings.Fields(r.Description)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Subsequence returns residues [start, end) as a new record with the same
// description.
func (r *Record) Subsequence(start, end int) (*Record, error) {
	if start < 0 {
		return nil, fmt.Errorf("start index must be non-negative")
	}
	if end <= start {
		return nil, fmt.Errorf("end must be greater than start")
	}
	if end > len(r.Sequence) {
		return nil, fmt.Errorf("end must not exceed sequence length")
	}

	return &Record{
		Description: r.Description,
		Sequence:    r.Sequence[start:end],
	}, nil
}

// ToFASTA returns the record in the two-line format read by Parse.
func (r *Record) ToFASTA() string {
	var sb strings.Builder
	sb.WriteByte(HeaderPrefix)
	sb.WriteString(r.Description)
	sb.WriteByte('\n')
	sb.WriteString(r.Sequence)
	sb.WriteByte('\n')
	return sb.String()
}

// String returns a string representation of the record.
func (r *Record) String() string {
	if r.Description != "" {
		return fmt.Sprintf("%c%s\n%s", HeaderPrefix, r.Description, r.Sequence)
	}
	return r.Sequence
}

// Equal reports whether both records hold the same description and residues.
func (r *Record) Equal(other *Record) bool {
	if other == nil {
		return false
	}
	return r.Description == other.Description && r.Sequence == other.Sequence
}
