package sequence

import (
	"fmt"
	"strings"
)

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// EmptySequenceError is returned when a sequence is empty.
type EmptySequenceError struct{}

func (e *EmptySequenceError) Error() string {
	return "sequence must have at least one residue"
}

func (e *EmptySequenceError) IsSequenceError() {}

// InvalidResidueError is returned when a residue is not part of the alphabet
// in use.
type InvalidResidueError struct {
	Position int
	Found    byte
}

func (e *InvalidResidueError) Error() string {
	return fmt.Sprintf("invalid residue '%c' at position %d", e.Found, e.Position)
}

func (e *InvalidResidueError) IsSequenceError() {}

// Alphabet reports whether a residue symbol is known.
type Alphabet interface {
	Has(sym byte) bool
}

// Validate checks that every residue is known to alphabet. It returns the
// first offending position.
func Validate(residues string, alphabet Alphabet) error {
	if len(residues) == 0 {
		return &EmptySequenceError{}
	}
	for i := 0; i < len(residues); i++ {
		if !alphabet.Has(residues[i]) {
			return &InvalidResidueError{Position: i, Found: residues[i]}
		}
	}
	return nil
}

// Normalize upper-cases residues and strips surrounding whitespace.
func Normalize(residues string) string {
	return strings.ToUpper(strings.TrimSpace(residues))
}
