package alignment

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aria-lang/protmatch-go/internal/sequence"
)

// ErrEmptyCandidateSet is returned when a best-match search is given no
// candidates.
var ErrEmptyCandidateSet = errors.New("empty candidate set")

// Match is the outcome of a best-match search. Record points into the
// caller's candidate slice.
type Match struct {
	Index     int
	Record    *sequence.Record
	Alignment *Alignment
}

func (m *Match) String() string {
	return fmt.Sprintf("Match { index: %d, id: %s, score: %d }",
		m.Index, m.Record.ID(), m.Alignment.Score)
}

// ProgressFunc receives the score of each candidate once it has been
// aligned. With more than one worker it is called from several goroutines.
type ProgressFunc func(index int, rec *sequence.Record, score int)

// Selector finds the candidate that aligns best against a query.
type Selector struct {
	// Table scores every alignment. Nil selects BLOSUM62.
	Table *PenaltyTable
	// Workers is the number of concurrent aligners; values below 2 align
	// candidates one after another.
	Workers int
	// Progress, when set, is told about every candidate's score.
	Progress ProgressFunc
}

// SelectBest aligns query against every candidate in order and returns the
// highest scoring one.
//
// The search starts from candidates[0] with score 0 and an empty alignment,
// and only a strictly greater score replaces the current best, so the first
// candidate is kept when nothing scores above zero and the earliest
// candidate wins a tie.
func SelectBest(query string, candidates []*sequence.Record, table *PenaltyTable) (*Match, error) {
	s := &Selector{Table: table}
	return s.Select(context.Background(), query, candidates)
}

// Select runs the search described on SelectBest, in parallel when Workers
// is above one. Ties are resolved by candidate order, never by completion
// order.
func (s *Selector) Select(ctx context.Context, query string, candidates []*sequence.Record) (*Match, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	table := s.Table
	if table == nil {
		table = BLOSUM62()
	}

	var (
		results []*Alignment
		err     error
	)
	if s.Workers > 1 && len(candidates) > 1 {
		results, err = s.alignParallel(ctx, table, query, candidates)
	} else {
		results, err = s.alignSequential(ctx, table, query, candidates)
	}
	if err != nil {
		return nil, err
	}

	// The first candidate with an empty alignment stands until something
	// scores above zero.
	best := &Match{Index: 0, Record: candidates[0], Alignment: &Alignment{}}
	for i, a := range results {
		if a.Score > best.Alignment.Score {
			best = &Match{Index: i, Record: candidates[i], Alignment: a}
		}
	}

	return best, nil
}

func (s *Selector) alignSequential(ctx context.Context, table *PenaltyTable, query string,
	candidates []*sequence.Record) ([]*Alignment, error) {
	aligner := NewAligner(table)
	results := make([]*Alignment, len(candidates))

	for i, rec := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, err := aligner.Align(query, rec.Sequence)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		results[i] = a
		s.report(i, rec, a.Score)
	}

	return results, nil
}

func (s *Selector) alignParallel(ctx context.Context, table *PenaltyTable, query string,
	candidates []*sequence.Record) ([]*Alignment, error) {
	workers := min(s.Workers, len(candidates))
	results := make([]*Alignment, len(candidates))

	g, gCtx := errgroup.WithContext(ctx)
	indices := make(chan int)

	g.Go(func() error {
		defer close(indices)
		for i := range candidates {
			if err := gCtx.Err(); err != nil {
				return err
			}
			select {
			case indices <- i:
			case <-gCtx.Done():
				return gCtx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			aligner := NewAligner(table)
			for i := range indices {
				a, err := aligner.Align(query, candidates[i].Sequence)
				if err != nil {
					return fmt.Errorf("candidate %d: %w", i, err)
				}
				results[i] = a
				s.report(i, candidates[i], a.Score)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Selector) report(i int, rec *sequence.Record, score int) {
	if s.Progress != nil {
		s.Progress(i, rec, score)
	}
}

// AlignAgainstMultiple aligns query against every target and returns the
// alignments in target order.
func AlignAgainstMultiple(query string, targets []*sequence.Record,
	table *PenaltyTable) ([]IndexedAlignment, error) {
	if len(targets) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	aligner := NewAligner(table)
	results := make([]IndexedAlignment, len(targets))
	for i, target := range targets {
		a, err := aligner.Align(query, target.Sequence)
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
		results[i] = IndexedAlignment{Index: i, Alignment: a}
	}

	return results, nil
}

// IndexedAlignment pairs an alignment with its target index.
type IndexedAlignment struct {
	Index     int
	Alignment *Alignment
}
