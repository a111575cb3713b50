package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/aria-lang/protmatch-go/internal/alignment"
	"github.com/aria-lang/protmatch-go/internal/report"
	"github.com/aria-lang/protmatch-go/internal/sequence"
	"github.com/aria-lang/protmatch-go/internal/stats"
	"github.com/aria-lang/protmatch-go/pkg/protmatch"
)

var (
	plainOutput  bool
	workers      int
	showProgress bool
	listScores   bool
	emitPath     string
	histBins     int

	alignCmd = &cobra.Command{
		Use:   "align <sequence1> <sequence2>",
		Short: "Locally align two sequences",
		Args:  cobra.ExactArgs(2),
		RunE:  runAlign,
	}

	bestCmd = &cobra.Command{
		Use:   "best <query> <records-file>",
		Short: "Find the record that aligns best to a query",
		Long: `Aligns the query against every record of a record file and prints the
highest scoring one. The first record is kept when no record scores above
zero, and the earliest record wins a tie.`,
		Args: cobra.ExactArgs(2),
		RunE: runBest,
	}

	matrixCmd = &cobra.Command{
		Use:   "matrix",
		Short: "Print the active penalty table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable()
			if err != nil {
				return err
			}
			_, err = table.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	statsCmd = &cobra.Command{
		Use:   "stats <records-file>",
		Short: "Summarise the records of a record file",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), protmatch.Info())
		},
	}
)

func init() {
	alignCmd.Flags().BoolVar(&plainOutput, "plain", false, "print without styling")

	bestCmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent aligners (default from config)")
	bestCmd.Flags().BoolVar(&showProgress, "progress", false, "show a progress bar on stderr")
	bestCmd.Flags().BoolVar(&listScores, "scores", false, "also list the score of every record")
	bestCmd.Flags().StringVar(&emitPath, "emit", "", "write the aligned region of the best record to this file")
	bestCmd.Flags().BoolVar(&plainOutput, "plain", false, "print without styling")

	statsCmd.Flags().IntVar(&histBins, "bins", 10, "length histogram bins")
}

// residues normalises s and checks it against table.
func residues(name, s string, table *alignment.PenaltyTable) (string, error) {
	s = sequence.Normalize(s)
	if err := sequence.Validate(s, table); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

func runAlign(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	seq1, err := residues("sequence1", args[0], table)
	if err != nil {
		return err
	}
	seq2, err := residues("sequence2", args[1], table)
	if err != nil {
		return err
	}

	start := time.Now()
	a, err := alignment.LocalAlign(seq1, seq2, table)
	if err != nil {
		return err
	}
	logger.Debug("aligned", "len1", len(seq1), "len2", len(seq2), "score", a.Score, "elapsed", time.Since(start))

	if plainOutput {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Format())
		return err
	}
	return report.Alignment(cmd.OutOrStdout(), a)
}

func runBest(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	query, err := residues("query", args[0], table)
	if err != nil {
		return err
	}

	records, err := sequence.ReadFile(args[1])
	if err != nil {
		return err
	}
	for i, rec := range records {
		rec.Sequence = sequence.Normalize(rec.Sequence)
		if err := sequence.Validate(rec.Sequence, table); err != nil {
			return fmt.Errorf("record %d (%s): %w", i, rec.ID(), err)
		}
	}

	n := workers
	if n == 0 {
		n = cfg.Workers
	}
	logger.Info("searching", "query_len", len(query), "records", len(records), "workers", n)

	// Each candidate index is reported once, so workers never share a slot.
	scores := make([]int, len(records))
	selector := &alignment.Selector{
		Table:    table,
		Workers:  n,
		Progress: func(i int, _ *sequence.Record, score int) { scores[i] = score },
	}

	var (
		progress *mpb.Progress
		bar      *mpb.Bar
	)
	if showProgress && len(records) > 0 {
		progress = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = progress.AddBar(int64(len(records)),
			mpb.PrependDecorators(
				decor.Name("aligned records: ", decor.WC{W: len("aligned records: "), C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.AverageETA(decor.ET_STYLE_GO),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
		selector.Progress = func(i int, _ *sequence.Record, score int) {
			scores[i] = score
			bar.Increment()
		}
	}

	start := time.Now()
	m, err := selector.Select(cmd.Context(), query, records)
	if progress != nil {
		if err != nil {
			bar.Abort(false)
		}
		progress.Wait()
	}
	if err != nil {
		return err
	}
	logger.Info("best match", "index", m.Index, "id", m.Record.ID(), "score", m.Alignment.Score,
		"elapsed", time.Since(start))

	out := cmd.OutOrStdout()
	if listScores {
		names := make([]string, len(records))
		for i, rec := range records {
			names[i] = rec.Description
		}
		if err := report.Scores(out, scores, names); err != nil {
			return err
		}
		summary, err := stats.SummarizeScores(scores)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, summary)
	}

	if plainOutput {
		_, err = fmt.Fprintf(out, "%s\n%s\n", m.Record.Description, m.Alignment.Format())
	} else {
		err = report.Match(out, m)
	}
	if err != nil || emitPath == "" {
		return err
	}
	return emitRegion(emitPath, m)
}

// emitRegion writes the residues of m's record covered by its alignment to
// path. Nothing is written when no residues were aligned.
func emitRegion(path string, m *alignment.Match) error {
	if m.Alignment.IsEmpty() {
		logger.Warn("best match has no aligned region, nothing emitted", "id", m.Record.ID())
		return nil
	}

	region, err := m.Record.Subsequence(m.Alignment.Start2, m.Alignment.End2)
	if err != nil {
		return fmt.Errorf("aligned region of record %d: %w", m.Index, err)
	}
	region.Description = fmt.Sprintf("%s region=%d-%d", region.Description, m.Alignment.Start2+1, m.Alignment.End2)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	if err := sequence.Write(f, []*sequence.Record{region}); err != nil {
		f.Close()
		return fmt.Errorf("emit %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("emit %s: %w", path, err)
	}
	logger.Info("emitted aligned region", "path", path, "residues", region.Len())
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	records, err := sequence.ReadFile(args[0])
	if err != nil {
		return err
	}
	for _, rec := range records {
		rec.Sequence = sequence.Normalize(rec.Sequence)
	}

	summary, err := stats.FromRecords(records)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	hist, err := stats.NewLengthHistogram(records, histBins)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, summary)
	fmt.Fprint(out, hist)
	return nil
}
