// Package report renders alignments and best-match results for a terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aria-lang/protmatch-go/internal/alignment"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(10)
	seqStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	matchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	scoreStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

func row(label, value string, style lipgloss.Style) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), style.Render(value))
}

func alignmentBody(a *alignment.Alignment) string {
	if a.IsEmpty() {
		return strings.Join([]string{
			row("Score", fmt.Sprint(a.Score), scoreStyle),
			row("", "no local alignment", labelStyle),
		}, "\n")
	}

	return strings.Join([]string{
		row("Seq1", a.AlignedSeq1, seqStyle),
		row("", a.MatchLine(), matchStyle),
		row("Seq2", a.AlignedSeq2, seqStyle),
		"",
		row("Score", fmt.Sprint(a.Score), scoreStyle),
		row("Identity", fmt.Sprintf("%.1f%%", a.Identity*100), seqStyle),
		row("Gaps", fmt.Sprintf("%d in %d runs", a.TotalGaps(), a.GapOpenings()), seqStyle),
		row("CIGAR", a.ToCIGAR(), seqStyle),
	}, "\n")
}

// Alignment writes a boxed view of a to w.
func Alignment(w io.Writer, a *alignment.Alignment) error {
	out := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Local alignment"),
		boxStyle.Render(alignmentBody(a)),
	)
	_, err := fmt.Fprintln(w, out)
	return err
}

// Match writes the winning candidate and its alignment to w.
func Match(w io.Writer, m *alignment.Match) error {
	header := strings.Join([]string{
		row("Index", fmt.Sprint(m.Index), seqStyle),
		row("Record", m.Record.Description, seqStyle),
	}, "\n")

	out := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Best match"),
		boxStyle.Render(header),
		boxStyle.Render(alignmentBody(m.Alignment)),
	)
	_, err := fmt.Fprintln(w, out)
	return err
}

// Scores writes one line per candidate score, in candidate order.
func Scores(w io.Writer, scores []int, names []string) error {
	for i, score := range scores {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(fmt.Sprintf("#%d", i)),
			scoreStyle.Width(8).Render(fmt.Sprint(score)),
			seqStyle.Render(name),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
