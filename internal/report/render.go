package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Aman-CERP/strbench/internal/bench"
)

// ErrNilReport is returned when Render is given no report.
var ErrNilReport = errors.New("report is nil")

// ruleWidth is the width of the separator lines in markdown output.
const ruleWidth = 60

// Options configures Render.
type Options struct {
	Format Format
	// Color enables ANSI styling of table output.
	Color bool
}

// Render writes r to w in the requested format.
func Render(w io.Writer, r *bench.Report, opts Options) error {
	if r == nil {
		return ErrNilReport
	}

	switch opts.Format {
	case FormatTable, "":
		return renderTable(w, r, opts.Color)
	case FormatMarkdown:
		return renderMarkdown(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return fmt.Errorf("unknown format %q", opts.Format)
}

func renderTable(w io.Writer, r *bench.Report, color bool) error {
	styles := DefaultStyles(NewRenderer(w, color))
	var b strings.Builder

	for _, t := range r.Texts {
		b.WriteString(styles.Title.Render(t.Label))
		b.WriteString(styles.Label.Render(textMeta(t)))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %q\n", styles.Label.Render("existing:"), t.ExistingPattern)
		fmt.Fprintf(&b, "%s %q\n", styles.Label.Render("missing: "), t.MissingPattern)
		if t.MissingFound {
			b.WriteString(styles.Warning.Render("warning: missing pattern occurs in this text"))
			b.WriteString("\n")
		}

		rows := make([][]string, 0, len(t.Records))
		for _, rec := range t.Records {
			rows = append(rows, []string{rec.Matcher, rec.Existing.String(), rec.Missing.String(), rec.Mean().String()})
		}

		tbl := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(styles.Border).
			Headers("Matcher", "Existing", "Missing", "Mean").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return styles.Header
				case col == 1 && t.Records[row].Matcher == t.FastestExisting:
					return styles.Fastest
				case col == 2 && t.Records[row].Matcher == t.FastestMissing:
					return styles.Fastest
				}
				return styles.Cell
			})

		b.WriteString(tbl.Render())
		b.WriteString("\n")
		fmt.Fprintf(&b, "Fastest existing: %s\n", t.FastestExisting)
		fmt.Fprintf(&b, "Fastest missing:  %s\n\n", t.FastestMissing)
	}

	rows := make([][]string, 0, len(r.Overall))
	for i, s := range r.Overall {
		rows = append(rows, []string{strconv.Itoa(i + 1), s.Matcher, s.Mean.String()})
	}
	overall := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Border).
		Headers("#", "Matcher", "Mean").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.Header
			case row == 0:
				return styles.Fastest
			}
			return styles.Cell
		})

	fmt.Fprintf(&b, "%s\n", styles.Title.Render(fmt.Sprintf("Overall (%d repetitions, best run each)", r.Repetitions)))
	b.WriteString(overall.Render())
	b.WriteString("\n")
	fmt.Fprintf(&b, "Overall fastest: %s\n", styles.Winner.Render(r.Winner()))

	_, err := io.WriteString(w, b.String())
	return err
}

func textMeta(t bench.TextResult) string {
	if t.Digest == 0 {
		return fmt.Sprintf("  (%d bytes)", t.Length)
	}
	return fmt.Sprintf("  (%d bytes, xxh64 %016x)", t.Length, t.Digest)
}

func renderMarkdown(w io.Writer, r *bench.Report) error {
	var b strings.Builder

	for _, t := range r.Texts {
		fmt.Fprintf(&b, "TEXT: %s\n", t.Label)
		fmt.Fprintf(&b, "Existing pattern: %q\n", t.ExistingPattern)
		fmt.Fprintf(&b, "Missing pattern : %q\n", t.MissingPattern)
		if t.MissingFound {
			b.WriteString("WARNING: missing pattern occurs in this text\n")
		}
		b.WriteString("| Algorithm | Existing (s) | Missing (s) |\n")
		b.WriteString("|----------|--------------:|------------:|\n")
		for _, rec := range t.Records {
			fmt.Fprintf(&b, "| %-9s | %12s | %10s |\n", rec.Matcher, seconds(rec.Existing), seconds(rec.Missing))
		}
		fmt.Fprintf(&b, "\nFastest for EXISTING in %s: %s\n", t.Label, t.FastestExisting)
		fmt.Fprintf(&b, "Fastest for MISSING  in %s: %s\n", t.Label, t.FastestMissing)
		b.WriteString(strings.Repeat("=", ruleWidth))
		b.WriteString("\n")
	}

	b.WriteString("OVERALL (average across all texts and both patterns):\n")
	for _, s := range r.Overall {
		fmt.Fprintf(&b, "- %s: %s s\n", s.Matcher, seconds(s.Mean))
	}
	fmt.Fprintf(&b, "\nOverall fastest: %s\n", r.Winner())

	_, err := io.WriteString(w, b.String())
	return err
}

// seconds formats d as seconds with microsecond precision.
func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 6, 64)
}
