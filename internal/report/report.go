// Package report renders batch results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/oleg578/csvtidy"
)

const ruleWidth = 80

var (
	markOK   = color.New(color.FgGreen).SprintFunc()
	markFail = color.New(color.FgRed).SprintFunc()
	markWarn = color.New(color.FgYellow).SprintFunc()
)

// WriteFixSummary prints one line per file followed by its shape warnings and a
// closing tally.
func WriteFixSummary(w io.Writer, rep csvtidy.Report) {
	for _, res := range rep.Results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(w, "%s %s: %v\n", markFail("✗"), res.Path, res.Err)
		case res.Written:
			fmt.Fprintf(w, "%s %s (%d records)\n", markOK("✓"), res.Path, res.Records)
		default:
			state := "unchanged"
			if res.Changed {
				state = "would rewrite"
			}
			fmt.Fprintf(w, "%s %s (%d records, %s)\n", markOK("✓"), res.Path, res.Records, state)
		}
		for _, m := range res.Mismatches {
			fmt.Fprintf(w, "    %s %s\n", markWarn("!"), m)
		}
	}
	fmt.Fprintf(w, "%d processed, %d failed, %d shape warnings\n", rep.Succeeded(), rep.Failed(), rep.Mismatches())
}

// WriteCountTable prints per-file row counts with their difference from the
// expectation, then the totals.
func WriteCountTable(w io.Writer, rep csvtidy.CountReport) {
	width := runewidth.StringWidth("EXPECTED")
	for _, c := range rep.Counts {
		width = max(width, runewidth.StringWidth(c.Path))
	}
	expectedLabel := fmt.Sprintf("EXPECTED (%d × %d)", len(rep.Counts), rep.Expected)
	width = max(width, runewidth.StringWidth(expectedLabel))

	rule := strings.Repeat("=", max(ruleWidth, width+24))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "ROW COUNT BREAKDOWN")
	fmt.Fprintln(w, rule)
	for _, c := range rep.Counts {
		name := runewidth.FillRight(c.Path, width)
		if c.Err != nil {
			fmt.Fprintf(w, "%s %s %v\n", name, markFail("ERROR:"), c.Err)
			continue
		}
		fmt.Fprintf(w, "%s %5d rows (%s)\n", name, c.Rows, colorDiff(c.Diff()))
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s %5d rows\n", runewidth.FillRight("TOTAL", width), rep.Total())
	fmt.Fprintf(w, "%s %5d rows\n", runewidth.FillRight(expectedLabel, width), rep.ExpectedTotal())
	fmt.Fprintf(w, "%s %5s rows\n", runewidth.FillRight("DIFFERENCE", width), signed(rep.Difference()))
	fmt.Fprintln(w, rule)
}

func colorDiff(diff int) string {
	s := fmt.Sprintf("%4s", signed(diff))
	if diff == 0 {
		return markOK(s)
	}
	return markWarn(s)
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
