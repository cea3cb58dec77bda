package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sofmeright/buildgate/src/gate"
	"github.com/sofmeright/buildgate/src/submit"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
)

// Messages printed before the gate exits.
const (
	AcceptMessage = "All required builds succeeded."
	RejectMessage = "The following targets/configs failed:"
)

// Printer writes gate verdicts and submission outcomes.
type Printer struct {
	Writer io.Writer
	Color  bool
}

// NewPrinter creates a printer writing to stdout. mode is "auto", "always"
// or "never".
func NewPrinter(mode string) *Printer {
	return &Printer{
		Writer: os.Stdout,
		Color:  ColorMode(mode),
	}
}

// Verdict prints one row per required cell followed by the accept message
// or the itemized list of failing cells. elapsed is shown in the header.
func (p *Printer) Verdict(v gate.Verdict, elapsed time.Duration) {
	sec := NewSection(p.Writer, "Gate", elapsed, p.Color)
	for _, c := range v.Cells {
		detail := string(c.Status)
		if c.Build != nil {
			detail = fmt.Sprintf("#%d %s", c.Build.BuildNumber, c.Build.Result)
			if c.Build.BuilderName != "" {
				detail += " on " + c.Build.BuilderName
			}
		}
		sec.Row("%-28s%s  %s", c.Cell.Label(), StatusIcon(cellIcon(c.Status), p.Color), Dimmed(detail, p.Color))
	}
	if len(v.Cells) > 0 {
		sec.Separator()
	}
	sec.Row("%s", VerdictLine(v, p.Color))
	sec.Close()

	fmt.Fprintln(p.Writer)
	if v.Accept() {
		fmt.Fprintln(p.Writer, AcceptMessage)
		return
	}
	fmt.Fprintln(p.Writer, RejectMessage)
	for _, label := range v.Failing {
		fmt.Fprintf(p.Writer, "  %s\n", label)
	}
}

// Outcomes prints one row per submission.
func (p *Printer) Outcomes(outcomes []submit.Outcome, dryRun bool) {
	name := "Try"
	if dryRun {
		name = "Try (dry run)"
	}
	sec := NewSection(p.Writer, name, 0, p.Color)
	for _, o := range outcomes {
		status := "success"
		detail := o.Request.Builder
		switch {
		case o.Skipped:
			status = "skipped"
			detail = o.Err.Error()
		case o.Err != nil:
			status = "failed"
			detail = o.Err.Error()
		case dryRun:
			detail = strings.Join(o.Redacted(), " ")
		}
		sec.Row("%-28s%s  %s", o.Request.Cell.Label(), StatusIcon(status, p.Color), detail)
	}
	failed := submit.Failed(outcomes)
	sec.Separator()
	sec.Row("%d submitted, %d failed or skipped", len(outcomes)-failed, failed)
	sec.Close()
}

// VerdictLine returns a one-line verdict summary, optionally colored.
func VerdictLine(v gate.Verdict, color bool) string {
	parts := []string{}
	if n := v.Count(gate.CellPassed); n > 0 {
		parts = append(parts, colorize(fmt.Sprintf("%d passed", n), colorGreen, color))
	}
	if n := v.Count(gate.CellFailed); n > 0 {
		parts = append(parts, colorize(fmt.Sprintf("%d failed", n), colorRed, color))
	}
	if n := v.Count(gate.CellMissing); n > 0 {
		parts = append(parts, colorize(fmt.Sprintf("%d missing", n), colorYellow, color))
	}

	summary := "nothing required"
	if len(parts) > 0 {
		summary = strings.Join(parts, ", ")
	}
	total := colorize(fmt.Sprintf("%d", len(v.Cells)), colorBold, color)
	return fmt.Sprintf("%s required cells: %s", total, summary)
}

func cellIcon(s gate.CellStatus) string {
	switch s {
	case gate.CellPassed:
		return "success"
	case gate.CellFailed:
		return "failed"
	default:
		return "missing"
	}
}

func colorize(text, code string, color bool) string {
	if !color {
		return text
	}
	return code + text + colorReset
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

// ColorMode resolves the configured colour mode.
func ColorMode(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return UseColor()
	}
}
