package output

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	frameWidth  = 61 // columns of rule after the corner
	frameIndent = "    "
	dimCyan     = "\033[2;36m"
	dimGray     = "\033[90m"
)

// Section is a framed block of rows:
//
//	── Gate ──────────────────────────── 1.2s ──
//	│ win_x64 / debug   ✓  #8 success
//	└────────────────────────────────────────────
type Section struct {
	w     io.Writer
	color bool
}

// NewSection writes the header for name and returns the open section. A
// non-zero elapsed is shown at the right end of the header.
func NewSection(w io.Writer, name string, elapsed time.Duration, color bool) *Section {
	head := "── " + name + " "
	tail := "──"
	if elapsed > 0 {
		tail = " " + formatElapsed(elapsed) + " ──"
	}
	rule := strings.Repeat("─", max(1, frameWidth+4-utf8.RuneCountInString(head+tail)))

	fmt.Fprintf(w, "\n%s%s\n", frameIndent, colorize(head+rule+tail, dimCyan, color))
	return &Section{w: w, color: color}
}

// Row writes one formatted line inside the frame.
func (s *Section) Row(format string, args ...any) {
	fmt.Fprintf(s.w, "%s│ %s\n", frameIndent, fmt.Sprintf(format, args...))
}

// Separator writes a divider between the rows and the summary.
func (s *Section) Separator() { s.rule("├") }

// Close writes the footer.
func (s *Section) Close() { s.rule("└") }

func (s *Section) rule(corner string) {
	fmt.Fprintf(s.w, "%s%s%s\n", frameIndent, corner, strings.Repeat("─", frameWidth))
}

var statusIcons = map[string]struct{ glyph, code string }{
	"success": {"✓", colorGreen},
	"failed":  {"✗", colorRed},
	"missing": {"?", colorYellow},
}

// StatusIcon returns the icon for success, failed or missing; anything
// else is shown as skipped.
func StatusIcon(status string, color bool) string {
	icon, ok := statusIcons[status]
	if !ok {
		icon.glyph, icon.code = "⊘", colorYellow
	}
	return colorize(icon.glyph, icon.code, color)
}

// Dimmed greys text out when color is on.
func Dimmed(text string, color bool) string {
	return colorize(text, dimGray, color)
}

func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d / time.Minute)
	return fmt.Sprintf("%dm%.1fs", mins, (d - time.Duration(mins)*time.Minute).Seconds())
}
