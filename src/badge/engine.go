package badge

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sofmeright/buildgate/src/gate"
)

// Engine generates SVG badges using a specific font.
type Engine struct {
	metrics *FontMetrics
}

// New creates a badge engine with the given font metrics.
func New(metrics *FontMetrics) *Engine {
	return &Engine{metrics: metrics}
}

// Badge defines the content and appearance of a single badge.
type Badge struct {
	Label string // left side text
	Value string // right side text
	Color string // hex color for right side (e.g. "#4c1")
}

// Generate produces a shields.io-compatible SVG badge string.
func (e *Engine) Generate(b Badge) string {
	return e.renderSVG(b)
}

// WriteFile renders b to path, creating parent directories.
func (e *Engine) WriteFile(path string, b Badge) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("badge: creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(e.Generate(b)), 0o644); err != nil {
		return fmt.Errorf("badge: writing %s: %w", path, err)
	}
	return nil
}

// ForVerdict describes a gate verdict: "passing", or the failing cell count.
func ForVerdict(v gate.Verdict) Badge {
	if v.Accept() {
		return Badge{Label: "builds", Value: "passing", Color: StatusColor("passed")}
	}
	status := "failed"
	if v.Count(gate.CellFailed) == 0 {
		// only missing builds; the commit may still be building
		status = "warning"
	}
	return Badge{
		Label: "builds",
		Value: fmt.Sprintf("%d failing", len(v.Failing)),
		Color: StatusColor(status),
	}
}

// StatusColor maps a status keyword to a badge hex color.
func StatusColor(status string) string {
	switch status {
	case "passed", "success":
		return "#4c1"
	case "warning":
		return "#dfb317"
	case "critical", "failed":
		return "#e05d44"
	default:
		return "#9f9f9f"
	}
}
