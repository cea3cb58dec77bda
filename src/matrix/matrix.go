// Package matrix models the required target/configuration grid a push must
// satisfy before it is accepted.
package matrix

import (
	"fmt"
	"sort"
	"strings"
)

// Cell is one (target, config) pair.
type Cell struct {
	Target string
	Config string
}

// Label returns the human-readable "target / config" form used in reports.
func (c Cell) Label() string {
	return fmt.Sprintf("%s / %s", c.Target, c.Config)
}

// String implements fmt.Stringer.
func (c Cell) String() string { return c.Label() }

// ParseCell parses "target/config" (spaces around the slash allowed).
func ParseCell(s string) (Cell, error) {
	target, config, ok := strings.Cut(s, "/")
	target = strings.TrimSpace(target)
	config = strings.TrimSpace(config)
	if !ok || target == "" || config == "" {
		return Cell{}, fmt.Errorf("matrix: invalid cell %q (want target/config)", s)
	}
	return Cell{Target: target, Config: config}, nil
}

// Row is one target and the configurations required for it, in config order.
type Row struct {
	Target  string
	Configs []string
}

// Matrix is the ordered required grid. Row order is target order.
type Matrix []Row

// Cells flattens the matrix in target-then-config order.
func (m Matrix) Cells() []Cell {
	var cells []Cell
	for _, row := range m {
		for _, cfg := range row.Configs {
			cells = append(cells, Cell{Target: row.Target, Config: cfg})
		}
	}
	return cells
}

// Targets returns the target identifiers in matrix order.
func (m Matrix) Targets() []string {
	targets := make([]string, 0, len(m))
	for _, row := range m {
		targets = append(targets, row.Target)
	}
	return targets
}

// Contains reports whether c is a required cell.
func (m Matrix) Contains(c Cell) bool {
	for _, row := range m {
		if row.Target != c.Target {
			continue
		}
		for _, cfg := range row.Configs {
			if cfg == c.Config {
				return true
			}
		}
	}
	return false
}

// Len returns the number of required cells.
func (m Matrix) Len() int {
	n := 0
	for _, row := range m {
		n += len(row.Configs)
	}
	return n
}

// SortCells orders cells by target, then config.
func SortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Target != cells[j].Target {
			return cells[i].Target < cells[j].Target
		}
		return cells[i].Config < cells[j].Config
	})
}
