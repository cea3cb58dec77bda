// Package submit turns a selection of target/config cells into try-build
// requests for the CI submission client.
package submit

import (
	"fmt"
	"strings"

	"github.com/sofmeright/buildgate/src/matrix"
)

// Builder names, derived from the target's OS prefix.
const (
	BuilderWindows = "compile_win"
	BuilderLinux   = "compile_linux"

	// Unsupported marks targets no builder family accepts. Requests with it
	// are reported and never submitted.
	Unsupported = "unsupported"
)

// BuilderName maps a target to the builder that compiles it.
func BuilderName(target string) string {
	switch {
	case strings.HasPrefix(target, "win"):
		return BuilderWindows
	case strings.HasPrefix(target, "linux"):
		return BuilderLinux
	default:
		return Unsupported
	}
}

// Selection is the set of cells picked for submission. It is a plain value:
// whatever front end builds it hands the finished map to Build.
type Selection map[matrix.Cell]bool

// Grid returns a selection covering every target × config and every
// required cell, with the required cells ticked. Required configs missing
// from configs still get a cell.
func Grid(targets, configs []string, required matrix.Matrix) Selection {
	sel := make(Selection, len(targets)*len(configs)+required.Len())
	for _, t := range targets {
		for _, c := range configs {
			sel[matrix.Cell{Target: t, Config: c}] = false
		}
	}
	for _, cell := range required.Cells() {
		sel[cell] = true
	}
	return sel
}

// Choose returns a copy of s with every cell ticked when all is set, or
// exactly the cells named by picks ("target/config") when picks is
// non-empty. Picks outside the grid are an error. With neither, the copy
// keeps s's ticks.
func (s Selection) Choose(all bool, picks []string) (Selection, error) {
	if all && len(picks) > 0 {
		return nil, fmt.Errorf("submit: selecting all cells and picking cells are mutually exclusive")
	}
	out := make(Selection, len(s))
	for cell, on := range s {
		switch {
		case all:
			out[cell] = true
		case len(picks) > 0:
			out[cell] = false
		default:
			out[cell] = on
		}
	}
	for _, p := range picks {
		cell, err := matrix.ParseCell(p)
		if err != nil {
			return nil, err
		}
		if _, ok := out[cell]; !ok {
			return nil, fmt.Errorf("submit: %s is not a selectable target/config", cell)
		}
		out[cell] = true
	}
	return out, nil
}

// Picked returns the ticked cells sorted by target, then config.
func (s Selection) Picked() []matrix.Cell {
	var cells []matrix.Cell
	for cell, on := range s {
		if on {
			cells = append(cells, cell)
		}
	}
	matrix.SortCells(cells)
	return cells
}

// Identity carries the properties shared by every request of one submission.
type Identity struct {
	Branch     string
	Repository string
	HeadRef    string
	SDKRepoURL string
	Batch      string // optional correlation id for one launch
}

// Request is one submission unit: one cell built by one builder.
type Request struct {
	Cell     matrix.Cell
	Identity Identity
	Builder  string
}

// Supported reports whether a builder family accepts the request's target.
func (r Request) Supported() bool { return r.Builder != Unsupported }

// Build emits one request per ticked cell, in sorted cell order.
func Build(sel Selection, id Identity) []Request {
	picked := sel.Picked()
	reqs := make([]Request, 0, len(picked))
	for _, cell := range picked {
		reqs = append(reqs, Request{
			Cell:     cell,
			Identity: id,
			Builder:  BuilderName(cell.Target),
		})
	}
	return reqs
}

// Properties returns the request's key=value properties in a fixed order.
func (r Request) Properties() []string {
	props := []string{
		"branch=" + r.Identity.Branch,
		"repository=" + r.Identity.Repository,
		"head_ref=" + r.Identity.HeadRef,
		"sdk_repo_url=" + r.Identity.SDKRepoURL,
		"config=" + r.Cell.Config,
		"target=" + r.Cell.Target,
	}
	if r.Identity.Batch != "" {
		props = append(props, "try_batch="+r.Identity.Batch)
	}
	return props
}

// Validate rejects requests the submission client could not carry intact.
func (r Request) Validate() error {
	if !r.Supported() {
		return fmt.Errorf("submit: %s: no builder for target %q", r.Cell.Label(), r.Cell.Target)
	}
	for _, p := range r.Properties() {
		if strings.Contains(p, ",") {
			return fmt.Errorf("submit: %s: property %q contains a comma", r.Cell.Label(), p)
		}
	}
	if r.Identity.HeadRef == "" || r.Identity.Branch == "" {
		return fmt.Errorf("submit: %s: branch and head_ref are required", r.Cell.Label())
	}
	return nil
}

// ClientConfig is how the submission client reaches the CI master.
type ClientConfig struct {
	Command  string
	Master   string
	Connect  string
	Username string
	Password string
}

// Args builds the submission client's argument vector, without the
// command itself.
func (r Request) Args(c ClientConfig) []string {
	return []string{
		"try",
		"--connect=" + c.Connect,
		"--master=" + c.Master,
		"--username=" + c.Username,
		"--passwd=" + c.Password,
		"--vc=git",
		"--builder=" + r.Builder,
		"--properties=" + strings.Join(r.Properties(), ","),
	}
}
