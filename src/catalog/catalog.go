// Package catalog holds the static table of build targets and the toolchain
// properties each one needs: CMake generator, toolchain file, SDK link
// commands and Visual Studio platform tags.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sofmeright/buildgate/src/matrix"
)

// ErrUnknownTarget is returned when a target identifier has no catalog entry.
var ErrUnknownTarget = errors.New("unknown target")

// Family groups targets that share an executor and property shape.
type Family string

const (
	Windows Family = "windows"
	Linux   Family = "linux"
)

// TargetSpec describes one build target.
//
// LinkCommand and UnlinkCommand are argument templates; "{project}" is
// replaced with the resolved project name. Windows targets render them as a
// single cmd.exe string, Linux targets pass them through as argv.
type TargetSpec struct {
	ID            string   `toml:"-"`
	Family        Family   `toml:"family"`
	Generator     string   `toml:"generator"`
	ToolchainPath string   `toml:"toolchain_path"`
	VSPlatform    string   `toml:"vs_platform"`  // windows only
	SolutionTag   string   `toml:"solution_tag"` // windows only
	LinkCommand   []string `toml:"link_command"`
	UnlinkCommand []string `toml:"unlink_command"`
}

// Catalog maps target identifiers to their specs.
type Catalog struct {
	specs map[string]TargetSpec
}

// New creates a catalog from the given specs. Later specs replace earlier
// ones with the same ID.
func New(specs ...TargetSpec) *Catalog {
	c := &Catalog{specs: make(map[string]TargetSpec, len(specs))}
	for _, s := range specs {
		c.specs[s.ID] = s
	}
	return c
}

// Builtin returns the catalog of targets known without any overlay file.
func Builtin() *Catalog {
	winUnlink := []string{"rmdir", `{project}\Code\SDKs`}
	winLink := []string{"mklink", "/J", `{project}\Code\SDKs`, "ce_sdks"}

	return New(
		TargetSpec{
			ID:            "win_x86",
			Family:        Windows,
			Generator:     "Visual Studio 14 2015",
			VSPlatform:    "Win32",
			SolutionTag:   "Win32",
			LinkCommand:   winLink,
			UnlinkCommand: winUnlink,
		},
		TargetSpec{
			ID:            "win_x64",
			Family:        Windows,
			Generator:     "Visual Studio 14 2015 Win64",
			ToolchainPath: "Tools/CMake/toolchain/windows/WindowsPC-MSVC.cmake",
			VSPlatform:    "x64",
			SolutionTag:   "Win64",
			LinkCommand:   winLink,
			UnlinkCommand: winUnlink,
		},
		TargetSpec{
			ID:            "linux_x64_gcc",
			Family:        Linux,
			Generator:     "Unix Makefiles",
			ToolchainPath: "Tools/CMake/toolchain/linux/Linux_GCC.cmake",
			LinkCommand:   []string{"ln", "-s", "ce_sdks", "{project}/Code/SDKs"},
			UnlinkCommand: []string{"rm", "{project}/Code/SDKs"},
		},
		TargetSpec{
			ID:            "linux_x64_clang",
			Family:        Linux,
			Generator:     "Unix Makefiles",
			ToolchainPath: "Tools/CMake/toolchain/linux/Linux_Clang.cmake",
			LinkCommand:   []string{"ln", "-sfn", "ce_sdks", "{project}/Code/SDKs"},
			UnlinkCommand: []string{"rm", "{project}/Code/SDKs"},
		},
	)
}

// Lookup returns the spec for id, or an error wrapping ErrUnknownTarget.
func (c *Catalog) Lookup(id string) (TargetSpec, error) {
	s, ok := c.specs[id]
	if !ok {
		return TargetSpec{}, fmt.Errorf("catalog: %w %q (known: %s)", ErrUnknownTarget, id, strings.Join(c.IDs(), ", "))
	}
	return s, nil
}

// IDs returns sorted target identifiers.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.specs))
	for id := range c.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of targets.
func (c *Catalog) Len() int { return len(c.specs) }

// Validate checks that every spec carries the fields its family needs and
// none of the other family's fields.
func (c *Catalog) Validate() error {
	var errs []string
	for _, id := range c.IDs() {
		s := c.specs[id]
		if s.Generator == "" {
			errs = append(errs, fmt.Sprintf("%s: generator is required", id))
		}
		if len(s.LinkCommand) == 0 || len(s.UnlinkCommand) == 0 {
			errs = append(errs, fmt.Sprintf("%s: link_command and unlink_command are required", id))
		}
		switch s.Family {
		case Windows:
			if s.VSPlatform == "" || s.SolutionTag == "" {
				errs = append(errs, fmt.Sprintf("%s: windows targets need vs_platform and solution_tag", id))
			}
		case Linux:
			if s.VSPlatform != "" || s.SolutionTag != "" {
				errs = append(errs, fmt.Sprintf("%s: linux targets must not set vs_platform or solution_tag", id))
			}
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown family %q (supported: windows, linux)", id, s.Family))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("catalog: invalid:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Check verifies that every target the required matrix names resolves to a
// catalog entry.
func (c *Catalog) Check(m matrix.Matrix) error {
	var missing []string
	for _, target := range m.Targets() {
		if _, ok := c.specs[target]; !ok {
			missing = append(missing, target)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("catalog: %w: %s", ErrUnknownTarget, strings.Join(missing, ", "))
	}
	return nil
}
