package catalog

import (
	"bytes"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// overlayFile is the on-disk shape of a catalog overlay:
//
//	[targets.win_arm64]
//	family = "windows"
//	generator = "Visual Studio 17 2022"
//	vs_platform = "ARM64"
//	solution_tag = "ARM64"
//	link_command = ["mklink", "/J", "{project}\\Code\\SDKs", "ce_sdks"]
//	unlink_command = ["rmdir", "{project}\\Code\\SDKs"]
type overlayFile struct {
	Targets map[string]TargetSpec `toml:"targets"`
}

// LoadFile returns the built-in catalog with the targets from a TOML overlay
// file merged on top. An empty path returns the built-in catalog.
func LoadFile(path string) (*Catalog, error) {
	c := Builtin()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}
	if err := c.Merge(data); err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, c.Validate()
}

// Merge decodes a TOML overlay and replaces or adds the targets it defines.
func (c *Catalog) Merge(data []byte) error {
	var overlay overlayFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&overlay); err != nil {
		return fmt.Errorf("parsing overlay: %w", err)
	}
	for id, spec := range overlay.Targets {
		spec.ID = id
		c.specs[id] = spec
	}
	return nil
}
