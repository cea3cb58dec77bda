package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sofmeright/buildgate/src/matrix"
)

// ErrRepoConfig marks a missing or malformed repository configuration.
var ErrRepoConfig = errors.New("repository config missing or malformed")

// RepoConfig is the repository-scoped build configuration, normally
// buildbot_config.json at the top of the branch.
//
// Required configs for a target come from a key named after the target
// ("win_x64": ["debug", "release"]). Targets without one fall back to the
// global "configs" list, then "available".
type RepoConfig struct {
	Targets     []string
	Configs     []string
	Available   []string
	BuildbotURL string
	SDKRepoURL  string
	MinVersion  string

	// Required is the resolved required matrix, in file order.
	Required matrix.Matrix
}

// reserved keys cannot name a per-target config list.
var reservedRepoKeys = map[string]bool{
	"targets":      true,
	"configs":      true,
	"available":    true,
	"buildbot_url": true,
	"sdk_repo_url": true,
	"min_version":  true,
}

// LoadRepo reads and parses a repository config file.
func LoadRepo(path string) (*RepoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepoConfig, err)
	}
	rc, err := ParseRepo(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rc, nil
}

// ParseRepo parses repository config JSON and resolves the required matrix.
func ParseRepo(data []byte) (*RepoConfig, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepoConfig, err)
	}

	rc := &RepoConfig{}

	targetsRaw, ok := raw["targets"]
	if !ok || isNull(targetsRaw) {
		return nil, fmt.Errorf("%w: missing \"targets\"", ErrRepoConfig)
	}
	if err := json.Unmarshal(targetsRaw, &rc.Targets); err != nil {
		return nil, fmt.Errorf("%w: targets: %w", ErrRepoConfig, err)
	}
	if len(rc.Targets) == 0 {
		return nil, fmt.Errorf("%w: \"targets\" is empty", ErrRepoConfig)
	}

	fields := []struct {
		key  string
		dest any
	}{
		{"configs", &rc.Configs},
		{"available", &rc.Available},
		{"buildbot_url", &rc.BuildbotURL},
		{"sdk_repo_url", &rc.SDKRepoURL},
		{"min_version", &rc.MinVersion},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dest); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRepoConfig, f.key, err)
		}
	}

	seen := make(map[string]bool, len(rc.Targets))
	for _, target := range rc.Targets {
		if target == "" {
			return nil, fmt.Errorf("%w: empty target name", ErrRepoConfig)
		}
		if seen[target] {
			return nil, fmt.Errorf("%w: duplicate target %q", ErrRepoConfig, target)
		}
		seen[target] = true

		configs, err := rc.requiredFor(target, raw)
		if err != nil {
			return nil, err
		}
		rc.Required = append(rc.Required, matrix.Row{Target: target, Configs: configs})
	}

	if rc.MinVersion != "" {
		if _, err := semver.NewConstraint(rc.MinVersion); err != nil {
			return nil, fmt.Errorf("%w: min_version %q: %w", ErrRepoConfig, rc.MinVersion, err)
		}
	}

	return rc, nil
}

func (rc *RepoConfig) requiredFor(target string, raw map[string]json.RawMessage) ([]string, error) {
	if v, ok := raw[target]; ok && !reservedRepoKeys[target] {
		var configs []string
		if err := json.Unmarshal(v, &configs); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRepoConfig, target, err)
		}
		if len(configs) == 0 {
			return nil, fmt.Errorf("%w: %s: config list is null or empty", ErrRepoConfig, target)
		}
		return configs, nil
	}
	switch {
	case len(rc.Configs) > 0:
		return rc.Configs, nil
	case len(rc.Available) > 0:
		return rc.Available, nil
	}
	return nil, fmt.Errorf("%w: no config list for target %q (add %q, \"configs\" or \"available\")", ErrRepoConfig, target, target)
}

// AvailableConfigs returns every config a submission may pick: the global
// list when present, else the union of required configs in file order.
func (rc *RepoConfig) AvailableConfigs() []string {
	if len(rc.Configs) > 0 {
		return rc.Configs
	}
	if len(rc.Available) > 0 {
		return rc.Available
	}
	var out []string
	seen := make(map[string]bool)
	for _, row := range rc.Required {
		for _, c := range row.Configs {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// CheckVersion verifies that version satisfies min_version. Development
// builds ("dev" or non-semver) are not checked.
func (rc *RepoConfig) CheckVersion(version string) error {
	if rc.MinVersion == "" {
		return nil
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return nil
	}
	c, err := semver.NewConstraint(rc.MinVersion)
	if err != nil {
		return fmt.Errorf("%w: min_version %q: %w", ErrRepoConfig, rc.MinVersion, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: buildgate %s does not satisfy min_version %q", ErrRepoConfig, v, rc.MinVersion)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
