package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks structural invariants of a loaded Config.
// Returns warnings (soft issues) and a hard error if the config is invalid.
func Validate(cfg *Config) (warnings []string, err error) {
	var errs []string

	// ── Backend ───────────────────────────────────────────────────────────

	if cfg.Backend.URL == "" {
		errs = append(errs, "backend.url: is required")
	} else if u, perr := url.Parse(cfg.Backend.URL); perr != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("backend.url: %q is not an absolute URL", cfg.Backend.URL))
	}
	if cfg.Backend.Timeout < 0 {
		errs = append(errs, "backend.timeout: must not be negative")
	}

	// ── Repo ──────────────────────────────────────────────────────────────

	if cfg.Repo.ConfigFile == "" {
		errs = append(errs, "repo.config_file: is required")
	}

	// ── Plan ──────────────────────────────────────────────────────────────

	if cfg.Plan.DefaultProject == "" {
		errs = append(errs, "plan.default_project: is required")
	}
	if !strings.Contains(cfg.Plan.RepositoryPattern, "{project}") {
		warnings = append(warnings, fmt.Sprintf("plan.repository_pattern: %q has no {project} placeholder; every project resolves to the same repository", cfg.Plan.RepositoryPattern))
	}

	// ── Submit ────────────────────────────────────────────────────────────

	if cfg.Submit.Command == "" {
		errs = append(errs, "submit.command: is required")
	}
	if cfg.Submit.Parallel < 1 {
		errs = append(errs, fmt.Sprintf("submit.parallel: must be at least 1, got %d", cfg.Submit.Parallel))
	}
	if !cfg.Submit.ScanSecrets {
		warnings = append(warnings, "submit.scan_secrets: disabled; submission properties are passed on the command line unchecked")
	}

	// ── Output ────────────────────────────────────────────────────────────

	switch cfg.Output.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Sprintf("output.color: unknown mode %q (supported: auto, always, never)", cfg.Output.Color))
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return warnings, nil
}
