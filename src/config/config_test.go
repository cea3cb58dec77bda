package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "http://localhost:8010/api/v2" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Repo.ConfigFile != "buildbot_config.json" {
		t.Errorf("Repo.ConfigFile = %q", cfg.Repo.ConfigFile)
	}
	if _, err := Validate(cfg); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".buildgate.yml")
	data := `
backend:
  url: https://ci.example.com/api/v2
  timeout: 5s
plan:
  default_project: Engine
submit:
  parallel: 2
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "https://ci.example.com/api/v2" || cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("Backend = %+v", cfg.Backend)
	}
	if cfg.Plan.DefaultProject != "Engine" {
		t.Errorf("Plan.DefaultProject = %q", cfg.Plan.DefaultProject)
	}
	// untouched keys keep their defaults
	if cfg.Plan.SDKRepository == "" || cfg.Submit.Command != "buildbot" {
		t.Errorf("defaults lost: %+v %+v", cfg.Plan, cfg.Submit)
	}
	if cfg.Submit.Parallel != 2 {
		t.Errorf("Submit.Parallel = %d", cfg.Submit.Parallel)
	}
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	cfg.Backend.URL = "localhost"
	cfg.Submit.Parallel = 0
	cfg.Output.Color = "rainbow"
	if _, err := Validate(cfg); err == nil {
		t.Fatal("expected validation error")
	}

	cfg = defaults()
	cfg.Plan.RepositoryPattern = "git@example.com:fixed.git"
	cfg.Submit.ScanSecrets = false
	warnings, err := Validate(cfg)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %v, want 2", warnings)
	}
}

func TestResolvePassword(t *testing.T) {
	s := DefaultSubmitConfig()
	s.PasswordEnv = "BUILDGATE_TEST_TRY_PASSWORD"

	t.Setenv("BUILDGATE_TEST_TRY_PASSWORD", "")
	if got := s.ResolvePassword(); got != "build" {
		t.Errorf("ResolvePassword() = %q, want fallback", got)
	}

	t.Setenv("BUILDGATE_TEST_TRY_PASSWORD", "s3cret")
	if got := s.ResolvePassword(); got != "s3cret" {
		t.Errorf("ResolvePassword() = %q, want env value", got)
	}
}

func TestResolveGitDir(t *testing.T) {
	t.Setenv("GIT_DIR", "")
	if got := (RepoSettings{}).ResolveGitDir(); got != "." {
		t.Errorf("ResolveGitDir() = %q, want .", got)
	}
	t.Setenv("GIT_DIR", "/srv/git/engine.git")
	if got := (RepoSettings{}).ResolveGitDir(); got != "/srv/git/engine.git" {
		t.Errorf("ResolveGitDir() = %q", got)
	}
	if got := (RepoSettings{GitDir: "/x"}).ResolveGitDir(); got != "/x" {
		t.Errorf("ResolveGitDir() = %q", got)
	}
}
