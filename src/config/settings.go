package config

import "os"

// RepoSettings locates the repository being gated.
type RepoSettings struct {
	// ConfigFile is the repository configuration listing required builds.
	ConfigFile string `yaml:"config_file"`

	// GitDir is the repository the hook runs in. Default: $GIT_DIR, then ".".
	GitDir string `yaml:"git_dir"`
}

// DefaultRepoSettings returns sensible defaults for repository settings.
func DefaultRepoSettings() RepoSettings {
	return RepoSettings{
		ConfigFile: "buildbot_config.json",
	}
}

// ResolveGitDir returns the git directory to read branches from.
func (r RepoSettings) ResolveGitDir() string {
	if r.GitDir != "" {
		return r.GitDir
	}
	if dir := os.Getenv("GIT_DIR"); dir != "" {
		return dir
	}
	return "."
}

// PlanConfig tunes build-plan resolution.
type PlanConfig struct {
	DefaultProject    string `yaml:"default_project"`
	RepositoryPattern string `yaml:"repository_pattern"` // "{project}" is substituted
	SDKRepository     string `yaml:"sdk_repository"`
	CatalogFile       string `yaml:"catalog_file"` // optional TOML overlay
}

// DefaultPlanConfig returns sensible defaults for plan resolution.
func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		DefaultProject:    "CRYENGINE",
		RepositoryPattern: "git@github.com:CRYTEK-CRYENGINE/{project}.git",
		SDKRepository:     "git@gitlab.com:patsytau/ce_sdks.git",
	}
}

// SubmitConfig controls how try builds are handed to the submission client.
type SubmitConfig struct {
	// Command is the submission client executable.
	Command string `yaml:"command"`

	// Master is the CI master address. Default: buildbot_url from the
	// repository config.
	Master string `yaml:"master"`

	Connect  string `yaml:"connect"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// PasswordEnv names an env var that overrides Password when set.
	PasswordEnv string `yaml:"password_env"`

	// EnvFile is loaded (without overriding the environment) before
	// PasswordEnv is read.
	EnvFile string `yaml:"env_file"`

	// Parallel bounds concurrent submission client processes.
	Parallel int `yaml:"parallel"`

	// ScanSecrets refuses submissions whose properties look like secrets.
	ScanSecrets bool `yaml:"scan_secrets"`
}

// DefaultSubmitConfig returns sensible defaults for submissions.
func DefaultSubmitConfig() SubmitConfig {
	return SubmitConfig{
		Command:     "buildbot",
		Connect:     "pb",
		Username:    "build",
		Password:    "build",
		PasswordEnv: "BUILDGATE_TRY_PASSWORD",
		EnvFile:     ".buildgate.env",
		Parallel:    4,
		ScanSecrets: true,
	}
}

// ResolvePassword returns the submission password, preferring PasswordEnv.
func (s SubmitConfig) ResolvePassword() string {
	if s.PasswordEnv != "" {
		if v := os.Getenv(s.PasswordEnv); v != "" {
			return v
		}
	}
	return s.Password
}

// OutputConfig controls reporting.
type OutputConfig struct {
	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`

	// JUnitDir receives a JUnit report of the verdict when running in CI.
	JUnitDir string `yaml:"junit_dir"`

	// Badge, when set, is the path the verdict SVG badge is written to.
	Badge string `yaml:"badge"`
}

// DefaultOutputConfig returns sensible defaults for output.
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Color:    "auto",
		JUnitDir: ".buildgate/reports",
	}
}
