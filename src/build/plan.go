package build

// BuildPlan is the resolved property set an executor needs to build one
// target/config of one project.
//
// Exactly one of Windows or Unix is set, chosen by the target's family.
type BuildPlan struct {
	Project          string `yaml:"project" json:"project"`
	ProjectDefaulted bool   `yaml:"project_defaulted" json:"project_defaulted"` // no override was given
	Repository       string `yaml:"repository" json:"repository"`
	SDKRepository    string `yaml:"sdk_repository" json:"sdk_repository"`
	Target           string `yaml:"target" json:"target"`
	Config           string `yaml:"config" json:"config"`
	Generator        string `yaml:"generator" json:"generator"`
	ToolchainPath    string `yaml:"toolchain_path,omitempty" json:"toolchain_path,omitempty"`

	Windows *WindowsFields `yaml:"windows,omitempty" json:"windows,omitempty"`
	Unix    *UnixFields    `yaml:"unix,omitempty" json:"unix,omitempty"`
}

// WindowsFields are set only for windows-family targets. The SDK link
// commands are single cmd.exe strings.
type WindowsFields struct {
	VSPlatform    string `yaml:"vs_platform" json:"vs_platform"`
	SolutionTag   string `yaml:"solution_tag" json:"solution_tag"`
	LinkCommand   string `yaml:"link_command" json:"link_command"`
	UnlinkCommand string `yaml:"unlink_command" json:"unlink_command"`
}

// UnixFields are set only for linux-family targets. The SDK link commands
// are argument vectors, run without a shell.
type UnixFields struct {
	LinkArgv   []string `yaml:"link_argv" json:"link_argv"`
	UnlinkArgv []string `yaml:"unlink_argv" json:"unlink_argv"`
}

// WorkDir is the out-of-source build directory for this target/config.
func (p *BuildPlan) WorkDir() string {
	return "build/" + p.Target + "_" + p.Config
}

// SourceDir is where the project checkout lives.
func (p *BuildPlan) SourceDir() string {
	return "build/" + p.Project
}

// Properties renders the plan with the property names the CI executor's
// build steps interpolate.
func (p *BuildPlan) Properties() map[string]any {
	props := map[string]any{
		"project":        p.Project,
		"repository":     p.Repository,
		"sdk_repo_url":   p.SDKRepository,
		"target":         p.Target,
		"config":         p.Config,
		"cmakegenerator": p.Generator,
	}
	if p.ToolchainPath != "" {
		props["toolchain_path"] = p.ToolchainPath
	}
	switch {
	case p.Windows != nil:
		props["vsplatform"] = p.Windows.VSPlatform
		props["cmake_sln_tag"] = p.Windows.SolutionTag
		props["mk_sdklink_cmd"] = p.Windows.LinkCommand
		props["rm_sdklink_cmd"] = p.Windows.UnlinkCommand
	case p.Unix != nil:
		props["mk_sdklink_cmd"] = p.Unix.LinkArgv
		props["rm_sdklink_cmd"] = p.Unix.UnlinkArgv
	}
	return props
}
