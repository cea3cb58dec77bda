package build

import "fmt"

// StepKind names the executor primitive a step maps to.
type StepKind string

const (
	StepShell   StepKind = "shell"
	StepGit     StepKind = "git"
	StepCMake   StepKind = "cmake"
	StepMSBuild StepKind = "msbuild"
)

// gitTimeoutSeconds bounds checkouts of the large source and SDK repositories.
const gitTimeoutSeconds = 3600

// BuildStep is a single executor step.
type BuildStep struct {
	Name    string   `yaml:"name" json:"name"`
	Kind    StepKind `yaml:"kind" json:"kind"`
	WorkDir string   `yaml:"workdir,omitempty" json:"workdir,omitempty"`

	// shell: exactly one of Shell (cmd.exe string) or Command (argv).
	Shell   string   `yaml:"shell,omitempty" json:"shell,omitempty"`
	Command []string `yaml:"command,omitempty" json:"command,omitempty"`

	// git
	Repository      string `yaml:"repository,omitempty" json:"repository,omitempty"`
	Branch          string `yaml:"branch,omitempty" json:"branch,omitempty"`
	AlwaysUseLatest bool   `yaml:"always_use_latest,omitempty" json:"always_use_latest,omitempty"`
	TimeoutSeconds  int    `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
}

// Steps lists the executor steps for the plan, checking out branch.
//
// The SDK link is removed before the checkout so the source update never
// follows it into the SDK tree, and recreated afterwards.
func (p *BuildPlan) Steps(branch string) []BuildStep {
	var steps []BuildStep

	steps = append(steps, p.sdkLinkStep("unlink dependencies", false))
	steps = append(steps,
		BuildStep{
			Name:           "get code",
			Kind:           StepGit,
			WorkDir:        p.SourceDir(),
			Repository:     p.Repository,
			Branch:         branch,
			TimeoutSeconds: gitTimeoutSeconds,
		},
		BuildStep{
			Name:            "get dependencies",
			Kind:            StepGit,
			WorkDir:         "build/" + sdkDir,
			Repository:      p.SDKRepository,
			Branch:          branch,
			AlwaysUseLatest: true,
			TimeoutSeconds:  gitTimeoutSeconds,
		},
	)
	steps = append(steps, p.sdkLinkStep("link dependencies", true))
	steps = append(steps, p.configureStep(), p.compileStep())
	return steps
}

// sdkDir is the SDK checkout directory, relative to build/.
const sdkDir = "ce_sdks"

func (p *BuildPlan) sdkLinkStep(name string, link bool) BuildStep {
	step := BuildStep{Name: name, Kind: StepShell}
	switch {
	case p.Windows != nil && link:
		step.Shell = p.Windows.LinkCommand
	case p.Windows != nil:
		step.Shell = p.Windows.UnlinkCommand
	case p.Unix != nil && link:
		step.Command = p.Unix.LinkArgv
	case p.Unix != nil:
		step.Command = p.Unix.UnlinkArgv
	}
	return step
}

func (p *BuildPlan) configureStep() BuildStep {
	cmd := []string{"cmake", "../" + p.Project, "-G", p.Generator}
	if p.ToolchainPath != "" {
		cmd = append(cmd, "-DCMAKE_TOOLCHAIN_FILE="+p.ToolchainPath)
	}
	return BuildStep{
		Name:    "configure",
		Kind:    StepCMake,
		WorkDir: p.WorkDir(),
		Command: cmd,
	}
}

func (p *BuildPlan) compileStep() BuildStep {
	if p.Windows != nil {
		return BuildStep{
			Name:    "compile",
			Kind:    StepMSBuild,
			WorkDir: p.WorkDir(),
			Command: []string{
				"msbuild",
				fmt.Sprintf("CryEngine_CMake_%s.sln", p.Windows.SolutionTag),
				"/p:Configuration=" + p.Config,
				"/p:Platform=" + p.Windows.VSPlatform,
			},
		}
	}
	return BuildStep{
		Name:    "compile",
		Kind:    StepShell,
		WorkDir: p.WorkDir(),
		Command: []string{"cmake", "--build", ".", "--config", p.Config},
	}
}
