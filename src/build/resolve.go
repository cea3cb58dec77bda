// Package build resolves an abstract target/config request into the concrete
// toolchain properties and executor steps for one build.
package build

import (
	"fmt"
	"strings"

	"github.com/sofmeright/buildgate/src/catalog"
)

const (
	// DefaultProject is used when a request carries no project. Submissions
	// do not always propagate the project property, so its absence is
	// expected and not an error.
	DefaultProject = "CRYENGINE"

	// DefaultRepositoryPattern yields the project's repository URL.
	DefaultRepositoryPattern = "git@github.com:CRYTEK-CRYENGINE/{project}.git"

	// DefaultSDKRepository is the SDK dependency repository.
	DefaultSDKRepository = "git@gitlab.com:patsytau/ce_sdks.git"
)

// Resolver expands target/config requests against a target catalog.
type Resolver struct {
	Catalog           *catalog.Catalog
	DefaultProject    string
	RepositoryPattern string
	SDKRepository     string
}

// NewResolver creates a resolver with the built-in defaults.
func NewResolver(cat *catalog.Catalog) *Resolver {
	return &Resolver{
		Catalog:           cat,
		DefaultProject:    DefaultProject,
		RepositoryPattern: DefaultRepositoryPattern,
		SDKRepository:     DefaultSDKRepository,
	}
}

// Resolve builds the plan for target and config. An empty project selects
// the resolver's default project. Unknown targets return an error wrapping
// catalog.ErrUnknownTarget.
func (r *Resolver) Resolve(target, config, project string) (*BuildPlan, error) {
	spec, err := r.Catalog.Lookup(target)
	if err != nil {
		return nil, fmt.Errorf("build: resolving %s/%s: %w", target, config, err)
	}
	if config == "" {
		return nil, fmt.Errorf("build: resolving %s: config is required", target)
	}

	plan := &BuildPlan{
		Project:       project,
		SDKRepository: r.SDKRepository,
		Target:        target,
		Config:        config,
		Generator:     spec.Generator,
		ToolchainPath: spec.ToolchainPath,
	}
	if plan.Project == "" {
		plan.Project = r.DefaultProject
		plan.ProjectDefaulted = true
	}
	if plan.SDKRepository == "" {
		plan.SDKRepository = DefaultSDKRepository
	}
	plan.Repository = expand(r.RepositoryPattern, plan.Project)

	link := expandArgs(spec.LinkCommand, plan.Project)
	unlink := expandArgs(spec.UnlinkCommand, plan.Project)

	switch spec.Family {
	case catalog.Windows:
		plan.Windows = &WindowsFields{
			VSPlatform:    spec.VSPlatform,
			SolutionTag:   spec.SolutionTag,
			LinkCommand:   strings.Join(link, " "),
			UnlinkCommand: strings.Join(unlink, " "),
		}
	case catalog.Linux:
		plan.Unix = &UnixFields{
			LinkArgv:   link,
			UnlinkArgv: unlink,
		}
	default:
		return nil, fmt.Errorf("build: target %s has unknown family %q", target, spec.Family)
	}

	return plan, nil
}
