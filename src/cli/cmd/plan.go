package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sofmeright/buildgate/src/build"
	"github.com/sofmeright/buildgate/src/catalog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	planTarget  string
	planConfig  string
	planProject string
	planBranch  string
	planSDKRepo string
	planJSON    bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Resolve a target/config into build properties and steps",
	Long: `Resolve a target/config into the toolchain properties and executor
steps a builder runs for it. Prints YAML unless --json is given.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planTarget, "target", "", "build target (required)")
	planCmd.Flags().StringVar(&planConfig, "config-name", "", "build configuration, e.g. release (required)")
	planCmd.Flags().StringVar(&planProject, "project", "", "project name (default: plan.default_project)")
	planCmd.Flags().StringVar(&planBranch, "branch", "main", "branch the code checkout steps use")
	planCmd.Flags().StringVar(&planSDKRepo, "sdk-repo", "", "SDK repository (default: plan.sdk_repository)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "print JSON instead of YAML")
	_ = planCmd.MarkFlagRequired("target")
	_ = planCmd.MarkFlagRequired("config-name")

	rootCmd.AddCommand(planCmd)
}

// planDocument is what plan prints.
type planDocument struct {
	Plan       *build.BuildPlan  `yaml:"plan" json:"plan"`
	Properties map[string]any    `yaml:"properties" json:"properties"`
	Steps      []build.BuildStep `yaml:"steps" json:"steps"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	resolver, err := newResolver()
	if err != nil {
		return err
	}
	if planSDKRepo != "" {
		resolver.SDKRepository = planSDKRepo
	}

	plan, err := resolver.Resolve(planTarget, planConfig, planProject)
	if err != nil {
		return err
	}
	if plan.ProjectDefaulted {
		logger.Debug("no project given, using default", "project", plan.Project)
	}

	doc := planDocument{
		Plan:       plan,
		Properties: plan.Properties(),
		Steps:      plan.Steps(planBranch),
	}

	if planJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	return enc.Close()
}

// newResolver builds a resolver from the configured catalog and defaults.
func newResolver() (*build.Resolver, error) {
	cat, err := catalog.LoadFile(cfg.Plan.CatalogFile)
	if err != nil {
		return nil, err
	}
	r := build.NewResolver(cat)
	r.DefaultProject = cfg.Plan.DefaultProject
	r.RepositoryPattern = cfg.Plan.RepositoryPattern
	r.SDKRepository = cfg.Plan.SDKRepository
	return r, nil
}
