package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sofmeright/buildgate/src/catalog"
	"github.com/sofmeright/buildgate/src/config"
	"github.com/sofmeright/buildgate/src/gitver"
	"github.com/sofmeright/buildgate/src/matrix"
	"github.com/sofmeright/buildgate/src/output"
	"github.com/sofmeright/buildgate/src/submit"
	"github.com/spf13/cobra"
)

var (
	tryRepoFile string
	trySelect   []string
	tryAll      bool
	tryDryRun   bool
)

var tryCmd = &cobra.Command{
	Use:   "try",
	Short: "Submit try builds of the current commit",
	Long: `Submit try builds of the checked-out commit, one per target/config.

By default the required cells from the repository config are submitted.
Use --select to pick cells ("win_x64/release") or --all for every
target × available config, plus every required cell.`,
	Args: cobra.NoArgs,
	RunE: runTry,
}

func init() {
	tryCmd.Flags().StringVar(&tryRepoFile, "repo", "", "repository config (default: repo.config_file)")
	tryCmd.Flags().StringSliceVar(&trySelect, "select", nil, "cells to submit as target/config (comma-separated)")
	tryCmd.Flags().BoolVar(&tryAll, "all", false, "submit every target × available config")
	tryCmd.Flags().BoolVar(&tryDryRun, "dry-run", false, "print the submission commands without running them")

	rootCmd.AddCommand(tryCmd)
}

func runTry(cmd *cobra.Command, args []string) error {
	if err := loadEnvFile(cfg.Submit.EnvFile); err != nil {
		return err
	}

	repoFile := tryRepoFile
	if repoFile == "" {
		repoFile = cfg.Repo.ConfigFile
	}
	rc, err := config.LoadRepo(repoFile)
	if err != nil {
		return err
	}

	sel, err := submit.Grid(rc.Targets, rc.AvailableConfigs(), rc.Required).Choose(tryAll, trySelect)
	if err != nil {
		return err
	}
	if picked := sel.Picked(); len(picked) == 0 {
		return fmt.Errorf("no target/config selected")
	}

	id, err := gitver.DetectIdentity(cfg.Repo.ResolveGitDir())
	if err != nil {
		return fmt.Errorf("detecting branch and commit: %w", err)
	}

	master := cfg.Submit.Master
	if master == "" {
		master = rc.BuildbotURL
	}
	if master == "" {
		return fmt.Errorf("no CI master: set submit.master or buildbot_url in %s", repoFile)
	}
	sdkRepo := rc.SDKRepoURL
	if sdkRepo == "" {
		sdkRepo = cfg.Plan.SDKRepository
	}

	reqs := submit.Build(sel, submit.Identity{
		Branch:     id.Branch,
		Repository: id.Repository,
		HeadRef:    id.HeadRef,
		SDKRepoURL: sdkRepo,
		Batch:      uuid.NewString(),
	})
	warnUncataloged(reqs)

	runner := &submit.Runner{
		Client: submit.ClientConfig{
			Command:  cfg.Submit.Command,
			Master:   master,
			Connect:  cfg.Submit.Connect,
			Username: cfg.Submit.Username,
			Password: cfg.Submit.ResolvePassword(),
		},
		Parallel: cfg.Submit.Parallel,
		DryRun:   tryDryRun,
		Logger:   logger,
	}
	if cfg.Submit.ScanSecrets {
		guard, err := submit.NewGuard()
		if err != nil {
			return err
		}
		runner.Guard = guard
	}

	logger.Debug("submitting try builds", "branch", id.Branch, "ref", id.HeadRef, "master", master, "count", len(reqs))
	outcomes := runner.Run(cmd.Context(), reqs)

	w := os.Stdout
	output.SectionStart(w, "bg_try", "Try")
	output.NewPrinter(cfg.Output.Color).Outcomes(outcomes, tryDryRun)
	output.SectionEnd(w, "bg_try")

	if verbose {
		for _, o := range outcomes {
			if len(o.Output) > 0 {
				fmt.Fprintf(os.Stderr, "── %s ──\n%s\n", o.Request.Cell.Label(), o.Output)
			}
		}
	}

	if n := submit.Failed(outcomes); n > 0 {
		return fmt.Errorf("%d of %d submissions failed", n, len(outcomes))
	}
	return nil
}

// warnUncataloged reports selected targets no builder knows how to plan.
func warnUncataloged(reqs []submit.Request) {
	cat, err := catalog.LoadFile(cfg.Plan.CatalogFile)
	if err != nil {
		logger.Warn("catalog not loaded", "err", err)
		return
	}
	var picked matrix.Matrix
	for _, r := range reqs {
		picked = append(picked, matrix.Row{Target: r.Cell.Target, Configs: []string{r.Cell.Config}})
	}
	if err := cat.Check(picked); err != nil {
		logger.Warn("selection names targets outside the catalog", "err", err)
	}
}

// loadEnvFile loads path into the environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
