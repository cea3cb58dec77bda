package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sofmeright/buildgate/src/badge"
	"github.com/sofmeright/buildgate/src/buildbot"
	"github.com/sofmeright/buildgate/src/config"
	"github.com/sofmeright/buildgate/src/gate"
	"github.com/sofmeright/buildgate/src/gitver"
	"github.com/sofmeright/buildgate/src/hook"
	"github.com/sofmeright/buildgate/src/matrix"
	"github.com/sofmeright/buildgate/src/output"
	"github.com/sofmeright/buildgate/src/version"
	"github.com/spf13/cobra"
)

var (
	gateBranch string
	gateRef    string
	gateBadge  string
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Evaluate the gate for a branch and commit",
	Long: `Evaluate the gate for a branch and commit without the push hook's
branch check. Branch and commit default to the checked-out HEAD.

Exits 0 when every required build succeeded, otherwise with the number of
failing target/config cells.`,
	Args: cobra.NoArgs,
	RunE: runGate,
}

func init() {
	gateCmd.Flags().StringVar(&gateBranch, "branch", "", "branch to evaluate (default: current branch)")
	gateCmd.Flags().StringVar(&gateRef, "ref", "", "commit to evaluate (default: HEAD)")
	gateCmd.Flags().StringVar(&gateBadge, "badge", "", "write an SVG verdict badge to this path (default: output.badge)")

	rootCmd.AddCommand(gateCmd)
}

func runGate(cmd *cobra.Command, args []string) error {
	gitDir := cfg.Repo.ResolveGitDir()
	if gateBranch == "" || gateRef == "" {
		id, err := gitver.DetectIdentity(gitDir)
		if err != nil {
			return fmt.Errorf("detecting branch and commit: %w", err)
		}
		if gateBranch == "" {
			gateBranch = id.Branch
		}
		if gateRef == "" {
			gateRef = id.HeadRef
		}
	}

	output.CIHeader(os.Stdout)
	logger.Debug("evaluating gate", "branch", gateBranch, "ref", shortRef(gateRef), "backend", cfg.Backend.URL)

	start := time.Now()
	v, err := newChecker(gitDir).Evaluate(cmd.Context(), gateBranch, gateRef)
	return reportVerdict(v, err, time.Since(start), gateBadge)
}

// newChecker wires the gate to the configured repository and backend.
func newChecker(gitDir string) *hook.Checker {
	return &hook.Checker{
		Heads: func() ([]string, error) {
			return gitver.LocalHeads(gitDir)
		},
		Required: func() (matrix.Matrix, error) {
			rc, err := config.LoadRepo(cfg.Repo.ConfigFile)
			if err != nil {
				return nil, err
			}
			if err := rc.CheckVersion(version.Version); err != nil {
				return nil, err
			}
			logger.Debug("required matrix loaded", "file", cfg.Repo.ConfigFile, "cells", rc.Required.Len())
			return rc.Required, nil
		},
		Source: buildbot.New(cfg.Backend.URL, cfg.Backend.Timeout),
		Logger: logger,
	}
}

// reportVerdict prints the verdict, writes the CI report and badge, and
// turns the outcome into the process exit status.
func reportVerdict(v gate.Verdict, err error, elapsed time.Duration, badgePath string) error {
	if err != nil {
		return &ExitError{Code: hook.ExitCode(v, err), Err: err}
	}

	w := os.Stdout
	output.SectionStart(w, "bg_gate", "Gate")
	output.NewPrinter(cfg.Output.Color).Verdict(v, elapsed)
	output.SectionEnd(w, "bg_gate")

	if output.IsCI() {
		if jErr := output.WriteGateJUnit(cfg.Output.JUnitDir, v, elapsed); jErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write junit report: %v\n", jErr)
		}
	}

	if badgePath == "" {
		badgePath = cfg.Output.Badge
	}
	if badgePath != "" {
		if bErr := writeBadge(badgePath, v); bErr != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", bErr)
		}
	}

	if !v.Accept() {
		return &ExitError{Code: v.ExitCode()}
	}
	return nil
}

func writeBadge(path string, v gate.Verdict) error {
	metrics, err := badge.LoadDefaultFont()
	if err != nil {
		return err
	}
	return badge.New(metrics).WriteFile(path, badge.ForVerdict(v))
}

func shortRef(ref string) string {
	if len(ref) > 12 {
		return ref[:12]
	}
	return ref
}
