package cmd

import (
	"time"

	"github.com/sofmeright/buildgate/src/hook"
	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:   "hook <branch> <oldref> <newref>",
	Short: "Gate a push from a git update hook",
	Long: `Gate a push from a git update hook.

Install as hooks/update in the hosting repository:

    #!/bin/sh
    exec buildgate hook "$@"

Pushes to branches that do not exist yet are rejected with exit status 1.
Otherwise the hook exits with the number of required target/config builds
of the pushed commit that did not succeed.`,
	Args: cobra.ExactArgs(3),
	RunE: runHook,
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, args []string) error {
	push, err := hook.ParsePush(args)
	if err != nil {
		return err
	}
	logger.Debug("push", "branch", push.Branch, "newref", push.NewRef)

	start := time.Now()
	v, err := newChecker(cfg.Repo.ResolveGitDir()).Check(cmd.Context(), push)
	return reportVerdict(v, err, time.Since(start), "")
}
