// Package hook is the push-gate boundary: it checks the pushed branch,
// loads the required matrix, fetches the build history once and evaluates
// the gate.
package hook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/sofmeright/buildgate/src/gate"
	"github.com/sofmeright/buildgate/src/matrix"
)

// ErrUnknownBranch rejects pushes to branches that do not already exist.
var ErrUnknownBranch = errors.New("unknown branch")

// ExitFatal is the exit code for pushes rejected before or instead of a
// gate evaluation.
const ExitFatal = 1

// BuildSource supplies the CI backend's build history.
type BuildSource interface {
	Builds(ctx context.Context) ([]gate.BuildRecord, error)
}

// Push is the argument triple git passes to an update hook.
type Push struct {
	Branch string
	OldRef string // unused
	NewRef string
}

// ParsePush reads the hook's positional arguments. A fully qualified ref
// ("refs/heads/main") is reduced to its branch name.
func ParsePush(args []string) (Push, error) {
	if len(args) != 3 {
		return Push{}, fmt.Errorf("hook: expected <branch> <oldref> <newref>, got %d arguments", len(args))
	}
	return Push{
		Branch: strings.TrimPrefix(args[0], "refs/heads/"),
		OldRef: args[1],
		NewRef: args[2],
	}, nil
}

// Checker evaluates pushes.
type Checker struct {
	// Heads lists the branches pushes may target.
	Heads func() ([]string, error)
	// Required loads the required matrix. Called before any fetch.
	Required func() (matrix.Matrix, error)
	Source   BuildSource
	Logger   *slog.Logger
}

func (c *Checker) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Check rejects pushes to unknown branches, then evaluates the gate for
// the pushed commit.
func (c *Checker) Check(ctx context.Context, push Push) (gate.Verdict, error) {
	heads, err := c.Heads()
	if err != nil {
		return gate.Verdict{}, fmt.Errorf("hook: reading local heads: %w", err)
	}
	if !slices.Contains(heads, push.Branch) {
		return gate.Verdict{}, fmt.Errorf("%w %q: it is only possible to push to the following heads: %s",
			ErrUnknownBranch, push.Branch, strings.Join(heads, ","))
	}
	return c.Evaluate(ctx, push.Branch, push.NewRef)
}

// Evaluate runs the gate for ref on branch without the heads check.
func (c *Checker) Evaluate(ctx context.Context, branch, ref string) (gate.Verdict, error) {
	required, err := c.Required()
	if err != nil {
		return gate.Verdict{}, err
	}

	records, err := c.Source.Builds(ctx)
	if err != nil {
		return gate.Verdict{}, err
	}
	relevant := gate.Filter(records, branch, ref)
	c.logger().Debug("fetched builds", "total", len(records), "relevant", len(relevant), "branch", branch, "ref", ref)

	v := gate.Evaluate(required, relevant)
	c.logger().Debug("gate evaluated", "cells", len(v.Cells), "failing", len(v.Failing))
	return v, nil
}

// ExitCode maps a check's result to the hook's exit status: the failing
// cell count on a verdict, ExitFatal on any error.
func ExitCode(v gate.Verdict, err error) int {
	if err != nil {
		return ExitFatal
	}
	return v.ExitCode()
}
