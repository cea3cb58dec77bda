package submit

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ExecFunc runs the submission client and returns its combined output.
type ExecFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Outcome is the result of one request.
type Outcome struct {
	Request Request
	Args    []string
	Output  []byte
	Err     error
	Skipped bool // not submitted: unsupported, invalid or rejected by the guard
}

// Runner submits requests, one client process each, in parallel.
type Runner struct {
	Client   ClientConfig
	Parallel int
	Guard    *Guard // nil disables the secret scan
	DryRun   bool
	Exec     ExecFunc
	Logger   *slog.Logger
}

func commandOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Run attempts every request and returns one outcome per request, in
// request order. Invalid requests are skipped before anything is started.
func (r *Runner) Run(ctx context.Context, reqs []Request) []Outcome {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	run := r.Exec
	if run == nil {
		run = commandOutput
	}

	outcomes := make([]Outcome, len(reqs))
	for i, req := range reqs {
		outcomes[i] = Outcome{Request: req, Args: req.Args(r.Client)}
		if err := req.Validate(); err != nil {
			outcomes[i].Err = err
			outcomes[i].Skipped = true
			continue
		}
		if r.Guard != nil {
			if err := r.Guard.Check(req); err != nil {
				outcomes[i].Err = err
				outcomes[i].Skipped = true
			}
		}
	}

	if r.DryRun {
		return outcomes
	}

	var g errgroup.Group
	if r.Parallel > 0 {
		g.SetLimit(r.Parallel)
	}
	for i := range outcomes {
		if outcomes[i].Skipped {
			continue
		}
		o := &outcomes[i]
		g.Go(func() error {
			logger.Debug("submitting", "cell", o.Request.Cell.Label(), "builder", o.Request.Builder,
				"cmd", r.Client.Command+" "+strings.Join(redact(o.Args), " "))
			o.Output, o.Err = run(ctx, r.Client.Command, o.Args...)
			if o.Err != nil {
				logger.Debug("submission failed", "cell", o.Request.Cell.Label(), "err", o.Err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// Failed counts outcomes that did not submit successfully.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// redact hides the password argument for display.
func redact(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if strings.HasPrefix(a, "--passwd=") {
			a = "--passwd=****"
		}
		out[i] = a
	}
	return out
}

// Redacted returns the outcome's argument vector with the password hidden.
func (o Outcome) Redacted() []string { return redact(o.Args) }
