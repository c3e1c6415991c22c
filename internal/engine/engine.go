package engine

import (
	"github.com/bytemain/apply-versions/internal/manifest"
	"github.com/bytemain/apply-versions/internal/workspace"
)

// GitClient is the git collaborator contract the engine consumes.
type GitClient interface {
	StageAndCommit(primary string, additional []string, message string) (string, error)
	CreateTag(name string) error
	LatestTag(prefix string) (string, error)
}

// ConfirmFunc decides whether a computed plan may be executed. It blocks
// the pipeline until a decision is made; returning false aborts the run
// with zero mutations.
type ConfirmFunc func(*Analysis) (bool, error)

// Options configures a run.
type Options struct {
	// DryRun stops the pipeline after the plan is presented; no file is
	// written and no git operation is performed.
	DryRun bool
	// AutoApprove skips the confirmation gate.
	AutoApprove bool
	// Propagate rewrites dependency entries of sibling workspace members
	// when an explicitly-versioned cargo package changes.
	Propagate bool
}

// Engine orchestrates a synchronization run over one repository.
type Engine struct {
	root     string
	git      GitClient
	obs      Observer
	resolver *workspace.Resolver
	opts     Options
}

// New creates an engine rooted at the repository directory. The three
// ecosystem strategies are stateless; all per-run state lives in the
// workspace resolver cache, so an Engine is good for exactly one run.
func New(root string, gitClient GitClient, obs Observer, opts Options) *Engine {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Engine{
		root:     root,
		git:      gitClient,
		obs:      obs,
		resolver: workspace.NewResolver(),
		opts:     opts,
	}
}

// Run drives the full pipeline: analyze, confirm, execute, summarize.
// The returned summary is the terminal state regardless of per-package
// failures; only a configuration problem or a declined confirmation stops
// the run before execution.
func (e *Engine) Run(pkgs []manifest.Package, confirm ConfirmFunc) (*Summary, error) {
	analysis := e.Analyze(pkgs)

	summary := &Summary{}
	for _, o := range analysis.Failed {
		summary.add(o)
	}
	for _, c := range analysis.ToSkip {
		skipped := c
		e.obs.PackageSkipped(&skipped)
		summary.add(Outcome{
			Package:    c.Package,
			Status:     StatusSkipped,
			OldVersion: c.CurrentVersion,
			NewVersion: c.Package.Version,
		})
	}

	if len(analysis.ToUpdate) == 0 {
		e.obs.RunCompleted(summary)
		return summary, nil
	}

	if !e.opts.DryRun && !e.opts.AutoApprove {
		ok, err := confirm(analysis)
		if err != nil {
			return nil, err
		}
		if !ok {
			e.obs.RunCompleted(summary)
			return summary, nil
		}
	}

	if e.opts.DryRun {
		e.obs.RunCompleted(summary)
		return summary, nil
	}

	// Strictly sequential: each package is patched, committed and tagged
	// before the next one is touched, so every commit covers exactly one
	// package and the working tree never holds two packages' edits.
	e.obs.ExecuteStarted(len(analysis.ToUpdate))
	for i := range analysis.ToUpdate {
		c := &analysis.ToUpdate[i]
		e.obs.PackageStarted(c)
		o := e.execute(c)
		e.obs.PackageCompleted(&o)
		summary.add(o)
	}

	e.obs.RunCompleted(summary)
	return summary, nil
}

// execute processes one planned change to completion. Every error is
// absorbed into the outcome; a failure here never reaches the caller.
func (e *Engine) execute(c *Change) Outcome {
	o := Outcome{
		Package:    c.Package,
		OldVersion: c.CurrentVersion,
		NewVersion: c.Package.Version,
	}

	changed, additional, err := e.applyPatch(c)
	if err != nil {
		o.Status = StatusFailed
		o.Err = err
		return o
	}
	o.AdditionalFiles = additional
	o.Status = StatusUpdated

	if changed || len(additional) > 0 {
		commit, err := e.git.StageAndCommit(e.primaryPath(c.Package), additional, c.CommitMessage())
		if err != nil {
			// The patch stuck; only the commit failed. The working tree
			// keeps the edits so the failure is recoverable by hand.
			o.Status = StatusUncommitted
			o.Err = err
			return o
		}
		o.CommitID = commit
	}

	if c.Tag.Create {
		o.TagName = c.Tag.Name
		if err := e.git.CreateTag(c.Tag.Name); err != nil {
			// A tag failure never reverts the commit.
			o.TagErr = err
		}
	}
	return o
}
