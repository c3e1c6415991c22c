package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bytemain/apply-versions/internal/engine"
	"github.com/bytemain/apply-versions/internal/git"
	"github.com/bytemain/apply-versions/internal/manifest"
	"github.com/bytemain/apply-versions/internal/ui"
)

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Patch, commit and tag packages to match the manifest",
		RunE:  runApply,
	}
	cmd.Flags().Bool("yes", false, "Apply without asking for confirmation")
	cmd.Flags().Bool("dry-run", false, "Show the plan without touching any file")
	cmd.Flags().StringSlice("only", nil, "Process only these package names")
	cmd.Flags().StringSlice("skip", nil, "Skip these package names")
	cmd.Flags().Bool("propagate", false, "Rewrite dependency entries of workspace siblings")
	cmd.Flags().Bool("verbose", false, "Print per-package detail")
	return cmd
}

func runApply(cmd *cobra.Command, _ []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	only, _ := cmd.Flags().GetStringSlice("only")
	skip, _ := cmd.Flags().GetStringSlice("skip")
	propagate, _ := cmd.Flags().GetBool("propagate")
	verbose, _ := cmd.Flags().GetBool("verbose")

	root, m, err := loadManifest(cmd)
	if err != nil {
		return err
	}
	pkgs := manifest.FilterByNames(m.Packages, only, skip)

	gc := git.NewClient(root)
	if !dryRun && !gc.IsRepo() {
		return fmt.Errorf("%s is not a git repository", root)
	}

	if !yes && !dryRun && !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("confirmation requires a TTY; pass --yes to apply non-interactively")
	}

	out := cmd.OutOrStdout()
	eng := engine.New(root, gc, ui.NewConsoleObserver(out, verbose), engine.Options{
		DryRun:      dryRun,
		AutoApprove: yes,
		Propagate:   propagate,
	})

	summary, err := eng.Run(pkgs, confirmPlan(cmd))
	if err != nil {
		return err
	}
	if summary.Failed > 0 || summary.Uncommitted > 0 {
		return fmt.Errorf("%d of %d package(s) did not complete cleanly",
			summary.Failed+summary.Uncommitted, len(summary.Outcomes))
	}
	return nil
}

// confirmPlan presents the computed plan and blocks on a yes/no decision.
func confirmPlan(cmd *cobra.Command) engine.ConfirmFunc {
	return func(a *engine.Analysis) (bool, error) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out)
		for _, c := range a.ToUpdate {
			line := fmt.Sprintf("  %s (%s): %s -> %s",
				c.Package.Name, c.Package.Ecosystem, c.CurrentVersion, c.Package.Version)
			if c.Tag.Create {
				line += "  [tag " + c.Tag.Name + "]"
			}
			_, _ = fmt.Fprintln(out, line)
		}
		_, _ = fmt.Fprintf(out, "\n%d package(s) will be updated, %d skipped.\n",
			len(a.ToUpdate), len(a.ToSkip))
		return promptConfirm("Apply these updates?")
	}
}

// loadManifest resolves the repository root and loads versions.yaml.
func loadManifest(cmd *cobra.Command) (string, *manifest.File, error) {
	root, _ := cmd.Flags().GetString("root")
	root, err := filepath.Abs(root)
	if err != nil {
		return "", nil, fmt.Errorf("resolving root: %w", err)
	}
	m, err := manifest.Load(filepath.Join(root, manifestName))
	if err != nil {
		return "", nil, err
	}
	return root, m, nil
}
