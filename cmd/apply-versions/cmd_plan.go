package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bytemain/apply-versions/internal/engine"
	"github.com/bytemain/apply-versions/internal/git"
	"github.com/bytemain/apply-versions/internal/manifest"
	"github.com/bytemain/apply-versions/internal/ui"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show pending version updates and their diffs without writing",
		RunE:  runPlan,
	}
	cmd.Flags().StringSlice("only", nil, "Plan only these package names")
	cmd.Flags().StringSlice("skip", nil, "Skip these package names")
	cmd.Flags().Bool("no-diff", false, "List pending updates without file diffs")
	return cmd
}

func runPlan(cmd *cobra.Command, _ []string) error {
	only, _ := cmd.Flags().GetStringSlice("only")
	skip, _ := cmd.Flags().GetStringSlice("skip")
	noDiff, _ := cmd.Flags().GetBool("no-diff")

	root, m, err := loadManifest(cmd)
	if err != nil {
		return err
	}
	pkgs := manifest.FilterByNames(m.Packages, only, skip)

	out := cmd.OutOrStdout()
	eng := engine.New(root, git.NewClient(root), ui.NewConsoleObserver(out, false), engine.Options{})
	analysis := eng.Analyze(pkgs)

	if len(analysis.ToUpdate) == 0 {
		_, _ = fmt.Fprintln(out, "Nothing to update.")
		return nil
	}

	for i := range analysis.ToUpdate {
		c := &analysis.ToUpdate[i]
		_, _ = fmt.Fprintf(out, "\n%s (%s): %s -> %s\n",
			c.Package.Name, c.Package.Ecosystem, c.CurrentVersion, c.Package.Version)
		if c.Tag.Create {
			_, _ = fmt.Fprintf(out, "  tag: %s\n", c.Tag.Name)
		}
		if noDiff {
			continue
		}
		preview, err := eng.PreviewPatch(c)
		if err != nil {
			_, _ = fmt.Fprintf(out, "  preview unavailable: %v\n", err)
			continue
		}
		if preview.Before == preview.After {
			_, _ = fmt.Fprintln(out, "  no file changes (tag only)")
			continue
		}
		ui.PrintDiff(out, preview.Path, preview.Before, preview.After)
	}
	return nil
}
