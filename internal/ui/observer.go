// Package ui renders engine progress and results for a terminal. It is
// the one place aware of colors and layout; the engine only emits events.
package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/bytemain/apply-versions/internal/engine"
	"github.com/bytemain/apply-versions/internal/git"
)

// ConsoleObserver prints engine events as human-readable lines. It is
// driven from the engine's single goroutine and needs no locking.
type ConsoleObserver struct {
	out     io.Writer
	total   int
	done    int
	verbose bool
}

// NewConsoleObserver creates an observer writing to out. verbose adds
// per-package start lines and skip reasons.
func NewConsoleObserver(out io.Writer, verbose bool) *ConsoleObserver {
	return &ConsoleObserver{out: out, verbose: verbose}
}

func (c *ConsoleObserver) AnalyzeStarted(total int) {
	_, _ = fmt.Fprintf(c.out, "Analyzing %d package(s)...\n", total)
}

func (c *ConsoleObserver) AnalyzeCompleted(a *engine.Analysis) {
	_, _ = fmt.Fprintf(c.out, "%d to update, %d up to date, %d failed analysis\n",
		len(a.ToUpdate), len(a.ToSkip), len(a.Failed))
	for _, o := range a.Failed {
		_, _ = fmt.Fprintf(c.out, "  %s %s: %v\n", color.RedString("✗"), o.Package.Name, o.Err)
	}
}

func (c *ConsoleObserver) ExecuteStarted(count int) {
	c.total = count
	c.done = 0
	_, _ = fmt.Fprintf(c.out, "Applying %d update(s)...\n", count)
}

func (c *ConsoleObserver) PackageStarted(ch *engine.Change) {
	if c.verbose {
		_, _ = fmt.Fprintf(c.out, "  updating %s: %s -> %s\n",
			ch.Package.Name, ch.CurrentVersion, ch.Package.Version)
	}
}

func (c *ConsoleObserver) PackageSkipped(ch *engine.Change) {
	if c.verbose {
		_, _ = fmt.Fprintf(c.out, "  %s already at %s\n", ch.Package.Name, ch.CurrentVersion)
	}
}

func (c *ConsoleObserver) PackageCompleted(o *engine.Outcome) {
	c.done++
	prefix := fmt.Sprintf("[%d/%d]", c.done, c.total)
	switch o.Status {
	case engine.StatusUpdated:
		line := fmt.Sprintf("%s %s %s: %s -> %s", prefix, color.GreenString("✓"),
			o.Package.Name, o.OldVersion, o.NewVersion)
		if o.CommitID != "" {
			line += " (" + o.CommitID + ")"
		}
		_, _ = fmt.Fprintln(c.out, line)
		c.printTagResult(o)
	case engine.StatusUncommitted:
		_, _ = fmt.Fprintf(c.out, "%s %s %s: patched but not committed: %v\n",
			prefix, color.YellowString("!"), o.Package.Name, o.Err)
	case engine.StatusFailed:
		_, _ = fmt.Fprintf(c.out, "%s %s %s: %v\n",
			prefix, color.RedString("✗"), o.Package.Name, o.Err)
	}
}

func (c *ConsoleObserver) printTagResult(o *engine.Outcome) {
	if o.TagName == "" {
		return
	}
	switch {
	case o.TagErr == nil:
		_, _ = fmt.Fprintf(c.out, "      tagged %s\n", o.TagName)
	case errors.Is(o.TagErr, git.ErrTagExists):
		_, _ = fmt.Fprintf(c.out, "      %s\n", color.YellowString("tag %s already exists", o.TagName))
	default:
		_, _ = fmt.Fprintf(c.out, "      %s\n", color.RedString("tag %s failed: %v", o.TagName, o.TagErr))
	}
}

func (c *ConsoleObserver) RunCompleted(s *engine.Summary) {
	_, _ = fmt.Fprintf(c.out, "Done: %d updated, %d skipped, %d failed", s.Updated, s.Skipped, s.Failed)
	if s.Uncommitted > 0 {
		_, _ = fmt.Fprintf(c.out, ", %d uncommitted", s.Uncommitted)
	}
	_, _ = fmt.Fprintf(c.out, " (%d commit(s), %d tag(s))\n", s.Commits, s.Tags)
}
