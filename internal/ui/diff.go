package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/fatih/color"
)

// maxDiffLines caps how many diff lines are shown per file in a plan
// preview.
const maxDiffLines = 40

// PrintDiff writes a unified diff of one pending file edit, colorized and
// truncated for terminal display.
func PrintDiff(out io.Writer, path string, before, after string) {
	diff := strings.TrimSpace(udiff.Unified(path, path+" (new)", before, after))
	if diff == "" {
		return
	}
	lines := strings.Split(diff, "\n")
	truncated := false
	if len(lines) > maxDiffLines {
		lines = lines[:maxDiffLines]
		truncated = true
	}
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			_, _ = fmt.Fprintln(out, color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			_, _ = fmt.Fprintln(out, color.RedString("%s", line))
		default:
			_, _ = fmt.Fprintln(out, line)
		}
	}
	if truncated {
		_, _ = fmt.Fprintf(out, "... diff truncated at %d lines\n", maxDiffLines)
	}
}
