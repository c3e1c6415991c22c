package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bytemain/apply-versions/internal/git"
	"github.com/bytemain/apply-versions/internal/manifest"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment and manifest for common issues",
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ok := true

	// Check git.
	_, _ = fmt.Fprint(out, "Checking git... ")
	gitPath, err := exec.LookPath("git")
	if err != nil {
		_, _ = fmt.Fprintln(out, "NOT FOUND")
		_, _ = fmt.Fprintln(out, "  git is required. Install it from https://git-scm.com/")
		ok = false
	} else {
		_, _ = fmt.Fprintf(out, "found at %s\n", gitPath)
		if verOut, verr := exec.Command("git", "version").Output(); verr == nil {
			_, _ = fmt.Fprintf(out, "Checking git version... %s\n", strings.TrimSpace(string(verOut)))
		}
	}

	root, m, err := loadManifest(cmd)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Checking manifest... FAILED: %v\n", err)
		return fmt.Errorf("doctor checks failed")
	}
	_, _ = fmt.Fprintf(out, "Manifest: %s (%d packages)\n", m.Name, len(m.Packages))

	// Check repository.
	_, _ = fmt.Fprint(out, "Checking repository... ")
	if git.NewClient(root).IsRepo() {
		_, _ = fmt.Fprintln(out, "OK")
	} else {
		_, _ = fmt.Fprintln(out, "not a git repository (apply will refuse to run)")
		ok = false
	}

	// Check each package entry.
	for _, p := range m.Packages {
		_, _ = fmt.Fprintf(out, "  Checking %s (%s)... ", p.Name, p.ManifestPath())
		if err := checkPackage(root, p); err != nil {
			_, _ = fmt.Fprintf(out, "FAILED: %v\n", err)
			ok = false
			continue
		}
		_, _ = fmt.Fprintln(out, "OK")
	}

	if ok {
		_, _ = fmt.Fprintln(out, "\nAll checks passed.")
		return nil
	}
	_, _ = fmt.Fprintln(out, "\nSome checks failed. See above for details.")
	return fmt.Errorf("doctor checks failed")
}

func checkPackage(root string, p manifest.Package) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(p.ManifestPath()))); err != nil {
		return fmt.Errorf("manifest file missing")
	}
	return nil
}
