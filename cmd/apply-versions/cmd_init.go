package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bytemain/apply-versions/internal/git"
	"github.com/bytemain/apply-versions/internal/manifest"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Discover packages and create a versions.yaml manifest",
		Args:  cobra.ExactArgs(1),
		RunE:  runInit,
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing manifest")
	cmd.Flags().Bool("all", false, "Track every discovered package without asking")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	name := args[0]
	force, _ := cmd.Flags().GetBool("force")
	all, _ := cmd.Flags().GetBool("all")

	root, _ := cmd.Flags().GetString("root")
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	manifestPath := filepath.Join(root, manifestName)
	if _, err := os.Stat(manifestPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", manifestName)
	}

	discovered, err := discoverPackages(root, git.NewClient(root))
	if err != nil {
		return err
	}
	if len(discovered) == 0 {
		return fmt.Errorf("no package manifests found under %s", root)
	}

	interactive := !all && term.IsTerminal(int(os.Stdin.Fd()))
	if !all && !interactive {
		return fmt.Errorf("interactive init requires a TTY; use --all to track every discovered package")
	}

	var pkgs []manifest.Package
	for _, p := range discovered {
		if interactive {
			keep, err := promptConfirm(fmt.Sprintf("Track %s (%s at %s)?", p.Name, p.Ecosystem, p.Path))
			if err != nil {
				return err
			}
			if !keep {
				continue
			}
		}
		if p.Version == "" {
			p.Version, err = askVersion(p, interactive)
			if err != nil {
				return err
			}
		}
		pkgs = append(pkgs, p)
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("no packages selected")
	}

	m := &manifest.File{Version: 1, Name: name, Packages: pkgs}
	if err := manifest.Save(manifestPath, m); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s with %d package(s).\n", manifestPath, len(pkgs))
	return nil
}

// askVersion obtains a starting version for a package whose manifest
// carries none, prompting when a terminal is available.
func askVersion(p manifest.Package, interactive bool) (string, error) {
	if !interactive {
		return "0.1.0", nil
	}
	return promptInput(
		fmt.Sprintf("Version for %s", p.Name),
		"0.1.0",
		func(s string) error {
			_, err := semver.StrictNewVersion(s)
			return err
		},
	)
}
