package main

import (
	"github.com/spf13/cobra"
)

// manifestName is the manifest file expected at the repository root.
const manifestName = "versions.yaml"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apply-versions",
		Short:   "Synchronize package versions across a polyglot monorepo",
		Version: version,
	}

	cmd.PersistentFlags().String("root", ".", "Repository root containing versions.yaml")

	cmd.AddCommand(
		newInitCmd(),
		newApplyCmd(),
		newPlanCmd(),
		newStatusCmd(),
		newDoctorCmd(),
	)

	return cmd
}
