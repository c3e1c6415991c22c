package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/bytemain/apply-versions/internal/engine"
	"github.com/bytemain/apply-versions/internal/git"
	"github.com/bytemain/apply-versions/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show current versus target versions",
		RunE:  runStatus,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

type packageStatus struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
	Path      string `json:"path"`
	Current   string `json:"current,omitempty"`
	Target    string `json:"target"`
	State     string `json:"state"`
	Tag       string `json:"tag,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	root, m, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	eng := engine.New(root, git.NewClient(root), engine.NopObserver{}, engine.Options{})
	analysis := eng.Analyze(m.Packages)

	var statuses []packageStatus
	for _, c := range analysis.ToUpdate {
		statuses = append(statuses, changeStatus(c, "pending"))
	}
	for _, c := range analysis.ToSkip {
		statuses = append(statuses, changeStatus(c, "up to date"))
	}
	for _, o := range analysis.Failed {
		statuses = append(statuses, packageStatus{
			Name:      o.Package.Name,
			Ecosystem: string(o.Package.Ecosystem),
			Path:      o.Package.Path,
			Target:    o.Package.Version,
			State:     "error: " + o.Err.Error(),
		})
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	tbl := ui.NewTable(out, "PACKAGE", "ECOSYSTEM", "PATH", "CURRENT", "TARGET", "STATE", "TAG")
	for _, s := range statuses {
		tbl.Row(s.Name, s.Ecosystem, s.Path, s.Current, s.Target, s.State, s.Tag)
	}
	return tbl.Flush()
}

func changeStatus(c engine.Change, state string) packageStatus {
	s := packageStatus{
		Name:      c.Package.Name,
		Ecosystem: string(c.Package.Ecosystem),
		Path:      c.Package.Path,
		Current:   c.CurrentVersion,
		Target:    c.Package.Version,
		State:     state,
	}
	if c.Tag.Create {
		s.Tag = c.Tag.Name
	}
	return s
}
