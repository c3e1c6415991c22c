package engine

import "github.com/bytemain/apply-versions/internal/manifest"

// Status classifies how one package fared during the run.
type Status int

const (
	// StatusSkipped means the package was already at the target version.
	StatusSkipped Status = iota
	// StatusUpdated means the package was patched and committed (and
	// tagged when requested; a tag failure is carried in TagErr without
	// demoting the status).
	StatusUpdated
	// StatusUncommitted means files were patched but the commit failed.
	// The edits remain in the working tree.
	StatusUncommitted
	// StatusFailed means analysis or patching failed and no file was
	// committed for this package.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusUncommitted:
		return "updated (not committed)"
	case StatusFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Outcome records the result of processing one package.
type Outcome struct {
	Package         manifest.Package
	Status          Status
	OldVersion      string
	NewVersion      string
	AdditionalFiles []string
	CommitID        string
	TagName         string
	TagErr          error
	Err             error
}

// Summary aggregates per-package outcomes; written once at the end of a
// run. Partial success is a valid terminal state: Failed counts exactly
// the packages whose own processing failed.
type Summary struct {
	Updated     int
	Skipped     int
	Failed      int
	Uncommitted int
	Commits     int
	Tags        int
	Outcomes    []Outcome
}

func (s *Summary) add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case StatusUpdated:
		s.Updated++
		if o.CommitID != "" {
			s.Commits++
		}
		if o.TagName != "" && o.TagErr == nil {
			s.Tags++
		}
	case StatusUncommitted:
		s.Uncommitted++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
}
