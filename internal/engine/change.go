package engine

import (
	"fmt"

	"github.com/bytemain/apply-versions/internal/manifest"
	"github.com/bytemain/apply-versions/internal/patch"
)

// TagDecision states whether a tag is created for a package and under
// what name. It is a pure function of the package's ecosystem and flags,
// independent of any other package.
type TagDecision struct {
	Create bool
	Name   string
}

// Change is the analyzer's verdict for one package: the version currently
// in force, whether it differs from the manifest target, and the tag
// decision. Changes are produced once per run and never mutated.
type Change struct {
	Package        manifest.Package
	CurrentVersion string
	NeedsUpdate    bool
	Tag            TagDecision
}

// tagDecision computes the tag decision for a package at targetVersion.
// npm packages tag only when asked to; gomod and cargo packages tag
// unless disabled. Nested go modules carry their path as a tag prefix.
func tagDecision(p manifest.Package, targetVersion string) TagDecision {
	if !p.TagEnabled() {
		return TagDecision{}
	}
	name := "v" + targetVersion
	if p.Ecosystem == manifest.EcosystemGoMod {
		name = patch.TagPrefix(p.Path) + name
	}
	return TagDecision{Create: true, Name: name}
}

// CommitMessage renders the deterministic commit message for a change.
func (c *Change) CommitMessage() string {
	return fmt.Sprintf(
		"release: %s v%s\n\nEcosystem: %s\nPath: %s\nPrevious version: %s\nNew version: %s\n",
		c.Package.Name, c.Package.Version,
		c.Package.Ecosystem, c.Package.Path,
		c.CurrentVersion, c.Package.Version,
	)
}
