package manifest

import (
	"fmt"
	"path"

	"github.com/Masterminds/semver/v3"
)

// Ecosystem identifies the package manager a manifest entry belongs to.
type Ecosystem string

const (
	EcosystemNPM   Ecosystem = "npm"
	EcosystemGoMod Ecosystem = "gomod"
	EcosystemCargo Ecosystem = "cargo"
)

// ParseEcosystem parses an ecosystem string from the manifest.
func ParseEcosystem(s string) (Ecosystem, error) {
	switch Ecosystem(s) {
	case EcosystemNPM:
		return EcosystemNPM, nil
	case EcosystemGoMod:
		return EcosystemGoMod, nil
	case EcosystemCargo:
		return EcosystemCargo, nil
	default:
		return "", fmt.Errorf("unsupported ecosystem: %q (must be npm, gomod, or cargo)", s)
	}
}

// File represents the top-level versions.yaml manifest.
type File struct {
	Version  int       `yaml:"version"`
	Name     string    `yaml:"name"`
	Packages []Package `yaml:"packages"`
}

// Package represents a single package entry in the manifest.
type Package struct {
	Name      string    `yaml:"name"`
	Path      string    `yaml:"path"`
	Ecosystem Ecosystem `yaml:"ecosystem"`
	Version   string    `yaml:"version"`
	Tag       *bool     `yaml:"tag,omitempty"`
	Propagate bool      `yaml:"propagate,omitempty"`
}

// ManifestFile returns the file name of the package's primary manifest.
func (p *Package) ManifestFile() string {
	switch p.Ecosystem {
	case EcosystemNPM:
		return "package.json"
	case EcosystemGoMod:
		return "go.mod"
	case EcosystemCargo:
		return "Cargo.toml"
	default:
		return ""
	}
}

// ManifestPath returns the workspace-relative path of the primary manifest.
func (p *Package) ManifestPath() string {
	return path.Join(p.Path, p.ManifestFile())
}

// TagEnabled reports whether a tag should be created for this package,
// falling back to the ecosystem default: npm tags are opt-in, gomod and
// cargo tags are opt-out.
func (p *Package) TagEnabled() bool {
	if p.Tag != nil {
		return *p.Tag
	}
	return p.Ecosystem != EcosystemNPM
}

// Validate checks the fields of a single package entry. Entry-level
// problems isolate that entry during analysis instead of failing the run.
func (p *Package) Validate() error {
	if _, err := ParseEcosystem(string(p.Ecosystem)); err != nil {
		return err
	}
	if p.Version == "" {
		return fmt.Errorf("package %s: version is required", p.Name)
	}
	if _, err := semver.StrictNewVersion(p.Version); err != nil {
		return fmt.Errorf("package %s: invalid version %q: %w", p.Name, p.Version, err)
	}
	return nil
}
