package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytemain/apply-versions/internal/manifest"
	"github.com/bytemain/apply-versions/internal/patch"
	"github.com/bytemain/apply-versions/internal/workspace"
)

// Analysis partitions the manifest into the execution plan. Packages that
// fail analysis are excluded from the plan and reported as failed
// outcomes; they never abort analysis of the remaining packages.
type Analysis struct {
	ToUpdate []Change
	ToSkip   []Change
	Failed   []Outcome
}

// Analyze inspects every package read-only and computes the plan.
func (e *Engine) Analyze(pkgs []manifest.Package) *Analysis {
	e.obs.AnalyzeStarted(len(pkgs))

	a := &Analysis{}
	for _, p := range pkgs {
		c, err := e.analyzePackage(p)
		if err != nil {
			a.Failed = append(a.Failed, Outcome{
				Package: p,
				Status:  StatusFailed,
				Err:     err,
			})
			continue
		}
		if c.NeedsUpdate {
			a.ToUpdate = append(a.ToUpdate, *c)
		} else {
			a.ToSkip = append(a.ToSkip, *c)
		}
	}

	e.obs.AnalyzeCompleted(a)
	return a
}

// analyzePackage validates one manifest entry and reads its currently
// effective version through the ecosystem's read path.
func (e *Engine) analyzePackage(p manifest.Package) (*Change, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	path := e.primaryPath(p)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", p.ManifestPath(), err)
	}

	current, err := e.currentVersion(p, path)
	if err != nil {
		return nil, err
	}

	return &Change{
		Package:        p,
		CurrentVersion: current,
		NeedsUpdate:    current != p.Version,
		Tag:            tagDecision(p, p.Version),
	}, nil
}

func (e *Engine) currentVersion(p manifest.Package, path string) (string, error) {
	switch p.Ecosystem {
	case manifest.EcosystemNPM:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		v, err := patch.NPMVersion(data)
		if err != nil {
			return "", fmt.Errorf("%s: %w", p.ManifestPath(), err)
		}
		return v, nil

	case manifest.EcosystemGoMod:
		// go.mod carries no version number; the released version is the
		// highest tag under the module's prefix. A module with no release
		// yet reads as 0.0.0.
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		if _, err := patch.ModulePath(data); err != nil {
			return "", fmt.Errorf("%s: %w", p.ManifestPath(), err)
		}
		tag, err := e.git.LatestTag(patch.TagPrefix(p.Path))
		if err != nil {
			return "", fmt.Errorf("reading tags for %s: %w", p.Name, err)
		}
		if tag == "" {
			tag = "0.0.0"
		}
		return tag, nil

	case manifest.EcosystemCargo:
		ctx, err := e.resolver.Resolve(path)
		if err != nil {
			return "", err
		}
		return e.resolver.EffectiveVersion(ctx)
	}
	return "", fmt.Errorf("unsupported ecosystem: %q", p.Ecosystem)
}

// primaryPath returns the absolute path of the package's primary manifest.
func (e *Engine) primaryPath(p manifest.Package) string {
	return filepath.Join(e.root, filepath.FromSlash(p.ManifestPath()))
}

// ResolveSource exposes the workspace source of a cargo package for
// read-only display.
func (e *Engine) ResolveSource(p manifest.Package) (workspace.VersionSource, error) {
	ctx, err := e.resolver.Resolve(e.primaryPath(p))
	if err != nil {
		return workspace.Standalone, err
	}
	return ctx.Source, nil
}
