package engine

import (
	"fmt"
	"os"

	"github.com/bytemain/apply-versions/internal/manifest"
	"github.com/bytemain/apply-versions/internal/patch"
	"github.com/bytemain/apply-versions/internal/workspace"
)

// FilePreview is one pending file edit, rendered without touching disk.
type FilePreview struct {
	Path   string
	Before string
	After  string
}

// PreviewPatch computes the primary edit a change would make, in memory.
// Cargo propagation effects (member bumps, dependency table rewrites) are
// applied only during execution and are not part of the preview.
func (e *Engine) PreviewPatch(c *Change) (*FilePreview, error) {
	p := c.Package
	path := e.primaryPath(p)

	switch p.Ecosystem {
	case manifest.EcosystemNPM:
		return previewFile(path, func(data []byte) ([]byte, bool, error) {
			return patch.SetNPMVersion(data, p.Version)
		})

	case manifest.EcosystemGoMod:
		return previewFile(path, func(data []byte) ([]byte, bool, error) {
			return patch.SetModuleMajor(data, p.Version)
		})

	case manifest.EcosystemCargo:
		ctx, err := e.resolver.Resolve(path)
		if err != nil {
			return nil, err
		}
		target, section := path, "package"
		switch ctx.Source {
		case workspace.MemberInherited:
			target, section = ctx.Root.ManifestPath, "workspace.package"
		case workspace.RootDeclared:
			if ctx.Root.HasShared {
				section = "workspace.package"
			}
		}
		return previewFile(target, func(data []byte) ([]byte, bool, error) {
			return patch.SetCargoVersion(data, section, p.Version)
		})
	}
	return nil, fmt.Errorf("unsupported ecosystem: %q", p.Ecosystem)
}

func previewFile(path string, fn func([]byte) ([]byte, bool, error)) (*FilePreview, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	out, changed, err := fn(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !changed {
		out = data
	}
	return &FilePreview{Path: path, Before: string(data), After: string(out)}, nil
}
