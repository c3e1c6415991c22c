package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/bytemain/apply-versions/internal/manifest"
	"github.com/bytemain/apply-versions/internal/patch"
)

// applyPatch mutates the files for one planned change. It returns whether
// the primary manifest changed and every additional file touched beyond
// it. All writes are idempotent: running against files already at the
// target is a no-op, not an error.
func (e *Engine) applyPatch(c *Change) (changed bool, additional []string, err error) {
	p := c.Package
	path := e.primaryPath(p)

	switch p.Ecosystem {
	case manifest.EcosystemNPM:
		changed, err = patchFile(path, func(data []byte) ([]byte, bool, error) {
			return patch.SetNPMVersion(data, p.Version)
		})
		if err != nil {
			return false, nil, err
		}
		lockChanged, lockPath, lockErr := e.patchNPMLock(p)
		if lockErr != nil {
			return false, nil, lockErr
		}
		if lockChanged {
			additional = append(additional, lockPath)
		}
		return changed, additional, nil

	case manifest.EcosystemGoMod:
		// Only the module path's major suffix can disagree with the
		// target; most go releases change no file at all and the commit
		// step is skipped in favor of the tag.
		changed, err = patchFile(path, func(data []byte) ([]byte, bool, error) {
			return patch.SetModuleMajor(data, p.Version)
		})
		return changed, nil, err

	case manifest.EcosystemCargo:
		ctx, err := e.resolver.Resolve(path)
		if err != nil {
			return false, nil, err
		}
		ch, err := e.resolver.Apply(ctx, p.Name, p.Version, e.opts.Propagate || p.Propagate)
		if err != nil {
			return false, nil, err
		}
		return ch.Changed, ch.AdditionalFiles, nil
	}
	return false, nil, fmt.Errorf("unsupported ecosystem: %q", p.Ecosystem)
}

// patchNPMLock mirrors the version into package-lock.json when one exists
// beside the manifest. Lockfiles record the version twice: at the top
// level and under the root entry of the packages map.
func (e *Engine) patchNPMLock(p manifest.Package) (bool, string, error) {
	lockPath := filepath.Join(e.root, filepath.FromSlash(p.Path), "package-lock.json")
	data, err := os.ReadFile(lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, "", nil
		}
		return false, "", fmt.Errorf("reading %s: %w", lockPath, err)
	}
	if !gjson.ValidBytes(data) {
		return false, "", fmt.Errorf("invalid lockfile %s", lockPath)
	}

	dirty := false
	for _, key := range []string{"version", "packages..version"} {
		cur := gjson.GetBytes(data, key)
		if !cur.Exists() || cur.String() == p.Version {
			continue
		}
		data, err = sjson.SetBytes(data, key, p.Version)
		if err != nil {
			return false, "", fmt.Errorf("patching %s: %w", lockPath, err)
		}
		dirty = true
	}
	if !dirty {
		return false, "", nil
	}
	if err := os.WriteFile(lockPath, data, 0644); err != nil {
		return false, "", fmt.Errorf("writing %s: %w", lockPath, err)
	}
	return true, lockPath, nil
}

// patchFile reads, transforms and conditionally rewrites one file.
func patchFile(path string, fn func([]byte) ([]byte, bool, error)) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	out, changed, err := fn(data)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if !changed {
		return false, nil
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
