package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/bytemain/apply-versions/internal/patch"
)

// Change reports the outcome of applying a version change to a cargo
// package: whether the primary manifest changed and every other file
// touched on its behalf. AdditionalFiles is the contract the caller uses
// to assemble one atomic commit.
type Change struct {
	Changed         bool
	AdditionalFiles []string
}

// memberDepSections are the dependency tables rewritten in member
// manifests when a sibling's version changes.
var memberDepSections = []string{"dependencies", "dev-dependencies", "build-dependencies"}

// rootDepSections are the dependency tables rewritten in the workspace
// root manifest.
var rootDepSections = []string{"workspace.dependencies", "dependencies"}

// Apply moves the package described by ctx to newVersion, patching its
// authoritative version field and propagating the change to sibling files
// where required. name is the package's cargo name, used to locate
// dependency entries. propagate enables rewriting dependency tables of
// other workspace members for explicitly-versioned packages.
func (r *Resolver) Apply(ctx *Context, name, newVersion string, propagate bool) (*Change, error) {
	switch ctx.Source {
	case Standalone:
		changed, err := patchFileVersion(ctx.ManifestPath, "package", newVersion)
		if err != nil {
			return nil, err
		}
		return &Change{Changed: changed}, nil

	case MemberExplicit:
		changed, err := patchFileVersion(ctx.ManifestPath, "package", newVersion)
		if err != nil {
			return nil, err
		}
		// The root's dependency entry for this package tracks its version
		// unconditionally; sibling members are rewritten only on request.
		ch := &Change{Changed: changed}
		if err := r.updateRootDeps(ctx.Root, name, newVersion, ch); err != nil {
			return nil, err
		}
		if propagate {
			if err := r.updateDependents(ctx.Root, ctx.PkgDir, name, newVersion, ch); err != nil {
				return nil, err
			}
		}
		return ch, nil

	case MemberInherited:
		// Authoritative version lives in the root. The member's own file
		// carries only the inheritance marker and is not rewritten.
		changed, err := patchFileVersion(ctx.Root.ManifestPath, "workspace.package", newVersion)
		if err != nil {
			return nil, err
		}
		ch := &Change{Changed: changed}
		if changed {
			ch.AdditionalFiles = append(ch.AdditionalFiles, ctx.Root.ManifestPath)
			if err := r.propagateShared(ctx.Root, newVersion, ch); err != nil {
				return nil, err
			}
			ctx.Root.SharedVersion = newVersion
		}
		return ch, nil

	case RootDeclared:
		section := "package"
		if ctx.Root.HasShared {
			section = "workspace.package"
		}
		changed, err := patchFileVersion(ctx.ManifestPath, section, newVersion)
		if err != nil {
			return nil, err
		}
		ch := &Change{Changed: changed}
		if changed && ctx.Root.HasShared {
			if err := r.propagateShared(ctx.Root, newVersion, ch); err != nil {
				return nil, err
			}
			ctx.Root.SharedVersion = newVersion
		}
		return ch, nil
	}
	return nil, fmt.Errorf("unknown version source %d", ctx.Source)
}

// propagateShared pushes a changed shared version out to the workspace:
// members declaring an explicit version different from the target are
// patched, and dependency entries in the root naming those members are
// rewritten to match.
func (r *Resolver) propagateShared(root *Root, newVersion string, ch *Change) error {
	dirs, err := r.MemberDirs(root)
	if err != nil {
		return err
	}

	var renamed []string
	for _, rel := range dirs {
		path := filepath.Join(root.Dir, filepath.FromSlash(rel), "Cargo.toml")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("reading member %s: %w", path, err)
		}

		var m cargoManifest
		if err := toml.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("parsing member %s: %w", path, err)
		}
		if m.Package == nil || m.versionInherited() {
			continue
		}
		v, ok := m.Package.Version.(string)
		if !ok || v == newVersion {
			continue
		}

		out, changed, err := patch.SetCargoVersion(data, "package", newVersion)
		if err != nil {
			if errors.Is(err, patch.ErrNotApplicable) {
				continue
			}
			return fmt.Errorf("patching member %s: %w", path, err)
		}
		if !changed {
			continue
		}
		if err := os.WriteFile(path, out, 0644); err != nil {
			return fmt.Errorf("writing member %s: %w", path, err)
		}
		ch.AdditionalFiles = append(ch.AdditionalFiles, path)
		renamed = append(renamed, m.Package.Name)
	}

	if len(renamed) == 0 {
		return nil
	}
	// The root manifest is already part of the commit set by the time
	// dependency entries are rewritten.
	if _, err := patchFileDeps(root.ManifestPath, rootDepSections, renamed, newVersion); err != nil {
		return err
	}
	return nil
}

// updateRootDeps rewrites dependency entries referring to the updated
// package in the workspace root manifest.
func (r *Resolver) updateRootDeps(root *Root, name, newVersion string, ch *Change) error {
	changed, err := patchFileDeps(root.ManifestPath, rootDepSections, []string{name}, newVersion)
	if err != nil {
		return err
	}
	if changed {
		ch.AdditionalFiles = append(ch.AdditionalFiles, root.ManifestPath)
	}
	return nil
}

// updateDependents rewrites dependency entries referring to the updated
// package in every other member manifest.
func (r *Resolver) updateDependents(root *Root, selfDir, name, newVersion string, ch *Change) error {
	dirs, err := r.MemberDirs(root)
	if err != nil {
		return err
	}
	for _, rel := range dirs {
		dir := filepath.Join(root.Dir, filepath.FromSlash(rel))
		if dir == selfDir {
			continue
		}
		path := filepath.Join(dir, "Cargo.toml")
		changed, err := patchFileDeps(path, memberDepSections, []string{name}, newVersion)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if changed {
			ch.AdditionalFiles = append(ch.AdditionalFiles, path)
		}
	}
	return nil
}

// patchFileVersion applies a bounded-region version patch to one file.
func patchFileVersion(path, section, newVersion string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	out, changed, err := patch.SetCargoVersion(data, section, newVersion)
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

// patchFileDeps rewrites dependency entries for the named packages across
// the given sections of one file. Absent files surface os.IsNotExist to
// the caller; absent sections and entries are no-ops.
func patchFileDeps(path string, sections, names []string, newVersion string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	dirty := false
	for _, section := range sections {
		for _, name := range names {
			out, changed, err := patch.SetCargoDependency(data, section, name, newVersion)
			if err != nil {
				return false, fmt.Errorf("%s: %w", path, err)
			}
			if changed {
				data = out
				dirty = true
			}
		}
	}
	if !dirty {
		return false, nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
