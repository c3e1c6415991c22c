package main

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"

	"github.com/bytemain/apply-versions/internal/git"
	"github.com/bytemain/apply-versions/internal/manifest"
	"github.com/bytemain/apply-versions/internal/patch"
	"github.com/bytemain/apply-versions/internal/workspace"
)

// skipDirs are directory names never scanned for package manifests.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"target":       true,
	"vendor":       true,
	"dist":         true,
}

// discoverPackages walks the repository looking for package manifests and
// proposes one versions.yaml entry per package found. Versions are read
// through the same paths the engine uses, so a freshly written manifest
// starts out fully in sync.
func discoverPackages(root string, gc *git.Client) ([]manifest.Package, error) {
	resolver := workspace.NewResolver()
	var pkgs []manifest.Package

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, filepath.Dir(p))
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		switch d.Name() {
		case "package.json":
			pkg, err := discoverNPM(p, rel)
			if err != nil {
				return err
			}
			if pkg != nil {
				pkgs = append(pkgs, *pkg)
			}
		case "go.mod":
			pkg, err := discoverGoMod(p, rel, gc)
			if err != nil {
				return err
			}
			if pkg != nil {
				pkgs = append(pkgs, *pkg)
			}
		case "Cargo.toml":
			pkg, err := discoverCargo(p, rel, resolver)
			if err != nil {
				return err
			}
			if pkg != nil {
				pkgs = append(pkgs, *pkg)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
	return pkgs, nil
}

func discoverNPM(path, rel string) (*manifest.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := gjson.GetBytes(data, "name").String()
	if name == "" {
		return nil, nil
	}
	version, err := patch.NPMVersion(data)
	if err != nil {
		version = ""
	}
	return &manifest.Package{
		Name:      name,
		Path:      rel,
		Ecosystem: manifest.EcosystemNPM,
		Version:   version,
	}, nil
}

func discoverGoMod(file, rel string, gc *git.Client) (*manifest.Package, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	modulePath, err := patch.ModulePath(data)
	if err != nil {
		return nil, nil
	}
	version := ""
	if gc.IsRepo() {
		if tag, err := gc.LatestTag(patch.TagPrefix(rel)); err == nil {
			version = tag
		}
	}
	name := path.Base(modulePath)
	if patch.ModuleMajor(modulePath) >= 2 {
		name = path.Base(path.Dir(modulePath))
	}
	return &manifest.Package{
		Name:      name,
		Path:      rel,
		Ecosystem: manifest.EcosystemGoMod,
		Version:   version,
	}, nil
}

func discoverCargo(file, rel string, resolver *workspace.Resolver) (*manifest.Package, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var m struct {
		Package *struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
	if err := toml.Unmarshal(data, &m); err != nil || m.Package == nil || m.Package.Name == "" {
		// Workspace-only roots have no [package] and are not tracked
		// directly; their version is reached through a member.
		return nil, nil
	}

	version := ""
	if ctx, err := resolver.Resolve(file); err == nil {
		if v, err := resolver.EffectiveVersion(ctx); err == nil {
			version = v
		}
	}
	return &manifest.Package{
		Name:      m.Package.Name,
		Path:      rel,
		Ecosystem: manifest.EcosystemCargo,
		Version:   version,
	}, nil
}
