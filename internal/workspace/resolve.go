package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pelletier/go-toml/v2"
)

// VersionSource states where a package's authoritative version lives.
type VersionSource int

const (
	// Standalone packages have no enclosing workspace.
	Standalone VersionSource = iota
	// RootDeclared packages declare the workspace table themselves.
	RootDeclared
	// MemberInherited packages mark their version as workspace-inherited;
	// the root's shared version is authoritative.
	MemberInherited
	// MemberExplicit packages carry their own literal version despite being
	// enclosed in a workspace.
	MemberExplicit
)

func (s VersionSource) String() string {
	switch s {
	case RootDeclared:
		return "workspace root"
	case MemberInherited:
		return "inherited"
	case MemberExplicit:
		return "explicit member"
	default:
		return "standalone"
	}
}

// Root describes a resolved workspace root manifest.
type Root struct {
	Dir           string
	ManifestPath  string
	Members       []string
	SharedVersion string
	HasShared     bool
}

// Context holds the resolved version authority for one package.
type Context struct {
	Source       VersionSource
	PkgDir       string
	ManifestPath string
	Root         *Root // nil when Standalone
}

// cargoManifest is the structural read model for a Cargo.toml. Version is
// decoded loosely because it is either a literal string or the inheritance
// marker `version.workspace = true`.
type cargoManifest struct {
	Package *struct {
		Name    string `toml:"name"`
		Version any    `toml:"version"`
	} `toml:"package"`
	Workspace *struct {
		Members []string `toml:"members"`
		Package *struct {
			Version string `toml:"version"`
		} `toml:"package"`
	} `toml:"workspace"`
}

func (m *cargoManifest) hasWorkspace() bool { return m.Workspace != nil }

// versionInherited reports whether the package version is the workspace
// inheritance marker.
func (m *cargoManifest) versionInherited() bool {
	if m.Package == nil {
		return false
	}
	t, ok := m.Package.Version.(map[string]any)
	if !ok {
		return false
	}
	v, ok := t["workspace"].(bool)
	return ok && v
}

// Resolver resolves workspace contexts, caching root manifests and member
// enumeration so each root is read from disk at most once per run.
type Resolver struct {
	roots   map[string]*Root    // root dir -> parsed root
	members map[string][]string // root dir -> member dirs (relative)
}

// NewResolver creates an empty per-run resolver cache.
func NewResolver() *Resolver {
	return &Resolver{
		roots:   make(map[string]*Root),
		members: make(map[string][]string),
	}
}

// Resolve determines the version source for the package whose Cargo.toml
// lives at manifestPath.
func (r *Resolver) Resolve(manifestPath string) (*Context, error) {
	manifestPath, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("resolving package path: %w", err)
	}
	pkgDir := filepath.Dir(manifestPath)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", manifestPath, err)
	}
	var own cargoManifest
	if err := toml.Unmarshal(data, &own); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestPath, err)
	}

	ctx := &Context{PkgDir: pkgDir, ManifestPath: manifestPath}

	if own.hasWorkspace() {
		root, err := r.loadRoot(pkgDir, manifestPath, &own)
		if err != nil {
			return nil, err
		}
		ctx.Source = RootDeclared
		ctx.Root = root
		return ctx, nil
	}

	root, err := r.findRoot(pkgDir)
	if err != nil {
		return nil, err
	}
	if root == nil || !r.memberMatches(root, pkgDir) {
		ctx.Source = Standalone
		return ctx, nil
	}

	ctx.Root = root
	if own.versionInherited() {
		ctx.Source = MemberInherited
	} else {
		ctx.Source = MemberExplicit
	}
	return ctx, nil
}

// findRoot walks parent directories upward from pkgDir looking for the
// first Cargo.toml that declares a workspace table. The search stops at
// the filesystem root. Returns nil when no workspace encloses the package.
func (r *Resolver) findRoot(pkgDir string) (*Root, error) {
	dir := filepath.Dir(pkgDir)
	for {
		if root, ok := r.roots[dir]; ok {
			return root, nil
		}
		candidate := filepath.Join(dir, "Cargo.toml")
		if data, err := os.ReadFile(candidate); err == nil {
			var m cargoManifest
			if err := toml.Unmarshal(data, &m); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", candidate, err)
			}
			if m.hasWorkspace() {
				return r.loadRoot(dir, candidate, &m)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// loadRoot builds and caches the Root record for a parsed workspace manifest.
func (r *Resolver) loadRoot(dir, manifestPath string, m *cargoManifest) (*Root, error) {
	if root, ok := r.roots[dir]; ok {
		return root, nil
	}
	root := &Root{
		Dir:          dir,
		ManifestPath: manifestPath,
		Members:      m.Workspace.Members,
	}
	if m.Workspace.Package != nil && m.Workspace.Package.Version != "" {
		root.SharedVersion = m.Workspace.Package.Version
		root.HasShared = true
	}
	r.roots[dir] = root
	return root, nil
}

// memberMatches verifies that pkgDir is covered by the root's member
// patterns. An empty pattern list accepts every enclosed package.
func (r *Resolver) memberMatches(root *Root, pkgDir string) bool {
	if len(root.Members) == 0 {
		return true
	}
	rel, err := filepath.Rel(root.Dir, pkgDir)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range root.Members {
		if matchPattern(pattern, rel) {
			return true
		}
	}
	return false
}

// matchPattern matches a workspace member pattern against a root-relative
// path. Exact strings match directly; glob patterns use `*` for any run of
// characters except the separator and `**` for any run including it.
func matchPattern(pattern, rel string) bool {
	if pattern == rel {
		return true
	}
	if !strings.ContainsAny(pattern, "*?[") {
		return false
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return false
	}
	return g.Match(rel)
}

// MemberDirs enumerates the workspace's member directories by resolving
// each member pattern against the filesystem, in pattern order. A package
// matched by several patterns is listed once, under its first match.
// Patterns naming directories that do not exist on disk are skipped
// silently; manifests may list withdrawn or externally-managed members.
func (r *Resolver) MemberDirs(root *Root) ([]string, error) {
	if dirs, ok := r.members[root.Dir]; ok {
		return dirs, nil
	}

	candidates, err := manifestDirs(root.Dir)
	if err != nil {
		return nil, err
	}

	claimed := make(map[string]bool, len(candidates))
	var dirs []string
	for _, pattern := range root.Members {
		for _, rel := range candidates {
			if claimed[rel] || !matchPattern(pattern, rel) {
				continue
			}
			claimed[rel] = true
			dirs = append(dirs, rel)
		}
	}

	r.members[root.Dir] = dirs
	return dirs, nil
}

// manifestDirs lists every directory below dir (excluding dir itself) that
// contains a Cargo.toml, as sorted slash-separated relative paths.
func manifestDirs(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if p != dir && (name == ".git" || name == "target" || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != "Cargo.toml" || filepath.Dir(p) == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, filepath.Dir(p))
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning workspace members: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// EffectiveVersion returns the version currently in force for the package:
// the root's shared version for inherited members, the local package
// version otherwise.
func (r *Resolver) EffectiveVersion(ctx *Context) (string, error) {
	switch ctx.Source {
	case MemberInherited:
		if ctx.Root == nil || !ctx.Root.HasShared {
			return "", fmt.Errorf("%s: version is workspace-inherited but the root declares no shared version", ctx.ManifestPath)
		}
		return ctx.Root.SharedVersion, nil
	case RootDeclared:
		if ctx.Root.HasShared {
			return ctx.Root.SharedVersion, nil
		}
	}
	data, err := os.ReadFile(ctx.ManifestPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", ctx.ManifestPath, err)
	}
	var m cargoManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf("parsing %s: %w", ctx.ManifestPath, err)
	}
	if m.Package == nil {
		return "", fmt.Errorf("%s: no [package] section", ctx.ManifestPath)
	}
	v, ok := m.Package.Version.(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s: no readable package version", ctx.ManifestPath)
	}
	return v, nil
}
