package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func containsPath(files []string, path string) bool {
	for _, f := range files {
		if f == path {
			return true
		}
	}
	return false
}

func TestApply_standalone(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Cargo.toml", "[package]\nname = \"solo\"\nversion = \"0.1.0\"\n")

	r := NewResolver()
	ctx := resolve(t, r, path)
	ch, err := r.Apply(ctx, "solo", "0.2.0", false)
	if err != nil {
		t.Fatal(err)
	}
	if !ch.Changed || len(ch.AdditionalFiles) != 0 {
		t.Errorf("change = %+v", ch)
	}
	if !strings.Contains(readFile(t, path), `version = "0.2.0"`) {
		t.Error("version not rewritten")
	}
}

func TestApply_inheritedMember(t *testing.T) {
	dir := sharedWorkspace(t)
	rootPath := filepath.Join(dir, "Cargo.toml")
	corePath := filepath.Join(dir, "crates", "core", "Cargo.toml")
	extraPath := filepath.Join(dir, "crates", "extra", "Cargo.toml")

	r := NewResolver()
	ctx := resolve(t, r, corePath)
	ch, err := r.Apply(ctx, "core", "2.0.0", false)
	if err != nil {
		t.Fatal(err)
	}
	if !ch.Changed {
		t.Fatal("expected change")
	}
	if !containsPath(ch.AdditionalFiles, rootPath) {
		t.Errorf("root manifest missing from additional files: %v", ch.AdditionalFiles)
	}

	root := readFile(t, rootPath)
	if !strings.Contains(root, "[workspace.package]\nversion = \"2.0.0\"") {
		t.Errorf("shared version not rewritten:\n%s", root)
	}
	// The inherited member keeps its marker and no literal version.
	core := readFile(t, corePath)
	if !strings.Contains(core, "version.workspace = true") || strings.Contains(core, "2.0.0") {
		t.Errorf("inherited member rewritten:\n%s", core)
	}
	// The explicit member follows the shared version, and the root's
	// dependency entry naming it is realigned.
	extra := readFile(t, extraPath)
	if !strings.Contains(extra, `version = "2.0.0"`) {
		t.Errorf("explicit member not bumped:\n%s", extra)
	}
	if !containsPath(ch.AdditionalFiles, extraPath) {
		t.Errorf("explicit member missing from additional files: %v", ch.AdditionalFiles)
	}
	if !strings.Contains(root, `extra = "2.0.0"`) {
		t.Errorf("root dependency entry for extra not rewritten:\n%s", root)
	}
	if ctx.Root.SharedVersion != "2.0.0" {
		t.Errorf("cached shared version = %q", ctx.Root.SharedVersion)
	}
}

func TestApply_inheritedMember_idempotent(t *testing.T) {
	dir := sharedWorkspace(t)
	corePath := filepath.Join(dir, "crates", "core", "Cargo.toml")

	r := NewResolver()
	ctx := resolve(t, r, corePath)
	ch, err := r.Apply(ctx, "core", "1.0.0", false)
	if err != nil {
		t.Fatal(err)
	}
	if ch.Changed || len(ch.AdditionalFiles) != 0 {
		t.Errorf("expected no-op, got %+v", ch)
	}
}

func TestApply_explicitMember(t *testing.T) {
	dir := sharedWorkspace(t)
	extraPath := filepath.Join(dir, "crates", "extra", "Cargo.toml")
	rootPath := filepath.Join(dir, "Cargo.toml")

	r := NewResolver()
	ctx := resolve(t, r, extraPath)
	ch, err := r.Apply(ctx, "extra", "1.5.0", false)
	if err != nil {
		t.Fatal(err)
	}
	if !ch.Changed {
		t.Fatal("expected change")
	}
	if !strings.Contains(readFile(t, extraPath), `version = "1.5.0"`) {
		t.Error("member version not rewritten")
	}
	// The root's entry follows the member even without propagation;
	// sibling manifests do not.
	if !strings.Contains(readFile(t, rootPath), `extra = "1.5.0"`) {
		t.Error("root dependency entry not realigned")
	}
	if !containsPath(ch.AdditionalFiles, rootPath) {
		t.Errorf("root missing from additional files: %v", ch.AdditionalFiles)
	}
}

func TestApply_explicitMember_propagate(t *testing.T) {
	dir := sharedWorkspace(t)
	corePath := filepath.Join(dir, "crates", "core", "Cargo.toml")
	extraPath := filepath.Join(dir, "crates", "extra", "Cargo.toml")
	rootPath := filepath.Join(dir, "Cargo.toml")

	// Give extra an explicit dependency on nothing shared so the dependents
	// pass is observable both in the root and in a sibling: core depends on
	// nothing, extra depends on core, and extra is the one being released.
	r := NewResolver()
	ctx := resolve(t, r, extraPath)
	ch, err := r.Apply(ctx, "extra", "2.0.0", true)
	if err != nil {
		t.Fatal(err)
	}
	if !ch.Changed {
		t.Fatal("expected change")
	}
	root := readFile(t, rootPath)
	if !strings.Contains(root, `extra = "2.0.0"`) {
		t.Errorf("root dependency entry not rewritten:\n%s", root)
	}
	if !containsPath(ch.AdditionalFiles, rootPath) {
		t.Errorf("root missing from additional files: %v", ch.AdditionalFiles)
	}
	// core has no dependency on extra, so its file stays out of the set.
	if containsPath(ch.AdditionalFiles, corePath) {
		t.Errorf("untouched sibling listed: %v", ch.AdditionalFiles)
	}
}

func TestApply_propagateUpdatesSiblingDeps(t *testing.T) {
	dir := t.TempDir()
	rootPath := writeFile(t, dir, "Cargo.toml", `[workspace]
members = ["crates/*"]

[workspace.dependencies]
a = { version = "1.0.0", path = "crates/a" }
`)
	writeFile(t, dir, "crates/a/Cargo.toml", "[package]\nname = \"a\"\nversion = \"1.0.0\"\n")
	bPath := writeFile(t, dir, "crates/b/Cargo.toml", `[package]
name = "b"
version = "1.0.0"

[dependencies]
a = { version = "1.0.0", path = "../a" }

[dev-dependencies]
a = "1.0.0"
`)

	r := NewResolver()
	ctx := resolve(t, r, filepath.Join(dir, "crates/a/Cargo.toml"))
	if ctx.Source != MemberExplicit {
		t.Fatalf("source = %v", ctx.Source)
	}
	ch, err := r.Apply(ctx, "a", "2.0.0", true)
	if err != nil {
		t.Fatal(err)
	}

	b := readFile(t, bPath)
	if !strings.Contains(b, `a = { version = "2.0.0", path = "../a" }`) {
		t.Errorf("[dependencies] entry not rewritten:\n%s", b)
	}
	if !strings.Contains(b, "[dev-dependencies]\na = \"2.0.0\"") {
		t.Errorf("[dev-dependencies] entry not rewritten:\n%s", b)
	}
	if !strings.Contains(b, `version = "1.0.0"`) {
		t.Errorf("b's own version disturbed:\n%s", b)
	}
	if !containsPath(ch.AdditionalFiles, bPath) || !containsPath(ch.AdditionalFiles, rootPath) {
		t.Errorf("additional files = %v", ch.AdditionalFiles)
	}
	if !strings.Contains(readFile(t, rootPath), `a = { version = "2.0.0", path = "crates/a" }`) {
		t.Error("root workspace.dependencies entry not rewritten")
	}
}

func TestApply_rootDeclared(t *testing.T) {
	dir := sharedWorkspace(t)
	rootPath := filepath.Join(dir, "Cargo.toml")

	r := NewResolver()
	ctx := resolve(t, r, rootPath)
	ch, err := r.Apply(ctx, "root", "3.0.0", false)
	if err != nil {
		t.Fatal(err)
	}
	if !ch.Changed {
		t.Fatal("expected change")
	}
	root := readFile(t, rootPath)
	if !strings.Contains(root, "[workspace.package]\nversion = \"3.0.0\"") {
		t.Errorf("shared version not rewritten:\n%s", root)
	}
	// Propagation follows the shared version even when triggered at the root.
	extra := readFile(t, filepath.Join(dir, "crates", "extra", "Cargo.toml"))
	if !strings.Contains(extra, `version = "3.0.0"`) {
		t.Errorf("explicit member not bumped:\n%s", extra)
	}
}

func TestApply_rootWithoutShared(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Cargo.toml", `[workspace]
members = []

[package]
name = "rootpkg"
version = "1.0.0"
`)
	r := NewResolver()
	ctx := resolve(t, r, path)
	ch, err := r.Apply(ctx, "rootpkg", "1.1.0", false)
	if err != nil {
		t.Fatal(err)
	}
	if !ch.Changed {
		t.Fatal("expected change")
	}
	if !strings.Contains(readFile(t, path), "[package]\nname = \"rootpkg\"\nversion = \"1.1.0\"") {
		t.Errorf("[package] version not rewritten:\n%s", readFile(t, path))
	}
}
