package main

import (
	"strings"
	"testing"

	"github.com/bytemain/apply-versions/internal/git"
	"github.com/bytemain/apply-versions/internal/testutil"
)

func TestRunApply_yes(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := runCommand(t, dir, "apply", "--yes")
	if err != nil {
		t.Fatalf("apply failed: %v\n%s", err, out)
	}

	if !strings.Contains(testutil.ReadFile(t, dir, "web/package.json"), `"version": "1.1.0"`) {
		t.Error("package.json not patched")
	}
	if !strings.Contains(out, "1 updated, 1 skipped, 0 failed") {
		t.Errorf("summary line:\n%s", out)
	}

	c := git.NewClient(dir)
	dirty, err := c.IsDirty()
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Error("working tree dirty after apply")
	}
}

func TestRunApply_dryRun(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := runCommand(t, dir, "apply", "--dry-run")
	if err != nil {
		t.Fatalf("dry run failed: %v\n%s", err, out)
	}
	if !strings.Contains(testutil.ReadFile(t, dir, "web/package.json"), `"version": "1.0.0"`) {
		t.Error("dry run patched a file")
	}
	dirty, err := git.NewClient(dir).IsDirty()
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Error("dry run dirtied the working tree")
	}
}

func TestRunApply_only(t *testing.T) {
	dir := setupWorkspace(t)
	// Put core behind as well, then restrict the run to web.
	testutil.WriteFile(t, dir, "versions.yaml", `version: 1
name: demo
packages:
  - name: web
    path: web
    ecosystem: npm
    version: 1.1.0
  - name: core
    path: crates/core
    ecosystem: cargo
    version: 2.0.0
`)
	testutil.CommitAll(t, dir, "bump targets")

	out, err := runCommand(t, dir, "apply", "--yes", "--only", "web")
	if err != nil {
		t.Fatalf("apply failed: %v\n%s", err, out)
	}
	if !strings.Contains(testutil.ReadFile(t, dir, "web/package.json"), `"version": "1.1.0"`) {
		t.Error("selected package not patched")
	}
	if !strings.Contains(testutil.ReadFile(t, dir, "crates/core/Cargo.toml"), `version = "1.0.0"`) {
		t.Error("excluded package patched")
	}
}

func TestRunApply_requiresTTYWithoutYes(t *testing.T) {
	dir := setupWorkspace(t)

	_, err := runCommand(t, dir, "apply")
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Errorf("expected TTY error, got %v", err)
	}
	if !strings.Contains(testutil.ReadFile(t, dir, "web/package.json"), `"version": "1.0.0"`) {
		t.Error("file patched despite refused run")
	}
}

func TestRunApply_outsideRepository(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "versions.yaml", "version: 1\nname: demo\npackages: []\n")

	_, err := runCommand(t, dir, "apply", "--yes")
	if err == nil || !strings.Contains(err.Error(), "not a git repository") {
		t.Errorf("expected repository error, got %v", err)
	}
}

func TestRunApply_reportsFailures(t *testing.T) {
	dir := setupWorkspace(t)
	// Break the npm package so its patch fails.
	testutil.WriteFile(t, dir, "web/package.json", "{\n  \"name\": \"web\"\n}\n")
	testutil.CommitAll(t, dir, "drop version field")

	out, err := runCommand(t, dir, "apply", "--yes")
	if err == nil || !strings.Contains(err.Error(), "did not complete cleanly") {
		t.Errorf("expected failure exit, got %v\n%s", err, out)
	}
}
