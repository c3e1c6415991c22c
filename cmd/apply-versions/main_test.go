package main

import (
	"bytes"
	"testing"

	"github.com/bytemain/apply-versions/internal/testutil"
)

// setupWorkspace creates a git repository with a versions.yaml tracking an
// npm package one release behind and a cargo package already in sync.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := testutil.CreateRepo(t)
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
    version: 1.0.0
`)
	testutil.WriteFile(t, dir, "web/package.json", "{\n  \"name\": \"web\",\n  \"version\": \"1.0.0\"\n}\n")
	testutil.WriteFile(t, dir, "crates/core/Cargo.toml", "[package]\nname = \"core\"\nversion = \"1.0.0\"\n")
	testutil.CommitAll(t, dir, "add packages")
	return dir
}

// runCommand executes the CLI with args against the workspace and returns
// its combined output.
func runCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"--root", dir}, args...))
	err := root.Execute()
	return buf.String(), err
}
