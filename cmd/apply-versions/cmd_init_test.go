package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytemain/apply-versions/internal/manifest"
	"github.com/bytemain/apply-versions/internal/testutil"
)

func TestRunInit_all(t *testing.T) {
	dir := testutil.CreateRepo(t)
	testutil.WriteFile(t, dir, "web/package.json", "{\n  \"name\": \"web\",\n  \"version\": \"1.0.0\"\n}\n")
	testutil.WriteFile(t, dir, "crates/core/Cargo.toml", "[package]\nname = \"core\"\nversion = \"0.3.0\"\n")

	out, err := runCommand(t, dir, "init", "demo", "--all")
	if err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}

	m, err := manifest.Load(filepath.Join(dir, manifestName))
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "demo" || len(m.Packages) != 2 {
		t.Fatalf("manifest = %+v", m)
	}
	byName := map[string]manifest.Package{}
	for _, p := range m.Packages {
		byName[p.Name] = p
	}
	if p := byName["web"]; p.Ecosystem != manifest.EcosystemNPM || p.Version != "1.0.0" || p.Path != "web" {
		t.Errorf("web = %+v", p)
	}
	if p := byName["core"]; p.Ecosystem != manifest.EcosystemCargo || p.Version != "0.3.0" {
		t.Errorf("core = %+v", p)
	}
}

func TestRunInit_refusesOverwrite(t *testing.T) {
	dir := setupWorkspace(t)

	_, err := runCommand(t, dir, "init", "demo", "--all")
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Errorf("expected overwrite refusal, got %v", err)
	}

	out, err := runCommand(t, dir, "init", "renamed", "--all", "--force")
	if err != nil {
		t.Fatalf("init --force failed: %v\n%s", err, out)
	}
	m, err := manifest.Load(filepath.Join(dir, manifestName))
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "renamed" {
		t.Errorf("manifest not overwritten: %+v", m)
	}
}

func TestRunInit_requiresTTYWithoutAll(t *testing.T) {
	dir := testutil.CreateRepo(t)
	testutil.WriteFile(t, dir, "web/package.json", "{\n  \"name\": \"web\",\n  \"version\": \"1.0.0\"\n}\n")

	_, err := runCommand(t, dir, "init", "demo")
	if err == nil || !strings.Contains(err.Error(), "--all") {
		t.Errorf("expected TTY error, got %v", err)
	}
}

func TestRunInit_emptyWorkspace(t *testing.T) {
	dir := testutil.CreateRepo(t)

	_, err := runCommand(t, dir, "init", "demo", "--all")
	if err == nil || !strings.Contains(err.Error(), "no package manifests") {
		t.Errorf("expected discovery error, got %v", err)
	}
}
