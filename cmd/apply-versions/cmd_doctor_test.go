package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunDoctor_healthy(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := runCommand(t, dir, "doctor")
	if err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "All checks passed.") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunDoctor_missingPackageFile(t *testing.T) {
	dir := setupWorkspace(t)
	if err := os.Remove(filepath.Join(dir, "web", "package.json")); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, dir, "doctor")
	if err == nil {
		t.Fatalf("expected failure:\n%s", out)
	}
	if !strings.Contains(out, "manifest file missing") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRunDoctor_noManifest(t *testing.T) {
	dir := t.TempDir()

	_, err := runCommand(t, dir, "doctor")
	if err == nil || !strings.Contains(err.Error(), "doctor checks failed") {
		t.Errorf("expected failure, got %v", err)
	}
}
