package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validate checks the versions manifest for structural errors.
func Validate(f *File) error { return validate(f) }

// Save validates and writes a versions manifest to disk.
func Save(path string, f *File) error {
	if err := validate(f); err != nil {
		return err
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Load reads and validates a versions.yaml file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates versions.yaml content.
//
// Only list-level structure is checked here: a broken manifest file aborts
// the whole run before analysis. Per-package field problems (bad version
// string, unknown ecosystem) are deliberately left to Package.Validate so
// one bad entry cannot take the rest of the batch down with it.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing manifest YAML: %w", err)
	}
	if err := validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func validate(f *File) error {
	if f.Version != 1 {
		return fmt.Errorf("unsupported manifest version: %d (expected 1)", f.Version)
	}
	if f.Name == "" {
		return fmt.Errorf("manifest: name is required")
	}

	seen := make(map[string]bool, len(f.Packages))
	for i, p := range f.Packages {
		if p.Name == "" {
			return fmt.Errorf("manifest: packages[%d].name is required", i)
		}
		if p.Path == "" {
			return fmt.Errorf("manifest: packages[%d] (%s).path is required", i, p.Name)
		}
		if err := validatePath(p.Path, p.Name); err != nil {
			return err
		}
		if seen[p.Name] {
			return fmt.Errorf("manifest: duplicate package name %q", p.Name)
		}
		seen[p.Name] = true
	}

	return nil
}

// validatePath ensures a path is relative and does not escape the workspace.
func validatePath(p, label string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("manifest: %s: absolute path is not allowed: %s", label, p)
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("manifest: %s: path must not escape workspace (contains ..): %s", label, p)
	}
	return nil
}

// FilterByNames returns packages matching --only / --skip flags.
func FilterByNames(pkgs []Package, only, skip []string) []Package {
	if len(only) == 0 && len(skip) == 0 {
		return pkgs
	}
	onlySet := toSet(only)
	skipSet := toSet(skip)

	var result []Package
	for _, p := range pkgs {
		if len(onlySet) > 0 && !onlySet[p.Name] {
			continue
		}
		if skipSet[p.Name] {
			continue
		}
		result = append(result, p)
	}
	return result
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}
