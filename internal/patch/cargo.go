package patch

import (
	"fmt"
	"regexp"
	"strings"
)

// Cargo.toml edits are bounded-region text patches: a section window is
// anchored at its exact `[name]` header and extends to the next top-level
// header or end of file. Only the first matching assignment inside the
// window is rewritten, so comments and formatting around it survive.
//
// The anchor matches the exact section name between brackets, so
// `[workspace]` never captures `[workspace.package]` and vice versa.
// Keys inside deeper same-name sections are out of reach by construction;
// that is a deliberate limitation of the windowed approach.

var (
	versionRe    = regexp.MustCompile(`(?m)^(\s*version\s*=\s*")([^"]*)(")`)
	headerRe     = regexp.MustCompile(`(?m)^\s*\[`)
	depStringRe  = `(?m)^(\s*%s\s*=\s*")([^"]*)(")`
	depInlineRe  = `(?m)^(\s*%s\s*=\s*\{[^}]*version\s*=\s*")([^"]*)(")`
	escapeDepKey = regexp.QuoteMeta
)

// sectionWindow returns the [start, end) byte range of the named section's
// body, excluding the header line itself. ok is false when the section is
// not declared at top level.
func sectionWindow(content []byte, section string) (start, end int, ok bool) {
	header := regexp.MustCompile(`(?m)^\s*\[` + regexp.QuoteMeta(section) + `\]\s*(#.*)?$`)
	loc := header.FindIndex(content)
	if loc == nil {
		return 0, 0, false
	}
	start = loc[1]
	rest := content[start:]
	if next := headerRe.FindIndex(rest); next != nil {
		return start, start + next[0], true
	}
	return start, len(content), true
}

// HasCargoSection reports whether content declares the named top-level section.
func HasCargoSection(content []byte, section string) bool {
	_, _, ok := sectionWindow(content, section)
	return ok
}

// CargoVersion reads the version assignment inside the named section.
// Returns ErrNoVersion when the section or the assignment is absent.
func CargoVersion(content []byte, section string) (string, error) {
	start, end, ok := sectionWindow(content, section)
	if !ok {
		return "", ErrNoVersion
	}
	m := versionRe.FindSubmatch(content[start:end])
	if m == nil {
		return "", ErrNoVersion
	}
	return string(m[2]), nil
}

// SetCargoVersion rewrites the version assignment inside the named section,
// leaving every byte outside the matched window untouched. Returns
// ErrNotApplicable when no assignment exists in the window and
// changed=false when the value already equals newVersion.
func SetCargoVersion(content []byte, section, newVersion string) ([]byte, bool, error) {
	start, end, ok := sectionWindow(content, section)
	if !ok {
		return nil, false, fmt.Errorf("section [%s]: %w", section, ErrNotApplicable)
	}
	window := content[start:end]
	loc := versionRe.FindSubmatchIndex(window)
	if loc == nil {
		return nil, false, fmt.Errorf("section [%s]: %w", section, ErrNotApplicable)
	}
	if string(window[loc[4]:loc[5]]) == newVersion {
		return content, false, nil
	}
	return spliceWindow(content, start, window, loc, newVersion), true, nil
}

// SetCargoDependency rewrites the recorded version of one dependency entry
// inside the named section. Both forms are supported:
//
//	core = "1.0.0"
//	core = { version = "1.0.0", path = "crates/core" }
//
// Other keys of an inline-table entry are left untouched. Returns
// changed=false with no error when the entry is absent or already at
// newVersion; a dependency table simply not mentioning the package is not
// a failure.
func SetCargoDependency(content []byte, section, name, newVersion string) ([]byte, bool, error) {
	start, end, ok := sectionWindow(content, section)
	if !ok {
		return content, false, nil
	}
	window := content[start:end]

	for _, pattern := range []string{depStringRe, depInlineRe} {
		re, err := regexp.Compile(fmt.Sprintf(pattern, escapeDepKey(name)))
		if err != nil {
			return nil, false, fmt.Errorf("dependency pattern for %q: %w", name, err)
		}
		loc := re.FindSubmatchIndex(window)
		if loc == nil {
			continue
		}
		if string(window[loc[4]:loc[5]]) == newVersion {
			return content, false, nil
		}
		return spliceWindow(content, start, window, loc, newVersion), true, nil
	}
	return content, false, nil
}

// spliceWindow replaces the second capture group of a window-relative match
// with newValue and reassembles the document around the window.
func spliceWindow(content []byte, start int, window []byte, loc []int, newValue string) []byte {
	var b strings.Builder
	b.Grow(len(content) + len(newValue))
	b.Write(content[:start])
	b.Write(window[:loc[4]])
	b.WriteString(newValue)
	b.Write(window[loc[5]:])
	b.Write(content[start+len(window):])
	return []byte(b.String())
}
