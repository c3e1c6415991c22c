package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Go modules keep no version number in go.mod; the released version lives
// in git tags. The only part of the file that must track the manifest is
// the module path's /vN major suffix, which has to match the major
// component of every release from v2 onward.

var (
	moduleRe      = regexp.MustCompile(`(?m)^module\s+(\S+)\s*$`)
	majorSuffixRe = regexp.MustCompile(`/v(\d+)$`)
)

// ModulePath reads the module directive from go.mod content.
func ModulePath(content []byte) (string, error) {
	m := moduleRe.FindSubmatch(content)
	if m == nil {
		return "", fmt.Errorf("go.mod: %w", ErrNotApplicable)
	}
	return string(m[1]), nil
}

// ModuleMajor returns the major version implied by the module path suffix:
// 1 for a bare path, N for a /vN suffix.
func ModuleMajor(modulePath string) int {
	m := majorSuffixRe.FindStringSubmatch(modulePath)
	if m == nil {
		return 1
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// SetModuleMajor aligns the module path's /vN suffix with the major
// component of newVersion, rewriting only the module directive line.
// Versions below 2.0.0 use the bare path; the patch is a no-op success
// when the suffix already agrees.
func SetModuleMajor(content []byte, newVersion string) ([]byte, bool, error) {
	v, err := semver.StrictNewVersion(newVersion)
	if err != nil {
		return nil, false, fmt.Errorf("invalid version %q: %w", newVersion, err)
	}

	loc := moduleRe.FindSubmatchIndex(content)
	if loc == nil {
		return nil, false, fmt.Errorf("go.mod: %w", ErrNotApplicable)
	}
	current := string(content[loc[2]:loc[3]])
	if ModuleMajor(current) == int(v.Major()) || (v.Major() < 2 && ModuleMajor(current) == 1) {
		return content, false, nil
	}

	base := majorSuffixRe.ReplaceAllString(current, "")
	updated := base
	if v.Major() >= 2 {
		updated = fmt.Sprintf("%s/v%d", base, v.Major())
	}

	var b strings.Builder
	b.Grow(len(content))
	b.Write(content[:loc[2]])
	b.WriteString(updated)
	b.Write(content[loc[3]:])
	return []byte(b.String()), true, nil
}

// TagPrefix returns the tag prefix for a module at relPath within the
// repository: empty at the root, "<relPath>/" for a nested module, per the
// multi-module tagging convention.
func TagPrefix(relPath string) string {
	if relPath == "" || relPath == "." {
		return ""
	}
	return strings.TrimSuffix(relPath, "/") + "/"
}
