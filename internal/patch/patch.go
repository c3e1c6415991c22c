// Package patch rewrites the version field of ecosystem manifest files
// while leaving every other byte of the file untouched.
//
// Two strategies are used. package.json is edited structurally through
// gjson/sjson, which replaces the one field in place without reformatting
// the rest of the document. Cargo.toml and go.mod mix the interesting
// value with comments and formatting that must survive the edit, so they
// are patched textually inside a bounded window located by an anchored
// pattern. go-toml is never used for writes for the same reason the
// reads use it: round-tripping a TOML tree loses comments.
package patch

import "errors"

// ErrNotApplicable reports that the expected version field could not be
// located in its window. Callers must treat this differently from a
// successful no-op patch, where the field exists and already holds the
// target value.
var ErrNotApplicable = errors.New("version field not found")

// ErrNoVersion reports that a manifest carries no readable version field.
var ErrNoVersion = errors.New("no version field")
