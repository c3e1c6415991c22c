// Package git provides a wrapper around Git CLI commands used by
// apply-versions. It covers exactly the primitives the engine consumes:
// staging plus committing a file set, tag creation and lookup, without
// depending on other internal packages.
package git
