// Package workspace resolves where a cargo package's authoritative version
// lives and propagates a version change across the files of an enclosing
// cargo workspace: the root manifest's shared version, member manifests
// with explicit versions, and dependency tables referring to the updated
// package. Reads parse TOML structurally; writes go through the
// bounded-region patches in internal/patch so comments and formatting
// survive.
package workspace
