// Package engine drives the version synchronization pipeline: analyze the
// manifest against the working tree, confirm the plan, execute one
// isolated commit (and optional tag) per package, and summarize. Failures
// are confined to the package that raised them; the batch always runs to
// completion once execution starts.
//
// Execution is deliberately sequential. The working tree and the git
// index are shared mutable state with one writer at a time, and each
// package's files must be committed before the next package is patched,
// or commits would span unrelated packages.
//
// Updates are at-most-once and non-transactional: an interrupt between
// patching and committing leaves uncommitted edits in the working tree.
package engine
