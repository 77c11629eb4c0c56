// Package overlay plans and applies the merge of template files into a
// project directory.
//
// Planning is read-only: Build compares the mapped destinations with the
// current project tree and yields a sorted Plan of CREATE, OVERWRITE and
// SKIP actions. Paths in the protected set never appear in a plan. The
// Engine is the only code that writes to the project; it snapshots every
// tool-owned root an upgrade will overwrite before the first write, then
// writes each file atomically.
package overlay
