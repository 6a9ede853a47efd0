// Package prune removes remote branches that are already merged into the main branch.
//
// Service runs a single prune in strict sequence: repository check, run lock,
// fetch with prune, main branch verification, merged branch selection,
// presentation, confirmation, deletion, local tracking cleanup, and summary.
// Per-branch commit lookups degrade to "unknown" and per-branch deletion
// failures are counted without stopping the run.
package prune
