// Package execshell provides structured helpers for invoking git.
//
// ShellExecutor wraps a CommandRunner (OSCommandRunner by default), turns
// non-zero exits into CommandFailedError, and reports every invocation either
// as structured zap fields or to a CommandEventObserver. CommandMessageFormatter
// describes the git subcommands used by prune-merged in plain sentences.
package execshell
