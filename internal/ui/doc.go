// Package ui renders prune progress for people and for machines.
//
// ConsoleReporter prints styled status lines and a candidate table,
// YAMLReporter emits candidate and summary documents, and
// ConsoleCommandEventLogger narrates git invocations in plain language.
package ui
