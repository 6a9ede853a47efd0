package ui_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/prune-merged/internal/execshell"
	"github.com/temirov/prune-merged/internal/ui"
)

const testRepositoryDirectoryConstant = "/tmp/project"

type scriptedRunner struct {
	results  map[string]execshell.ExecutionResult
	failures map[string]error
}

func (runner scriptedRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	subcommand := command.Details.Arguments[0]
	if failure, found := runner.failures[subcommand]; found {
		return execshell.ExecutionResult{}, failure
	}
	return runner.results[subcommand], nil
}

type narratedEntry struct {
	level   zapcore.Level
	message string
}

func TestConsoleCommandEventLoggerNarratesPruneRun(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	runner := scriptedRunner{
		results: map[string]execshell.ExecutionResult{
			"push": {ExitCode: 1, StandardError: "error: failed to push some refs"},
		},
		failures: map[string]error{
			"remote": errors.New("signal: killed"),
		},
	}
	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), runner, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(zap.New(observerCore))))
	require.NoError(testInstance, creationError)

	invocations := [][]string{
		{"fetch", "--prune", "origin"},
		{"branch", "-r", "--no-color", "--merged", "origin/main"},
		{"push", "origin", "--delete", "feature/login"},
		{"remote", "prune", "origin"},
	}
	for _, arguments := range invocations {
		_, _ = executor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: arguments, WorkingDirectory: testRepositoryDirectoryConstant})
	}

	expectedEntries := []narratedEntry{
		{zapcore.InfoLevel, "Fetching from origin and pruning deleted branches in /tmp/project"},
		{zapcore.InfoLevel, "Fetched from origin in /tmp/project"},
		{zapcore.InfoLevel, "Listing remote branches merged into origin/main in /tmp/project"},
		{zapcore.InfoLevel, "Listed remote branches merged into origin/main in /tmp/project"},
		{zapcore.InfoLevel, "Deleting remote branch feature/login from origin in /tmp/project"},
		{zapcore.WarnLevel, "Failed to delete remote branch feature/login from origin in /tmp/project (exit code 1: error: failed to push some refs)"},
		{zapcore.InfoLevel, "Pruning stale tracking branches of origin in /tmp/project"},
		{zapcore.ErrorLevel, "Unable to prune stale tracking branches of origin in /tmp/project: signal: killed"},
	}

	observedEntries := make([]narratedEntry, 0, observedLogs.Len())
	for _, entry := range observedLogs.All() {
		observedEntries = append(observedEntries, narratedEntry{entry.Level, entry.Message})
	}
	require.Equal(testInstance, expectedEntries, observedEntries)
}

func TestConsoleCommandEventLoggerToleratesNilLogger(testInstance *testing.T) {
	eventLogger := ui.NewConsoleCommandEventLogger(nil)
	command := execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"fetch", "origin"}}}

	require.NotPanics(testInstance, func() {
		eventLogger.CommandStarted(command)
		eventLogger.CommandCompleted(command, execshell.ExecutionResult{})
		eventLogger.CommandExecutionFailed(command, errors.New("boom"))
	})
}
