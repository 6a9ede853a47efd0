package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const testRepositoryDirectoryConstant = "/workspace/repo"

func TestCommandMessageFormatterDescribesGitCommands(t *testing.T) {
	testCases := []struct {
		name                     string
		arguments                []string
		expectedStart            string
		expectedSuccess          string
		expectedFailure          string
		expectedExecutionFailure string
	}{
		{
			name:                     "fetch_with_prune",
			arguments:                []string{"fetch", "--prune", "origin"},
			expectedStart:            "Fetching from origin and pruning deleted branches in /workspace/repo",
			expectedSuccess:          "Fetched from origin in /workspace/repo",
			expectedFailure:          "Failed to fetch from origin in /workspace/repo (exit code 128: fatal: unable to access)",
			expectedExecutionFailure: "Unable to fetch from origin in /workspace/repo: boom",
		},
		{
			name:                     "remote_branch_listing",
			arguments:                []string{"branch", "-r", "--no-color"},
			expectedStart:            "Listing remote branches in /workspace/repo",
			expectedSuccess:          "Listed remote branches in /workspace/repo",
			expectedFailure:          "Failed to list remote branches in /workspace/repo (exit code 128: fatal: unable to access)",
			expectedExecutionFailure: "Unable to list remote branches in /workspace/repo: boom",
		},
		{
			name:                     "merged_branch_listing",
			arguments:                []string{"branch", "-r", "--no-color", "--merged", "origin/main"},
			expectedStart:            "Listing remote branches merged into origin/main in /workspace/repo",
			expectedSuccess:          "Listed remote branches merged into origin/main in /workspace/repo",
			expectedFailure:          "Failed to list remote branches merged into origin/main in /workspace/repo (exit code 128: fatal: unable to access)",
			expectedExecutionFailure: "Unable to list remote branches merged into origin/main in /workspace/repo: boom",
		},
		{
			name:                     "last_commit_lookup",
			arguments:                []string{"log", "-1", "--format=%h", "origin/feature", "--"},
			expectedStart:            "Reading last commit of origin/feature in /workspace/repo",
			expectedSuccess:          "Read last commit of origin/feature in /workspace/repo",
			expectedFailure:          "Failed to read last commit of origin/feature in /workspace/repo (exit code 128: fatal: unable to access)",
			expectedExecutionFailure: "Unable to read last commit of origin/feature in /workspace/repo: boom",
		},
		{
			name:                     "remote_branch_deletion",
			arguments:                []string{"push", "origin", "--delete", "feature/login"},
			expectedStart:            "Deleting remote branch feature/login from origin in /workspace/repo",
			expectedSuccess:          "Deleted remote branch feature/login from origin in /workspace/repo",
			expectedFailure:          "Failed to delete remote branch feature/login from origin in /workspace/repo (exit code 128: fatal: unable to access)",
			expectedExecutionFailure: "Unable to delete remote branch feature/login from origin in /workspace/repo: boom",
		},
		{
			name:                     "remote_prune",
			arguments:                []string{"remote", "prune", "origin"},
			expectedStart:            "Pruning stale tracking branches of origin in /workspace/repo",
			expectedSuccess:          "Pruned stale tracking branches of origin in /workspace/repo",
			expectedFailure:          "Failed to prune stale tracking branches of origin in /workspace/repo (exit code 128: fatal: unable to access)",
			expectedExecutionFailure: "Unable to prune stale tracking branches of origin in /workspace/repo: boom",
		},
	}

	formatter := CommandMessageFormatter{}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: testCase.arguments, WorkingDirectory: testRepositoryDirectoryConstant},
			}

			require.Equal(t, testCase.expectedStart, formatter.BuildStartedMessage(command))
			require.Equal(t, testCase.expectedSuccess, formatter.BuildSuccessMessage(command))
			require.Equal(t, testCase.expectedFailure, formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal: unable to access\n"}))
			require.Equal(t, testCase.expectedExecutionFailure, formatter.BuildExecutionFailureMessage(command, errors.New("boom")))
		})
	}
}

func TestBuildStartedMessageForFetchWithoutRemoteUsesAllRemotesLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments: []string{"fetch"},
		},
	}

	require.Equal(t, "Fetching from all remotes in current directory", formatter.BuildStartedMessage(command))
}

func TestUnrecognizedCommandsUseGenericMessages(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"status", "--porcelain"}, WorkingDirectory: testRepositoryDirectoryConstant},
	}

	require.Equal(t, "Running git status --porcelain (in /workspace/repo)", formatter.BuildStartedMessage(command))
	require.Equal(t, "git status --porcelain (in /workspace/repo) failed with exit code 2", formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 2}))
	require.Equal(t, "git status --porcelain (in /workspace/repo) failed: unknown error", formatter.BuildExecutionFailureMessage(command, nil))
}
