package gitrepo_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/prune-merged/internal/execshell"
	"github.com/temirov/prune-merged/internal/gitrepo"
)

const (
	testManagerWorkingDirectoryConstant = "/workspace/repo"
	testRemoteNameConstant              = "origin"
)

type fakeGitExecutor struct {
	results      map[string]execshell.ExecutionResult
	failures     map[string]error
	recorded     []execshell.CommandDetails
	defaultError error
}

func (executor *fakeGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recorded = append(executor.recorded, details)
	key := joinArguments(details.Arguments)
	if failure, found := executor.failures[key]; found {
		return execshell.ExecutionResult{}, failure
	}
	if result, found := executor.results[key]; found {
		return result, nil
	}
	return execshell.ExecutionResult{}, executor.defaultError
}

type stubInspector struct {
	state         gitrepo.RepositoryState
	err           error
	inspectedPath string
}

func (inspector *stubInspector) Inspect(path string, remoteName string) (gitrepo.RepositoryState, error) {
	inspector.inspectedPath = path
	return inspector.state, inspector.err
}

func joinArguments(arguments []string) string {
	return strings.Join(arguments, " ")
}

func newTestManager(testInstance *testing.T, executor *fakeGitExecutor, inspector *stubInspector) *gitrepo.RepositoryManager {
	testInstance.Helper()
	manager, creationError := gitrepo.NewRepositoryManager(executor, inspector, testManagerWorkingDirectoryConstant)
	require.NoError(testInstance, creationError)
	return manager
}

func TestNewRepositoryManagerValidatesDependencies(testInstance *testing.T) {
	_, executorError := gitrepo.NewRepositoryManager(nil, &stubInspector{}, testManagerWorkingDirectoryConstant)
	require.ErrorIs(testInstance, executorError, gitrepo.ErrGitExecutorNotConfigured)

	_, inspectorError := gitrepo.NewRepositoryManager(&fakeGitExecutor{}, nil, testManagerWorkingDirectoryConstant)
	require.ErrorIs(testInstance, inspectorError, gitrepo.ErrRepositoryInspectorNotConfigured)
}

func TestRepositoryManagerIsRepository(testInstance *testing.T) {
	testCases := []struct {
		name           string
		inspectorError error
		expectedResult bool
		expectError    bool
	}{
		{name: "repository_with_remote", expectedResult: true},
		{name: "outside_repository", inspectorError: gitrepo.ErrRepositoryNotFound},
		{name: "missing_remote", inspectorError: gitrepo.ErrRemoteNotConfigured},
		{name: "unexpected_error", inspectorError: errors.New("permission denied"), expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			inspector := &stubInspector{err: testCase.inspectorError}
			manager := newTestManager(testInstance, &fakeGitExecutor{}, inspector)

			isRepository, inspectionError := manager.IsRepository(context.Background(), testRemoteNameConstant)
			if testCase.expectError {
				require.Error(testInstance, inspectionError)
			} else {
				require.NoError(testInstance, inspectionError)
			}
			require.Equal(testInstance, testCase.expectedResult, isRepository)
			require.Equal(testInstance, testManagerWorkingDirectoryConstant, inspector.inspectedPath)
		})
	}
}

func TestRepositoryManagerBuildsGitCommands(testInstance *testing.T) {
	testCases := []struct {
		name              string
		invoke            func(*gitrepo.RepositoryManager) error
		expectedArguments []string
	}{
		{
			name: "fetch_with_prune",
			invoke: func(manager *gitrepo.RepositoryManager) error {
				return manager.Fetch(context.Background(), testRemoteNameConstant, true)
			},
			expectedArguments: []string{"fetch", "--prune", "origin"},
		},
		{
			name: "fetch_without_prune",
			invoke: func(manager *gitrepo.RepositoryManager) error {
				return manager.Fetch(context.Background(), testRemoteNameConstant, false)
			},
			expectedArguments: []string{"fetch", "origin"},
		},
		{
			name: "delete_remote_branch",
			invoke: func(manager *gitrepo.RepositoryManager) error {
				return manager.DeleteRemoteBranch(context.Background(), testRemoteNameConstant, "feature/login")
			},
			expectedArguments: []string{"push", "origin", "--delete", "feature/login"},
		},
		{
			name: "prune_remote",
			invoke: func(manager *gitrepo.RepositoryManager) error {
				return manager.PruneRemote(context.Background(), testRemoteNameConstant)
			},
			expectedArguments: []string{"remote", "prune", "origin"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &fakeGitExecutor{}
			manager := newTestManager(testInstance, executor, &stubInspector{})

			require.NoError(testInstance, testCase.invoke(manager))
			require.Len(testInstance, executor.recorded, 1)
			require.Equal(testInstance, testCase.expectedArguments, executor.recorded[0].Arguments)
			require.Equal(testInstance, testManagerWorkingDirectoryConstant, executor.recorded[0].WorkingDirectory)
			require.Equal(testInstance, "0", executor.recorded[0].EnvironmentVariables["GIT_TERMINAL_PROMPT"])
		})
	}
}

func TestRepositoryManagerRejectsBlankNames(testInstance *testing.T) {
	executor := &fakeGitExecutor{}
	manager := newTestManager(testInstance, executor, &stubInspector{})

	require.ErrorIs(testInstance, manager.Fetch(context.Background(), " ", true), gitrepo.ErrEmptyRemote)
	require.ErrorIs(testInstance, manager.DeleteRemoteBranch(context.Background(), testRemoteNameConstant, ""), gitrepo.ErrEmptyBranch)
	require.ErrorIs(testInstance, manager.PruneRemote(context.Background(), ""), gitrepo.ErrEmptyRemote)
	_, mergedError := manager.ListMergedRemoteBranches(context.Background(), "")
	require.ErrorIs(testInstance, mergedError, gitrepo.ErrEmptyReference)
	require.Empty(testInstance, executor.recorded)
}

func TestRepositoryManagerListsBranchesInGitOrder(testInstance *testing.T) {
	executor := &fakeGitExecutor{results: map[string]execshell.ExecutionResult{
		"branch -r --no-color":                      {StandardOutput: "  origin/HEAD -> origin/main\n  origin/main\n  origin/zeta\n  origin/alpha\n\n"},
		"branch -r --no-color --merged origin/main": {StandardOutput: "  origin/main\n  origin/zeta\n"},
	}}
	manager := newTestManager(testInstance, executor, &stubInspector{})

	branches, listError := manager.ListRemoteBranches(context.Background())
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []string{"origin/HEAD -> origin/main", "origin/main", "origin/zeta", "origin/alpha"}, branches)

	mergedBranches, mergedError := manager.ListMergedRemoteBranches(context.Background(), "origin/main")
	require.NoError(testInstance, mergedError)
	require.Equal(testInstance, []string{"origin/main", "origin/zeta"}, mergedBranches)
}

func TestRepositoryManagerWrapsCommandFailures(testInstance *testing.T) {
	commandFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit},
		Result:  execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: 'origin' does not appear to be a git repository"},
	}
	executor := &fakeGitExecutor{defaultError: commandFailure}
	manager := newTestManager(testInstance, executor, &stubInspector{})

	fetchError := manager.Fetch(context.Background(), testRemoteNameConstant, true)
	require.Error(testInstance, fetchError)
	var failedError execshell.CommandFailedError
	require.ErrorAs(testInstance, fetchError, &failedError)
	require.Equal(testInstance, 128, failedError.Result.ExitCode)

	_, listError := manager.ListRemoteBranches(context.Background())
	require.ErrorAs(testInstance, listError, &failedError)
}

func TestRepositoryManagerLastCommit(testInstance *testing.T) {
	testCases := []struct {
		name            string
		output          string
		failure         error
		expectedSummary gitrepo.CommitSummary
		expectedError   error
		expectAnyError  bool
	}{
		{
			name:   "parses_fields",
			output: "a1b2c3d\x1fAdd login form\x1fAda Lovelace\x1f2024-03-01T10:00:00+01:00\n",
			expectedSummary: gitrepo.CommitSummary{
				Hash:       "a1b2c3d",
				Subject:    "Add login form",
				AuthorName: "Ada Lovelace",
				CommitDate: "2024-03-01T10:00:00+01:00",
			},
		},
		{
			name:   "keeps_empty_subject",
			output: "a1b2c3d\x1f\x1fAda Lovelace\x1f2024-03-01T10:00:00+01:00",
			expectedSummary: gitrepo.CommitSummary{
				Hash:       "a1b2c3d",
				AuthorName: "Ada Lovelace",
				CommitDate: "2024-03-01T10:00:00+01:00",
			},
		},
		{
			name:          "malformed_output",
			output:        "a1b2c3d Add login form",
			expectedError: gitrepo.ErrMalformedCommitSummary,
		},
		{
			name:          "empty_output",
			output:        "",
			expectedError: gitrepo.ErrMalformedCommitSummary,
		},
		{
			name:           "missing_reference",
			failure:        errors.New("unknown revision"),
			expectAnyError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			argumentsKey := "log -1 --format=%h%x1f%s%x1f%an%x1f%cI origin/feature --"
			executor := &fakeGitExecutor{
				results: map[string]execshell.ExecutionResult{argumentsKey: {StandardOutput: testCase.output}},
			}
			if testCase.failure != nil {
				executor.failures = map[string]error{argumentsKey: testCase.failure}
			}
			manager := newTestManager(testInstance, executor, &stubInspector{})

			summary, lookupError := manager.LastCommit(context.Background(), "origin/feature")
			switch {
			case testCase.expectedError != nil:
				require.ErrorIs(testInstance, lookupError, testCase.expectedError)
			case testCase.expectAnyError:
				require.Error(testInstance, lookupError)
			default:
				require.NoError(testInstance, lookupError)
				require.Equal(testInstance, testCase.expectedSummary, summary)
			}
		})
	}
}
