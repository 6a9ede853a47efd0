package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/prune-merged/internal/execshell"
)

const (
	gitFetchSubcommandConstant          = "fetch"
	gitPruneFlagConstant                = "--prune"
	gitBranchSubcommandConstant         = "branch"
	gitRemoteBranchesFlagConstant       = "-r"
	gitNoColorFlagConstant              = "--no-color"
	gitMergedFlagConstant               = "--merged"
	gitLogSubcommandConstant            = "log"
	gitSingleCommitFlagConstant         = "-1"
	gitCommitSummaryFormatFlagConstant  = "--format=%h%x1f%s%x1f%an%x1f%cI"
	gitEndOfOptionsConstant             = "--"
	gitPushSubcommandConstant           = "push"
	gitDeleteFlagConstant               = "--delete"
	gitRemoteSubcommandConstant         = "remote"
	gitPruneSubcommandConstant          = "prune"
	gitTerminalPromptEnvironmentName    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisableValue       = "0"
	commitSummaryFieldSeparatorConstant = "\x1f"
	commitSummaryFieldCountConstant     = 4
	outputLineSeparatorConstant         = "\n"

	executorNotConfiguredMessageConstant  = "git executor not configured"
	inspectorNotConfiguredMessageConstant = "repository inspector not configured"
	malformedCommitSummaryMessageConstant = "malformed commit summary"
	emptyReferenceMessageConstant         = "reference name required"
	emptyRemoteMessageConstant            = "remote name required"
	emptyBranchMessageConstant            = "branch name required"

	fetchErrorTemplateConstant              = "unable to fetch %s: %w"
	listBranchesErrorTemplateConstant       = "unable to list remote branches: %w"
	listMergedBranchesErrorTemplateConstant = "unable to list remote branches merged into %s: %w"
	lastCommitErrorTemplateConstant         = "unable to read last commit of %s: %w"
	malformedCommitSummaryTemplateConstant  = "%w: %q"
	deleteBranchErrorTemplateConstant       = "unable to delete %s from %s: %w"
	pruneRemoteErrorTemplateConstant        = "unable to prune %s: %w"
	inspectRepositoryErrorTemplateConstant  = "unable to inspect repository: %w"
)

// ErrGitExecutorNotConfigured indicates NewRepositoryManager received a nil executor.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ErrRepositoryInspectorNotConfigured indicates NewRepositoryManager received a nil inspector.
var ErrRepositoryInspectorNotConfigured = errors.New(inspectorNotConfiguredMessageConstant)

// ErrMalformedCommitSummary indicates git log output did not contain the expected fields.
var ErrMalformedCommitSummary = errors.New(malformedCommitSummaryMessageConstant)

// ErrEmptyReference indicates a blank ref was passed to a query.
var ErrEmptyReference = errors.New(emptyReferenceMessageConstant)

// ErrEmptyRemote indicates a blank remote name was passed to an operation.
var ErrEmptyRemote = errors.New(emptyRemoteMessageConstant)

// ErrEmptyBranch indicates a blank branch name was passed to a deletion.
var ErrEmptyBranch = errors.New(emptyBranchMessageConstant)

// GitExecutor runs git subcommands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// StateInspector resolves local repository metadata.
type StateInspector interface {
	Inspect(path string, remoteName string) (RepositoryState, error)
}

// CommitSummary describes the most recent commit of a ref.
type CommitSummary struct {
	Hash       string
	Subject    string
	AuthorName string
	CommitDate string
}

// RepositoryManager runs the git operations of a prune run against one working directory.
type RepositoryManager struct {
	executor         GitExecutor
	inspector        StateInspector
	workingDirectory string
}

// NewRepositoryManager constructs a RepositoryManager bound to workingDirectory.
func NewRepositoryManager(executor GitExecutor, inspector StateInspector, workingDirectory string) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if inspector == nil {
		return nil, ErrRepositoryInspectorNotConfigured
	}
	return &RepositoryManager{executor: executor, inspector: inspector, workingDirectory: workingDirectory}, nil
}

// IsRepository reports whether the working directory is a git repository with the named remote.
func (manager *RepositoryManager) IsRepository(executionContext context.Context, remoteName string) (bool, error) {
	_, inspectionError := manager.inspector.Inspect(manager.workingDirectory, remoteName)
	switch {
	case inspectionError == nil:
		return true, nil
	case errors.Is(inspectionError, ErrRepositoryNotFound), errors.Is(inspectionError, ErrRemoteNotConfigured):
		return false, nil
	default:
		return false, fmt.Errorf(inspectRepositoryErrorTemplateConstant, inspectionError)
	}
}

// Describe returns the git directory and remote URLs of the working directory.
func (manager *RepositoryManager) Describe(executionContext context.Context, remoteName string) (RepositoryState, error) {
	state, inspectionError := manager.inspector.Inspect(manager.workingDirectory, remoteName)
	if inspectionError != nil {
		return RepositoryState{}, fmt.Errorf(inspectRepositoryErrorTemplateConstant, inspectionError)
	}
	return state, nil
}

// Fetch updates remote-tracking refs, optionally pruning refs deleted upstream.
func (manager *RepositoryManager) Fetch(executionContext context.Context, remoteName string, prune bool) error {
	trimmedRemote := strings.TrimSpace(remoteName)
	if len(trimmedRemote) == 0 {
		return ErrEmptyRemote
	}

	arguments := []string{gitFetchSubcommandConstant}
	if prune {
		arguments = append(arguments, gitPruneFlagConstant)
	}
	arguments = append(arguments, trimmedRemote)

	if _, executionError := manager.executeGit(executionContext, arguments); executionError != nil {
		return fmt.Errorf(fetchErrorTemplateConstant, trimmedRemote, executionError)
	}
	return nil
}

// ListRemoteBranches returns every remote-tracking ref line, in git's order.
func (manager *RepositoryManager) ListRemoteBranches(executionContext context.Context) ([]string, error) {
	executionResult, executionError := manager.executeGit(executionContext, []string{gitBranchSubcommandConstant, gitRemoteBranchesFlagConstant, gitNoColorFlagConstant})
	if executionError != nil {
		return nil, fmt.Errorf(listBranchesErrorTemplateConstant, executionError)
	}
	return splitOutputLines(executionResult.StandardOutput), nil
}

// ListMergedRemoteBranches returns remote-tracking refs reachable from reference, in git's order.
func (manager *RepositoryManager) ListMergedRemoteBranches(executionContext context.Context, reference string) ([]string, error) {
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) == 0 {
		return nil, ErrEmptyReference
	}

	executionResult, executionError := manager.executeGit(executionContext, []string{
		gitBranchSubcommandConstant,
		gitRemoteBranchesFlagConstant,
		gitNoColorFlagConstant,
		gitMergedFlagConstant,
		trimmedReference,
	})
	if executionError != nil {
		return nil, fmt.Errorf(listMergedBranchesErrorTemplateConstant, trimmedReference, executionError)
	}
	return splitOutputLines(executionResult.StandardOutput), nil
}

// LastCommit returns the short hash, subject, author, and ISO commit date of reference.
func (manager *RepositoryManager) LastCommit(executionContext context.Context, reference string) (CommitSummary, error) {
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) == 0 {
		return CommitSummary{}, ErrEmptyReference
	}

	executionResult, executionError := manager.executeGit(executionContext, []string{
		gitLogSubcommandConstant,
		gitSingleCommitFlagConstant,
		gitCommitSummaryFormatFlagConstant,
		trimmedReference,
		gitEndOfOptionsConstant,
	})
	if executionError != nil {
		return CommitSummary{}, fmt.Errorf(lastCommitErrorTemplateConstant, trimmedReference, executionError)
	}

	rawSummary := strings.TrimRight(executionResult.StandardOutput, "\r\n")
	fields := strings.Split(rawSummary, commitSummaryFieldSeparatorConstant)
	if len(fields) != commitSummaryFieldCountConstant || len(strings.TrimSpace(fields[0])) == 0 {
		return CommitSummary{}, fmt.Errorf(lastCommitErrorTemplateConstant, trimmedReference, fmt.Errorf(malformedCommitSummaryTemplateConstant, ErrMalformedCommitSummary, rawSummary))
	}

	return CommitSummary{
		Hash:       strings.TrimSpace(fields[0]),
		Subject:    strings.TrimSpace(fields[1]),
		AuthorName: strings.TrimSpace(fields[2]),
		CommitDate: strings.TrimSpace(fields[3]),
	}, nil
}

// DeleteRemoteBranch removes branch from remoteName with git push --delete.
func (manager *RepositoryManager) DeleteRemoteBranch(executionContext context.Context, remoteName string, branchName string) error {
	trimmedRemote := strings.TrimSpace(remoteName)
	if len(trimmedRemote) == 0 {
		return ErrEmptyRemote
	}
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) == 0 {
		return ErrEmptyBranch
	}

	if _, executionError := manager.executeGit(executionContext, []string{gitPushSubcommandConstant, trimmedRemote, gitDeleteFlagConstant, trimmedBranch}); executionError != nil {
		return fmt.Errorf(deleteBranchErrorTemplateConstant, trimmedBranch, trimmedRemote, executionError)
	}
	return nil
}

// PruneRemote removes local remote-tracking refs whose upstream branch no longer exists.
func (manager *RepositoryManager) PruneRemote(executionContext context.Context, remoteName string) error {
	trimmedRemote := strings.TrimSpace(remoteName)
	if len(trimmedRemote) == 0 {
		return ErrEmptyRemote
	}

	if _, executionError := manager.executeGit(executionContext, []string{gitRemoteSubcommandConstant, gitPruneSubcommandConstant, trimmedRemote}); executionError != nil {
		return fmt.Errorf(pruneRemoteErrorTemplateConstant, trimmedRemote, executionError)
	}
	return nil
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, arguments []string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     manager.workingDirectory,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentName: gitTerminalPromptDisableValue},
	})
}

func splitOutputLines(output string) []string {
	rawLines := strings.Split(output, outputLineSeparatorConstant)
	lines := make([]string, 0, len(rawLines))
	for _, rawLine := range rawLines {
		trimmedLine := strings.TrimSpace(rawLine)
		if len(trimmedLine) == 0 {
			continue
		}
		lines = append(lines, trimmedLine)
	}
	return lines
}
