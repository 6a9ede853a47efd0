package prune

import (
	"context"

	"github.com/temirov/prune-merged/internal/gitrepo"
)

// Repository exposes the git operations a prune run performs.
type Repository interface {
	IsRepository(executionContext context.Context, remoteName string) (bool, error)
	Describe(executionContext context.Context, remoteName string) (gitrepo.RepositoryState, error)
	Fetch(executionContext context.Context, remoteName string, prune bool) error
	ListRemoteBranches(executionContext context.Context) ([]string, error)
	ListMergedRemoteBranches(executionContext context.Context, reference string) ([]string, error)
	LastCommit(executionContext context.Context, reference string) (gitrepo.CommitSummary, error)
	DeleteRemoteBranch(executionContext context.Context, remoteName string, branchName string) error
	PruneRemote(executionContext context.Context, remoteName string) error
}

// ConfirmationPrompter asks the user to approve the deletion phase.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}

// Reporter presents run progress and results to the user.
type Reporter interface {
	Info(message string)
	Warning(message string)
	Success(message string)
	BranchHint(title string, branches []string)
	Candidates(set CandidateSet)
	Summary(result RunResult)
}

// RunLocker serializes prune runs against the same repository.
type RunLocker interface {
	Acquire(lockPath string) (func() error, error)
}

// Dependencies bundles the collaborators of a Service.
type Dependencies struct {
	Repository Repository
	Prompter   ConfirmationPrompter
	Reporter   Reporter
	Locker     RunLocker
	Clock      Clock
}
