package prune

import (
	"errors"
	"fmt"
	"strings"
)

const (
	notRepositoryMessageConstant              = "not a git repository with the configured remote"
	runLockedMessageConstant                  = "another prune-merged run holds the repository lock"
	repositoryNotConfiguredMessageConstant    = "prune repository not configured"
	reporterNotConfiguredMessageConstant      = "prune reporter not configured"
	prompterNotConfiguredMessageConstant      = "prune confirmation prompter not configured"
	mainBranchMissingTemplateConstant         = "main branch %s/%s not found on remote"
	mainBranchMissingWithHintTemplateConstant = "main branch %s/%s not found on remote (available: %s)"
	availableBranchesSeparatorConstant        = ", "
)

// ErrNotRepository indicates the working directory is not a git repository with the configured remote.
var ErrNotRepository = errors.New(notRepositoryMessageConstant)

// ErrRunLocked indicates a concurrent run holds the repository lock.
var ErrRunLocked = errors.New(runLockedMessageConstant)

// ErrRepositoryNotConfigured indicates NewService received no Repository.
var ErrRepositoryNotConfigured = errors.New(repositoryNotConfiguredMessageConstant)

// ErrReporterNotConfigured indicates NewService received no Reporter.
var ErrReporterNotConfigured = errors.New(reporterNotConfiguredMessageConstant)

// ErrPrompterNotConfigured indicates NewService received no ConfirmationPrompter.
var ErrPrompterNotConfigured = errors.New(prompterNotConfiguredMessageConstant)

// MainBranchMissingError reports that <remote>/<main> was absent after fetching.
type MainBranchMissingError struct {
	RemoteName        string
	MainBranch        string
	AvailableBranches []string
}

// Error describes the missing branch and the hint shown to the user.
func (missing MainBranchMissingError) Error() string {
	if len(missing.AvailableBranches) == 0 {
		return fmt.Sprintf(mainBranchMissingTemplateConstant, missing.RemoteName, missing.MainBranch)
	}
	return fmt.Sprintf(mainBranchMissingWithHintTemplateConstant, missing.RemoteName, missing.MainBranch, strings.Join(missing.AvailableBranches, availableBranchesSeparatorConstant))
}
