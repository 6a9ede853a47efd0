package prune

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/prune-merged/internal/gitrepo"
	"github.com/temirov/prune-merged/internal/runlock"
)

const (
	defaultRemoteNameConstant     = "origin"
	defaultMainBranchConstant     = "main"
	runLockFileNameConstant       = "prune-merged.lock"
	mainBranchHintLimitConstant   = 10
	confirmationPromptTemplate    = "Delete %d merged branches from %s? [y/N]: "
	fetchingMessageTemplate       = "Fetching latest changes from %s..."
	mainBranchMissingHintTitle    = "Available remote branches:"
	developKeptMessageTemplate    = "Keeping %s (use --no-keep-develop to include it)"
	protectedKeptMessageTemplate  = "Keeping protected branch %s"
	noCandidatesMessageConstant   = "No merged branches to delete."
	dryRunMessageTemplate         = "Dry run: %d branches would be deleted from %s. Nothing was changed."
	cancelledMessageConstant      = "Cancelled. No branches were deleted."
	deletedBranchMessageTemplate  = "Deleted %s/%s"
	deleteFailedMessageTemplate   = "Failed to delete %s/%s: %v"
	pruneWarningMessageTemplate   = "Unable to prune local tracking branches of %s: %v"
	lockReleaseWarningTemplate    = "Unable to release repository lock: %v"
	notRepositoryErrorTemplate    = "%w (remote %s)"
	runLockedErrorTemplate        = "%w: %w"
	describeErrorTemplate         = "unable to locate git directory: %w"
	lockErrorTemplate             = "unable to lock repository: %w"
	fetchErrorTemplate            = "fetch failed: %w"
	listBranchesErrorTemplate     = "unable to verify main branch: %w"
	listMergedErrorTemplate       = "unable to compute merged branches: %w"
	confirmationErrorTemplate     = "unable to read confirmation: %w"
	logFieldRemoteConstant        = "remote"
	logFieldMainBranchConstant    = "main_branch"
	logFieldBranchConstant        = "branch"
	logFieldCandidateCount        = "candidates"
	logFieldDeletedCount          = "deleted"
	logFieldFailedCount           = "failed"
	logFieldLockPathConstant      = "lock_path"
	logMessageLockAcquired        = "acquired repository lock"
	logMessageCommitLookupFailed  = "commit lookup failed, showing unknown"
	logMessageDeleteFailed        = "branch deletion failed"
	logMessageCandidatesSelected  = "merged branches selected"
	logMessageRunCompleted        = "prune completed"
	logMessageRemainingCountError = "unable to count remaining remote branches"
)

// Service deletes remote branches already merged into the main branch.
type Service struct {
	logger     *zap.Logger
	repository Repository
	prompter   ConfirmationPrompter
	reporter   Reporter
	locker     RunLocker
	clock      Clock
}

// NewService constructs a Service from its dependencies.
func NewService(logger *zap.Logger, dependencies Dependencies) (*Service, error) {
	if dependencies.Repository == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if dependencies.Reporter == nil {
		return nil, ErrReporterNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		logger:     logger,
		repository: dependencies.Repository,
		prompter:   dependencies.Prompter,
		reporter:   dependencies.Reporter,
		locker:     dependencies.Locker,
		clock:      clock,
	}, nil
}

// Run executes one prune: fetch, select merged branches, confirm, delete, prune, summarize.
func (service *Service) Run(executionContext context.Context, options Options) (RunResult, error) {
	options = normalizeOptions(options)
	remoteName := options.RemoteName

	isRepository, inspectionError := service.repository.IsRepository(executionContext, remoteName)
	if inspectionError != nil {
		return RunResult{}, inspectionError
	}
	if !isRepository {
		return RunResult{}, fmt.Errorf(notRepositoryErrorTemplate, ErrNotRepository, remoteName)
	}

	repositoryState, describeError := service.repository.Describe(executionContext, remoteName)
	if describeError != nil {
		return RunResult{}, fmt.Errorf(describeErrorTemplate, describeError)
	}

	release, lockError := service.acquireLock(repositoryState.GitDirectory)
	if lockError != nil {
		return RunResult{}, lockError
	}
	defer func() {
		if releaseError := release(); releaseError != nil {
			service.reporter.Warning(fmt.Sprintf(lockReleaseWarningTemplate, releaseError))
		}
	}()

	service.reporter.Info(fmt.Sprintf(fetchingMessageTemplate, remoteName))
	if fetchError := service.repository.Fetch(executionContext, remoteName, true); fetchError != nil {
		return RunResult{}, fmt.Errorf(fetchErrorTemplate, fetchError)
	}

	if verificationError := service.verifyMainBranch(executionContext, options); verificationError != nil {
		return RunResult{}, verificationError
	}

	mainReference := remoteReference(remoteName, options.MainBranch)
	mergedLines, mergedError := service.repository.ListMergedRemoteBranches(executionContext, mainReference)
	if mergedError != nil {
		return RunResult{}, fmt.Errorf(listMergedErrorTemplate, mergedError)
	}

	selection := selectCandidates(mergedLines, options)
	service.reportExclusions(selection.Exclusions)
	service.logger.Debug(logMessageCandidatesSelected,
		zap.String(logFieldRemoteConstant, remoteName),
		zap.String(logFieldMainBranchConstant, options.MainBranch),
		zap.Int(logFieldCandidateCount, len(selection.Branches)),
	)

	if len(selection.Branches) == 0 {
		service.reporter.Success(noCandidatesMessageConstant)
		return service.finish(RunResult{Outcome: OutcomeNoCandidates, RemoteName: remoteName}), nil
	}

	candidates := service.describeCandidates(executionContext, remoteName, selection.Branches)
	service.reporter.Candidates(CandidateSet{
		RemoteName:  remoteName,
		RemoteLabel: gitrepo.DescribeRemoteURL(repositoryState.PrimaryRemoteURL()),
		MainBranch:  options.MainBranch,
		DryRun:      options.DryRun,
		Candidates:  candidates,
	})

	if options.DryRun {
		service.reporter.Info(fmt.Sprintf(dryRunMessageTemplate, len(candidates), remoteName))
		return service.finish(RunResult{Outcome: OutcomeDryRun, RemoteName: remoteName, Candidates: candidates}), nil
	}

	if !options.Force {
		confirmed, confirmationError := service.prompter.Confirm(fmt.Sprintf(confirmationPromptTemplate, len(candidates), remoteName))
		if confirmationError != nil {
			return RunResult{}, fmt.Errorf(confirmationErrorTemplate, confirmationError)
		}
		if !confirmed {
			service.reporter.Info(cancelledMessageConstant)
			return service.finish(RunResult{Outcome: OutcomeCancelled, RemoteName: remoteName, Candidates: candidates}), nil
		}
	}

	result := service.deleteCandidates(executionContext, remoteName, candidates)

	if pruneError := service.repository.PruneRemote(executionContext, remoteName); pruneError != nil {
		service.reporter.Warning(fmt.Sprintf(pruneWarningMessageTemplate, remoteName, pruneError))
	}

	remainingLines, remainingError := service.repository.ListRemoteBranches(executionContext)
	if remainingError != nil {
		service.logger.Warn(logMessageRemainingCountError, zap.Error(remainingError))
	} else {
		result.RemainingRemoteBranchCount = countRemoteReferences(remoteName, concreteReferences(remainingLines))
		result.RemainingCountKnown = true
	}

	service.logger.Info(logMessageRunCompleted,
		zap.String(logFieldRemoteConstant, remoteName),
		zap.Int(logFieldDeletedCount, result.DeletedCount),
		zap.Int(logFieldFailedCount, result.FailedCount),
	)
	return service.finish(result), nil
}

func (service *Service) finish(result RunResult) RunResult {
	service.reporter.Summary(result)
	return result
}

func (service *Service) acquireLock(gitDirectory string) (func() error, error) {
	noopRelease := func() error { return nil }
	if service.locker == nil || len(strings.TrimSpace(gitDirectory)) == 0 {
		return noopRelease, nil
	}

	lockPath := filepath.Join(gitDirectory, runLockFileNameConstant)
	release, lockError := service.locker.Acquire(lockPath)
	if lockError != nil {
		if errors.Is(lockError, runlock.ErrLockHeld) {
			return nil, fmt.Errorf(runLockedErrorTemplate, ErrRunLocked, lockError)
		}
		return nil, fmt.Errorf(lockErrorTemplate, lockError)
	}
	service.logger.Debug(logMessageLockAcquired, zap.String(logFieldLockPathConstant, lockPath))
	if release == nil {
		return noopRelease, nil
	}
	return release, nil
}

func (service *Service) verifyMainBranch(executionContext context.Context, options Options) error {
	remoteLines, listError := service.repository.ListRemoteBranches(executionContext)
	if listError != nil {
		return fmt.Errorf(listBranchesErrorTemplate, listError)
	}

	references := concreteReferences(remoteLines)
	if containsReference(references, remoteReference(options.RemoteName, options.MainBranch)) {
		return nil
	}

	hint := references
	if len(hint) > mainBranchHintLimitConstant {
		hint = hint[:mainBranchHintLimitConstant]
	}
	hint = append([]string(nil), hint...)
	service.reporter.BranchHint(mainBranchMissingHintTitle, hint)
	return MainBranchMissingError{RemoteName: options.RemoteName, MainBranch: options.MainBranch, AvailableBranches: hint}
}

func (service *Service) reportExclusions(exclusions []branchExclusion) {
	for _, exclusion := range exclusions {
		switch exclusion.Reason {
		case exclusionReasonDevelop:
			service.reporter.Info(fmt.Sprintf(developKeptMessageTemplate, exclusion.Branch))
		case exclusionReasonProtected:
			service.reporter.Info(fmt.Sprintf(protectedKeptMessageTemplate, exclusion.Branch))
		}
	}
}

func (service *Service) describeCandidates(executionContext context.Context, remoteName string, branches []string) []Candidate {
	now := service.clock.Now()
	candidates := make([]Candidate, 0, len(branches))
	for _, branchName := range branches {
		record := service.lookupBranchRecord(executionContext, remoteName, branchName)
		candidates = append(candidates, Candidate{Record: record, Age: FormatRelativeDate(record.CommitDate, now)})
	}
	return candidates
}

func (service *Service) lookupBranchRecord(executionContext context.Context, remoteName string, branchName string) BranchRecord {
	summary, lookupError := service.repository.LastCommit(executionContext, remoteReference(remoteName, branchName))
	if lookupError != nil {
		service.logger.Debug(logMessageCommitLookupFailed, zap.String(logFieldBranchConstant, branchName), zap.Error(lookupError))
		return unknownBranchRecord(branchName)
	}
	return BranchRecord{
		Name:          branchName,
		CommitHash:    summary.Hash,
		CommitMessage: summary.Subject,
		AuthorName:    summary.AuthorName,
		CommitDate:    summary.CommitDate,
	}
}

func unknownBranchRecord(branchName string) BranchRecord {
	return BranchRecord{
		Name:          branchName,
		CommitHash:    unknownValueConstant,
		CommitMessage: unknownValueConstant,
		AuthorName:    unknownValueConstant,
		CommitDate:    unknownValueConstant,
	}
}

func (service *Service) deleteCandidates(executionContext context.Context, remoteName string, candidates []Candidate) RunResult {
	result := RunResult{Outcome: OutcomeCompleted, RemoteName: remoteName, Candidates: candidates}
	for _, candidate := range candidates {
		branchName := candidate.Record.Name
		if deleteError := service.repository.DeleteRemoteBranch(executionContext, remoteName, branchName); deleteError != nil {
			service.logger.Warn(logMessageDeleteFailed, zap.String(logFieldBranchConstant, branchName), zap.Error(deleteError))
			service.reporter.Warning(fmt.Sprintf(deleteFailedMessageTemplate, remoteName, branchName, deleteError))
			result.FailedCount++
			result.FailedBranches = append(result.FailedBranches, branchName)
			continue
		}
		service.reporter.Success(fmt.Sprintf(deletedBranchMessageTemplate, remoteName, branchName))
		result.DeletedCount++
		result.DeletedBranches = append(result.DeletedBranches, branchName)
	}
	return result
}

func normalizeOptions(options Options) Options {
	normalized := options
	normalized.RemoteName = strings.TrimSpace(options.RemoteName)
	if len(normalized.RemoteName) == 0 {
		normalized.RemoteName = defaultRemoteNameConstant
	}
	normalized.MainBranch = strings.TrimSpace(options.MainBranch)
	if len(normalized.MainBranch) == 0 {
		normalized.MainBranch = defaultMainBranchConstant
	}
	normalized.ProtectedBranches = sanitizeBranchNames(options.ProtectedBranches)
	return normalized
}
