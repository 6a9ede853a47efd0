package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitFetchSubcommandNameConstant  = "fetch"
	gitBranchSubcommandNameConstant = "branch"
	gitLogSubcommandNameConstant    = "log"
	gitPushSubcommandNameConstant   = "push"
	gitRemoteSubcommandNameConstant = "remote"
	gitRemotePruneSubcommandConst   = "prune"
	gitMergedFlagConstant           = "--merged"
	gitDeleteFlagConstant           = "--delete"
	gitPruneFlagConstant            = "--prune"
	gitEndOfOptionsConstant         = "--"
	gitFetchAllRemotesLabelConstant = "all remotes"
)

const (
	gitFetchStartTemplateConstant                   = "Fetching from %s in %s"
	gitFetchPruneStartTemplateConstant              = "Fetching from %s and pruning deleted branches in %s"
	gitFetchSuccessTemplateConstant                 = "Fetched from %s in %s"
	gitFetchFailureTemplateConstant                 = "Failed to fetch from %s in %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant        = "Unable to fetch from %s in %s: %s"
	gitRemoteBranchListStartTemplateConstant        = "Listing remote branches in %s"
	gitRemoteBranchListSuccessTemplateConstant      = "Listed remote branches in %s"
	gitRemoteBranchListFailureTemplateConstant      = "Failed to list remote branches in %s (exit code %d%s)"
	gitRemoteBranchListExecFailureTemplateConstant  = "Unable to list remote branches in %s: %s"
	gitMergedBranchListStartTemplateConstant        = "Listing remote branches merged into %s in %s"
	gitMergedBranchListSuccessTemplateConstant      = "Listed remote branches merged into %s in %s"
	gitMergedBranchListFailureTemplateConstant      = "Failed to list remote branches merged into %s in %s (exit code %d%s)"
	gitMergedBranchListExecFailureTemplateConstant  = "Unable to list remote branches merged into %s in %s: %s"
	gitLastCommitStartTemplateConstant              = "Reading last commit of %s in %s"
	gitLastCommitSuccessTemplateConstant            = "Read last commit of %s in %s"
	gitLastCommitFailureTemplateConstant            = "Failed to read last commit of %s in %s (exit code %d%s)"
	gitLastCommitExecutionFailureTemplateConstant   = "Unable to read last commit of %s in %s: %s"
	gitPushDeletionStartTemplateConstant            = "Deleting remote branch %s from %s in %s"
	gitPushDeletionSuccessTemplateConstant          = "Deleted remote branch %s from %s in %s"
	gitPushDeletionFailureTemplateConstant          = "Failed to delete remote branch %s from %s in %s (exit code %d%s)"
	gitPushDeletionExecutionFailureTemplateConstant = "Unable to delete remote branch %s from %s in %s: %s"
	gitRemotePruneStartTemplateConstant             = "Pruning stale tracking branches of %s in %s"
	gitRemotePruneSuccessTemplateConstant           = "Pruned stale tracking branches of %s in %s"
	gitRemotePruneFailureTemplateConstant           = "Failed to prune stale tracking branches of %s in %s (exit code %d%s)"
	gitRemotePruneExecutionFailureTemplateConstant  = "Unable to prune stale tracking branches of %s in %s: %s"
)

// stageTemplates holds one message template per lifecycle stage. Start and
// success templates take the subject arguments followed by the working
// directory; the failure template additionally takes the exit code and the
// standard error suffix; the execution failure template takes the failure text.
type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	arguments := command.Details.Arguments
	subjects, templates, described := formatter.describeGitCommand(arguments)
	if !described {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	subjectArguments := make([]any, 0, len(subjects)+3)
	for _, subject := range subjects {
		subjectArguments = append(subjectArguments, subject)
	}
	subjectArguments = append(subjectArguments, workingDirectory)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subjectArguments...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subjectArguments...)
	case messageStageFailure:
		subjectArguments = append(subjectArguments, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		return fmt.Sprintf(templates.failure, subjectArguments...)
	case messageStageExecutionFailure:
		subjectArguments = append(subjectArguments, formatter.describeFailure(failure))
		return fmt.Sprintf(templates.executionFailure, subjectArguments...)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCommand(arguments []string) ([]string, stageTemplates, bool) {
	subcommand := strings.TrimSpace(arguments[0])
	positional := positionalArguments(arguments[1:])

	switch subcommand {
	case gitFetchSubcommandNameConstant:
		remoteName := gitFetchAllRemotesLabelConstant
		if len(positional) > 0 {
			remoteName = positional[0]
		}
		startTemplate := gitFetchStartTemplateConstant
		if containsArgument(arguments, gitPruneFlagConstant) {
			startTemplate = gitFetchPruneStartTemplateConstant
		}
		return []string{remoteName}, stageTemplates{
			start:            startTemplate,
			success:          gitFetchSuccessTemplateConstant,
			failure:          gitFetchFailureTemplateConstant,
			executionFailure: gitFetchExecutionFailureTemplateConstant,
		}, true
	case gitBranchSubcommandNameConstant:
		if mergedReference := findFlagValue(arguments, gitMergedFlagConstant); len(mergedReference) > 0 {
			return []string{mergedReference}, stageTemplates{
				start:            gitMergedBranchListStartTemplateConstant,
				success:          gitMergedBranchListSuccessTemplateConstant,
				failure:          gitMergedBranchListFailureTemplateConstant,
				executionFailure: gitMergedBranchListExecFailureTemplateConstant,
			}, true
		}
		return nil, stageTemplates{
			start:            gitRemoteBranchListStartTemplateConstant,
			success:          gitRemoteBranchListSuccessTemplateConstant,
			failure:          gitRemoteBranchListFailureTemplateConstant,
			executionFailure: gitRemoteBranchListExecFailureTemplateConstant,
		}, true
	case gitLogSubcommandNameConstant:
		return []string{formatter.ensureValue(lastElement(positional))}, stageTemplates{
			start:            gitLastCommitStartTemplateConstant,
			success:          gitLastCommitSuccessTemplateConstant,
			failure:          gitLastCommitFailureTemplateConstant,
			executionFailure: gitLastCommitExecutionFailureTemplateConstant,
		}, true
	case gitPushSubcommandNameConstant:
		deletionTarget := findFlagValue(arguments, gitDeleteFlagConstant)
		if len(deletionTarget) == 0 {
			return nil, stageTemplates{}, false
		}
		remoteName := ""
		if len(positional) > 0 {
			remoteName = positional[0]
		}
		return []string{deletionTarget, formatter.ensureValue(remoteName)}, stageTemplates{
			start:            gitPushDeletionStartTemplateConstant,
			success:          gitPushDeletionSuccessTemplateConstant,
			failure:          gitPushDeletionFailureTemplateConstant,
			executionFailure: gitPushDeletionExecutionFailureTemplateConstant,
		}, true
	case gitRemoteSubcommandNameConstant:
		if len(positional) < 2 || positional[0] != gitRemotePruneSubcommandConst {
			return nil, stageTemplates{}, false
		}
		return []string{positional[1]}, stageTemplates{
			start:            gitRemotePruneStartTemplateConstant,
			success:          gitRemotePruneSuccessTemplateConstant,
			failure:          gitRemotePruneFailureTemplateConstant,
			executionFailure: gitRemotePruneExecutionFailureTemplateConstant,
		}, true
	default:
		return nil, stageTemplates{}, false
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = commandLabel + commandArgumentsJoinSeparatorConstant + strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	}
	workingDirectorySuffix := emptyStringConstant
	if trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory); len(trimmedWorkingDirectory) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

// positionalArguments drops flags, the values of --merged and --delete, and
// everything after a bare "--".
func positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		trimmed := strings.TrimSpace(arguments[index])
		if len(trimmed) == 0 {
			continue
		}
		if trimmed == gitEndOfOptionsConstant {
			break
		}
		if trimmed == gitMergedFlagConstant || trimmed == gitDeleteFlagConstant {
			index++
			continue
		}
		if strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		positional = append(positional, trimmed)
	}
	return positional
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index+1 < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}

func lastElement(values []string) string {
	if len(values) == 0 {
		return emptyStringConstant
	}
	return values[len(values)-1]
}
