package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/prune-merged/internal/execshell"
	"github.com/temirov/prune-merged/internal/gitrepo"
	"github.com/temirov/prune-merged/internal/prompt"
	"github.com/temirov/prune-merged/internal/prune"
	"github.com/temirov/prune-merged/internal/runlock"
	"github.com/temirov/prune-merged/internal/ui"
	"github.com/temirov/prune-merged/internal/utils"
	flagutils "github.com/temirov/prune-merged/internal/utils/flags"
)

const (
	flagMainBranchNameConstant            = "main"
	flagMainBranchShorthandConstant       = "m"
	flagMainBranchDescriptionConstant     = "Branch that merged branches are compared against"
	flagRemoteNameConstant                = "remote"
	flagRemoteShorthandConstant           = "r"
	flagRemoteDescriptionConstant         = "Remote whose branches are pruned"
	flagDryRunNameConstant                = "dry-run"
	flagDryRunShorthandConstant           = "d"
	flagDryRunDescriptionConstant         = "List merged branches without deleting them"
	flagForceNameConstant                 = "force"
	flagForceShorthandConstant            = "f"
	flagForceDescriptionConstant          = "Delete without asking for confirmation"
	flagNoKeepDevelopNameConstant         = "no-keep-develop"
	flagNoKeepDevelopDescriptionConstant  = "Offer the develop branch for deletion as well"
	flagProtectNameConstant               = "protect"
	flagProtectShorthandConstant          = "p"
	flagProtectDescriptionConstant        = "Branch name that is never deleted (repeatable)"
	flagOutputNameConstant                = "output"
	flagOutputShorthandConstant           = "o"
	flagOutputDescriptionConstant         = "Render candidates as a table or as YAML documents"
	commandExecutionErrorTemplateConstant = "prune failed: %w"
	workingDirectoryErrorTemplateConstant = "unable to determine working directory: %w"
	unexpectedArgumentsMessageConstant    = "prune-merged does not accept positional arguments"
	runCompletedLogMessageConstant        = "prune command finished"
	logFieldOutcomeConstant               = "outcome"
	logFieldOutputFormatConstant          = "output_format"
	reporterCloseFailedLogMessageConstant = "unable to flush YAML output"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// HumanReadableLoggingProvider reports whether console narration is enabled.
type HumanReadableLoggingProvider func() bool

// ConfigurationProvider returns the prune configuration resolved from files and environment.
type ConfigurationProvider func() prune.CommandConfiguration

// CommandBuilder assembles the prune command and its collaborators.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	ConfigurationProvider        ConfigurationProvider
	Executor                     gitrepo.GitExecutor
	Inspector                    gitrepo.StateInspector
	Prompter                     prune.ConfirmationPrompter
	Locker                       prune.RunLocker
	Clock                        prune.Clock
	WorkingDirectory             string
}

type commandFlagValues struct {
	mainBranch        string
	remoteName        string
	dryRun            bool
	force             bool
	noKeepDevelop     bool
	protectedBranches []string
	outputFormat      string
}

// Build constructs the prune command with its flags registered.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	flagValues := &commandFlagValues{}
	defaults := prune.DefaultCommandConfiguration()

	command := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, arguments, flagValues)
		},
	}

	flagSet := command.Flags()
	flagSet.StringVarP(&flagValues.mainBranch, flagMainBranchNameConstant, flagMainBranchShorthandConstant, defaults.MainBranch, flagMainBranchDescriptionConstant)
	flagSet.StringVarP(&flagValues.remoteName, flagRemoteNameConstant, flagRemoteShorthandConstant, defaults.RemoteName, flagRemoteDescriptionConstant)
	flagutils.AddToggleFlag(flagSet, &flagValues.dryRun, flagDryRunNameConstant, flagDryRunShorthandConstant, defaults.DryRun, flagDryRunDescriptionConstant)
	flagutils.AddToggleFlag(flagSet, &flagValues.force, flagForceNameConstant, flagForceShorthandConstant, false, flagForceDescriptionConstant)
	flagSet.BoolVar(&flagValues.noKeepDevelop, flagNoKeepDevelopNameConstant, false, flagNoKeepDevelopDescriptionConstant)
	flagSet.StringSliceVarP(&flagValues.protectedBranches, flagProtectNameConstant, flagProtectShorthandConstant, nil, flagProtectDescriptionConstant)
	flagutils.AddChoiceFlag(flagSet, &flagValues.outputFormat, flagOutputNameConstant, flagOutputShorthandConstant, defaults.OutputFormat, []string{prune.OutputFormatTable, prune.OutputFormatYAML}, flagOutputDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string, flagValues *commandFlagValues) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.resolveConfiguration(command, flagValues)
	options := configuration.Options()
	options.Force = flagValues.force

	logger := builder.resolveLogger()

	workingDirectory, workingDirectoryError := builder.resolveWorkingDirectory()
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor, builder.resolveInspector(), workingDirectory)
	if managerError != nil {
		return managerError
	}

	reporter, closeReporter := builder.resolveReporter(command, configuration.OutputFormat, logger)
	defer closeReporter()

	service, serviceError := prune.NewService(logger, prune.Dependencies{
		Repository: repositoryManager,
		Prompter:   builder.resolvePrompter(command, configuration.OutputFormat),
		Reporter:   reporter,
		Locker:     builder.resolveLocker(),
		Clock:      builder.Clock,
	})
	if serviceError != nil {
		return serviceError
	}

	result, runError := service.Run(command.Context(), options)
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	logger.Debug(
		runCompletedLogMessageConstant,
		zap.String(logFieldOutcomeConstant, string(result.Outcome)),
		zap.String(logFieldOutputFormatConstant, configuration.OutputFormat),
	)
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command, flagValues *commandFlagValues) prune.CommandConfiguration {
	configuration := prune.DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagSet := command.Flags()
	if flagSet.Changed(flagMainBranchNameConstant) {
		configuration.MainBranch = flagValues.mainBranch
	}
	if flagSet.Changed(flagRemoteNameConstant) {
		configuration.RemoteName = flagValues.remoteName
	}
	if flagSet.Changed(flagDryRunNameConstant) {
		configuration.DryRun = flagValues.dryRun
	}
	if flagSet.Changed(flagNoKeepDevelopNameConstant) && flagValues.noKeepDevelop {
		configuration.KeepDevelop = false
	}
	if flagSet.Changed(flagProtectNameConstant) {
		configuration.ProtectedBranches = append(append([]string(nil), configuration.ProtectedBranches...), flagValues.protectedBranches...)
	}
	if flagSet.Changed(flagOutputNameConstant) {
		configuration.OutputFormat = flagValues.outputFormat
	}

	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	return resolveProvidedLogger(builder.LoggerProvider)
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveWorkingDirectory() (string, error) {
	if len(strings.TrimSpace(builder.WorkingDirectory)) > 0 {
		return builder.WorkingDirectory, nil
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}
	return workingDirectory, nil
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (gitrepo.GitExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	var executorOptions []execshell.ShellExecutorOption
	if builder.humanReadableLogging() {
		consoleLogger := resolveProvidedLogger(builder.ConsoleLoggerProvider)
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(consoleLogger)))
	}

	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), executorOptions...)
}

func (builder *CommandBuilder) resolveInspector() gitrepo.StateInspector {
	if builder.Inspector != nil {
		return builder.Inspector
	}
	return gitrepo.NewRepositoryInspector()
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command, outputFormat string) prune.ConfirmationPrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	promptOutput := command.OutOrStdout()
	if outputFormat == prune.OutputFormatYAML {
		promptOutput = command.ErrOrStderr()
	}
	return prompt.NewIOConfirmationPrompter(command.InOrStdin(), promptOutput)
}

func (builder *CommandBuilder) resolveLocker() prune.RunLocker {
	if builder.Locker != nil {
		return builder.Locker
	}
	return runlock.NewFileLocker()
}

func (builder *CommandBuilder) resolveReporter(command *cobra.Command, outputFormat string, logger *zap.Logger) (prune.Reporter, func()) {
	if outputFormat != prune.OutputFormatYAML {
		return ui.NewConsoleReporter(command.OutOrStdout()), func() {}
	}

	runIdentifier, _ := utils.NewCommandContextAccessor().RunIdentifier(command.Context())
	yamlReporter := ui.NewYAMLReporter(command.OutOrStdout(), logger, runIdentifier)
	return yamlReporter, func() {
		if closeError := yamlReporter.Close(); closeError != nil {
			logger.Warn(reporterCloseFailedLogMessageConstant, zap.Error(closeError))
		}
	}
}

func resolveProvidedLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
