package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"

	"github.com/temirov/prune-merged/internal/prune"
)

const (
	tableHeaderBranchConstant        = "Branch"
	tableHeaderCommitConstant        = "Commit"
	tableHeaderAuthorConstant        = "Author"
	tableHeaderAgeConstant           = "Age"
	tableHeaderMessageConstant       = "Message"
	tablePaddingConstant             = 2
	commitMessageMaxWidthConstant    = 60
	truncationSuffixConstant         = "..."
	warningPrefixConstant            = "Warning: "
	hintLineTemplateConstant         = "  %s"
	candidatesHeaderTemplateConstant = "Merged into %s/%s%s: %d branches"
	candidatesRemoteLabelTemplate    = " on %s"
	dryRunHeaderSuffixConstant       = " (dry run)"
	summaryDeletedTemplateConstant   = "Deleted %d branches from %s."
	summaryFailedTemplateConstant    = "Failed to delete %d branches: %s"
	summaryRemainingTemplateConstant = "Remaining remote branches on %s: %s"
	unknownCountConstant             = "unknown"
	failedBranchesSeparatorConstant  = ", "
	lineTerminatorConstant           = "\n"
)

var tableHeaders = []string{
	tableHeaderBranchConstant,
	tableHeaderCommitConstant,
	tableHeaderAuthorConstant,
	tableHeaderAgeConstant,
	tableHeaderMessageConstant,
}

// ConsoleReporter writes styled progress lines and a candidate table for interactive use.
type ConsoleReporter struct {
	writer io.Writer
	styles consoleStyles
}

// NewConsoleReporter constructs a ConsoleReporter writing to writer.
func NewConsoleReporter(writer io.Writer) *ConsoleReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ConsoleReporter{writer: writer, styles: newConsoleStyles(writer)}
}

// Info prints a neutral progress line.
func (reporter *ConsoleReporter) Info(message string) {
	reporter.writeLine(reporter.styles.info.Render(message))
}

// Warning prints a recoverable problem.
func (reporter *ConsoleReporter) Warning(message string) {
	reporter.writeLine(reporter.styles.warning.Render(warningPrefixConstant + message))
}

// Success prints a completed step.
func (reporter *ConsoleReporter) Success(message string) {
	reporter.writeLine(reporter.styles.success.Render(message))
}

// BranchHint prints a titled list of branch names.
func (reporter *ConsoleReporter) BranchHint(title string, branches []string) {
	reporter.writeLine(reporter.styles.heading.Render(title))
	for _, branchName := range branches {
		reporter.writeLine(fmt.Sprintf(hintLineTemplateConstant, reporter.styles.dim.Render(branchName)))
	}
}

// Candidates prints the merged branches as a table in selection order.
func (reporter *ConsoleReporter) Candidates(set prune.CandidateSet) {
	remoteLabel := ""
	if len(strings.TrimSpace(set.RemoteLabel)) > 0 {
		remoteLabel = fmt.Sprintf(candidatesRemoteLabelTemplate, set.RemoteLabel)
	}
	header := fmt.Sprintf(candidatesHeaderTemplateConstant, set.RemoteName, set.MainBranch, remoteLabel, len(set.Candidates))
	if set.DryRun {
		header += dryRunHeaderSuffixConstant
	}
	reporter.writeLine(reporter.styles.heading.Render(header))

	headers := make([]interface{}, 0, len(tableHeaders))
	for _, headerName := range tableHeaders {
		headers = append(headers, reporter.styles.heading.Render(headerName))
	}

	// Headers are styled up front: a header formatter receives the whole row with its newline.
	candidateTable := table.New(headers...).
		WithWriter(reporter.writer).
		WithPadding(tablePaddingConstant).
		WithWidthFunc(lipgloss.Width).
		WithFirstColumnFormatter(func(format string, values ...interface{}) string {
			return reporter.styles.branch.Render(fmt.Sprintf(format, values...))
		})

	for _, candidate := range set.Candidates {
		candidateTable.AddRow(
			candidate.Record.Name,
			candidate.Record.CommitHash,
			candidate.Record.AuthorName,
			candidate.Age,
			truncateMessage(candidate.Record.CommitMessage, commitMessageMaxWidthConstant),
		)
	}
	candidateTable.Print()
}

// Summary prints deletion counts and the remaining branch count. Runs that deleted nothing
// were already described by a status line, so only completed runs print a summary.
func (reporter *ConsoleReporter) Summary(result prune.RunResult) {
	if result.Outcome != prune.OutcomeCompleted {
		return
	}
	reporter.writeLine(reporter.styles.success.Render(fmt.Sprintf(summaryDeletedTemplateConstant, result.DeletedCount, result.RemoteName)))
	if result.FailedCount > 0 {
		failedList := strings.Join(result.FailedBranches, failedBranchesSeparatorConstant)
		reporter.writeLine(reporter.styles.warning.Render(fmt.Sprintf(summaryFailedTemplateConstant, result.FailedCount, failedList)))
	}
	reporter.writeLine(fmt.Sprintf(summaryRemainingTemplateConstant, result.RemoteName, formatRemainingCount(result)))
}

func (reporter *ConsoleReporter) writeLine(line string) {
	_, _ = io.WriteString(reporter.writer, line+lineTerminatorConstant)
}

func formatRemainingCount(result prune.RunResult) string {
	if !result.RemainingCountKnown {
		return unknownCountConstant
	}
	return strconv.Itoa(result.RemainingRemoteBranchCount)
}

func truncateMessage(message string, maxWidth int) string {
	runes := []rune(message)
	if len(runes) <= maxWidth {
		return message
	}
	return string(runes[:maxWidth-len(truncationSuffixConstant)]) + truncationSuffixConstant
}
