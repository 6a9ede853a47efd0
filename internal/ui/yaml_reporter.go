package ui

import (
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/prune-merged/internal/prune"
)

const (
	yamlIndentConstant             = 2
	candidatesDocumentKindConstant = "candidates"
	summaryDocumentKindConstant    = "summary"
	logFieldBranchesConstant       = "branches"
	logMessageYAMLEncodeFailed     = "unable to encode yaml document"
)

type candidatesDocument struct {
	Kind               string `yaml:"kind"`
	RunIdentifier      string `yaml:"run_id,omitempty"`
	prune.CandidateSet `yaml:",inline"`
}

type summaryDocument struct {
	Kind            string   `yaml:"kind"`
	RunIdentifier   string   `yaml:"run_id,omitempty"`
	Outcome         string   `yaml:"outcome"`
	Remote          string   `yaml:"remote"`
	Deleted         int      `yaml:"deleted"`
	Failed          int      `yaml:"failed"`
	DeletedBranches []string `yaml:"deleted_branches,omitempty"`
	FailedBranches  []string `yaml:"failed_branches,omitempty"`
	Remaining       string   `yaml:"remaining,omitempty"`
}

// YAMLReporter writes candidates and summaries as YAML documents; progress lines go to the logger.
type YAMLReporter struct {
	logger        *zap.Logger
	runIdentifier string
	encoder       *yaml.Encoder
	encoded       bool
	closeOnce     sync.Once
}

// NewYAMLReporter constructs a YAMLReporter writing documents to writer.
// A non-empty runIdentifier is recorded as run_id on every document.
func NewYAMLReporter(writer io.Writer, logger *zap.Logger, runIdentifier string) *YAMLReporter {
	if writer == nil {
		writer = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentConstant)
	return &YAMLReporter{logger: logger, runIdentifier: strings.TrimSpace(runIdentifier), encoder: encoder}
}

// Info logs a progress line.
func (reporter *YAMLReporter) Info(message string) {
	reporter.logger.Info(message)
}

// Warning logs a recoverable problem.
func (reporter *YAMLReporter) Warning(message string) {
	reporter.logger.Warn(message)
}

// Success logs a completed step.
func (reporter *YAMLReporter) Success(message string) {
	reporter.logger.Info(message)
}

// BranchHint logs the hint branches as a structured field.
func (reporter *YAMLReporter) BranchHint(title string, branches []string) {
	reporter.logger.Warn(title, zap.Strings(logFieldBranchesConstant, branches))
}

// Candidates encodes the candidate set as one YAML document.
func (reporter *YAMLReporter) Candidates(set prune.CandidateSet) {
	if set.Candidates == nil {
		set.Candidates = []prune.Candidate{}
	}
	reporter.encode(candidatesDocument{Kind: candidatesDocumentKindConstant, RunIdentifier: reporter.runIdentifier, CandidateSet: set})
}

// Summary encodes the run result as one YAML document for every outcome.
// The remaining count is only reported for runs that reached deletion.
func (reporter *YAMLReporter) Summary(result prune.RunResult) {
	remaining := ""
	if result.Outcome == prune.OutcomeCompleted {
		remaining = formatRemainingCount(result)
	}
	reporter.encode(summaryDocument{
		Kind:            summaryDocumentKindConstant,
		RunIdentifier:   reporter.runIdentifier,
		Outcome:         string(result.Outcome),
		Remote:          result.RemoteName,
		Deleted:         result.DeletedCount,
		Failed:          result.FailedCount,
		DeletedBranches: result.DeletedBranches,
		FailedBranches:  result.FailedBranches,
		Remaining:       remaining,
	})
}

// Close ends the YAML stream. It is a no-op when nothing was encoded.
func (reporter *YAMLReporter) Close() error {
	var closeError error
	reporter.closeOnce.Do(func() {
		if reporter.encoded {
			closeError = reporter.encoder.Close()
		}
	})
	return closeError
}

func (reporter *YAMLReporter) encode(document any) {
	if encodeError := reporter.encoder.Encode(document); encodeError != nil {
		reporter.logger.Error(logMessageYAMLEncodeFailed, zap.Error(encodeError))
		return
	}
	reporter.encoded = true
}
