package prune

import "time"

// Options captures the settings of one prune run.
type Options struct {
	RemoteName        string
	MainBranch        string
	DryRun            bool
	Force             bool
	KeepDevelop       bool
	ProtectedBranches []string
}

// BranchRecord describes the most recent commit of a candidate branch.
type BranchRecord struct {
	Name          string `yaml:"name"`
	CommitHash    string `yaml:"commit"`
	CommitMessage string `yaml:"message"`
	AuthorName    string `yaml:"author"`
	CommitDate    string `yaml:"date"`
}

// Candidate is a merged branch offered for deletion.
type Candidate struct {
	Record BranchRecord `yaml:",inline"`
	Age    string       `yaml:"age"`
}

// CandidateSet groups the candidates of a run with the context needed to present them.
type CandidateSet struct {
	RemoteName  string      `yaml:"remote"`
	RemoteLabel string      `yaml:"remote_url,omitempty"`
	MainBranch  string      `yaml:"main_branch"`
	DryRun      bool        `yaml:"dry_run"`
	Candidates  []Candidate `yaml:"candidates"`
}

// BranchNames returns candidate names in presentation order.
func (set CandidateSet) BranchNames() []string {
	names := make([]string, 0, len(set.Candidates))
	for _, candidate := range set.Candidates {
		names = append(names, candidate.Record.Name)
	}
	return names
}

// Outcome enumerates how a run ended.
type Outcome string

// Supported run outcomes.
const (
	OutcomeNoCandidates Outcome = "no_candidates"
	OutcomeDryRun       Outcome = "dry_run"
	OutcomeCancelled    Outcome = "cancelled"
	OutcomeCompleted    Outcome = "completed"
)

// RunResult summarizes a prune run.
type RunResult struct {
	Outcome                    Outcome
	RemoteName                 string
	Candidates                 []Candidate
	DeletedCount               int
	FailedCount                int
	DeletedBranches            []string
	FailedBranches             []string
	RemainingRemoteBranchCount int
	RemainingCountKnown        bool
}

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
