package prune

import "strings"

const (
	symbolicReferenceMarkerConstant  = " -> "
	remoteReferenceSeparatorConstant = "/"
	headReferenceNameConstant        = "HEAD"
	developBranchNameConstant        = "develop"
)

type exclusionReason int

const (
	exclusionReasonDevelop exclusionReason = iota
	exclusionReasonProtected
)

type branchExclusion struct {
	Branch string
	Reason exclusionReason
}

type candidateSelection struct {
	Branches   []string
	Exclusions []branchExclusion
}

// concreteReferences drops symbolic references such as "origin/HEAD -> origin/main".
func concreteReferences(lines []string) []string {
	references := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) == 0 || strings.Contains(trimmedLine, symbolicReferenceMarkerConstant) {
			continue
		}
		references = append(references, trimmedLine)
	}
	return references
}

func remoteReference(remoteName string, branchName string) string {
	return remoteName + remoteReferenceSeparatorConstant + branchName
}

// branchOfRemote strips the "<remote>/" prefix, reporting false for refs of other remotes.
func branchOfRemote(remoteName string, reference string) (string, bool) {
	prefix := remoteName + remoteReferenceSeparatorConstant
	if !strings.HasPrefix(reference, prefix) {
		return "", false
	}
	branchName := strings.TrimPrefix(reference, prefix)
	if len(branchName) == 0 {
		return "", false
	}
	return branchName, true
}

func containsReference(references []string, target string) bool {
	for _, reference := range references {
		if reference == target {
			return true
		}
	}
	return false
}

func countRemoteReferences(remoteName string, references []string) int {
	count := 0
	for _, reference := range references {
		if _, belongs := branchOfRemote(remoteName, reference); belongs {
			count++
		}
	}
	return count
}

// selectCandidates filters merged refs down to the branches that may be deleted, preserving order.
func selectCandidates(mergedLines []string, options Options) candidateSelection {
	protected := make(map[string]struct{}, len(options.ProtectedBranches))
	for _, branchName := range options.ProtectedBranches {
		protected[branchName] = struct{}{}
	}

	selection := candidateSelection{Branches: []string{}}
	seen := make(map[string]struct{})
	for _, reference := range concreteReferences(mergedLines) {
		branchName, belongs := branchOfRemote(options.RemoteName, reference)
		if !belongs {
			continue
		}
		if _, duplicate := seen[branchName]; duplicate {
			continue
		}
		seen[branchName] = struct{}{}

		switch {
		case branchName == options.MainBranch, branchName == headReferenceNameConstant:
			continue
		case options.KeepDevelop && branchName == developBranchNameConstant:
			selection.Exclusions = append(selection.Exclusions, branchExclusion{Branch: branchName, Reason: exclusionReasonDevelop})
			continue
		}
		if _, isProtected := protected[branchName]; isProtected {
			selection.Exclusions = append(selection.Exclusions, branchExclusion{Branch: branchName, Reason: exclusionReasonProtected})
			continue
		}
		selection.Branches = append(selection.Branches, branchName)
	}
	return selection
}
