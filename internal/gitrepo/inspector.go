package gitrepo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

const (
	repositoryNotFoundMessageConstant      = "not inside a git repository"
	remoteNotConfiguredMessageConstant     = "remote not configured"
	repositoryOpenErrorTemplateConstant    = "unable to open repository at %s: %w"
	remoteLookupErrorTemplateConstant      = "unable to read remote %s: %w"
	remoteNotConfiguredTemplateConstant    = "%w: %s"
	gitDirectoryUnavailableMessageConstant = "repository storage is not filesystem backed"
	defaultInspectionPathConstant          = "."
)

// ErrRepositoryNotFound indicates the inspected path is not inside a git working tree.
var ErrRepositoryNotFound = errors.New(repositoryNotFoundMessageConstant)

// ErrRemoteNotConfigured indicates the repository has no remote with the requested name.
var ErrRemoteNotConfigured = errors.New(remoteNotConfiguredMessageConstant)

// ErrGitDirectoryUnavailable indicates the repository storage does not live on disk.
var ErrGitDirectoryUnavailable = errors.New(gitDirectoryUnavailableMessageConstant)

// RepositoryState summarizes the local repository facts needed before touching the remote.
type RepositoryState struct {
	GitDirectory string
	RemoteName   string
	RemoteURLs   []string
}

// PrimaryRemoteURL returns the first configured URL of the remote, if any.
func (state RepositoryState) PrimaryRemoteURL() string {
	if len(state.RemoteURLs) == 0 {
		return ""
	}
	return state.RemoteURLs[0]
}

// RepositoryInspector reads repository metadata with go-git, without spawning git.
type RepositoryInspector struct{}

// NewRepositoryInspector constructs a RepositoryInspector.
func NewRepositoryInspector() *RepositoryInspector {
	return &RepositoryInspector{}
}

// Inspect opens the repository containing path and resolves the named remote.
func (inspector *RepositoryInspector) Inspect(path string, remoteName string) (RepositoryState, error) {
	inspectionPath := strings.TrimSpace(path)
	if len(inspectionPath) == 0 {
		inspectionPath = defaultInspectionPathConstant
	}

	repository, openError := git.PlainOpenWithOptions(inspectionPath, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return RepositoryState{}, ErrRepositoryNotFound
		}
		return RepositoryState{}, fmt.Errorf(repositoryOpenErrorTemplateConstant, inspectionPath, openError)
	}

	remote, remoteError := repository.Remote(remoteName)
	if remoteError != nil {
		if errors.Is(remoteError, git.ErrRemoteNotFound) {
			return RepositoryState{}, fmt.Errorf(remoteNotConfiguredTemplateConstant, ErrRemoteNotConfigured, remoteName)
		}
		return RepositoryState{}, fmt.Errorf(remoteLookupErrorTemplateConstant, remoteName, remoteError)
	}

	fileSystemStorage, isFileSystemStorage := repository.Storer.(*filesystem.Storage)
	if !isFileSystemStorage {
		return RepositoryState{}, ErrGitDirectoryUnavailable
	}

	remoteURLs := append([]string(nil), remote.Config().URLs...)
	return RepositoryState{
		GitDirectory: fileSystemStorage.Filesystem().Root(),
		RemoteName:   remoteName,
		RemoteURLs:   remoteURLs,
	}, nil
}
