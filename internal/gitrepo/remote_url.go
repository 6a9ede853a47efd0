package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	requiredValueMessageConstant        = "value required"
	remoteSlugTemplateConstant          = "%s/%s/%s"
)

// RemoteURL represents a hosted git remote such as github.com/owner/repository.
type RemoteURL struct {
	Host       string
	Owner      string
	Repository string
}

// Slug renders the remote as host/owner/repository.
func (remote RemoteURL) Slug() string {
	return fmt.Sprintf(remoteSlugTemplateConstant, remote.Host, remote.Owner, remote.Repository)
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL converts ssh, scp-like, and http(s) remote URLs into a RemoteURL.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	switch {
	case len(trimmedRemote) == 0:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		return parseSSHRemote(strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		return parseHTTPRemote(strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, httpProtocolPrefixConstant):
		return parseHTTPRemote(strings.TrimPrefix(trimmedRemote, httpProtocolPrefixConstant))
	case strings.Contains(trimmedRemote, sshUserDelimiterConstant):
		return parseSSHRemote(trimmedRemote)
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
}

// DescribeRemoteURL returns the slug of a hosted remote, or the trimmed raw
// value for anything else (local paths, file:// remotes).
func DescribeRemoteURL(remote string) string {
	parsedRemote, parseError := ParseRemoteURL(remote)
	if parseError != nil {
		return strings.TrimSpace(remote)
	}
	return parsedRemote.Slug()
}

func parseSSHRemote(remote string) (RemoteURL, error) {
	userSplitIndex := strings.Index(remote, sshUserDelimiterConstant)
	if userSplitIndex == -1 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	hostAndPath := remote[userSplitIndex+1:]

	separatorIndex := strings.Index(hostAndPath, sshPathDelimiterConstant)
	if separatorIndex == -1 {
		separatorIndex = strings.Index(hostAndPath, pathSeparatorConstant)
	}
	if separatorIndex <= 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	host := hostAndPath[:separatorIndex]
	owner, repository, parseError := splitOwnerAndRepository(strings.TrimPrefix(hostAndPath[separatorIndex+1:], pathSeparatorConstant))
	if parseError != nil {
		return RemoteURL{}, parseError
	}
	return RemoteURL{Host: host, Owner: owner, Repository: repository}, nil
}

func parseHTTPRemote(remote string) (RemoteURL, error) {
	slashIndex := strings.Index(remote, pathSeparatorConstant)
	if slashIndex <= 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	host := remote[:slashIndex]
	if credentialIndex := strings.LastIndex(host, sshUserDelimiterConstant); credentialIndex >= 0 {
		host = host[credentialIndex+1:]
	}
	owner, repository, parseError := splitOwnerAndRepository(remote[slashIndex+1:])
	if parseError != nil {
		return RemoteURL{}, parseError
	}
	return RemoteURL{Host: host, Owner: owner, Repository: repository}, nil
}

func splitOwnerAndRepository(path string) (string, string, error) {
	segments := strings.Split(strings.Trim(path, pathSeparatorConstant), pathSeparatorConstant)
	if len(segments) < 2 {
		return "", "", RemoteURLParseError{Input: path, Message: invalidRemoteURLMessageConstant}
	}
	owner := strings.Join(segments[:len(segments)-1], pathSeparatorConstant)
	repository := strings.TrimSuffix(segments[len(segments)-1], gitSuffixConstant)
	if len(owner) == 0 || len(repository) == 0 {
		return "", "", RemoteURLParseError{Input: path, Message: invalidRemoteURLMessageConstant}
	}
	return owner, repository, nil
}
