// Package gitrepo runs the git operations a prune needs against one working directory.
//
// RepositoryInspector reads local metadata (git directory, remote URLs) with
// go-git. RepositoryManager shells out to git for everything that touches the
// remote or depends on git's merge logic: fetch, branch listings, commit
// summaries, push --delete, and remote prune.
package gitrepo
