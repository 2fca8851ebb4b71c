package git

import "errors"

// Sentinel errors callers branch on; everything else surfaces as a
// wrapped git-stderr message from runGit.
var (
	ErrNotRepository      = errors.New("not a git repository")
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrManagerClosed      = errors.New("manager closed")
	ErrDetachedHead       = errors.New("detached HEAD")
	ErrBranchExists       = errors.New("branch already exists")
)
