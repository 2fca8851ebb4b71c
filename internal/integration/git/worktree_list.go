package git

import "strings"

// WorktreeEntry describes one entry from `git worktree list --porcelain`.
type WorktreeEntry struct {
	Path   string
	Head   string
	Branch string
	Bare   bool
	Locked bool
}

// ListWorktrees returns every worktree registered against the
// repository.
func (r *Repository) ListWorktrees() ([]WorktreeEntry, error) {
	out, err := r.git("worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseWorktreePorcelain(out), nil
}

// parseWorktreePorcelain parses the blank-line-separated stanza
// format: each line a "key value" pair, or a bare key for boolean
// flags.
func parseWorktreePorcelain(out string) []WorktreeEntry {
	var entries []WorktreeEntry
	var cur WorktreeEntry
	flush := func() {
		if cur.Path != "" {
			entries = append(entries, cur)
		}
		cur = WorktreeEntry{}
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			flush()
			continue
		}
		key, val, _ := strings.Cut(line, " ")
		switch key {
		case "worktree":
			cur.Path = val
		case "HEAD":
			cur.Head = val
		case "branch":
			cur.Branch = strings.TrimPrefix(val, "refs/heads/")
		case "bare":
			cur.Bare = true
		case "locked":
			cur.Locked = true
		}
	}
	flush()
	return entries
}

// AddWorktree creates a new worktree at path, checking out branch (or
// creating it from HEAD with `-b` when it doesn't already exist as a
// local ref).
func (r *Repository) AddWorktree(path, branch string) error {
	var err error
	switch {
	case branch == "":
		_, err = r.git("worktree", "add", path)
	case !r.HasBranch(branch):
		_, err = r.git("worktree", "add", "-b", branch, path)
	default:
		_, err = r.git("worktree", "add", path, branch)
	}
	if err == nil {
		r.invalidateStatus()
	}
	return err
}

// RemoveWorktree detaches a worktree registration, optionally forcing
// removal of one with uncommitted state.
func (r *Repository) RemoveWorktree(path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	_, err := r.git(args...)
	return err
}
