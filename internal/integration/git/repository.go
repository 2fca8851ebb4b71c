package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Repository is an open working tree. Status results are cached for
// the manager's TTL and invalidated by mutating operations.
type Repository struct {
	path string

	mu        sync.Mutex
	ttl       time.Duration
	status    *Status
	statusAge time.Time
}

// openRepository validates that path is a repository root. A .git
// *file* (instead of a directory) marks a linked worktree and is
// accepted too.
func openRepository(path string, ttl time.Duration) (*Repository, error) {
	gitPath := filepath.Join(path, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("stat %s: %w", gitPath, err)
	}
	if !info.IsDir() {
		content, err := os.ReadFile(gitPath)
		if err != nil || !bytes.HasPrefix(content, []byte("gitdir:")) {
			return nil, ErrNotRepository
		}
	}
	return &Repository{path: path, ttl: ttl}, nil
}

// findRoot walks from path toward the filesystem root until it finds
// a directory containing .git.
func findRoot(path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRepositoryNotFound
		}
		dir = parent
	}
}

// Path returns the repository root.
func (r *Repository) Path() string {
	return r.path
}

// git runs a git command inside the repository.
func (r *Repository) git(args ...string) (string, error) {
	return runGit(r.path, args...)
}

// Reference is a resolved ref: its full name, short name, and commit.
type Reference struct {
	Name      string
	ShortName string
	Hash      string
}

// Head returns the current HEAD. It reads .git directly instead of
// shelling out so repository discovery stays cheap and testable; an
// unborn branch (fresh init, no commits) yields a Reference with an
// empty Hash.
func (r *Repository) Head() (*Reference, error) {
	content, err := os.ReadFile(filepath.Join(r.path, ".git", "HEAD"))
	if err != nil {
		return nil, fmt.Errorf("read HEAD: %w", err)
	}
	head := strings.TrimSpace(string(content))

	if refName, ok := strings.CutPrefix(head, "ref: "); ok {
		ref := &Reference{
			Name:      refName,
			ShortName: strings.TrimPrefix(refName, "refs/heads/"),
		}
		ref.Hash = r.resolveRef(refName)
		return ref, nil
	}
	// Detached: HEAD holds the commit itself.
	return &Reference{Name: "HEAD", ShortName: head, Hash: head}, nil
}

// resolveRef maps a full ref name to its commit hash via loose refs
// first, then packed-refs. Unresolvable refs return "".
func (r *Repository) resolveRef(refName string) string {
	if content, err := os.ReadFile(filepath.Join(r.path, ".git", refName)); err == nil {
		return strings.TrimSpace(string(content))
	}
	packed, err := os.Open(filepath.Join(r.path, ".git", "packed-refs"))
	if err != nil {
		return ""
	}
	defer packed.Close()
	scanner := bufio.NewScanner(packed)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "^") {
			continue
		}
		if hash, name, ok := strings.Cut(line, " "); ok && name == refName {
			return hash
		}
	}
	return ""
}

// Status returns the working tree status, served from cache while
// fresh.
func (r *Repository) Status() (*Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != nil && time.Since(r.statusAge) < r.ttl {
		return r.status, nil
	}
	out, err := r.git("status", "--porcelain=v2", "--branch")
	if err != nil {
		return nil, err
	}
	st := parseStatusV2(out)
	r.status = st
	r.statusAge = time.Now()
	return st, nil
}

// invalidateStatus drops the cache; every mutating operation calls it.
func (r *Repository) invalidateStatus() {
	r.mu.Lock()
	r.status = nil
	r.mu.Unlock()
}

// parseStatusV2 parses `git status --porcelain=v2 --branch` output.
// Line shapes: "# branch.* ..." headers, "1 XY ..." ordinary changes,
// "2 XY ... path<TAB>origPath" renames/copies, "u ..." unmerged,
// "? path" untracked, "! path" ignored (dropped).
func parseStatusV2(out string) *Status {
	st := &Status{}
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		switch line[0] {
		case '#':
			parseBranchHeader(st, line)
		case '1':
			if fields := strings.SplitN(line, " ", 9); len(fields) == 9 {
				addOrdinary(st, fields[1], fields[8], "")
			}
		case '2':
			if fields := strings.SplitN(line, " ", 10); len(fields) == 10 {
				path, orig, _ := strings.Cut(fields[9], "\t")
				addOrdinary(st, fields[1], path, orig)
			}
		case 'u':
			if fields := strings.SplitN(line, " ", 11); len(fields) == 11 {
				st.Conflicts = append(st.Conflicts, fields[10])
			}
		case '?':
			st.Untracked = append(st.Untracked, line[2:])
		}
	}
	return st
}

func parseBranchHeader(st *Status, line string) {
	key, val, ok := strings.Cut(strings.TrimPrefix(line, "# "), " ")
	if !ok {
		return
	}
	switch key {
	case "branch.head":
		if val == "(detached)" {
			st.IsDetached = true
		} else {
			st.Branch = val
		}
	case "branch.upstream":
		st.Upstream = val
	case "branch.oid":
		if val != "(initial)" && len(val) >= 7 {
			st.HeadCommit = val[:7]
		}
	case "branch.ab":
		for _, part := range strings.Fields(val) {
			if n, err := strconv.Atoi(part); err == nil {
				if n >= 0 && strings.HasPrefix(part, "+") {
					st.Ahead = n
				} else {
					st.Behind = -n
				}
			}
		}
	}
}

// addOrdinary files one "1"/"2" entry under staged and/or unstaged
// according to its XY pair: X is the index side, Y the working tree.
func addOrdinary(st *Status, xy, path, origPath string) {
	if len(xy) != 2 {
		return
	}
	if code := changeCode(xy[0]); code != StatusUnmodified {
		st.Staged = append(st.Staged, FileStatus{Path: path, OldPath: origPath, Status: code, Staged: true})
	}
	if code := changeCode(xy[1]); code != StatusUnmodified {
		st.Unstaged = append(st.Unstaged, FileStatus{Path: path, OldPath: origPath, Status: code})
	}
}

func changeCode(c byte) StatusCode {
	switch c {
	case 'M', 'T':
		return StatusModified
	case 'A':
		return StatusAdded
	case 'D':
		return StatusDeleted
	case 'R':
		return StatusRenamed
	case 'C':
		return StatusCopied
	case 'U':
		return StatusConflict
	default:
		return StatusUnmodified
	}
}
