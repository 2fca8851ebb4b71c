// Package git backs the Workbench's git integration: repository
// detection, per-path working-tree status, branch and worktree
// listing, and stage/unstage/discard against the working tree. It
// shells out to the git binary rather than linking libgit2, matching
// how the original editor's git adapter works.
//
// # Architecture
//
//   - Manager: discovers and opens repositories, caches open handles by root
//   - Repository: the open repository; status/branch/worktree operations
//   - Status: working tree status with staged, unstaged, and untracked files
//
// internal/runtime is the only caller: a GitDetectRepo effect walks up
// from a workspace root via Manager.Discover, and
// GitRefreshStatus/GitListBranches/GitListWorktrees/GitWorktreeAdd
// effects call the matching Repository method and translate the result
// into a store.Action (GitRepoDetected, GitStatusRefreshed,
// GitBranchesListed, GitWorktreesListed). The package itself has no
// knowledge of Action/Effect — that translation lives entirely in
// internal/runtime.
//
// # Usage
//
//	mgr := git.NewManager(git.ManagerConfig{})
//	repo, err := mgr.Discover("/path/to/project/src")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	status, err := repo.Status()
//	fmt.Printf("Branch: %s, modified: %d\n", status.Branch, len(status.Unstaged))
//
// # Working Tree Operations
//
//	err = repo.Stage("file1.go", "file2.go")
//	err = repo.StageAll()
//	err = repo.Unstage("file1.go")
//	err = repo.Discard("file1.go")
//
// # Status Caching
//
// Status queries are cached for StatusCacheTTL and invalidated by any
// operation that mutates the working tree (Stage, Unstage, Discard,
// AddWorktree, ...).
//
// # Thread Safety
//
// All operations are thread-safe: sync.RWMutex guards shared Manager
// and Repository state against concurrent access from the async
// executor pool.
package git
