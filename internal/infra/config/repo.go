package config

import (
	"github.com/go-git/go-git/v5"
)

// FindRepoRoot returns the root of the git work tree containing dir, or dir
// itself when it is not inside a repository.
func FindRepoRoot(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return dir
	}
	wt, err := repo.Worktree()
	if err != nil {
		return dir
	}
	return wt.Filesystem.Root()
}
