// Package gitinfo reads the checked-out revision of a source tree. The
// version command falls back to it when no commit was stamped at build time.
package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Revision identifies a checked-out commit.
type Revision struct {
	Hash   string
	Branch string
}

// Short returns the first seven characters of the hash.
func (r Revision) Short() string {
	if len(r.Hash) > 7 {
		return r.Hash[:7]
	}
	return r.Hash
}

// GitInfoAdapter looks up revisions using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

func (g *GitInfoAdapter) IsGitRepo(path string) bool {
	_, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	return err == nil
}

// Head returns the revision HEAD points at. Parent directories are searched
// for the repository.
func (g *GitInfoAdapter) Head(path string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Revision{}, fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return Revision{}, fmt.Errorf("getting HEAD: %w", err)
	}

	rev := Revision{Hash: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}
	return rev, nil
}
