// Package gitver reads the repository facts the gate and the try command
// need: which branches exist, which commit HEAD points at and where origin
// lives. It opens repositories with go-git, so bare hook repositories and
// packed refs work without a git binary.
package gitver

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrDetachedHead is returned when HEAD does not point at a branch.
var ErrDetachedHead = errors.New("HEAD is not on a branch")

// Identity is the branch, commit and remote a submission is built from.
type Identity struct {
	Branch     string
	HeadRef    string // full commit hash
	Repository string // origin URL, "git@" prefix removed
}

func open(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repository %s: %w", dir, err)
	}
	return repo, nil
}

// LocalHeads returns the sorted short names of every local branch.
func LocalHeads(dir string) ([]string, error) {
	repo, err := open(dir)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}
	defer iter.Close()

	var heads []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		heads = append(heads, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}
	sort.Strings(heads)
	return heads, nil
}

// DetectIdentity resolves the current branch, HEAD commit and origin URL.
func DetectIdentity(dir string) (*Identity, error) {
	repo, err := open(dir)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return nil, ErrDetachedHead
	}

	id := &Identity{
		Branch:  head.Name().Short(),
		HeadRef: head.Hash().String(),
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return nil, fmt.Errorf("getting origin remote: %w", err)
	}
	if urls := remote.Config().URLs; len(urls) > 0 {
		id.Repository = submissionURL(urls[0])
	}
	return id, nil
}

// submissionURL drops the "git@" user prefix from SSH remotes; the '@' does
// not survive the submission client's key=value property list.
func submissionURL(remote string) string {
	return strings.Replace(remote, "git@", "", 1)
}
