// Package git reports the state of the Git repository an environment lives in.
package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when a location does not belong to a Git repository
var ErrNotRepository = errors.New("not a git repository")

// Info holds the repository facts shown for an environment
type Info struct {
	// Root is the top-level directory of the worktree
	Root string
	// Branch is the current branch name, empty on a detached HEAD
	Branch string
	// CommitHash is the current HEAD commit hash, empty before the first commit
	CommitHash string
	// Tags lists the tags pointing to the current commit
	Tags []string
	// Remote is the first URL of the origin remote, if any
	Remote string
	// IsDirty indicates if the working tree has uncommitted changes
	IsDirty bool
}

// ShortHash returns the abbreviated commit hash
func (i *Info) ShortHash() string {
	if len(i.CommitHash) > 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// Inspect collects repository facts for location, seeking upwards for the .git directory
func Inspect(location string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(location, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open Git repository at %q: %w", location, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree for repository %q: %w", location, err)
	}

	info := &Info{Root: worktree.Filesystem.Root()}

	if remote, err := repo.Remote(git.DefaultRemoteName); err == nil && len(remote.Config().URLs) > 0 {
		info.Remote = remote.Config().URLs[0]
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status for repository %q: %w", location, err)
	}
	info.IsDirty = !status.IsClean()

	headRef, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// No commit yet
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference for repository %q: %w", location, err)
	}

	info.CommitHash = headRef.Hash().String()
	if headRef.Name().IsBranch() {
		info.Branch = headRef.Name().Short()
	}

	tagRefs, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	err = tagRefs.ForEach(func(ref *plumbing.Reference) error {
		revHash, err := repo.ResolveRevision(plumbing.Revision(ref.Name()))
		if err != nil {
			return fmt.Errorf("failed to resolve tag %q: %w", ref.Name().Short(), err)
		}
		if *revHash == headRef.Hash() {
			info.Tags = append(info.Tags, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over tags: %w", err)
	}

	return info, nil
}
