package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/huangsam/reporank/schema"
)

// ErrNoCloneURL is returned when a repository has nothing to clone from.
var ErrNoCloneURL = errors.New("repository has no clone URL")

// GitCloner implements Cloner with shallow go-git clones, one isolated
// temporary directory per repository.
type GitCloner struct{}

var _ Cloner = &GitCloner{} // Compile-time check

// NewGitCloner creates a new GitCloner.
func NewGitCloner() *GitCloner {
	return &GitCloner{}
}

// Clone implements the Cloner interface. The directory is removed when the
// clone fails or the returned Checkout is closed.
func (c *GitCloner) Clone(ctx context.Context, repo schema.RepositoryIdentity, workDir string) (*Checkout, error) {
	url := repo.CloneURL
	if url == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoCloneURL, repo.Name)
	}

	dir, err := os.MkdirTemp(workDir, "reporank-*")
	if err != nil {
		return nil, fmt.Errorf("cannot create clone directory: %w", err)
	}
	cleanup := func() error { return os.RemoveAll(dir) }

	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	if err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("clone %s failed: %w", repo.Name, err)
	}
	return NewCheckout(dir, cleanup), nil
}

// LocalSource implements RepositorySource over directories already on disk.
type LocalSource struct {
	Paths []string
}

var _ RepositorySource = &LocalSource{} // Compile-time check

// ListRepositories implements the RepositorySource interface. The owner is
// ignored; every configured path becomes one repository.
func (s *LocalSource) ListRepositories(_ context.Context, _ string) ([]schema.RepositoryIdentity, error) {
	repos := make([]schema.RepositoryIdentity, 0, len(s.Paths))
	for _, p := range s.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("invalid repository path: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("invalid repository path: %s is not a directory", abs)
		}
		repos = append(repos, LocalIdentity(abs))
	}
	return repos, nil
}

// LocalIdentity describes the directory at abs, using the origin remote as
// its URL when the directory is a Git repository.
func LocalIdentity(abs string) schema.RepositoryIdentity {
	id := schema.RepositoryIdentity{
		Name:      filepath.Base(abs),
		FullName:  abs,
		URL:       abs,
		LocalPath: abs,
	}
	repo, err := git.PlainOpen(abs)
	if err != nil {
		return id
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return id
	}
	if urls := remote.Config().URLs; len(urls) > 0 {
		id.URL = urls[0]
		id.CloneURL = urls[0]
	}
	return id
}

// LocalCloner implements Cloner for repositories that are already checked out.
// Nothing is copied and nothing is removed on Close.
type LocalCloner struct{}

var _ Cloner = &LocalCloner{} // Compile-time check

// Clone implements the Cloner interface.
func (c *LocalCloner) Clone(_ context.Context, repo schema.RepositoryIdentity, _ string) (*Checkout, error) {
	if repo.LocalPath == "" {
		return nil, fmt.Errorf("repository %s has no local path", repo.Name)
	}
	return NewCheckout(repo.LocalPath, nil), nil
}
