/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"golang.org/x/oauth2"
)

// Manager creates and destroys task workspaces under a single scratch
// directory.
type Manager struct {
	workDir     string
	tokenSource oauth2.TokenSource
	authorName  string
	authorEmail string
}

// NewManager returns a Manager that clones into workDir. tokenSource may be
// nil for remotes that need no authentication.
func NewManager(workDir string, tokenSource oauth2.TokenSource, authorName, authorEmail string) (*Manager, error) {
	if workDir == "" {
		return nil, fmt.Errorf("work directory must not be empty")
	}
	if authorName == "" || authorEmail == "" {
		return nil, fmt.Errorf("commit author name and email must not be empty")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating work directory: %w", err)
	}
	return &Manager{
		workDir:     workDir,
		tokenSource: tokenSource,
		authorName:  authorName,
		authorEmail: authorEmail,
	}, nil
}

// Acquire clones the repository for a task and checks out a fresh task/{id}
// branch. Any stale checkout for the same task is removed first.
func (m *Manager) Acquire(ctx context.Context, taskID, cloneURL string) (*Workspace, error) {
	if cloneURL == "" {
		return nil, fmt.Errorf("clone URL must not be empty")
	}
	dir := filepath.Join(m.workDir, "task_"+taskID)
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("clearing stale workspace: %w", err)
	}

	auth, err := m.auth()
	if err != nil {
		return nil, err
	}
	clog.FromContext(ctx).With("task", taskID).Infof("cloning %s", cloneURL)
	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:  cloneURL,
		Auth: auth,
	})
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("cloning %s: %w", cloneURL, err)
	}

	branch := "task/" + taskID
	head, err := repo.Head()
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("reading HEAD: %w", err)
	}
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), head.Hash())
	if err := repo.Storer.SetReference(ref); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("creating branch %s: %w", branch, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: ref.Name()}); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("checking out %s: %w", branch, err)
	}

	return &Workspace{
		dir:     dir,
		branch:  branch,
		base:    head.Name().Short(),
		repo:    repo,
		manager: m,
	}, nil
}

func (m *Manager) auth() (transport.AuthMethod, error) {
	if m.tokenSource == nil {
		return nil, nil
	}
	token, err := m.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("fetching git token: %w", err)
	}
	return &githttp.BasicAuth{
		Username: "unused-when-using-access-tokens",
		Password: token.AccessToken,
	}, nil
}
