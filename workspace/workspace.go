/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chainguard-dev/clog"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNoChanges reports that CommitAll found nothing staged. Callers treat it
// as a successful no-op rather than a failure.
var ErrNoChanges = errors.New("workspace has no changes to commit")

// Workspace is one task's checkout. It is not safe for concurrent use.
type Workspace struct {
	dir     string
	branch  string
	base    string
	repo    *git.Repository
	manager *Manager
}

// Dir returns the checkout's root directory.
func (w *Workspace) Dir() string { return w.dir }

// Branch returns the task branch name, e.g. "task/42".
func (w *Workspace) Branch() string { return w.branch }

// BaseBranch returns the branch the checkout started from.
func (w *Workspace) BaseBranch() string { return w.base }

// ReadFile reads a file by its repository-relative path.
func (w *Workspace) ReadFile(relPath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(w.dir, filepath.FromSlash(relPath)))
}

// FileExists reports whether a repository-relative path exists.
func (w *Workspace) FileExists(relPath string) bool {
	_, err := os.Stat(filepath.Join(w.dir, filepath.FromSlash(relPath)))
	return err == nil
}

// FileAt returns a file's content at a given revision, e.g. "HEAD" or a
// commit hash. The worktree is not touched.
func (w *Workspace) FileAt(revision, relPath string) ([]byte, error) {
	hash, err := w.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %s: %w", revision, err)
	}
	commit, err := w.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", hash, err)
	}
	file, err := commit.File(relPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s at %s: %w", relPath, revision, err)
	}
	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("reading %s at %s: %w", relPath, revision, err)
	}
	return []byte(content), nil
}

// WriteFile writes a file by its repository-relative path, creating parent
// directories as needed.
func (w *Workspace) WriteFile(relPath string, content []byte) error {
	abs := filepath.Join(w.dir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("creating directories for %s: %w", relPath, err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", relPath, err)
	}
	return nil
}

// CommitAll stages everything and commits it, returning the commit hash. It
// returns ErrNoChanges when the worktree is clean.
func (w *Workspace) CommitAll(ctx context.Context, message string) (string, error) {
	wt, err := w.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("opening worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("staging changes: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("reading status: %w", err)
	}
	if status.IsClean() {
		return "", ErrNoChanges
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  w.manager.authorName,
			Email: w.manager.authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	clog.FromContext(ctx).Infof("committed %s on %s", hash.String()[:8], w.branch)
	return hash.String(), nil
}

// Push publishes the task branch to origin. Pushing a branch that is already
// up to date is not an error.
func (w *Workspace) Push(ctx context.Context) error {
	auth, err := w.manager.auth()
	if err != nil {
		return err
	}
	refspec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", w.branch, w.branch))
	err = w.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []config.RefSpec{refspec},
		Auth:       auth,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pushing %s: %w", w.branch, err)
	}
	clog.FromContext(ctx).Infof("pushed %s", w.branch)
	return nil
}

// Release removes the checkout. A workspace whose directory is already gone
// releases cleanly.
func (w *Workspace) Release() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("removing workspace: %w", err)
	}
	return nil
}
