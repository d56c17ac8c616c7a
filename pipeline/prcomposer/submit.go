/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package prcomposer

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/mspranav/azuredevops-swe-agent/azuredevops"
)

// BranchPusher publishes a branch so a pull request can reference it.
type BranchPusher interface {
	Push(ctx context.Context) error
}

// PullRequestCreator opens pull requests.
type PullRequestCreator interface {
	CreatePullRequest(ctx context.Context, req azuredevops.PullRequestRequest) (*azuredevops.PullRequestCreated, error)
}

// Outcome reports how submission went.
type Outcome struct {
	Status string // "success" or "error"
	ID     int
	URL    string
	Title  string
	Err    error
}

// Request carries submission parameters alongside the composed content.
type Request struct {
	TaskID       string
	RepositoryID string
	Project      string
	SourceBranch string
	TargetBranch string
	Title        string
	Description  string
	Reviewers    []string
}

// Submit pushes the source branch and opens the pull request. A failed push
// blocks creation: no pull request is opened for a branch the server never
// received.
func Submit(ctx context.Context, pusher BranchPusher, creator PullRequestCreator, req Request) Outcome {
	log := clog.FromContext(ctx).With("task", req.TaskID)

	if err := pusher.Push(ctx); err != nil {
		log.Errorf("push before pull request failed: %v", err)
		return Outcome{
			Status: "error",
			Title:  req.Title,
			Err:    fmt.Errorf("failed to push changes: %w", err),
		}
	}

	target := req.TargetBranch
	if target == "" {
		target = "main"
	}
	log.Infof("creating pull request from %s to %s", req.SourceBranch, target)
	created, err := creator.CreatePullRequest(ctx, azuredevops.PullRequestRequest{
		RepositoryID: req.RepositoryID,
		Project:      req.Project,
		SourceBranch: req.SourceBranch,
		TargetBranch: target,
		Title:        req.Title,
		Description:  req.Description,
		Reviewers:    req.Reviewers,
		WorkItemIDs:  []string{req.TaskID},
	})
	if err != nil {
		return Outcome{
			Status: "error",
			Title:  req.Title,
			Err:    fmt.Errorf("failed to create PR: %w", err),
		}
	}
	return Outcome{
		Status: "success",
		ID:     created.ID,
		URL:    created.URL,
		Title:  req.Title,
	}
}
