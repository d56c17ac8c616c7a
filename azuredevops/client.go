/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package azuredevops

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chainguard-dev/clog"
	azdo "github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"
)

// Client talks to a single Azure DevOps organization and project.
type Client struct {
	organizationURL string
	project         string

	workItems workitemtracking.Client
	gitClient git.Client
}

// New builds a Client authenticated with a personal access token.
func New(ctx context.Context, organizationURL, pat, project string) (*Client, error) {
	if organizationURL == "" {
		return nil, fmt.Errorf("organization URL must not be empty")
	}
	if pat == "" {
		return nil, fmt.Errorf("personal access token must not be empty")
	}
	conn := azdo.NewPatConnection(organizationURL, pat)
	wit, err := workitemtracking.NewClient(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("creating work item tracking client: %w", err)
	}
	gc, err := git.NewClient(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("creating git client: %w", err)
	}
	return &Client{
		organizationURL: organizationURL,
		project:         project,
		workItems:       wit,
		gitClient:       gc,
	}, nil
}

// FetchTask retrieves a work item and flattens it into TaskDetails.
func (c *Client) FetchTask(ctx context.Context, taskID string) (*TaskDetails, error) {
	id, err := strconv.Atoi(taskID)
	if err != nil {
		return nil, fmt.Errorf("task id %q is not numeric: %w", taskID, err)
	}
	wi, err := c.workItems.GetWorkItem(ctx, workitemtracking.GetWorkItemArgs{
		Id:     &id,
		Expand: &workitemtracking.WorkItemExpandValues.All,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching work item %d: %w", id, err)
	}
	details := detailsFromWorkItem(taskID, wi)
	clog.FromContext(ctx).With("task", taskID).Infof("fetched work item %q (%s)", details.Title, details.WorkItemType)
	return details, nil
}

// AddComment posts a discussion comment on the work item. The pipeline uses
// this to surface clarification questions to the task author.
func (c *Client) AddComment(ctx context.Context, taskID, text string) error {
	id, err := strconv.Atoi(taskID)
	if err != nil {
		return fmt.Errorf("task id %q is not numeric: %w", taskID, err)
	}
	_, err = c.workItems.AddComment(ctx, workitemtracking.AddCommentArgs{
		Project:    &c.project,
		WorkItemId: &id,
		Request:    &workitemtracking.CommentCreate{Text: &text},
	})
	if err != nil {
		return fmt.Errorf("commenting on work item %d: %w", id, err)
	}
	return nil
}

// PullRequestRequest carries everything needed to open a pull request.
type PullRequestRequest struct {
	RepositoryID string
	Project      string
	SourceBranch string
	TargetBranch string
	Title        string
	Description  string
	Reviewers    []string
	WorkItemIDs  []string
}

// PullRequestCreated reports the identity of a freshly created pull request.
type PullRequestCreated struct {
	ID  int
	URL string
}

// CreatePullRequest opens a pull request from SourceBranch into TargetBranch,
// linking the given work items.
func (c *Client) CreatePullRequest(ctx context.Context, req PullRequestRequest) (*PullRequestCreated, error) {
	if req.RepositoryID == "" {
		return nil, fmt.Errorf("repository id must not be empty")
	}
	project := req.Project
	if project == "" {
		project = c.project
	}
	src := refName(req.SourceBranch)
	tgt := refName(req.TargetBranch)

	var refs []webapi.ResourceRef
	for _, wid := range req.WorkItemIDs {
		wid := wid
		refs = append(refs, webapi.ResourceRef{Id: &wid})
	}
	var reviewers []webapi.IdentityRef
	for _, rid := range req.Reviewers {
		rid := rid
		reviewers = append(reviewers, webapi.IdentityRef{Id: &rid})
	}

	toCreate := &git.GitPullRequest{
		SourceRefName: &src,
		TargetRefName: &tgt,
		Title:         &req.Title,
		Description:   &req.Description,
	}
	if len(refs) > 0 {
		toCreate.WorkItemRefs = &refs
	}
	pr, err := c.gitClient.CreatePullRequest(ctx, git.CreatePullRequestArgs{
		GitPullRequestToCreate: toCreate,
		RepositoryId:           &req.RepositoryID,
		Project:                &project,
	})
	if err != nil {
		return nil, fmt.Errorf("creating pull request: %w", err)
	}

	created := &PullRequestCreated{}
	if pr.PullRequestId != nil {
		created.ID = *pr.PullRequestId
	}
	if pr.Url != nil {
		created.URL = *pr.Url
	}
	for _, rev := range reviewers {
		if pr.PullRequestId == nil || rev.Id == nil {
			continue
		}
		vote := git.IdentityRefWithVote{Id: rev.Id}
		if _, err := c.gitClient.CreatePullRequestReviewer(ctx, git.CreatePullRequestReviewerArgs{
			Reviewer:      &vote,
			RepositoryId:  &req.RepositoryID,
			PullRequestId: pr.PullRequestId,
			ReviewerId:    rev.Id,
			Project:       &project,
		}); err != nil {
			// A reviewer that cannot be resolved should not fail the
			// pull request itself.
			clog.FromContext(ctx).Warnf("adding reviewer %s: %v", *rev.Id, err)
		}
	}
	clog.FromContext(ctx).Infof("created pull request #%d", created.ID)
	return created, nil
}

func refName(branch string) string {
	if strings.HasPrefix(branch, "refs/") {
		return branch
	}
	return "refs/heads/" + branch
}

// Custom fields that teams commonly use to point a work item at its
// repository, checked in order.
var repositoryFieldNames = []string{
	"Custom.Repository",
	"Custom.RepositoryUrl",
	"Custom.GitRepository",
}

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

func detailsFromWorkItem(taskID string, wi *workitemtracking.WorkItem) *TaskDetails {
	fields := map[string]interface{}{}
	if wi.Fields != nil {
		fields = *wi.Fields
	}
	d := &TaskDetails{
		ID:                 taskID,
		Title:              stringField(fields, "System.Title"),
		Description:        stringField(fields, "System.Description"),
		AcceptanceCriteria: stringField(fields, "Microsoft.VSTS.Common.AcceptanceCriteria"),
		State:              stringField(fields, "System.State"),
		WorkItemType:       stringField(fields, "System.WorkItemType"),
		Priority:           intField(fields, "Microsoft.VSTS.Common.Priority"),
	}
	if assigned, ok := fields["System.AssignedTo"].(map[string]interface{}); ok {
		if name, ok := assigned["displayName"].(string); ok {
			d.AssignedTo = name
		}
	}
	if tags := stringField(fields, "System.Tags"); tags != "" {
		for _, t := range strings.Split(tags, ";") {
			if t = strings.TrimSpace(t); t != "" {
				d.Tags = append(d.Tags, t)
			}
		}
	}
	d.Repository = repositoryFromFields(fields, d.Description)
	return d
}

// repositoryFromFields looks for a repository hint in the custom fields first,
// then falls back to scanning the description for a hosted git URL.
func repositoryFromFields(fields map[string]interface{}, description string) *RepositoryReference {
	for _, name := range repositoryFieldNames {
		v := stringField(fields, name)
		if v == "" {
			continue
		}
		if strings.Contains(v, "://") {
			return &RepositoryReference{URL: v}
		}
		return &RepositoryReference{Name: v}
	}
	for _, u := range urlPattern.FindAllString(description, -1) {
		if strings.Contains(u, "dev.azure.com") || strings.Contains(u, "visualstudio.com") || strings.Contains(u, "github.com") {
			return &RepositoryReference{URL: strings.TrimRight(u, ".,;)")}
		}
	}
	return nil
}

func stringField(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func intField(fields map[string]interface{}, key string) int {
	switch v := fields[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
