/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package azuredevops

import (
	"regexp"
	"strings"
)

// TaskDetails is the pipeline's view of a work item. Fields are flattened out
// of the work item's field map so downstream stages never see Azure DevOps
// field reference names.
type TaskDetails struct {
	ID                 string
	Title              string
	Description        string
	AcceptanceCriteria string
	State              string
	WorkItemType       string
	AssignedTo         string
	Tags               []string
	Priority           int

	// Repository is nil when the work item carries no repository hint at
	// all, in which case the pipeline cannot proceed past analysis.
	Repository *RepositoryReference
}

// RepositoryReference identifies the repository a task targets. Any subset of
// the fields may be populated depending on how the work item was authored.
type RepositoryReference struct {
	ID      string
	Name    string
	URL     string
	Project string
}

var gitSegmentPattern = regexp.MustCompile(`/_git/([^/?#]+)`)

// ResolveID returns the best available identifier for the repository. The
// explicit id wins, then the segment following /_git/ in the URL, then the
// display name, then the last path segment of the URL.
func (r *RepositoryReference) ResolveID() string {
	if r == nil {
		return ""
	}
	if r.ID != "" {
		return r.ID
	}
	if m := gitSegmentPattern.FindStringSubmatch(r.URL); m != nil {
		return m[1]
	}
	if r.Name != "" {
		return r.Name
	}
	if r.URL != "" {
		trimmed := strings.TrimRight(r.URL, "/")
		if i := strings.LastIndex(trimmed, "/"); i >= 0 {
			if seg := strings.TrimSuffix(trimmed[i+1:], ".git"); seg != "" {
				return seg
			}
		}
	}
	return ""
}

// CloneURL returns the URL to clone from, if the reference carries one.
func (r *RepositoryReference) CloneURL() string {
	if r == nil {
		return ""
	}
	return r.URL
}
