/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package azuredevops provides the work-item gateway for the pipeline. A
// Client wraps the Azure DevOps REST SDK and exposes the three operations the
// pipeline needs: fetching a work item as TaskDetails, posting a comment back
// to it, and creating a pull request linked to it.
//
// Repository references are resolved lazily: a work item may carry an explicit
// repository id, a display name, or only a URL, and ResolveID picks the best
// identifier available (preferring the explicit id, then the segment after the
// /_git/ marker, then the display name, then the final URL path segment).
package azuredevops
