/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package testrunner executes a repository's tests after changes have been
// applied and parses the output into counts. Every run is bounded by a
// timeout; a run that exceeds it is reported with a "timeout" status instead
// of hanging the pipeline.
package testrunner
