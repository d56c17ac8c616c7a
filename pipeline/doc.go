/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package pipeline orchestrates a task end to end: fetch the work item,
// analyze its requirements, and either post clarification questions back to
// the task or clone the repository, apply changes, commit, push, and open a
// pull request.
//
// ProcessTask always returns a Result. Failures along the way, including
// panics in downstream stages, become results with an error status rather
// than crashing the caller, and the elapsed time is recorded on every result.
package pipeline
