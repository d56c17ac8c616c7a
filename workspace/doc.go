/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package workspace manages per-task repository checkouts. A Manager owns a
// scratch directory; Acquire clones the task's repository into it and checks
// out a task branch, and Release removes the checkout again. Every exit path
// of the pipeline releases its workspace, so a crashed task never leaves a
// clone behind.
package workspace
