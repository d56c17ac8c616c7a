/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package implementer applies a task's file changes inside a workspace. Each
// requested file is handled independently and failures are recorded per file
// rather than aborting the batch, so one bad generation does not lose the
// rest of the task's work.
package implementer
