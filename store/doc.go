/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package store persists task processing history in SQLite. The agent records
// every terminal result here so operators can inspect what was done for a
// task long after the workspace is gone.
package store
