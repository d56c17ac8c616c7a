/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package requirements derives machine-usable requirements from a work item's
// prose: which files the task mentions, whether testing is asked for, and a
// bounded summary. Analyze also reports what information is missing, which is
// what turns a task into a clarification request instead of an
// implementation.
package requirements
