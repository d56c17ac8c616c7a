/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package httpapi exposes the agent over HTTP: trigger task processing, read
// run history, and scrape metrics. All /api/v1 routes require the configured
// API key; /health and /metrics do not.
package httpapi
