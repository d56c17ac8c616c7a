/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package prcomposer renders pull request titles and descriptions for
// completed tasks and submits them. Composition is pure and deterministic;
// Submit is the only part that touches the network, and it refuses to open a
// pull request for a branch it could not push.
package prcomposer
