/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package langdetect inspects a checked-out repository to determine which
// languages and frameworks it uses and how its existing code is styled. The
// lookup tables are compiled once into a Detector and shared by reference, so
// a single Detector is safe for concurrent use.
package langdetect
