/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package codegen turns task requirements into file contents using a hosted
// model. The Generator interface hides which provider is in use; New picks a
// backend from the model name the same way "claude-" models route to
// Anthropic and "gpt-" models route to OpenAI.
//
// Language strategies live here too: each language knows where its tests go
// and which framework to suggest, with a generic strategy as the fallback for
// anything the registry has no entry for.
package codegen
