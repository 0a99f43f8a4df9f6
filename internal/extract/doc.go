// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract finds the human-readable answer inside a webhook response
// of unknown shape.
//
// Workflow engines wrap the model's reply in whatever envelope their last
// node produced: a bare string, {"output": "..."}, [{"json": {"text": "..."}}]
// and so on. Find walks the decoded document depth-first and returns the
// first plausible answer, skipping empty strings and the engine's
// "workflow was started" acknowledgement.
//
// # Search Order
//
//  1. A string matches when it is non-empty after trimming and is not the sentinel.
//  2. An array is searched element by element, in order.
//  3. An object is checked in three passes:
//     a. string values under the priority keys (output, text, reply, response,
//     message, content, data, result), in that order;
//     b. the only value of a single-key object, if it is a string;
//     c. every object or array value, in document order.
//  4. Numbers, booleans and null never match.
//
// A priority key holding an object (e.g. {"output": {"text": "x"}}) is not
// descended into during pass a; it is reached by pass c like any other value.
//
// # Usage
//
//	v, err := extract.Decode(body)
//	if err != nil {
//	    return err
//	}
//	text := extract.Text(v) // Fallback when nothing matched
package extract
