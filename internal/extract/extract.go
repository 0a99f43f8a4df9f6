// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"strings"
	"unicode"
)

const (
	// Sentinel is the acknowledgement a workflow engine sends when it has
	// only started the run. It is never an answer.
	Sentinel = "workflow was started"

	// Fallback is shown when a response contains no usable answer.
	Fallback = "The ICT AI completed your request but the response format was unrecognizable. Please try rephrasing."
)

// PriorityKeys are probed, in order, on every object before anything else.
var PriorityKeys = []string{"output", "text", "reply", "response", "message", "content", "data", "result"}

// Find returns the first plausible answer in v, trimmed. ok is false when
// the whole document holds no candidate. Find does not modify v.
func Find(v Value) (answer string, ok bool) {
	return find(v, 0)
}

// Text is Find with the fallback message substituted for "no match".
func Text(v Value) string {
	if s, ok := Find(v); ok {
		return s
	}
	return Fallback
}

// FromJSON decodes body and runs Find on it.
func FromJSON(body []byte) (answer string, ok bool, err error) {
	v, err := Decode(body)
	if err != nil {
		return "", false, err
	}
	answer, ok = Find(v)
	return answer, ok, nil
}

func find(v Value, depth int) (string, bool) {
	// Values built by hand can skip Decode's depth check.
	if depth > MaxDepth {
		return "", false
	}

	switch v.kind {
	case KindString:
		return candidate(v.text)

	case KindArray:
		for _, item := range v.items {
			if s, ok := find(item, depth+1); ok {
				return s, true
			}
		}

	case KindObject:
		for _, key := range PriorityKeys {
			if val, present := v.Get(key); present && val.kind == KindString {
				if s, ok := candidate(val.text); ok {
					return s, true
				}
			}
		}

		if len(v.members) == 1 && v.members[0].Value.kind == KindString {
			if s, ok := candidate(v.members[0].Value.text); ok {
				return s, true
			}
		}

		for _, m := range v.members {
			if !m.Value.IsContainer() {
				continue
			}
			if s, ok := find(m.Value, depth+1); ok {
				return s, true
			}
		}
	}

	return "", false
}

// candidate trims s and rejects blanks and the sentinel.
func candidate(s string) (string, bool) {
	t := strings.TrimFunc(s, isTrimmable)
	if t == "" || strings.EqualFold(t, Sentinel) {
		return "", false
	}
	return t, true
}

// isTrimmable matches Unicode whitespace plus the byte-order mark, which
// some webhook nodes leave at the start of generated text.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
