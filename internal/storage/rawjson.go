// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
)

// rawJSON holds a value of the file backend verbatim. A value that is not
// valid JSON is stored as a JSON string so the file stays well-formed.
type rawJSON []byte

func (r rawJSON) MarshalJSON() ([]byte, error) {
	if json.Valid(r) {
		return r, nil
	}
	return json.Marshal(string(r))
}

func (r *rawJSON) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

func marshalDoc(doc map[string]rawJSON) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode store file: %w", err)
	}
	return out, nil
}

func unmarshalDoc(data []byte) (map[string]rawJSON, error) {
	doc := make(map[string]rawJSON)
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode store file: %w: %v", ErrCorrupt, err)
	}
	return doc, nil
}
