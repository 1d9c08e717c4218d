// Package json holds helpers over encoding/json.
package json

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Merge returns base with the top-level fields of overlay set over its own. Both must encode
// objects. Field values are copied verbatim.
func Merge(base, overlay []byte) ([]byte, error) {
	var merged, top map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	if err := json.Unmarshal(overlay, &top); err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	if merged == nil {
		merged = make(map[string]json.RawMessage, len(top))
	}
	maps.Copy(merged, top)

	return json.Marshal(merged)
}
