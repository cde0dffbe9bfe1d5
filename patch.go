package pathstore

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// MergeState applies an RFC 7386 JSON merge patch to the current snapshot
// and installs the result through SetState, so the conservative
// whole-state fan-out policy applies. The snapshot must round-trip through
// JSON for the patch to be applicable.
func (s *Store) MergeState(patch []byte) error {
	if len(patch) == 0 {
		return nil
	}

	original, err := json.Marshal(s.value)
	if err != nil {
		return fmt.Errorf("pathstore: marshal snapshot: %w", err)
	}
	merged, err := jsonpatch.MergePatch(original, patch)
	if err != nil {
		return fmt.Errorf("pathstore: merge patch: %w", err)
	}

	var next any
	if err := json.Unmarshal(merged, &next); err != nil {
		return fmt.Errorf("pathstore: decode merged snapshot: %w", err)
	}
	s.SetState(next)
	return nil
}
