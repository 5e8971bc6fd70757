package doc

import (
	"encoding/json"
	"fmt"
)

// ApplyPatch merges a partial-node patch onto n and returns the patched
// copy. n itself is never mutated. The merge is structural: nested maps
// merge key by key, every other value replaces. Unknown keys are dropped
// by the round trip rather than rejected, matching how override patches
// from older documents are tolerated.
func ApplyPatch(n *Node, p Patch) (*Node, error) {
	if len(p) == 0 {
		return CloneNode(n), nil
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encode node %s: %w", n.ID, err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode node %s: %w", n.ID, err)
	}
	mergeMaps(m, p)
	merged, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode patched node %s: %w", n.ID, err)
	}
	out := &Node{}
	if err := json.Unmarshal(merged, out); err != nil {
		return nil, fmt.Errorf("decode patched node %s: %w", n.ID, err)
	}
	// A patch may not reassign identity or variant.
	out.ID = n.ID
	out.Kind = n.Kind
	return out, nil
}

func mergeMaps(dst map[string]any, src map[string]any) {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			if v == nil {
				delete(dst, k)
			} else {
				dst[k] = v
			}
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			dst[k] = sub
			continue
		}
		mergeMaps(existing, sub)
	}
}
