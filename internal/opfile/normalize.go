package opfile

// Legacy .pen normalization. The old format allowed fill to be a bare
// color string or a single paint object, gradients to omit their type, and
// sizing to use the "hug"/"fill" keywords (those are handled by the size
// codec). Everything rewrites in place on the generic JSON tree before the
// typed decode runs.

func normalizeDocument(root map[string]any) {
	if children, ok := root["children"].([]any); ok {
		normalizeNodes(children)
	}
	if pages, ok := root["pages"].([]any); ok {
		for _, p := range pages {
			if page, ok := p.(map[string]any); ok {
				if children, ok := page["children"].([]any); ok {
					normalizeNodes(children)
				}
			}
		}
	}
}

func normalizeNodes(nodes []any) {
	for _, raw := range nodes {
		n, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		normalizeNode(n)
		if children, ok := n["children"].([]any); ok {
			normalizeNodes(children)
		}
	}
}

func normalizeNode(n map[string]any) {
	if fill, present := n["fill"]; present {
		n["fill"] = normalizeFill(fill)
	}
	// Old exports used "frame" semantics under the name "artboard".
	if n["type"] == "artboard" {
		n["type"] = "frame"
	}
}

// normalizeFill canonicalizes every legacy fill shape into a paint list.
func normalizeFill(fill any) []any {
	switch f := fill.(type) {
	case string:
		return []any{map[string]any{"type": "solid", "color": f}}
	case map[string]any:
		return []any{normalizePaint(f)}
	case []any:
		out := make([]any, 0, len(f))
		for _, p := range f {
			switch paint := p.(type) {
			case string:
				out = append(out, map[string]any{"type": "solid", "color": paint})
			case map[string]any:
				out = append(out, normalizePaint(paint))
			}
		}
		return out
	default:
		return nil
	}
}

func normalizePaint(paint map[string]any) map[string]any {
	if _, typed := paint["type"]; typed {
		return paint
	}
	// Untyped paints: gradients carry stops, everything else is solid.
	if _, hasStops := paint["stops"]; hasStops {
		paint["type"] = "linear"
	} else {
		paint["type"] = "solid"
	}
	return paint
}
