// Package vars resolves $variable bindings against a document's variable
// table and an active theme selection. Everything here is a pure function
// of its inputs; the resolver holds no state.
package vars

import (
	"strings"

	"github.com/agentic-research/opal/internal/doc"
)

// Resolve looks up a "$name" reference and returns its concrete value.
// Themed variables pick the first entry whose theme constraint is a subset
// of the active theme, falling back to the first entry when none match.
// Resolution is one level deep only: a value that is itself a $reference
// fails rather than recursing, which rules out circular-reference hangs by
// construction.
func Resolve(ref string, variables map[string]doc.VariableDefinition, theme map[string]string) (any, bool) {
	name := strings.TrimPrefix(ref, "$")
	if name == ref || name == "" {
		return nil, false
	}
	def, ok := variables[name]
	if !ok {
		return nil, false
	}

	value := def.Value
	if len(def.Values) > 0 {
		value = def.Values[0].Value
		for _, tv := range def.Values {
			if subsetOf(tv.Theme, theme) {
				value = tv.Value
				break
			}
		}
	}

	if s, ok := value.(string); ok && doc.IsVarRef(s) {
		return nil, false
	}
	if value == nil {
		return nil, false
	}
	return value, true
}

// ResolveString is Resolve narrowed to string-valued variables (colors,
// content). Non-string values miss.
func ResolveString(ref string, variables map[string]doc.VariableDefinition, theme map[string]string) (string, bool) {
	v, ok := Resolve(ref, variables, theme)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ResolveFloat is Resolve narrowed to numeric variables.
func ResolveFloat(ref string, variables map[string]doc.VariableDefinition, theme map[string]string) (float64, bool) {
	v, ok := Resolve(ref, variables, theme)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// subsetOf reports whether every key of constraint matches active. An
// empty constraint matches any theme.
func subsetOf(constraint, active map[string]string) bool {
	for k, v := range constraint {
		if active[k] != v {
			return false
		}
	}
	return true
}
