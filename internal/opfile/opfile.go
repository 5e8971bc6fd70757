// Package opfile reads and writes .op document files. Legacy .pen and
// .json files open through a normalization pass that canonicalizes old
// fill and sizing shorthand; saving always emits the current format.
package opfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/opal/internal/doc"
)

// ValidationError describes a malformed document. Load failures surface
// it to the caller; nothing is silently coerced.
type ValidationError struct {
	Path    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Field, e.Message)
}

// Extensions accepted on open. Only .op is written.
const (
	ExtOp     = ".op"
	ExtPen    = ".pen"
	ExtLegacy = ".json"
)

// Legacy reports whether the path carries an old-format extension.
func Legacy(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtPen, ExtLegacy:
		return true
	}
	return false
}

// Load reads and validates a document file.
func Load(path string) (*doc.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	d, err := Decode(data, Legacy(path))
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Path = path
			return nil, ve
		}
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return d, nil
}

// Decode validates raw document JSON and unmarshals it. The generic parse
// happens first so shape errors report the offending field rather than a
// type mismatch deep inside the typed decode.
func Decode(data []byte, legacy bool) (*doc.Document, error) {
	parsed, err := oj.Parse(data)
	if err != nil {
		return nil, &ValidationError{Field: "document", Message: "not valid JSON: " + err.Error()}
	}
	root, ok := parsed.(map[string]any)
	if !ok {
		return nil, &ValidationError{Field: "document", Message: "top level must be an object"}
	}

	version, present := root["version"]
	if !present {
		return nil, &ValidationError{Field: "version", Message: "missing"}
	}
	if _, isStr := version.(string); !isStr {
		return nil, &ValidationError{Field: "version", Message: "must be a string"}
	}

	children, hasChildren := root["children"]
	pages, hasPages := root["pages"]
	switch {
	case hasPages:
		if _, isArr := pages.([]any); !isArr {
			return nil, &ValidationError{Field: "pages", Message: "must be an array"}
		}
	case hasChildren:
		if _, isArr := children.([]any); !isArr {
			return nil, &ValidationError{Field: "children", Message: "must be an array"}
		}
	default:
		return nil, &ValidationError{Field: "children", Message: "document needs a children or pages array"}
	}

	if legacy {
		normalizeDocument(root)
		data = []byte(oj.JSON(root))
	}

	var d doc.Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &d, nil
}

// Save writes the document atomically: temp file in the target directory,
// then rename over the destination.
func Save(path string, d *doc.Document) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".op-save-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Warnings reports non-fatal referential-integrity issues: instances whose
// ref id no longer resolves, and instances nested inside their own
// component definition. Dangling ids are an expected transient state, so
// these never fail a load; a self-containing component renders as
// placeholder bounds.
func Warnings(d *doc.Document) []string {
	ids := make(map[string]struct{})
	d.CollectIDs(ids)
	var out []string
	for page := range d.AllChildren() {
		children := d.PageChildren(page)
		for _, n := range doc.Flatten(children) {
			if n.Kind != doc.KindRef || n.Ref == "" {
				continue
			}
			if _, ok := ids[n.Ref]; !ok {
				out = append(out, fmt.Sprintf("instance %s references missing component %s", n.ID, n.Ref))
				continue
			}
			if doc.IsDescendantOf(children, n.ID, n.Ref) {
				out = append(out, fmt.Sprintf("instance %s is nested inside its own component %s", n.ID, n.Ref))
			}
		}
	}
	return out
}
