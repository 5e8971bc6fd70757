// Package mcp exposes the document engine to agent tooling over the Model
// Context Protocol. Tools operate on a cached, lazily loaded copy of each
// document, invalidated per path when the file changes on disk.
package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/opal/api"
	"github.com/agentic-research/opal/internal/catalog"
	"github.com/agentic-research/opal/internal/doc"
	"github.com/agentic-research/opal/internal/opfile"
)

// cacheEntry is one lazily loaded document. The generic tree mirrors the
// typed document and is what JSONPath queries run against.
type cacheEntry struct {
	doc     *doc.Document
	generic any
	mtime   time.Time
	legacy  bool
}

// Service implements the tool operations. It is safe for concurrent use;
// the MCP server may dispatch tool calls from multiple goroutines.
type Service struct {
	mu      sync.Mutex
	cache   map[string]*cacheEntry
	catalog *catalog.Catalog
	logger  *log.Logger
}

// NewService returns a tool service. The catalog is optional; without it
// list_documents reports nothing and opens are not recorded.
func NewService(cat *catalog.Catalog, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		cache:   make(map[string]*cacheEntry),
		catalog: cat,
		logger:  logger,
	}
}

// entry returns the cached document for path, loading or reloading when
// the file is new or changed on disk. Caller holds s.mu.
func (s *Service) entry(path string) (*cacheEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	if e, ok := s.cache[path]; ok && e.mtime.Equal(info.ModTime()) {
		return e, nil
	}

	d, err := opfile.Load(path)
	if err != nil {
		return nil, err
	}
	generic, err := genericJSON(d)
	if err != nil {
		return nil, err
	}
	e := &cacheEntry{doc: d, generic: generic, mtime: info.ModTime(), legacy: opfile.Legacy(path)}
	s.cache[path] = e
	s.logger.Debug("loaded document", "path", path, "legacy", e.legacy)
	return e, nil
}

// genericJSON converts a typed value to the generic tree shape JSONPath
// queries run against.
func genericJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return oj.Parse(data)
}

// OpenDocument loads a document and returns its summary, recording the
// open in the catalog.
func (s *Service) OpenDocument(path string) (api.DocumentInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(path)
	if err != nil {
		return api.DocumentInfo{}, err
	}

	nodes := 0
	pages := 1
	if e.doc.MultiPage() {
		pages = len(e.doc.Pages)
	}
	for page := range e.doc.AllChildren() {
		nodes += len(doc.Flatten(e.doc.PageChildren(page)))
	}
	info := api.DocumentInfo{
		Path:      path,
		Name:      e.doc.Name,
		Version:   e.doc.Version,
		Pages:     pages,
		Nodes:     nodes,
		Variables: len(e.doc.Variables),
		Legacy:    e.legacy,
		Warnings:  opfile.Warnings(e.doc),
	}

	if s.catalog != nil {
		err := s.catalog.Touch(api.CatalogEntry{
			Path:  path,
			Name:  e.doc.Name,
			Pages: pages,
		})
		if err != nil {
			s.logger.Warn("catalog update failed", "path", path, "err", err)
		}
	}
	return info, nil
}

// BatchGet retrieves parts of a document by JSONPath pattern and/or node
// id. Depth bounds how many levels of children come back; negative depth
// means unlimited.
func (s *Service) BatchGet(path string, patterns, ids []string, depth int) ([]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(path)
	if err != nil {
		return nil, err
	}

	var out []any
	for _, pattern := range patterns {
		x, err := jp.ParseString(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid jsonpath %q: %w", pattern, err)
		}
		for _, match := range x.Get(e.generic) {
			out = append(out, pruneDepth(match, depth))
		}
	}
	for _, id := range ids {
		n := e.doc.FindAnywhere(id)
		if n == nil {
			continue
		}
		generic, err := genericJSON(n)
		if err != nil {
			return nil, err
		}
		out = append(out, pruneDepth(generic, depth))
	}
	return out, nil
}

// pruneDepth trims nested children maps past the requested depth. A depth
// of 0 keeps the matched value itself but drops its children.
func pruneDepth(v any, depth int) any {
	if depth < 0 {
		return v
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if k == "children" {
				if depth == 0 {
					continue
				}
				out[k] = pruneDepth(val, depth-1)
				continue
			}
			out[k] = val
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = pruneDepth(item, depth)
		}
		return out
	default:
		return v
	}
}

// FindEmptySpace suggests a clear position beside the document's existing
// content: right of (or below) the union bounding box, plus padding.
func (s *Service) FindEmptySpace(path string, width, height float64, direction string, padding float64) (api.EmptySpace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(path)
	if err != nil {
		return api.EmptySpace{}, err
	}

	children := e.doc.PageChildren(0)
	if len(children) == 0 {
		return api.EmptySpace{}, nil
	}
	box := doc.UnionBounds(children, children)
	switch direction {
	case "down":
		return api.EmptySpace{X: box.X, Y: box.Bottom() + padding}, nil
	default:
		return api.EmptySpace{X: box.Right() + padding, Y: box.Y}, nil
	}
}

// GetVariables returns the document's variable table.
func (s *Service) GetVariables(path string) (map[string]doc.VariableDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(path)
	if err != nil {
		return nil, err
	}
	return e.doc.Variables, nil
}

// SetVariables merges definitions into the document's variable table and
// writes the file back. The cache entry refreshes from the saved state, so
// subsequent reads observe the write.
func (s *Service) SetVariables(path string, defs map[string]doc.VariableDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(path)
	if err != nil {
		return err
	}

	d := e.doc.Clone()
	if d.Variables == nil {
		d.Variables = make(map[string]doc.VariableDefinition, len(defs))
	}
	for name, def := range defs {
		d.Variables[name] = def
	}
	if err := opfile.Save(path, d); err != nil {
		return err
	}
	// The write changed the file's mtime; drop the entry so the next read
	// reloads from disk.
	delete(s.cache, path)
	return nil
}

// ListDocuments enumerates the catalog.
func (s *Service) ListDocuments() ([]api.CatalogEntry, error) {
	if s.catalog == nil {
		return nil, nil
	}
	return s.catalog.List()
}
