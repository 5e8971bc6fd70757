// Package api holds the wire types shared between the MCP tool server,
// the document catalog, and external callers.
package api

import "time"

// DocumentInfo summarizes a loaded document for tool callers.
type DocumentInfo struct {
	// Path of the document file as opened.
	Path string `json:"path"`
	// Name from the document header, if set.
	Name string `json:"name,omitempty"`
	// Version string from the document header.
	Version string `json:"version"`
	// Pages is the page count (1 for single-page documents).
	Pages int `json:"pages"`
	// Nodes is the total node count across all pages.
	Nodes int `json:"nodes"`
	// Variables is the number of variable definitions.
	Variables int `json:"variables"`
	// Legacy marks documents opened from an old-format extension.
	Legacy bool `json:"legacy,omitempty"`
	// Warnings lists non-fatal referential-integrity issues.
	Warnings []string `json:"warnings,omitempty"`
}

// EmptySpace is a placement suggestion on the canvas.
type EmptySpace struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CatalogEntry is one row of the persistent document catalog.
type CatalogEntry struct {
	Path       string    `json:"path"`
	Name       string    `json:"name,omitempty"`
	Pages      int       `json:"pages"`
	LastOpened time.Time `json:"last_opened"`
}
