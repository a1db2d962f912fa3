// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared between the fetch
// pipeline, the view controller, and the presentation layers.
package types

// SearchHit is one raw result from the Wikipedia search API, before its
// extract has been fetched. Hits are discarded once folded into a
// DisplayRecord.
type SearchHit struct {
	// PageID is the opaque numeric Wikipedia page id.
	PageID int `json:"pageid" yaml:"pageid"`

	// Title is the page title as returned by the search API.
	Title string `json:"title" yaml:"title"`
}

// DisplayRecord is a fully assembled result card: one hit merged with its
// extract (or the placeholder) and a link back to the source page.
// Records are treated as immutable once built.
type DisplayRecord struct {
	// Title is the Wikipedia page title.
	Title string `json:"title" yaml:"title"`

	// Content is a plain-text excerpt capped at the extract budget, or the
	// placeholder when the extract could not be fetched.
	Content string `json:"content" yaml:"content"`

	// Link points at the source page (…/?curid=<pageid>).
	Link string `json:"link" yaml:"link"`
}
