// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the footnote pipeline:
// the rich-text shapes extracted from source documents, the rule
// configuration shapes, and the match results produced by classification.
package types

// StyleFlags records the character formatting of a text run. The three
// boolean attributes combine independently; none implies another.
type StyleFlags struct {
	// Bold, Italic, and Underline mirror the source document's run
	// properties.
	Bold      bool `json:"bold" yaml:"bold"`
	Italic    bool `json:"italic" yaml:"italic"`
	Underline bool `json:"underline" yaml:"underline"`

	// Color is an optional font color as a hex literal (e.g. "#AA0000").
	// Empty means the document default.
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Run is a contiguous span of text sharing one style combination.
type Run struct {
	Text  string     `json:"text" yaml:"text"`
	Style StyleFlags `json:"style" yaml:"style"`
}

// Paragraph is an ordered sequence of runs. An empty paragraph renders
// as a blank line.
type Paragraph []Run

// Footnote is one footnote or endnote entry from a source document,
// as an ordered sequence of paragraphs.
type Footnote []Paragraph
