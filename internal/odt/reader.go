// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package odt reads footnotes from and writes review documents to
// OpenDocument Text files. An .odt file is a zip container: content.xml
// holds the body and automatic styles, styles.xml the common styles.
// Queries match on local names so prefix choices don't matter.
package odt

import (
	"archive/zip"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/pdiddy/footnote-engine/pkg/types"
)

var (
	noteExpr      = xpath.MustCompile("//*[local-name()='note']")
	textStyleExpr = xpath.MustCompile("//*[local-name()='style'][@*[local-name()='family']='text']")
	propsExpr     = xpath.MustCompile("./*[local-name()='text-properties']")
)

// ExtractFootnotes reads every footnote from the document at path, in
// document order. Endnotes (note-class "endnote") are left alone. Span
// styles are resolved against the automatic styles in content.xml and the
// common styles in styles.xml.
func ExtractFootnotes(path string) ([]types.Footnote, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()

	content, err := parsePart(&zr.Reader, "content.xml")
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	styles := map[string]types.StyleFlags{}
	// styles.xml is optional; a malformed one just loses common styles.
	if common, err := parsePart(&zr.Reader, "styles.xml"); err == nil && common != nil {
		collectTextStyles(common, styles)
	}
	collectTextStyles(content, styles)

	var footnotes []types.Footnote
	for _, note := range xmlquery.QuerySelectorAll(content, noteExpr) {
		if attr(note, "note-class") != "footnote" {
			continue
		}
		body := childElement(note, "note-body")
		if body == nil {
			continue
		}
		footnotes = append(footnotes, extractBody(body, styles))
	}
	return footnotes, nil
}

// parsePart parses one file inside the zip container. A missing part
// yields (nil, nil) so callers can treat it as optional.
func parsePart(zr *zip.Reader, name string) (*xmlquery.Node, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		defer rc.Close()
		doc, err := xmlquery.Parse(rc)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		return doc, nil
	}
	return nil, nil
}

// collectTextStyles maps text-family style names to their flags.
func collectTextStyles(doc *xmlquery.Node, styles map[string]types.StyleFlags) {
	for _, styleNode := range xmlquery.QuerySelectorAll(doc, textStyleExpr) {
		name := attr(styleNode, "name")
		if name == "" {
			continue
		}
		props := xmlquery.QuerySelector(styleNode, propsExpr)
		if props == nil {
			continue
		}
		var flags types.StyleFlags
		if attr(props, "font-weight") == "bold" {
			flags.Bold = true
		}
		if attr(props, "font-style") == "italic" {
			flags.Italic = true
		}
		if v := attr(props, "text-underline-type"); v != "" && v != "none" {
			flags.Underline = true
		}
		styles[name] = flags
	}
}

// extractBody converts a note-body's direct paragraphs to the run model.
// Direct text keeps the default style, spans resolve their named style,
// and line breaks become newline runs. Whitespace-only fragments are
// dropped unless they are a line break.
func extractBody(body *xmlquery.Node, styles map[string]types.StyleFlags) types.Footnote {
	var fn types.Footnote
	for p := body.FirstChild; p != nil; p = p.NextSibling {
		if p.Type != xmlquery.ElementNode || p.Data != "p" {
			continue
		}
		var para types.Paragraph
		for child := p.FirstChild; child != nil; child = child.NextSibling {
			var (
				text  string
				style types.StyleFlags
			)
			switch {
			case child.Type == xmlquery.TextNode:
				text = child.Data
			case child.Type == xmlquery.ElementNode && child.Data == "span":
				text = child.InnerText()
				style = styles[attr(child, "style-name")]
			case child.Type == xmlquery.ElementNode && child.Data == "line-break":
				text = "\n"
			}
			if strings.TrimSpace(text) == "" && text != "\n" {
				continue
			}
			para = append(para, types.Run{Text: text, Style: style})
		}
		if len(para) > 0 {
			fn = append(fn, para)
		}
	}
	return fn
}

func childElement(node *xmlquery.Node, local string) *xmlquery.Node {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == local {
			return child
		}
	}
	return nil
}

// attr returns the value of the attribute with the given local name,
// ignoring its namespace prefix.
func attr(node *xmlquery.Node, local string) string {
	for _, a := range node.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
