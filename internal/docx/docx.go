// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx reads footnotes out of a Word document. A .docx file is a
// zip container; the footnotes live in word/footnotes.xml as w:footnote
// elements holding paragraphs of runs, with bold/italic/underline carried
// in each run's w:rPr properties. Namespace prefixes vary between
// producers, so queries match on local names.
package docx

import (
	"archive/zip"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/pdiddy/footnote-engine/pkg/types"
)

const footnotesPart = "word/footnotes.xml"

var (
	footnoteExpr  = xpath.MustCompile("//*[local-name()='footnote']")
	paragraphExpr = xpath.MustCompile(".//*[local-name()='p']")
	runExpr       = xpath.MustCompile("./*[local-name()='r']")
)

// ExtractFootnotes reads every real footnote from the document at path, in
// document order. Separator and continuation pseudo-footnotes are skipped.
// A document without a footnotes part yields an empty slice and no error.
func ExtractFootnotes(path string) ([]types.Footnote, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == footnotesPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, nil
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", footnotesPart, err)
	}
	defer rc.Close()

	doc, err := xmlquery.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", footnotesPart, err)
	}

	var footnotes []types.Footnote
	for _, fnNode := range xmlquery.QuerySelectorAll(doc, footnoteExpr) {
		switch attr(fnNode, "type") {
		case "separator", "continuationSeparator", "continuationNotice":
			continue
		}
		footnotes = append(footnotes, extractFootnote(fnNode))
	}
	return footnotes, nil
}

func extractFootnote(fnNode *xmlquery.Node) types.Footnote {
	var fn types.Footnote
	for _, pNode := range xmlquery.QuerySelectorAll(fnNode, paragraphExpr) {
		var para types.Paragraph
		for _, rNode := range xmlquery.QuerySelectorAll(pNode, runExpr) {
			text, style := extractRun(rNode)
			if text == "" {
				continue
			}
			para = append(para, types.Run{Text: text, Style: style})
		}
		fn = append(fn, para)
	}
	return fn
}

// extractRun walks one w:r element: text from w:t children, line breaks and
// tabs mapped to their literal characters, style flags from w:rPr.
func extractRun(rNode *xmlquery.Node) (string, types.StyleFlags) {
	var (
		text  strings.Builder
		style types.StyleFlags
	)
	for child := rNode.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		switch child.Data {
		case "rPr":
			style = runStyle(child)
		case "t":
			text.WriteString(child.InnerText())
		case "br", "cr":
			text.WriteString("\n")
		case "tab":
			text.WriteString("\t")
		}
	}
	return text.String(), style
}

func runStyle(rPr *xmlquery.Node) types.StyleFlags {
	var style types.StyleFlags
	for child := rPr.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		switch child.Data {
		case "b":
			style.Bold = toggleEnabled(child)
		case "i":
			style.Italic = toggleEnabled(child)
		case "u":
			// w:u carries the underline kind in w:val; "none" disables.
			style.Underline = attr(child, "val") != "none"
		}
	}
	return style
}

// toggleEnabled interprets a boolean run property element: present means
// on unless w:val says otherwise.
func toggleEnabled(node *xmlquery.Node) bool {
	switch attr(node, "val") {
	case "false", "0", "none":
		return false
	}
	return true
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
