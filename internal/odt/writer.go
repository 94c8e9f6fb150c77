// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package odt

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/footnote-engine/pkg/types"
)

const mimetype = "application/vnd.oasis.opendocument.text"

const manifestXML = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
 <manifest:file-entry manifest:full-path="/" manifest:media-type="application/vnd.oasis.opendocument.text"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
 <manifest:file-entry manifest:full-path="styles.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`

const stylesXML = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-styles xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" office:version="1.2">
 <office:styles/>
</office:document-styles>
`

// WriteReview writes the processed footnotes as an OpenDocument Text file.
// Each footnote gets a heading marker paragraph followed by its content
// paragraphs; the footnote count in the document equals len(footnotes).
// The container follows the ODF package rules: the mimetype entry comes
// first and is stored uncompressed.
func WriteReview(path string, footnotes [][]types.Paragraph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	mw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return fmt.Errorf("writing mimetype: %w", err)
	}
	if _, err := mw.Write([]byte(mimetype)); err != nil {
		return fmt.Errorf("writing mimetype: %w", err)
	}

	for _, entry := range []struct {
		name    string
		content string
	}{
		{"META-INF/manifest.xml", manifestXML},
		{"content.xml", contentXML(footnotes)},
		{"styles.xml", stylesXML},
	} {
		w, err := zw.Create(entry.name)
		if err != nil {
			return fmt.Errorf("writing %s: %w", entry.name, err)
		}
		if _, err := w.Write([]byte(entry.content)); err != nil {
			return fmt.Errorf("writing %s: %w", entry.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing %s: %w", path, err)
	}
	return nil
}

// contentXML renders the document body and the automatic styles the body
// uses. The body is rendered first so the registry knows which styles to
// declare.
func contentXML(footnotes [][]types.Paragraph) string {
	reg := newStyleRegistry()

	var body strings.Builder
	for i, paragraphs := range footnotes {
		body.WriteString("   <text:p><text:span>")
		body.WriteString(escape(fmt.Sprintf("--- Footnote %d ---", i+1)))
		body.WriteString("</text:span></text:p>\n")
		for _, para := range paragraphs {
			writeParagraph(&body, para, reg)
		}
		// Blank line between footnotes.
		body.WriteString("   <text:p/>\n")
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<office:document-content` +
		` xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"` +
		` xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"` +
		` xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"` +
		` xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"` +
		` office:version="1.2">` + "\n")
	b.WriteString(" <office:automatic-styles>\n")
	for _, name := range reg.order {
		writeStyle(&b, name, reg.flags[name])
	}
	b.WriteString(" </office:automatic-styles>\n")
	b.WriteString(" <office:body>\n  <office:text>\n")
	b.WriteString(body.String())
	b.WriteString("  </office:text>\n </office:body>\n</office:document-content>\n")
	return b.String()
}

func writeParagraph(b *strings.Builder, para types.Paragraph, reg *styleRegistry) {
	if len(para) == 0 {
		b.WriteString("   <text:p/>\n")
		return
	}
	b.WriteString("   <text:p>")
	for _, run := range para {
		writeRun(b, run, reg)
	}
	b.WriteString("</text:p>\n")
}

// writeRun emits one run as a span (or bare line breaks for newlines).
// Embedded newlines split the run around text:line-break elements.
func writeRun(b *strings.Builder, run types.Run, reg *styleRegistry) {
	if run.Text == "" {
		return
	}
	styleAttr := ""
	if name := reg.Name(run.Style); name != "" {
		styleAttr = ` text:style-name="` + name + `"`
	}
	for i, part := range strings.Split(run.Text, "\n") {
		if i > 0 {
			b.WriteString("<text:line-break/>")
		}
		if part == "" {
			continue
		}
		b.WriteString("<text:span" + styleAttr + ">")
		b.WriteString(escape(part))
		b.WriteString("</text:span>")
	}
}

func writeStyle(b *strings.Builder, name string, flags types.StyleFlags) {
	b.WriteString(`  <style:style style:name="` + name + `" style:family="text">` + "\n   <style:text-properties")
	if flags.Bold {
		b.WriteString(` fo:font-weight="bold"`)
	}
	if flags.Italic {
		b.WriteString(` fo:font-style="italic"`)
	}
	if flags.Underline {
		b.WriteString(` style:text-underline-type="single" style:text-underline-style="solid"`)
	}
	if flags.Color != "" {
		b.WriteString(` fo:color="` + escape(flags.Color) + `"`)
	}
	b.WriteString("/>\n  </style:style>\n")
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escape(s string) string {
	return xmlEscaper.Replace(s)
}
