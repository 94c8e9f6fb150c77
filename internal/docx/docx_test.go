// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/footnote-engine/pkg/types"
)

const footnotesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:footnotes xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:footnote w:type="separator" w:id="-1">
    <w:p><w:r><w:separator/></w:r></w:p>
  </w:footnote>
  <w:footnote w:type="continuationSeparator" w:id="0">
    <w:p><w:r><w:continuationSeparator/></w:r></w:p>
  </w:footnote>
  <w:footnote w:id="1">
    <w:p>
      <w:r><w:t xml:space="preserve">Doe, John, </w:t></w:r>
      <w:r><w:rPr><w:i/></w:rPr><w:t>The Test Book</w:t></w:r>
      <w:r><w:t xml:space="preserve"> (Testville: Test Press, 2023).</w:t></w:r>
    </w:p>
  </w:footnote>
  <w:footnote w:id="2">
    <w:p>
      <w:r><w:rPr><w:b/><w:i w:val="false"/><w:u w:val="single"/></w:rPr><w:t>Styled</w:t></w:r>
      <w:r><w:br/><w:t>after break</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Second paragraph.</w:t></w:r>
    </w:p>
  </w:footnote>
</w:footnotes>`

// writeDocx creates a minimal .docx container holding only the footnotes part.
func writeDocx(t *testing.T, footnotes string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/footnotes.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(footnotes))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func TestExtractFootnotes(t *testing.T) {
	path := writeDocx(t, footnotesXML)

	footnotes, err := ExtractFootnotes(path)
	require.NoError(t, err)
	// Separator pseudo-footnotes are skipped.
	require.Len(t, footnotes, 2)

	first := footnotes[0]
	require.Len(t, first, 1)
	want := types.Paragraph{
		{Text: "Doe, John, "},
		{Text: "The Test Book", Style: types.StyleFlags{Italic: true}},
		{Text: " (Testville: Test Press, 2023)."},
	}
	assert.Equal(t, want, first[0])

	second := footnotes[1]
	require.Len(t, second, 2)
	require.Len(t, second[0], 2)
	// w:i val="false" disables italic; bold and underline stay on.
	assert.Equal(t, types.Run{
		Text:  "Styled",
		Style: types.StyleFlags{Bold: true, Underline: true},
	}, second[0][0])
	assert.Equal(t, "\nafter break", second[0][1].Text)
	assert.Equal(t, types.Paragraph{{Text: "Second paragraph."}}, second[1])
}

func TestExtractNoFootnotesPart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document xmlns:w="http://example"/>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	footnotes, err := ExtractFootnotes(path)
	require.NoError(t, err)
	assert.Empty(t, footnotes)
}

func TestExtractNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := ExtractFootnotes(path)
	assert.Error(t, err)
}
