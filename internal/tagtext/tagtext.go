// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tagtext converts between the rich-text run model and the tagged
// plain-text form used for pattern matching. Flatten encodes style scope as
// nestable <i>/<b>/<u> markers; Parse is its inverse. For run text that
// contains no literal '<' the two functions round-trip, modulo run splits
// absorbed by whitespace collapsing.
package tagtext

import (
	"regexp"
	"strings"

	"github.com/pdiddy/footnote-engine/pkg/types"
)

// Recognized tag markers. Any other bracket-like sequence is literal text.
const (
	openItalic     = "<i>"
	closeItalic    = "</i>"
	openBold       = "<b>"
	closeBold      = "</b>"
	openUnderline  = "<u>"
	closeUnderline = "</u>"
)

// whitespaceRe collapses any whitespace run, including newlines from
// line breaks inside footnote paragraphs.
var whitespaceRe = regexp.MustCompile(`\s+`)

// Flatten converts a footnote into a single tagged string. Runs are wrapped
// in markers for each active flag, innermost italic, then bold, then
// underline, and concatenated in document order across paragraphs. Runs of
// whitespace collapse to one space and the result is trimmed. Empty runs
// contribute nothing.
func Flatten(fn types.Footnote) string {
	var b strings.Builder
	for _, para := range fn {
		for _, run := range para {
			if run.Text == "" {
				continue
			}
			b.WriteString(wrap(run))
		}
	}
	return CollapseWhitespace(b.String())
}

// CollapseWhitespace reduces every whitespace run to a single space and
// trims the ends. Applying it twice yields the same string as applying it
// once.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func wrap(run types.Run) string {
	text := run.Text
	if run.Style.Italic {
		text = openItalic + text + closeItalic
	}
	if run.Style.Bold {
		text = openBold + text + closeBold
	}
	if run.Style.Underline {
		text = openUnderline + text + closeUnderline
	}
	return text
}

// Parse decodes a tagged string into runs with resolved style flags. It is
// a flat state machine: an open marker flushes accumulated text under the
// current state and raises the flag, a close marker flushes and lowers it.
// Zero-length segments (e.g. from an empty "<i></i>" pair) are discarded.
// Unrecognized bracket sequences pass through as literal text.
func Parse(s string) []types.Run {
	var (
		runs  []types.Run
		state types.StyleFlags
		buf   strings.Builder
	)

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		runs = append(runs, types.Run{Text: buf.String(), Style: state})
		buf.Reset()
	}

	for i := 0; i < len(s); {
		if s[i] == '<' {
			if tag, open, flag := matchTag(s[i:]); tag != "" {
				flush()
				setFlag(&state, flag, open)
				i += len(tag)
				continue
			}
		}
		// Byte-wise accumulation is UTF-8 safe: multi-byte sequences
		// never contain '<'.
		buf.WriteByte(s[i])
		i++
	}
	flush()
	return runs
}

// matchTag reports the marker at the start of s, whether it opens scope,
// and which flag it toggles. It returns "" when s does not start with a
// recognized marker.
func matchTag(s string) (tag string, open bool, flag byte) {
	for _, t := range [...]struct {
		tag  string
		open bool
		flag byte
	}{
		{openItalic, true, 'i'},
		{closeItalic, false, 'i'},
		{openBold, true, 'b'},
		{closeBold, false, 'b'},
		{openUnderline, true, 'u'},
		{closeUnderline, false, 'u'},
	} {
		if strings.HasPrefix(s, t.tag) {
			return t.tag, t.open, t.flag
		}
	}
	return "", false, 0
}

func setFlag(state *types.StyleFlags, flag byte, on bool) {
	switch flag {
	case 'i':
		state.Italic = on
	case 'b':
		state.Bold = on
	case 'u':
		state.Underline = on
	}
}
