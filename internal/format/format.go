// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format re-expands a match result into styled runs. Reference-type
// matches are rendered through the type's template with punctuation cleanup
// for missing fields; special classics and unmatched footnotes pass their
// tagged text straight to the tag parser. Colorize then stamps the
// confidence color over the runs.
package format

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/footnote-engine/internal/rules"
	"github.com/pdiddy/footnote-engine/internal/tagtext"
	"github.com/pdiddy/footnote-engine/pkg/types"
)

// Cleanup patterns, applied in order after substitution.
var (
	spaceBeforePunct = regexp.MustCompile(`\s([,.])`)
	emptyParens      = regexp.MustCompile(`\(\s*\)`)
	emptyBrackets    = regexp.MustCompile(`\[\s*\]`)
	leadingComma     = regexp.MustCompile(`^,\s*`)
	doubleComma      = regexp.MustCompile(`,\s*,\s*`)
	commaBeforeDot   = regexp.MustCompile(`,\s*\.`)
)

// Format renders the match result into styled runs.
//
// Unmatched results reproduce their preprocessed text so nothing is lost.
// Special classics emit the configured citation verbatim. Reference-type
// matches instantiate the type's template: every defined or extracted field
// name is substituted longest-name-first, so a short name cannot corrupt a
// longer one containing it; "{{Name}}" delimited placeholders are replaced
// before bare tokens. A matched type absent from the rule set yields an
// empty sequence rather than failing.
func Format(res types.MatchResult, set *rules.Set) []types.Run {
	if !res.Matched() {
		if text := res.Fields[types.FieldPreprocessedText]; text != "" {
			return tagtext.Parse(text)
		}
		return nil
	}

	if res.MatchedType == types.SpecialClassicType {
		return tagtext.Parse(res.Fields[types.FieldFullCitation])
	}

	rule := set.Lookup(res.MatchedType)
	if rule == nil {
		return nil
	}

	out := substitute(rule, res.Fields)
	out = cleanup(out)
	return tagtext.Parse(out)
}

// substitute replaces field-name placeholders in the rule's template with
// extracted values. Fields defined by the rule but not extracted are
// blanked, leaving the cleanup passes to absorb the orphaned punctuation.
func substitute(rule *rules.ReferenceRule, fields map[string]string) string {
	names := make([]string, 0, len(rule.FieldNames)+len(fields))
	names = append(names, rule.FieldNames...)
	for name := range fields {
		if !contains(names, name) {
			names = append(names, name)
		}
	}
	// Longest first; ties stay deterministic by name.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	// Two phases with sentinel indirection: placeholders become opaque
	// markers first, values land second. An extracted value that happens
	// to contain another field's name token can then never be rewritten.
	out := rule.Template
	sentinels := make([]string, len(names))
	for i, name := range names {
		sentinels[i] = fmt.Sprintf("\x00%d\x00", i)
		out = strings.ReplaceAll(out, "{{"+name+"}}", sentinels[i])
		out = strings.ReplaceAll(out, name, sentinels[i])
	}
	for i, name := range names {
		out = strings.ReplaceAll(out, sentinels[i], fields[name])
	}
	return out
}

// cleanup removes the punctuation artifacts left by blank fields: collapsed
// whitespace, a space riding before a comma or period, empty () and []
// pairs, a leading comma, doubled commas, and ", ." sequences.
func cleanup(s string) string {
	s = tagtext.CollapseWhitespace(s)
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	s = emptyParens.ReplaceAllString(s, "")
	s = emptyBrackets.ReplaceAllString(s, "")
	s = leadingComma.ReplaceAllString(s, "")
	s = doubleComma.ReplaceAllString(s, ", ")
	s = commaBeforeDot.ReplaceAllString(s, ".")
	return s
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Colorize returns a copy of the runs with the confidence color applied.
// Text and the other style flags are preserved. Green and yellow may be
// configured empty (inherit the document color), but red always resolves to
// a color so unmatched output stays visually flagged.
func Colorize(runs []types.Run, conf types.Confidence, colors types.ColorConfig) []types.Run {
	var color string
	switch conf {
	case types.ConfidenceGreen:
		color = colors.Green
	case types.ConfidenceYellow:
		color = colors.Yellow
	case types.ConfidenceRed:
		color = colors.RedColor()
	}
	if color == "" {
		return runs
	}

	out := make([]types.Run, len(runs))
	for i, run := range runs {
		run.Style.Color = color
		out[i] = run
	}
	return out
}
