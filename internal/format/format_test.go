// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/footnote-engine/internal/rules"
	"github.com/pdiddy/footnote-engine/pkg/types"
)

func plain(text string) types.Run {
	return types.Run{Text: text}
}

func italic(text string) types.Run {
	return types.Run{Text: text, Style: types.StyleFlags{Italic: true}}
}

func bookSet(t *testing.T) *rules.Set {
	t.Helper()
	set, warnings := rules.Compile(types.RuleSet{
		ReferenceTypes: []types.ReferenceType{
			{
				Name:     "book",
				Template: "Author, <i>Title</i> (Place: Publisher, Date).",
				Fields: []types.FieldPattern{
					{Name: "Author", Pattern: `^(?P<Author>[A-Za-z.]+,\s[A-Za-z\s.]+?),`},
					{Name: "Title", Pattern: `<i>(?P<Title>[^<]+)</i>`},
					{Name: "Place", Pattern: `\((?P<Place>[^:]+):`},
					{Name: "Publisher", Pattern: `:\s*(?P<Publisher>[^,]+),`},
					{Name: "Date", Pattern: `,\s*(?P<Date>\d{4})\)`},
				},
				Required: []string{"Author", "Title", "Date"},
			},
			{
				Name:     "journalArticle",
				Template: `Author, "ArticleTitle," <i>JournalName</i> Volume, no. Issue (Date): Pages.`,
				Fields: []types.FieldPattern{
					{Name: "Author", Pattern: `^(?P<Author>[A-Za-z.]+,\s[A-Za-z\s.]+?),`},
					{Name: "ArticleTitle", Pattern: `"(?P<ArticleTitle>[^"]+)"`},
					{Name: "JournalName", Pattern: `<i>(?P<JournalName>[^<]+)</i>`},
					{Name: "Volume", Pattern: `</i>\s+(?P<Volume>\d+),`},
					{Name: "Issue", Pattern: `no\.\s*(?P<Issue>\d+)`},
					{Name: "Date", Pattern: `\((?P<Date>\d{4})\)`},
					{Name: "Pages", Pattern: `:\s*(?P<Pages>[\d\s-]+)\.`},
				},
				Required: []string{"Author", "ArticleTitle", "JournalName"},
			},
		},
	})
	require.Empty(t, warnings)
	return set
}

func TestFormatBook(t *testing.T) {
	set := bookSet(t)

	res := types.MatchResult{
		MatchedType: "book",
		Fields: map[string]string{
			"Author":    "Doe, John",
			"Title":     "The Test Book",
			"Place":     "Testville",
			"Publisher": "Test Press",
			"Date":      "2023",
		},
		Confidence: types.ConfidenceGreen,
	}

	got := Format(res, set)
	want := []types.Run{
		plain("Doe, John, "),
		italic("The Test Book"),
		plain(" (Testville: Test Press, 2023)."),
	}
	assert.Equal(t, want, got)
}

// TestFormatMissingOptional: a blanked field's leftover punctuation is
// absorbed by the cleanup passes.
func TestFormatMissingOptional(t *testing.T) {
	set := bookSet(t)

	res := types.MatchResult{
		MatchedType: "journalArticle",
		Fields: map[string]string{
			"Author":       "Reviewer, A.",
			"ArticleTitle": "Some Thoughts",
			"JournalName":  "Critical Reviews",
			"Issue":        "3",
			"Date":         "2021",
			"Pages":        "1-2",
			// Volume missing.
		},
		Confidence: types.ConfidenceGreen,
	}

	got := Format(res, set)
	want := []types.Run{
		plain(`Reviewer, A., "Some Thoughts," `),
		italic("Critical Reviews"),
		plain(", no. 3 (2021): 1-2."),
	}
	assert.Equal(t, want, got)
}

func TestFormatSpecialClassic(t *testing.T) {
	res := types.MatchResult{
		MatchedType: types.SpecialClassicType,
		Fields: map[string]string{
			types.FieldAbbreviation: "STh",
			types.FieldFullCitation: "Thomas Aquinas, <i>Summa Theologiae</i>",
		},
		Confidence: types.ConfidenceGreen,
	}

	got := Format(res, &rules.Set{})
	want := []types.Run{
		plain("Thomas Aquinas, "),
		italic("Summa Theologiae"),
	}
	assert.Equal(t, want, got)
}

// TestFormatUnmatchedPreserves: formatting an unmatched result reproduces
// the styled runs of the original preprocessed text.
func TestFormatUnmatchedPreserves(t *testing.T) {
	res := types.MatchResult{
		Fields:           map[string]string{types.FieldPreprocessedText: "Plain with <i>italic</i> inside."},
		PreprocessedText: "Plain with <i>italic</i> inside.",
		Confidence:       types.ConfidenceRed,
	}

	got := Format(res, bookSet(t))
	want := []types.Run{
		plain("Plain with "),
		italic("italic"),
		plain(" inside."),
	}
	assert.Equal(t, want, got)
}

func TestFormatEmptyUnmatched(t *testing.T) {
	res := types.MatchResult{
		Fields:     map[string]string{types.FieldPreprocessedText: ""},
		Confidence: types.ConfidenceRed,
	}
	assert.Empty(t, Format(res, bookSet(t)))
}

// TestFormatUnknownType: a matched type absent from the rule set returns an
// empty sequence instead of failing.
func TestFormatUnknownType(t *testing.T) {
	res := types.MatchResult{
		MatchedType: "ghost",
		Fields:      map[string]string{"X": "y"},
	}
	assert.Empty(t, Format(res, bookSet(t)))
}

func TestFormatDelimitedPlaceholders(t *testing.T) {
	set, warnings := rules.Compile(types.RuleSet{
		ReferenceTypes: []types.ReferenceType{{
			Name:     "delimited",
			Template: "{{Author}}: <i>{{Title}}</i>.",
			Fields: []types.FieldPattern{
				{Name: "Author", Pattern: `(?P<Author>\w+)`},
				{Name: "Title", Pattern: `<i>(?P<Title>[^<]+)</i>`},
			},
			Required: []string{"Author"},
		}},
	})
	require.Empty(t, warnings)

	res := types.MatchResult{
		MatchedType: "delimited",
		Fields:      map[string]string{"Author": "Doe", "Title": "A Title"},
	}
	got := Format(res, set)
	want := []types.Run{
		plain("Doe: "),
		italic("A Title"),
		plain("."),
	}
	assert.Equal(t, want, got)
}

// TestSubstituteLongestFirst: "Pages" must be replaced before "Page" so the
// shorter name cannot corrupt the longer token.
func TestSubstituteLongestFirst(t *testing.T) {
	rule := &rules.ReferenceRule{
		Template:   "Page, Pages.",
		FieldNames: []string{"Page", "Pages"},
	}
	got := substitute(rule, map[string]string{"Page": "7", "Pages": "10-12"})
	assert.Equal(t, "7, 10-12.", got)
}

// TestSubstituteValueContainingFieldName: an extracted value that contains
// another field's name token must not be rewritten.
func TestSubstituteValueContainingFieldName(t *testing.T) {
	rule := &rules.ReferenceRule{
		Template:   "Author, <i>Title</i>.",
		FieldNames: []string{"Author", "Title"},
	}
	got := substitute(rule, map[string]string{
		"Author": "Title, A. Book of",
		"Title":  "Authorship",
	})
	assert.Equal(t, "Title, A. Book of, <i>Authorship</i>.", got)
}

func TestCleanup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "whitespace collapse and trim", in: "  a   b  ", want: "a b"},
		{name: "space before comma", in: "a , b", want: "a, b"},
		{name: "space before period", in: "end .", want: "end."},
		// Pair deletion runs after whitespace collapsing, so the two
		// surrounding spaces remain. Matches the legacy behavior.
		{name: "empty parens", in: "a () b", want: "a  b"},
		{name: "empty parens with space inside", in: "a (  ) b", want: "a  b"},
		{name: "empty brackets", in: "a [ ] b", want: "a  b"},
		{name: "leading comma", in: ", Title", want: "Title"},
		{name: "double comma", in: "a, , b", want: "a, b"},
		{name: "comma before period", in: "a, .", want: "a."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanup(tt.in))
		})
	}
}

func TestColorize(t *testing.T) {
	runs := []types.Run{
		plain("Doe, John, "),
		italic("The Test Book"),
	}
	colors := types.ColorConfig{Green: "#007700", Yellow: "#B8860B"}

	t.Run("red always colored", func(t *testing.T) {
		got := Colorize(runs, types.ConfidenceRed, types.ColorConfig{})
		require.Len(t, got, 2)
		for _, r := range got {
			assert.Equal(t, types.DefaultRedColor, r.Style.Color)
		}
		// Other flags and text survive.
		assert.True(t, got[1].Style.Italic)
		assert.Equal(t, "The Test Book", got[1].Text)
	})

	t.Run("green configured", func(t *testing.T) {
		got := Colorize(runs, types.ConfidenceGreen, colors)
		for _, r := range got {
			assert.Equal(t, "#007700", r.Style.Color)
		}
	})

	t.Run("green unconfigured inherits", func(t *testing.T) {
		got := Colorize(runs, types.ConfidenceGreen, types.ColorConfig{})
		for _, r := range got {
			assert.Empty(t, r.Style.Color)
		}
	})

	t.Run("input runs untouched", func(t *testing.T) {
		Colorize(runs, types.ConfidenceRed, colors)
		assert.Empty(t, runs[0].Style.Color)
	})
}
