// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/footnote-engine/internal/rules"
	"github.com/pdiddy/footnote-engine/pkg/types"
)

func compile(t *testing.T, rs types.RuleSet) *rules.Set {
	t.Helper()
	set, warnings := rules.Compile(rs)
	require.Empty(t, warnings)
	return set
}

// bookRules mirrors the classic settings file: Author/Title required,
// Place/Publisher/Date/Edition optional (4 optional fields).
func bookRules() types.RuleSet {
	return types.RuleSet{
		SpecialClassics: []types.SpecialClassic{
			{Abbreviation: "STh", Citation: "Thomas Aquinas, <i>Summa Theologiae</i>"},
			{Abbreviation: "DS", Citation: "Denzinger Schönmetzer, <i>Enchiridion Symbolorum</i>"},
		},
		ReferenceTypes: []types.ReferenceType{{
			Name:     "book",
			Template: "Author, <i>Title</i> (Place: Publisher, Date, Edition).",
			Fields: []types.FieldPattern{
				{Name: "Author", Pattern: `^(?P<Author>[A-Za-z.]+,\s[A-Za-z\s.]+?),`},
				{Name: "Title", Pattern: `<i>(?P<Title>[^<]+)</i>`},
				{Name: "Place", Pattern: `\((?P<Place>[^:]+):`},
				{Name: "Publisher", Pattern: `:\s*(?P<Publisher>[^,]+),`},
				{Name: "Date", Pattern: `,\s*(?P<Date>\d{4})`},
				{Name: "Edition", Pattern: `,\s*(?P<Edition>\d(?:st|nd|rd|th)\s*ed\.)`},
			},
			Required: []string{"Author", "Title"},
		}},
	}
}

func paragraphOf(runs ...types.Run) types.Footnote {
	return types.Footnote{runs}
}

func TestMatchSpecialClassic(t *testing.T) {
	set := compile(t, bookRules())

	fn := paragraphOf(types.Run{Text: "STh"}, types.Run{Text: ". I, q. 1, a. 1."})
	res := Match(fn, set)

	assert.Equal(t, types.SpecialClassicType, res.MatchedType)
	assert.Equal(t, types.ConfidenceGreen, res.Confidence)
	assert.Equal(t, "STh", res.Fields[types.FieldAbbreviation])
	assert.Equal(t, "Thomas Aquinas, <i>Summa Theologiae</i>", res.Fields[types.FieldFullCitation])
	assert.Equal(t, "STh. I, q. 1, a. 1.", res.PreprocessedText)
}

// TestSpecialClassicPriority: when text satisfies both a special classic and
// a reference type, the special classic wins.
func TestSpecialClassicPriority(t *testing.T) {
	rs := bookRules()
	rs.SpecialClassics = append(rs.SpecialClassics, types.SpecialClassic{Abbreviation: "XY", Citation: "The XY Classic"})
	rs.ReferenceTypes = append(rs.ReferenceTypes, types.ReferenceType{
		Name:     "catchall",
		Template: "Tail",
		Fields:   []types.FieldPattern{{Name: "Tail", Pattern: `^(?P<Tail>XY.*)$`}},
		Required: []string{"Tail"},
	})
	set := compile(t, rs)

	res := Match(paragraphOf(types.Run{Text: "XY and more"}), set)
	assert.Equal(t, types.SpecialClassicType, res.MatchedType)
	assert.Equal(t, "XY", res.Fields[types.FieldAbbreviation])
}

func TestMatchBook(t *testing.T) {
	set := compile(t, bookRules())

	fn := paragraphOf(
		types.Run{Text: "Doe, John"},
		types.Run{Text: ", "},
		types.Run{Text: "The Test Book", Style: types.StyleFlags{Italic: true}},
		types.Run{Text: " (Testville: Test Press, "},
		types.Run{Text: "2023"},
		types.Run{Text: ")."},
	)
	res := Match(fn, set)

	assert.Equal(t, "book", res.MatchedType)
	assert.Equal(t, map[string]string{
		"Author":    "Doe, John",
		"Title":     "The Test Book",
		"Place":     "Testville",
		"Publisher": "Test Press",
		"Date":      "2023",
	}, res.Fields)
	// 3 of 4 optional fields resolved: green.
	assert.Equal(t, types.ConfidenceGreen, res.Confidence)
}

// TestConfidenceThresholds exercises the 50% boundary on a type with 4
// optional fields: 3 or 4 resolved is green, 0-2 is yellow.
func TestConfidenceThresholds(t *testing.T) {
	rs := types.RuleSet{ReferenceTypes: []types.ReferenceType{{
		Name:     "graded",
		Template: "R O1 O2 O3 O4",
		Fields: []types.FieldPattern{
			{Name: "R", Pattern: `(?P<R>req)`},
			{Name: "O1", Pattern: `(?P<O1>one)`},
			{Name: "O2", Pattern: `(?P<O2>two)`},
			{Name: "O3", Pattern: `(?P<O3>three)`},
			{Name: "O4", Pattern: `(?P<O4>four)`},
		},
		Required: []string{"R"},
	}}}
	set := compile(t, rs)

	tests := []struct {
		text string
		want types.Confidence
	}{
		{"req", types.ConfidenceYellow},
		{"req one", types.ConfidenceYellow},
		{"req one two", types.ConfidenceYellow}, // 2/4 = 50%: yellow, not green
		{"req one two three", types.ConfidenceGreen},
		{"req one two three four", types.ConfidenceGreen},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := Match(paragraphOf(types.Run{Text: tt.text}), set)
			require.Equal(t, "graded", res.MatchedType)
			assert.Equal(t, tt.want, res.Confidence)
		})
	}
}

func TestNoOptionalFieldsIsGreen(t *testing.T) {
	rs := types.RuleSet{ReferenceTypes: []types.ReferenceType{{
		Name:     "onlyRequired",
		Template: "ValueA, ValueB",
		Fields: []types.FieldPattern{
			{Name: "ValueA", Pattern: `ValueA:\s*(?P<ValueA>[^,]+),`},
			{Name: "ValueB", Pattern: `ValueB:\s*(?P<ValueB>.+)\.`},
		},
		Required: []string{"ValueA", "ValueB"},
	}}}
	set := compile(t, rs)

	res := Match(paragraphOf(types.Run{Text: "ValueA: TestA, ValueB: TestB."}), set)
	require.Equal(t, "onlyRequired", res.MatchedType)
	assert.Equal(t, types.ConfidenceGreen, res.Confidence)
	assert.Equal(t, "TestA", res.Fields["ValueA"])
	assert.Equal(t, "TestB", res.Fields["ValueB"])
}

// TestRequiredFieldGate: a missing required field rejects the type no matter
// how many optional fields resolve.
func TestRequiredFieldGate(t *testing.T) {
	set := compile(t, bookRules())

	// No author before the comma: Author's anchored pattern fails.
	fn := paragraphOf(
		types.Run{Text: ", "},
		types.Run{Text: "The Incomplete Book", Style: types.StyleFlags{Italic: true}},
		types.Run{Text: " (Anytown: Big Publisher, 2022)."},
	)
	res := Match(fn, set)

	assert.Empty(t, res.MatchedType)
	assert.Equal(t, types.ConfidenceRed, res.Confidence)
	assert.Equal(t, map[string]string{types.FieldPreprocessedText: res.PreprocessedText}, res.Fields)
}

// TestFirstMatchWins: with two types accepting the same text, the one
// configured first is chosen.
func TestFirstMatchWins(t *testing.T) {
	makeType := func(name string) types.ReferenceType {
		return types.ReferenceType{
			Name:     name,
			Template: "Word",
			Fields:   []types.FieldPattern{{Name: "Word", Pattern: `(?P<Word>\w+)`}},
			Required: []string{"Word"},
		}
	}
	first := types.RuleSet{ReferenceTypes: []types.ReferenceType{makeType("alpha"), makeType("beta")}}
	reversed := types.RuleSet{ReferenceTypes: []types.ReferenceType{makeType("beta"), makeType("alpha")}}

	fn := paragraphOf(types.Run{Text: "ambiguous"})
	assert.Equal(t, "alpha", Match(fn, compile(t, first)).MatchedType)
	assert.Equal(t, "beta", Match(fn, compile(t, reversed)).MatchedType)
}

func TestNoMatch(t *testing.T) {
	set := compile(t, bookRules())

	res := Match(paragraphOf(types.Run{Text: "Just some random text here."}), set)
	assert.Empty(t, res.MatchedType)
	assert.Equal(t, types.ConfidenceRed, res.Confidence)
	assert.Equal(t, "Just some random text here.", res.Fields[types.FieldPreprocessedText])
	assert.Equal(t, "Just some random text here.", res.PreprocessedText)
}

// TestVacuousMatchRejected: an all-optional type that extracts nothing does
// not match.
func TestVacuousMatchRejected(t *testing.T) {
	rs := types.RuleSet{ReferenceTypes: []types.ReferenceType{{
		Name:     "allOptional",
		Template: "A B",
		Fields: []types.FieldPattern{
			{Name: "A", Pattern: `(?P<A>alpha)`},
			{Name: "B", Pattern: `(?P<B>beta)`},
		},
	}}}
	set := compile(t, rs)

	res := Match(paragraphOf(types.Run{Text: "nothing relevant"}), set)
	assert.Empty(t, res.MatchedType)
	assert.Equal(t, types.ConfidenceRed, res.Confidence)

	// With at least one optional field extracted the type does match.
	res = Match(paragraphOf(types.Run{Text: "some alpha text"}), set)
	assert.Equal(t, "allOptional", res.MatchedType)
	assert.Equal(t, types.ConfidenceYellow, res.Confidence) // 1/2 optional
}

func TestMalformedFieldDegrades(t *testing.T) {
	rs := types.RuleSet{ReferenceTypes: []types.ReferenceType{{
		Name:     "degraded",
		Template: "Good Bad",
		Fields: []types.FieldPattern{
			{Name: "Good", Pattern: `(?P<Good>\d{4})`},
			{Name: "Bad", Pattern: `(?P<Bad>[unclosed`},
		},
		Required: []string{"Good"},
	}}}
	set, warnings := rules.Compile(rs)
	require.Len(t, warnings, 1)

	res := Match(paragraphOf(types.Run{Text: "year 2023 here"}), set)
	assert.Equal(t, "degraded", res.MatchedType)
	assert.Equal(t, "2023", res.Fields["Good"])
	// The broken field counts as an unresolved optional: 0/1.
	assert.Equal(t, types.ConfidenceYellow, res.Confidence)
}

func BenchmarkMatch(b *testing.B) {
	set, _ := rules.Compile(bookRules())
	fn := paragraphOf(
		types.Run{Text: "Doe, John, "},
		types.Run{Text: "The Test Book", Style: types.StyleFlags{Italic: true}},
		types.Run{Text: " (Testville: Test Press, 2023)."},
	)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Match(fn, set)
	}
}
