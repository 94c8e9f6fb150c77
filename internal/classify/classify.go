// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify matches flattened footnote text against the compiled
// rule set. Special classics are tried first, then reference types in
// configured order; the first acceptable rule wins. The classifier is a
// pure function of its inputs and emits nothing: reporting belongs to the
// caller.
package classify

import (
	"github.com/pdiddy/footnote-engine/internal/rules"
	"github.com/pdiddy/footnote-engine/internal/tagtext"
	"github.com/pdiddy/footnote-engine/pkg/types"
)

// Match classifies one footnote against the rule set.
//
// The special-classic pass returns on the first abbreviation anchored at the
// start of the text; such matches are complete curated citations and are
// always green. The reference-type pass searches every field pattern
// independently anywhere in the text, accepts the first type whose required
// fields all resolved with non-empty values, and scores confidence from
// optional-field coverage. An all-optional type that extracted nothing does
// not match. When nothing accepts, the result is red and carries the
// preprocessed text so the footnote survives into the output unchanged.
func Match(fn types.Footnote, set *rules.Set) types.MatchResult {
	text := tagtext.Flatten(fn)

	for _, sp := range set.Specials {
		if sp.Matches(text) {
			return types.MatchResult{
				MatchedType: types.SpecialClassicType,
				Fields: map[string]string{
					types.FieldAbbreviation: sp.Abbreviation,
					types.FieldFullCitation: sp.Citation,
				},
				PreprocessedText: text,
				Confidence:       types.ConfidenceGreen,
			}
		}
	}

	for _, rt := range set.Types {
		extracted := extractFields(rt, text)
		if !requiredSatisfied(rt, extracted) {
			continue
		}
		if len(extracted) == 0 {
			// All-optional rule with nothing extracted: a vacuous
			// match, rejected.
			continue
		}
		return types.MatchResult{
			MatchedType:      rt.Name,
			Fields:           extracted,
			PreprocessedText: text,
			Confidence:       scoreConfidence(rt, extracted),
		}
	}

	return types.MatchResult{
		Fields:           map[string]string{types.FieldPreprocessedText: text},
		PreprocessedText: text,
		Confidence:       types.ConfidenceRed,
	}
}

// extractFields applies every field pattern independently and collects the
// non-empty trimmed captures. Overlaps between fields are not reconciled;
// pattern authors own disambiguation.
func extractFields(rt rules.ReferenceRule, text string) map[string]string {
	extracted := make(map[string]string, len(rt.Fields))
	for _, f := range rt.Fields {
		if v := f.Extract(text); v != "" {
			extracted[f.Name] = v
		}
	}
	return extracted
}

func requiredSatisfied(rt rules.ReferenceRule, extracted map[string]string) bool {
	for _, req := range rt.Required {
		if extracted[req] == "" {
			return false
		}
	}
	return true
}

// scoreConfidence labels an accepted reference-type match. With no optional
// fields there is nothing to miss: green. Otherwise green requires strictly
// more than half of the optional fields resolved; exactly half is yellow.
func scoreConfidence(rt rules.ReferenceRule, extracted map[string]string) types.Confidence {
	optional := rt.OptionalCount()
	if optional == 0 {
		return types.ConfidenceGreen
	}
	matched := 0
	for _, name := range rt.FieldNames {
		if !rt.IsRequired(name) && extracted[name] != "" {
			matched++
		}
	}
	if float64(matched)/float64(optional) > 0.5 {
		return types.ConfidenceGreen
	}
	return types.ConfidenceYellow
}
